// Package response holds the mutable result of a dispatched call and its JSON envelope.
package response

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	statusCode int
	headers    http.Header
	message    string
	payload    any
	template   string
	sessionID  string
}

// New returns a Response with status 200 and an empty object payload.
func New() *Response {
	return &Response{
		statusCode: http.StatusOK,
		headers:    make(http.Header),
		payload:    map[string]any{},
	}
}

func (r *Response) StatusCode() int         { return r.statusCode }
func (r *Response) SetStatusCode(code int)  { r.statusCode = code }
func (r *Response) Header() http.Header     { return r.headers }
func (r *Response) Message() string         { return r.message }
func (r *Response) SetMessage(msg string)   { r.message = msg }
func (r *Response) Payload() any            { return r.payload }
func (r *Response) Template() string        { return r.template }
func (r *Response) SetTemplate(name string) { r.template = name }

// Redirect is the Location header. The HTML transport follows it for
// successful responses.
func (r *Response) Redirect() string            { return r.headers.Get("Location") }
func (r *Response) SetRedirect(location string) { r.headers.Set("Location", location) }

// SessionID is the id of a session that replaced the request's session. The
// transport reissues the session cookie when it is set.
func (r *Response) SessionID() string      { return r.sessionID }
func (r *Response) SetSessionID(id string) { r.sessionID = id }

// SetPayload replaces the payload. A nil payload is stored as an empty object.
func (r *Response) SetPayload(payload any) {
	if payload == nil {
		payload = map[string]any{}
	}
	r.payload = payload
}

// Fail puts the response into its error state: status, message, empty payload, error view.
func (r *Response) Fail(code int, msg string) {
	r.statusCode = code
	r.message = msg
	r.payload = map[string]any{}
	r.template = "error"
	r.headers.Del("Location")
}

// Envelope is the JSON body sent to API clients.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Payload    any    `json:"payload"`
}

func (r *Response) Envelope() Envelope {
	return Envelope{StatusCode: r.statusCode, Message: r.message, Payload: r.payload}
}

// CopyHeader adds the response headers to w.
func (r *Response) CopyHeader(w http.ResponseWriter) {
	for k, vs := range r.headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
}

// WriteJSON serializes the envelope to w.
func (r *Response) WriteJSON(w http.ResponseWriter) error {
	r.CopyHeader(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.statusCode)
	return json.NewEncoder(w).Encode(r.Envelope())
}
