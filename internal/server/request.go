package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"forum/internal/request"
)

const maxBodyBytes = 1 << 20

// methodField lets HTML forms tunnel PUT and DELETE through POST.
const methodField = "_method"

// parseRequest flattens query, form or JSON body values into string parameters.
// Body values win over query values of the same name.
func parseRequest(r *http.Request) (*request.Request, error) {
	params := map[string]string{}
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	if r.Body != nil && r.Method != http.MethodGet {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch ct {
		case "application/json":
			if err := decodeJSON(r.Body, params); err != nil {
				return nil, err
			}
		case "application/x-www-form-urlencoded", "multipart/form-data":
			if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
				return nil, fmt.Errorf("parse form: %w", err)
			}
			for k, vs := range r.PostForm {
				if len(vs) > 0 {
					params[k] = vs[0]
				}
			}
		}
	}

	method := r.Method
	if override, ok := params[methodField]; ok {
		if m := strings.ToUpper(override); method == http.MethodPost && (m == http.MethodPut || m == http.MethodDelete) {
			method = m
		}
		delete(params, methodField)
	}

	cookies := map[string]string{}
	for _, c := range r.Cookies() {
		cookies[c.Name] = c.Value
	}
	return request.New(method, r.URL.Path, params, cookies), nil
}

func decodeJSON(body io.Reader, params map[string]string) error {
	var raw map[string]any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode json body: %w", err)
	}
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			params[k] = v
		case float64:
			params[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			params[k] = strconv.FormatBool(v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode %s: %w", k, err)
			}
			params[k] = string(b)
		}
	}
	return nil
}
