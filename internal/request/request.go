// Package request holds the parsed, immutable form of an inbound call.
package request

import (
	"maps"
	"strings"
)

type Request struct {
	method   string
	path     string
	segments []string
	params   map[string]string
	cookies  map[string]string
}

// New builds a Request. The maps are copied, so later changes by the caller are not observed.
func New(method, path string, params, cookies map[string]string) *Request {
	r := &Request{
		method:   strings.ToUpper(method),
		path:     path,
		segments: split(path),
		params:   make(map[string]string, len(params)),
		cookies:  make(map[string]string, len(cookies)),
	}
	maps.Copy(r.params, params)
	maps.Copy(r.cookies, cookies)
	return r
}

func split(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *Request) Method() string { return r.method }

func (r *Request) Path() string { return r.path }

// Resource is the first path segment, or "" for the root path.
func (r *Request) Resource() string {
	if len(r.segments) == 0 {
		return ""
	}
	return r.segments[0]
}

// Segment returns the i-th positional parameter after the resource, or "".
func (r *Request) Segment(i int) string {
	if i < 0 || i+1 >= len(r.segments) {
		return ""
	}
	return r.segments[i+1]
}

// NumSegments counts the positional parameters after the resource.
func (r *Request) NumSegments() int {
	if len(r.segments) == 0 {
		return 0
	}
	return len(r.segments) - 1
}

func (r *Request) Param(name string) string { return r.params[name] }

func (r *Request) HasParam(name string) bool {
	_, ok := r.params[name]
	return ok
}

func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.cookies[name]
	return v, ok
}
