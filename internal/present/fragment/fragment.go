// Package fragment turns posts into the HTML fragments a partial-page client
// swaps into the current document.
package fragment

import (
	"net/http"
	"strings"
)

// Region names a DOM element id a fragment is addressed to.
type Region string

const (
	// RegionContent is the primary swap target.
	RegionContent Region = "content"
	// RegionFlash is the status banner, updated out of band.
	RegionFlash Region = "flash"
)

// Fragment is markup for one region. Fragments are built per request and
// never cached.
type Fragment struct {
	Target Region
	HTML   string
}

// Response is an ordered list of fragments plus the HTTP metadata that goes
// with them. The primary fragment, when present, comes first.
type Response struct {
	Status int
	Header http.Header
	Parts  []Fragment
}

// NewResponse starts a response with the given status and no parts.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: make(http.Header)}
}

// Append adds a fragment after the ones already present.
func (r *Response) Append(f Fragment) *Response {
	r.Parts = append(r.Parts, f)
	return r
}

// Part returns the first fragment addressed to region.
func (r *Response) Part(region Region) (Fragment, bool) {
	for _, p := range r.Parts {
		if p.Target == region {
			return p, true
		}
	}
	return Fragment{}, false
}

// Body concatenates all parts in order.
func (r *Response) Body() string {
	var b strings.Builder
	for _, p := range r.Parts {
		b.WriteString(p.HTML)
	}
	return b.String()
}
