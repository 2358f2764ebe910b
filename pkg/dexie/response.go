package dexie

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Response wraps the decoded JSON payload of one API call. Body holds the
// full response envelope, or just the named sub-field when the request asked
// for a projection. The library imposes no schema beyond that.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Field returns a copy of the response narrowed to the named top-level field.
func (r *Response) Field(name string) (*Response, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		return nil, fmt.Errorf("dexie: decode response envelope: %w", err)
	}
	raw, ok := envelope[name]
	if !ok {
		return nil, fmt.Errorf("dexie: response has no %q field", name)
	}
	return &Response{StatusCode: r.StatusCode, Body: raw}, nil
}

// project narrows resp to the named envelope field when only is set.
func project(resp *Response, only bool, field string) (*Response, error) {
	if !only {
		return resp, nil
	}
	return resp.Field(field)
}

// APIError reports a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("dexie: api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("dexie: api returned status %d: %s", e.StatusCode, e.Body)
}

// bodySnippet trims a response body for use in error messages. The cut backs
// up to a rune boundary so the snippet stays valid UTF-8.
func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
