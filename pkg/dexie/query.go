package dexie

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrEmptyBaseURL is returned by BuildURL when no base URL is given.
var ErrEmptyBaseURL = errors.New("dexie: base url is empty")

// Params holds the query parameters of a single request. Values may be
// strings, integers, or booleans; anything else is formatted with fmt.Sprint.
type Params map[string]any

// BuildURL appends params to base as a percent-encoded query string. Keys are
// written as-is, values are escaped. The query is attached with '?' when base
// has none yet, otherwise with '&', so the output of one call can serve as the
// base of the next; chaining like that is how repeated keys (one occurrence
// per call) are accumulated, since a Params map holds each key once. Parameter
// order within one call is unspecified.
func BuildURL(base string, params Params) (string, error) {
	if base == "" {
		return "", ErrEmptyBaseURL
	}
	if len(params) == 0 {
		return base, nil
	}

	var query strings.Builder
	for key, value := range params {
		if query.Len() > 0 {
			query.WriteByte('&')
		}
		query.WriteString(key)
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(formatParam(value)))
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + query.String(), nil
}

func formatParam(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return fmt.Sprint(value)
	}
}
