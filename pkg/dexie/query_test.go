package dexie

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestBuildURLEncodesParams(t *testing.T) {
	built, err := BuildURL("https://api.example.com/v1/offers", Params{
		"offered":   "XCH",
		"compact":   true,
		"page_size": 25,
		"note":      "a b&c",
	})
	if err != nil {
		t.Fatalf("BuildURL: %v", err)
	}

	parsed, err := url.Parse(built)
	if err != nil {
		t.Fatalf("parse built url %q: %v", built, err)
	}
	query := parsed.Query()

	want := map[string]string{
		"offered":   "XCH",
		"compact":   "true",
		"page_size": "25",
		"note":      "a b&c",
	}
	if len(query) != len(want) {
		t.Fatalf("expected %d params in %q, got %d", len(want), built, len(query))
	}
	for key, value := range want {
		if got := query.Get(key); got != value {
			t.Fatalf("param %s = %q, want %q", key, got, value)
		}
	}
	if strings.Count(built, "?") != 1 {
		t.Fatalf("expected exactly one '?' in %q", built)
	}
}

func TestBuildURLEmptyParamsReturnsBase(t *testing.T) {
	const base = "https://api.example.com/v1/assets"
	for _, params := range []Params{nil, {}} {
		built, err := BuildURL(base, params)
		if err != nil {
			t.Fatalf("BuildURL: %v", err)
		}
		if built != base {
			t.Fatalf("expected base unchanged, got %q", built)
		}
	}
}

func TestBuildURLAppendsToExistingQuery(t *testing.T) {
	built, err := BuildURL("https://api.example.com/v1/offers?page=2", Params{"compact": true})
	if err != nil {
		t.Fatalf("BuildURL: %v", err)
	}
	if built != "https://api.example.com/v1/offers?page=2&compact=true" {
		t.Fatalf("unexpected url %q", built)
	}
}

func TestBuildURLEmptyBaseFails(t *testing.T) {
	if _, err := BuildURL("", Params{"page": 1}); !errors.Is(err, ErrEmptyBaseURL) {
		t.Fatalf("expected ErrEmptyBaseURL, got %v", err)
	}
	if _, err := BuildURL("", nil); !errors.Is(err, ErrEmptyBaseURL) {
		t.Fatalf("expected ErrEmptyBaseURL with empty params too, got %v", err)
	}
}

func TestBuildURLChainingAccumulatesRepeatedKeys(t *testing.T) {
	built := "https://api.example.com/v1/offers"
	var err error
	for _, status := range []OfferStatus{StatusActive, StatusCompleted} {
		built, err = BuildURL(built, Params{"status": int(status)})
		if err != nil {
			t.Fatalf("BuildURL: %v", err)
		}
	}

	parsed, err := url.Parse(built)
	if err != nil {
		t.Fatalf("parse built url %q: %v", built, err)
	}
	got := parsed.Query()["status"]
	if len(got) != 2 {
		t.Fatalf("expected two status occurrences in %q, got %v", built, got)
	}
	seen := map[string]bool{}
	for _, v := range got {
		seen[v] = true
	}
	if !seen["0"] || !seen["4"] {
		t.Fatalf("expected status=0 and status=4, got %v", got)
	}
	if strings.Count(built, "?") != 1 {
		t.Fatalf("expected a single '?' in %q", built)
	}
}

func TestFormatParamCoercions(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(1704067200000), "1704067200000"},
		{1.5, "1.5"},
	}
	for _, tc := range cases {
		if got := formatParam(tc.in); got != tc.want {
			t.Fatalf("formatParam(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
