package dexie

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dexie-space/dexie-go/pkg/httpclient"
)

// newTestClient starts a stub API server and returns a client pointed at it,
// with retries disabled unless a policy is given.
func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base := []Option{
		WithBaseURL(srv.URL + "/v1"),
		WithPricesBaseURL(srv.URL + "/v2/prices"),
		WithRetryPolicy(httpclient.RetryPolicy{Count: 0}),
	}
	return New(append(base, opts...)...)
}

func TestClientDefaultsToMainnet(t *testing.T) {
	c := New()
	if c.baseURL != MainnetBaseURL || c.pricesURL != MainnetPricesBaseURL {
		t.Fatalf("unexpected defaults %q %q", c.baseURL, c.pricesURL)
	}

	c = New(WithTestnet())
	if c.baseURL != TestnetBaseURL || c.pricesURL != TestnetPricesBaseURL {
		t.Fatalf("unexpected testnet urls %q %q", c.baseURL, c.pricesURL)
	}
}

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }
func (s stubHTTPResponse) IsError() bool   { return s.statusCode > 299 }

// stubHTTPClient records every call and returns a single canned response.
type stubHTTPClient struct {
	resp    httpclient.Response
	methods []string
	urls    []string
	bodies  []any
}

func (s *stubHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	s.methods = append(s.methods, http.MethodGet)
	s.urls = append(s.urls, url)
	return s.resp, nil
}

func (s *stubHTTPClient) Post(_ context.Context, url string, body any, _ map[string]string) (httpclient.Response, error) {
	s.methods = append(s.methods, http.MethodPost)
	s.urls = append(s.urls, url)
	s.bodies = append(s.bodies, body)
	return s.resp, nil
}

func TestWithHTTPClientRoutesRequests(t *testing.T) {
	stub := &stubHTTPClient{resp: stubHTTPResponse{
		body:       []byte(`{"success":true}`),
		statusCode: http.StatusOK,
	}}
	client := New(WithHTTPClient(stub))

	ctx := context.Background()
	if _, err := client.ListAssets(ctx, ListAssetsRequest{}); err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if _, err := client.SubmitOffer(ctx, SubmitOfferRequest{Offer: "offer1qqz83wcsltt6wcmqvpsxygqq0c0mu"}); err != nil {
		t.Fatalf("SubmitOffer: %v", err)
	}
	if _, err := client.ListPairs(ctx, ListPairsRequest{}); err != nil {
		t.Fatalf("ListPairs: %v", err)
	}

	wantMethods := []string{http.MethodGet, http.MethodPost, http.MethodGet}
	wantURLs := []string{
		MainnetBaseURL + assetsPath,
		MainnetBaseURL + offersPath,
		MainnetPricesBaseURL + pairsPath,
	}
	if len(stub.urls) != len(wantURLs) {
		t.Fatalf("recorded %d calls, want %d", len(stub.urls), len(wantURLs))
	}
	for i := range wantURLs {
		if stub.methods[i] != wantMethods[i] || stub.urls[i] != wantURLs[i] {
			t.Fatalf("call %d = %s %s, want %s %s",
				i, stub.methods[i], stub.urls[i], wantMethods[i], wantURLs[i])
		}
	}

	if len(stub.bodies) != 1 {
		t.Fatalf("recorded %d request bodies, want 1", len(stub.bodies))
	}
	body, ok := stub.bodies[0].(submitOfferBody)
	if !ok {
		t.Fatalf("post body has type %T", stub.bodies[0])
	}
	if body.Offer != "offer1qqz83wcsltt6wcmqvpsxygqq0c0mu" {
		t.Fatalf("post body offer = %q", body.Offer)
	}
}

func TestAPIErrorSurfacesStatusAndBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"success":false,"error":"offer not found"}`, http.StatusNotFound)
	}))

	_, err := client.GetOffer(context.Background(), GetOfferRequest{ID: "missing"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "offer not found") {
		t.Fatalf("error body %q missing server message", apiErr.Body)
	}
}

func TestClientRejectsMalformedJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>gateway</html>")
	}))

	if _, err := client.ListPairs(context.Background(), ListPairsRequest{}); err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
}

func TestProjectionMissingFieldFails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"success":true}`)
	}))

	_, err := client.ListAssets(context.Background(), ListAssetsRequest{AssetsOnly: true})
	if err == nil || !strings.Contains(err.Error(), `"assets"`) {
		t.Fatalf("expected missing-field error naming assets, got %v", err)
	}
}

func TestClientRetriesTransientFailuresUniformly(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"success":true,"pairs":[]}`)
	}), WithRetryPolicy(httpclient.RetryPolicy{
		Count:       3,
		WaitTime:    time.Millisecond,
		MaxWaitTime: 5 * time.Millisecond,
	}))

	if _, err := client.ListPairs(context.Background(), ListPairsRequest{}); err != nil {
		t.Fatalf("ListPairs: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestClientDoesNotRetryUsageErrors(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		calls++
	}))

	cases := []func() error{
		func() error {
			_, err := client.SubmitOffer(context.Background(), SubmitOfferRequest{})
			return err
		},
		func() error {
			_, err := client.GetOffer(context.Background(), GetOfferRequest{})
			return err
		},
		func() error {
			_, err := client.GetOrderBook(context.Background(), GetOrderBookRequest{})
			return err
		},
		func() error {
			_, err := client.GetHistoricalTrades(context.Background(), GetHistoricalTradesRequest{})
			return err
		},
	}
	for i, call := range cases {
		if err := call(); err == nil {
			t.Fatalf("case %d: expected usage error", i)
		}
	}
	if calls != 0 {
		t.Fatalf("usage errors must not reach the network, saw %d calls", calls)
	}
}

func TestResponseDecodeAndField(t *testing.T) {
	resp := &Response{StatusCode: 200, Body: []byte(`{"success":true,"offer":{"id":"abc"}}`)}

	offer, err := resp.Field("offer")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	var payload struct {
		ID string `json:"id"`
	}
	if err := offer.Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.ID != "abc" {
		t.Fatalf("id = %q, want abc", payload.ID)
	}

	if _, err := resp.Field("missing"); err == nil {
		t.Fatalf("expected error for missing field")
	}
}

func TestBodySnippetKeepsRuneBoundary(t *testing.T) {
	// 901 bytes of mostly three-byte runes, so the cut lands mid-rune.
	long := "x" + strings.Repeat("☃", 300)
	got := bodySnippet([]byte(long))
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated snippet, got %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("snippet is not valid UTF-8: %q", got)
	}
	if len(got) > 512+len("...") {
		t.Fatalf("snippet too long: %d bytes", len(got))
	}

	short := "plain error body"
	if got := bodySnippet([]byte(short)); got != short {
		t.Fatalf("short body changed: %q", got)
	}
}
