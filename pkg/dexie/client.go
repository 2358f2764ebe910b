// Package dexie is a client for the dexie.space REST API: asset listings,
// offer submission and search, trading pairs, tickers, order books, and
// historical trades.
package dexie

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dexie-space/dexie-go/pkg/httpclient"
	"go.uber.org/zap"
)

// Base URLs for the two dexie API families. Asset and offer endpoints live
// under the main API; pairs, tickers, order books, and historical trades
// under the prices API.
const (
	MainnetBaseURL       = "https://api.dexie.space/v1"
	MainnetPricesBaseURL = "https://api.dexie.space/v2/prices"
	TestnetBaseURL       = "https://api-testnet.dexie.space/v1"
	TestnetPricesBaseURL = "https://api-testnet.dexie.space/v2/prices"
)

// Endpoint paths relative to the base URLs.
const (
	assetsPath           = "/assets"
	offersPath           = "/offers"
	pairsPath            = "/pairs"
	tickersPath          = "/tickers"
	orderBookPath        = "/orderbook"
	historicalTradesPath = "/historical_trades"
)

// Usage errors, reported before any network call is made.
var (
	ErrMissingOffer    = errors.New("dexie: offer text is required")
	ErrMissingOfferID  = errors.New("dexie: offer id is required")
	ErrMissingTickerID = errors.New("dexie: ticker_id is required")
)

// Client calls the dexie.space REST API. It holds no mutable state and is
// safe for concurrent use. Use New to construct one.
type Client struct {
	http      httpclient.Client
	baseURL   string
	pricesURL string
}

type options struct {
	baseURL   string
	pricesURL string
	http      httpclient.Client
	timeout   time.Duration
	retry     *httpclient.RetryPolicy
	logger    *zap.SugaredLogger
}

// Option customizes a Client.
type Option func(*options)

// WithBaseURL overrides the main API base URL (asset and offer endpoints).
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithPricesBaseURL overrides the prices API base URL (pairs, tickers, order
// book, and historical trades endpoints).
func WithPricesBaseURL(u string) Option {
	return func(o *options) { o.pricesURL = u }
}

// WithTestnet points the client at the dexie testnet.
func WithTestnet() Option {
	return func(o *options) {
		o.baseURL = TestnetBaseURL
		o.pricesURL = TestnetPricesBaseURL
	}
}

// WithHTTPClient injects a transport. Timeout, retry, and logger options are
// ignored when one is provided.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *options) { o.http = c }
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetryPolicy sets the retry policy of the default transport. The policy
// applies uniformly to every operation.
func WithRetryPolicy(p httpclient.RetryPolicy) Option {
	return func(o *options) { o.retry = &p }
}

// WithLogger enables transport debug logging.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = log }
}

// New builds a Client for the dexie mainnet unless options say otherwise.
func New(opts ...Option) *Client {
	o := options{
		baseURL:   MainnetBaseURL,
		pricesURL: MainnetPricesBaseURL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.http == nil {
		o.http = httpclient.NewRestyClient(httpclient.Config{
			Timeout: o.timeout,
			Retry:   o.retry,
			Logger:  o.logger,
		})
	}
	return &Client{http: o.http, baseURL: o.baseURL, pricesURL: o.pricesURL}
}

// get executes a GET against a fully-built URL and decodes the JSON envelope.
func (c *Client) get(ctx context.Context, url string) (*Response, error) {
	resp, err := c.http.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dexie: http request: %w", err)
	}
	return parseResponse(resp)
}

// post executes a POST with a JSON body and decodes the JSON envelope.
func (c *Client) post(ctx context.Context, url string, body any) (*Response, error) {
	resp, err := c.http.Post(ctx, url, body, nil)
	if err != nil {
		return nil, fmt.Errorf("dexie: http request: %w", err)
	}
	return parseResponse(resp)
}

func parseResponse(resp httpclient.Response) (*Response, error) {
	body := resp.Body()
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: bodySnippet(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("dexie: response is not valid JSON: %s", bodySnippet(body))
	}
	return &Response{StatusCode: resp.StatusCode(), Body: json.RawMessage(body)}, nil
}
