package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout applies when Config.Timeout is left zero.
const DefaultTimeout = 15 * time.Second

// RetryPolicy bounds the automatic retries applied to transient failures:
// network errors, HTTP 5xx, and HTTP 429. Count is the number of retries
// after the first attempt; zero disables retrying. Wait times left zero fall
// back to the resty defaults.
type RetryPolicy struct {
	Count       int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// DefaultRetryPolicy returns the policy used when Config.Retry is nil.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Count:       3,
		WaitTime:    2 * time.Second,
		MaxWaitTime: 10 * time.Second,
	}
}

// Config controls construction of a RestyClient. Zero values select defaults;
// a non-nil Retry overrides the default policy (use &RetryPolicy{} to disable
// retries entirely).
type Config struct {
	Timeout time.Duration
	Retry   *RetryPolicy
	Logger  *zap.SugaredLogger
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a RestyClient from cfg, with timeout, retry policy,
// and optional debug logging hooks applied.
func NewRestyClient(cfg Config) *RestyClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retry := DefaultRetryPolicy()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(retry.Count)
	if retry.WaitTime > 0 {
		c.SetRetryWaitTime(retry.WaitTime)
	}
	if retry.MaxWaitTime > 0 {
		c.SetRetryMaxWaitTime(retry.MaxWaitTime)
	}
	c.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return resp.StatusCode() >= http.StatusInternalServerError ||
			resp.StatusCode() == http.StatusTooManyRequests
	})

	if cfg.Logger != nil {
		installLogHooks(c, cfg.Logger)
	}
	return &RestyClient{client: c}
}

type requestIDKey struct{}

// installLogHooks logs each request and response at debug level, correlated
// by a generated id carried in the request context (never sent on the wire).
func installLogHooks(c *resty.Client, log *zap.SugaredLogger) {
	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		id := uuid.NewString()
		req.SetContext(context.WithValue(req.Context(), requestIDKey{}, id))
		log.Debugw("http request", "request_id", id, "method", req.Method, "url", req.URL)
		return nil
	})
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		id, _ := resp.Request.Context().Value(requestIDKey{}).(string)
		log.Debugw("http response",
			"request_id", id,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
			"attempts", resp.Request.Attempt,
		)
		return nil
	})
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// Post performs an HTTP POST request with body serialized as JSON.
func (r *RestyClient) Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	req.SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponseAdapter) IsError() bool   { return r.resp.IsError() }
