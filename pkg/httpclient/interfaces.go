package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	IsError() bool
}

// Client abstracts HTTP calls so callers can inject mocks or different
// transports. Post serializes body as JSON and sends it with an
// application/json content type.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error)
}
