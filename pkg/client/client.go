package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/app-sre/overpass/pkg/version"
)

const (
	interpreterPath = "/api/interpreter"

	connectTimeout = 10 * time.Second

	// Overpass error pages are short; keep enough of them to show the message.
	maxErrorBody = 1024
)

type Client struct {
	Server string

	client  *http.Client
	logger  *zap.SugaredLogger
	timeout time.Duration
}

// Response holds the open body of an interpreter response; callers must close it.
type Response struct {
	ContentType string
	Body        io.ReadCloser
}

type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server responded with %s", e.Status)
	}
	return fmt.Sprintf("server responded with %s: %s", e.Status, e.Body)
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.SetHTTPClient(client)
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds a whole request, including reading the body. Zero
// disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func New(server string, options ...Option) *Client {
	c := &Client{Server: server}

	c.client = &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
			ForceAttemptHTTP2: true,
		},
	}
	c.logger = zap.NewNop().Sugar()

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Client) SetHTTPClient(client *http.Client) {
	c.client = client
}

func (c *Client) Endpoint() string {
	return strings.TrimRight(c.Server, "/") + interpreterPath
}

// Interpret sends the query to the interpreter endpoint. Responses with a
// status of 400 or above are returned as a *StatusError.
func (c *Client) Interpret(ctx context.Context, query string) (*Response, error) {
	endpoint := c.Endpoint()

	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	form := url.Values{"data": []string{query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("unable to create request to Overpass API: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", fmt.Sprintf("overpass/%s", version.Version()))

	c.logger.Debugf("Sending query to: %s", endpoint)

	resp, err := c.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("unable to send request to Overpass API: %w", err)
	}
	c.logger.Debugf("Received response: %s (content type: %s)", resp.Status, resp.Header.Get("Content-Type"))

	if resp.StatusCode >= http.StatusBadRequest {
		defer cancel()
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, fmt.Errorf("unable to read Overpass API response body: %w", err)
		}

		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.Join(strings.Fields(string(body)), " "),
		}
	}

	return &Response{
		ContentType: mediaType(resp.Header.Get("Content-Type")),
		Body:        &cancelBody{ReadCloser: resp.Body, cancel: cancel},
	}, nil
}

func mediaType(contentType string) string {
	t, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		t, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(t))
	}
	return t
}

// cancelBody releases the request context once the body is closed, so the
// timeout keeps covering the read.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}
