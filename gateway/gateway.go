// Package gateway wraps every outbound call to the administrative API.
//
// All calls share one cookie jar, so the session cookie set by sign-in is sent
// with every later request. Application failures (non-2xx) come back as a
// Response carrying Error, never as a Go error; Go errors are reserved for
// transport failures and bodies that are not JSON.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/kcmvp/clanadmin/app"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// FallbackMessage is reported when a failed response carries no error field.
const FallbackMessage = "Something went wrong"

var (
	ErrTransport     = errors.New("gateway: transport failure")
	ErrMalformedBody = errors.New("gateway: malformed response body")
	ErrBaseURL       = errors.New("gateway: base url is required")
)

// Options describes one request. Headers are merged over the JSON content type.
type Options struct {
	Method  string
	Body    any
	Headers http.Header
}

// Client issues requests relative to a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. A cookie jar is attached when it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
		logger:  app.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("gateway: cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// BaseURL returns the URL every endpoint is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs one call. endpoint is appended verbatim to the base URL.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options) (Response, error) {
	method := lo.Ternary(opts.Method == "", http.MethodGet, opts.Method)
	body, err := encodeBody(opts.Body)
	if err != nil {
		return Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return Response{}, fmt.Errorf("gateway: build request %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range opts.Headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api call failed", "method", method, "endpoint", endpoint, "dur", time.Since(start), "err", err)
		return Response{}, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, endpoint, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: read %s %s: %w", ErrTransport, method, endpoint, err)
	}
	c.logger.Debug("api call", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "dur", time.Since(start))

	// The body is parsed before the status is looked at.
	if !gjson.ValidBytes(raw) {
		return Response{Status: resp.StatusCode}, fmt.Errorf("%w: %s %s (status %d)", ErrMalformedBody, method, endpoint, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(raw, "error").String()
		return Response{Status: resp.StatusCode, Error: lo.Ternary(msg == "", FallbackMessage, msg)}, nil
	}
	return Response{Status: resp.StatusCode, Data: raw}, nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}
