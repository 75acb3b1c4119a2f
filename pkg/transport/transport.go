// Package transport fetches and posts raw bytes. Non-2xx answers become *StatusError; nothing
// is retried here.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// StatusError is returned for any response outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, string(e.Body))
}

// ErrCircuitOpen is returned while the breaker rejects calls after repeated failures.
var ErrCircuitOpen = errors.New("circuit breaker open")

type Client struct {
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

type response struct {
	status int
	body   []byte
}

func NewClient(httpClient *http.Client, name string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{httpClient: httpClient, cb: NewCircuitBreaker(name)}
}

// NewCircuitBreaker trips once at least 5 calls were made and 60% of them failed.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}

func (c *Client) Get(ctx context.Context, url string, headers http.Header) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, url, headers, nil)
}

func (c *Client) Post(ctx context.Context, url string, headers http.Header, body []byte) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, url, headers, body)
}

// Do sends one request and returns the response body. Network errors and 5xx responses count
// against the breaker; 4xx responses do not.
func (c *Client) Do(ctx context.Context, method, url string, headers http.Header, body []byte) ([]byte, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}

		for key, values := range headers {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: respBody}
		}

		return response{status: resp.StatusCode, body: respBody}, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s %s: %w", method, url, ErrCircuitOpen)
	} else if err != nil {
		return nil, err
	}

	resp := result.(response)
	if resp.status < 200 || resp.status >= 300 {
		return nil, &StatusError{Method: method, URL: url, StatusCode: resp.status, Body: resp.body}
	}

	return resp.body, nil
}
