package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

// Client talks to the remote shop backend over its REST API. All calls go
// through a shared circuit breaker; server failures and transport errors
// count against it, client errors (4xx) do not.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*response]
	sfg     singleflight.Group // dedupes concurrent read-only fetches
}

type response struct {
	status int
	body   []byte
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
			Name:        "shop-backend",
			MaxRequests: 3,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

type ctxKey int

const tokenKey ctxKey = 0

// WithToken stores the caller's bearer token for forwarding to the backend.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func tokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey).(string); ok {
		return token
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	res, err := c.breaker.Execute(func() (*response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token := tokenFromContext(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, &GatewayError{Status: resp.StatusCode, Detail: errorDetail(b)}
		}
		return &response{status: resp.StatusCode, body: b}, nil
	})
	if err != nil {
		var ge *GatewayError
		if errors.As(err, &ge) {
			return ge
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &GatewayError{Detail: "shop backend temporarily unavailable"}
		}
		return &GatewayError{Detail: err.Error()}
	}

	if err := statusError(res); err != nil {
		return err
	}

	if out != nil && len(res.body) > 0 {
		if err := json.Unmarshal(res.body, out); err != nil {
			return fmt.Errorf("unmarshal %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func statusError(res *response) error {
	switch {
	case res.status < 300:
		return nil
	case res.status == http.StatusUnauthorized || res.status == http.StatusForbidden:
		return ErrAuthRequired
	case res.status == http.StatusNotFound:
		return ErrNotFound
	default: // remaining 4xx; 5xx never reaches here
		return &ValidationError{Status: res.status, Detail: errorDetail(res.body)}
	}
}

// errorDetail pulls the backend's {"detail": "..."} message out of an error
// body, falling back to the raw body.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return detail
}
