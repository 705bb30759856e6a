package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Config holds transport configuration.
// A zero Timeout leaves the net/http default (no client-side deadline) in place.
type Config struct {
	Timeout time.Duration
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{}
}

// Client wraps http.Client with request logging.
// Every call is a single attempt: failures are returned to the caller as-is.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

// New creates a new Client with a default http.Client.
func New(cfg Config, logger *slog.Logger) *Client {
	return NewWithHTTPClient(&http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithHTTPClient creates a Client around a caller-supplied http.Client.
func NewWithHTTPClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// Do executes the request exactly once.
// Non-2xx responses are returned with a nil error; status handling is up to the caller.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug("request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("elapsed", elapsed.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	c.logger.Debug("request completed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("elapsed", elapsed.String()),
	)
	return resp, nil
}

// IsSuccess reports whether the status code is in the 2xx range.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
