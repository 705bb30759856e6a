package imdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/vadimtrunov/reelview/internal/core"
	"github.com/vadimtrunov/reelview/internal/httpclient"
)

const (
	// DefaultBaseURL is the RapidAPI gateway for the imdb236 provider.
	DefaultBaseURL = "https://imdb236.p.rapidapi.com"
	// DefaultHost is the value sent in the X-RapidAPI-Host header.
	DefaultHost = "imdb236.p.rapidapi.com"

	pathLowestRated = "/imdb/lowest-rated-movies"
	pathDetails     = "/imdb/movie/details"
	pathSearch      = "/imdb/search"

	headerAPIKey  = "X-RapidAPI-Key"
	headerAPIHost = "X-RapidAPI-Host"

	genreFallbackSize = 10
	maxErrorBodyBytes = 4 * 1024
)

// ErrFetchFailed is wrapped by every error the client returns.
var ErrFetchFailed = errors.New("fetch failed")

// Config holds client connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	APIHost string
	Timeout time.Duration
}

// Client is a client for the imdb236 REST API.
type Client struct {
	baseURL string
	apiKey  string
	apiHost string
	http    *httpclient.Client
	logger  *slog.Logger
}

// New creates a new API client. Empty BaseURL and APIHost fall back to the defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	host := cfg.APIHost
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		apiHost: host,
		http:    httpclient.New(httpclient.Config{Timeout: cfg.Timeout}, logger),
		logger:  logger,
	}
}

// NewForTest creates a client with a custom base URL for testing.
// Exported because it is used by cross-package tests (e.g. internal/catalog).
func NewForTest(baseURL string, logger *slog.Logger) *Client {
	return New(Config{BaseURL: baseURL, APIKey: "test-key", APIHost: "test-host"}, logger)
}

// LowestRated returns the lowest-rated movies list.
func (c *Client) LowestRated(ctx context.Context) ([]Title, error) {
	var titles []Title
	if err := c.get(ctx, pathLowestRated, nil, &titles); err != nil {
		return nil, fmt.Errorf("get lowest rated movies: %w", err)
	}
	return titles, nil
}

// TopRated returns the lowest-rated list in reverse order.
// The provider has no top-rated endpoint; this mirrors what the app has always shown.
func (c *Client) TopRated(ctx context.Context) ([]Title, error) {
	titles, err := c.LowestRated(ctx)
	if err != nil {
		return nil, fmt.Errorf("get top rated movies: %w", err)
	}
	slices.Reverse(titles)
	return titles, nil
}

// Details retrieves full details for a title ID.
func (c *Client) Details(ctx context.Context, id string) (*TitleDetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("get movie details: %w: movie id is required", ErrFetchFailed)
	}

	var details TitleDetails
	if err := c.get(ctx, pathDetails, url.Values{"id": {id}}, &details); err != nil {
		return nil, fmt.Errorf("get movie details for %s: %w", id, err)
	}
	return &details, nil
}

// Rating returns only the average rating of a title.
func (c *Client) Rating(ctx context.Context, id string) (Number, error) {
	details, err := c.Details(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get movie rating: %w", err)
	}
	return details.AverageRating, nil
}

// Directors returns the directors of a title, or an empty list.
func (c *Client) Directors(ctx context.Context, id string) ([]Credit, error) {
	details, err := c.Details(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie directors: %w", err)
	}
	return orEmpty(details.Directors), nil
}

// Writers returns the writers of a title, or an empty list.
func (c *Client) Writers(ctx context.Context, id string) ([]Credit, error) {
	details, err := c.Details(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie writers: %w", err)
	}
	return orEmpty(details.Writers), nil
}

// Cast returns the cast of a title, or an empty list.
func (c *Client) Cast(ctx context.Context, id string) ([]Credit, error) {
	details, err := c.Details(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie cast: %w", err)
	}
	return orEmpty(details.Cast), nil
}

// Search searches titles by free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Title, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search movies: %w: query is required", ErrFetchFailed)
	}

	var resp searchResponse
	if err := c.get(ctx, pathSearch, url.Values{"query": {query}}, &resp); err != nil {
		return nil, fmt.Errorf("search movies for %q: %w", query, err)
	}
	return orEmpty(resp.Results), nil
}

// ByGenre filters the top-rated list to titles carrying genre (case-insensitive).
// When nothing matches, the first titles of the list are returned instead.
func (c *Client) ByGenre(ctx context.Context, genre string) ([]Title, error) {
	all, err := c.TopRated(ctx)
	if err != nil {
		return nil, fmt.Errorf("get movies for genre %s: %w", genre, err)
	}

	var matched []Title
	for _, t := range all {
		if core.HasGenre(t.Genres, genre) {
			matched = append(matched, t)
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}

	c.logger.Debug("no titles for genre, using fallback slice",
		slog.String("genre", genre),
		slog.Int("fallback", min(genreFallbackSize, len(all))),
	)
	return all[:min(genreFallbackSize, len(all))], nil
}

// get performs an authenticated GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("%w: invalid URL: %w", ErrFetchFailed, err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", ErrFetchFailed, err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerAPIHost, c.apiHost)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: imdb API error %d: %s", ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrFetchFailed, err)
	}
	return nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
