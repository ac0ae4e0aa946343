package service

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

	"movie-tickets-cli/model"
)

const (
	defaultUserAgent   = "movie-tickets-cli/1.0"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
	maxCatalogBody     = 4 << 20
)

// ErrNoCatalogURL is returned when the client has no endpoint configured.
var ErrNoCatalogURL = errors.New("catalog url is not configured")

// Client wraps HTTP access to a movie catalog endpoint.
type Client struct {
	httpClient  *http.Client
	catalogURL  string
	userAgent   string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the catalog endpoint responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "catalog api error"
	}
	return fmt.Sprintf("catalog api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a catalog client. If httpClient is nil, a default client is used.
func NewClient(catalogURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		catalogURL:  strings.TrimSpace(catalogURL),
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// CatalogURL returns the configured endpoint, possibly empty.
func (c *Client) CatalogURL() string {
	return c.catalogURL
}

// GetMovies fetches the movie list. The endpoint may answer with either
// {"movies": [...]} or a bare array.
func (c *Client) GetMovies(ctx context.Context) ([]model.Movie, error) {
	if c.catalogURL == "" {
		return nil, ErrNoCatalogURL
	}

	var raw json.RawMessage
	if err := c.getJSON(ctx, c.catalogURL, &raw); err != nil {
		return nil, err
	}
	movies, err := decodeMovies(raw)
	if err != nil {
		return nil, fmt.Errorf("decode catalog from %s: %w", c.catalogURL, err)
	}
	if len(movies) == 0 {
		return nil, errors.New("catalog has no movies")
	}
	return normalizeMovies(movies), nil
}

func decodeMovies(raw json.RawMessage) ([]model.Movie, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var movies []model.Movie
		if err := json.Unmarshal(trimmed, &movies); err != nil {
			return nil, err
		}
		return movies, nil
	}
	var catalog model.Catalog
	if err := json.Unmarshal(trimmed, &catalog); err != nil {
		return nil, err
	}
	return catalog.Movies, nil
}

// normalizeMovies drops untitled entries and fills missing ids from titles.
func normalizeMovies(movies []model.Movie) []model.Movie {
	out := make([]model.Movie, 0, len(movies))
	for _, movie := range movies {
		movie.Title = strings.TrimSpace(movie.Title)
		if movie.Title == "" {
			continue
		}
		if strings.TrimSpace(movie.Id) == "" {
			movie.Id = slug(movie.Title)
		}
		out = append(out, movie)
	}
	return out
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       strings.TrimSpace(string(snippet)),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				log.Debug("retrying catalog request", "endpoint", endpoint, "status", res.StatusCode, "attempt", attempt)
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		dec := json.NewDecoder(io.LimitReader(res.Body, maxCatalogBody))
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	timer := time.NewTimer(c.retryDelay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	limit := c.retryCap
	if limit <= 0 {
		limit = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= limit/2 {
			return limit
		}
		delay *= 2
	}
	if delay > limit {
		return limit
	}
	return delay
}
