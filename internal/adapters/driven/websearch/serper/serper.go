// Package serper provides a web search adapter backed by the
// serper.dev Google search API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
)

// Ensure Searcher implements the interface.
var _ driven.WebSearcher = (*Searcher)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://google.serper.dev"
	DefaultTimeout = 10 * time.Second

	// requestsPerSecond caps outbound search calls; serper meters by
	// request.
	requestsPerSecond = 2
)

// Config holds configuration for the serper searcher.
type Config struct {
	// APIKey is the serper.dev API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://google.serper.dev).
	BaseURL string

	// Timeout is the request timeout (default: 10s). Searches are
	// best-effort; a slow provider must not stall the whole query.
	Timeout time.Duration
}

// Searcher queries serper.dev and maps organic results to WebResults.
type Searcher struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
}

// searchRequest is the serper API request format.
type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

// searchResponse is the subset of the serper response we consume.
type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// New creates a new serper searcher.
func New(cfg Config) (*Searcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: serper API key is required", domain.ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Searcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// Search returns up to limit organic results in provider order.
// Failures are reported as domain.ErrWebSearchUnavailable so callers
// degrade to "no web results" instead of surfacing them.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]driven.WebResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidInput, limit)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	jsonBody, err := json.Marshal(searchRequest{Query: query, Num: limit})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/search",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWebSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: serper status %d", domain.ErrWebSearchUnavailable, resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrWebSearchUnavailable, err)
	}

	results := make([]driven.WebResult, 0, limit)
	for i, item := range searchResp.Organic {
		if i >= limit {
			break
		}
		results = append(results, driven.WebResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
		})
	}
	return results, nil
}
