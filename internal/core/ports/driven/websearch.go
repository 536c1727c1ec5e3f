package driven

import "context"

// WebResult is a single hit from the external search provider.
type WebResult struct {
	Title   string
	Snippet string
	URL     string
}

// WebSearcher is the boundary to an external keyword search provider.
// Calls are made with a bounded timeout; failures (timeout, quota) are
// reported as errors wrapping domain.ErrWebSearchUnavailable and are
// treated by callers as "no web results", never as fatal.
type WebSearcher interface {
	// Search returns up to limit results in provider order.
	Search(ctx context.Context, query string, limit int) ([]WebResult, error)
}
