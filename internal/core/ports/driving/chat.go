package driving

import (
	"context"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

// Answer is the outcome of one chat exchange.
type Answer struct {
	// Text is the generated assistant response.
	Text string

	// Decision is the routing outcome that produced it.
	Decision domain.RouteDecision

	// Sources names the information sources actually used, such as
	// "knowledge base" or "web search".
	Sources []string
}

// ChatService runs the full per-query pipeline: route, gather, assemble
// context, generate, and record the exchange in the session.
type ChatService interface {
	// Ask answers a single user query. Retrieval or web failures
	// degrade to the remaining sources; a generation failure is fatal
	// to the single query turn but never corrupts session state.
	Ask(ctx context.Context, query string) (Answer, error)

	// End flushes the session through the persistence boundary.
	End(ctx context.Context) error
}
