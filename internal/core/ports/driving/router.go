package driving

import "github.com/casaverde-labs/mira-cli/internal/core/domain"

// Router decides which information sources to consult for a query.
//
// Implementations must be a pure function of the query text, the
// recent conversation turns, and whether relevant indexed content is
// known to exist — no side effects. The default is rule-based; a
// learned classifier may be substituted as long as it preserves the
// four-way domain.RouteDecision contract.
type Router interface {
	Decide(query string, history []domain.Turn, hasRelevantContent bool) domain.RoutePlan
}
