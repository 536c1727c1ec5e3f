package domain

// RouteDecision is the per-query choice of information sources to
// consult. It is produced once per incoming query and never persisted.
type RouteDecision int

// The four routing outcomes.
const (
	// RouteRetrievalOnly consults only the local vector index.
	RouteRetrievalOnly RouteDecision = iota

	// RouteWebOnly consults only the external web search provider.
	RouteWebOnly

	// RouteBoth consults the index and web search.
	RouteBoth

	// RouteDirectAnswer consults neither; the query is answered from
	// conversation context alone.
	RouteDirectAnswer
)

// String returns the decision name.
func (d RouteDecision) String() string {
	switch d {
	case RouteRetrievalOnly:
		return "retrieval-only"
	case RouteWebOnly:
		return "web-only"
	case RouteBoth:
		return "both"
	case RouteDirectAnswer:
		return "direct-answer"
	default:
		return "unknown"
	}
}

// NeedsRetrieval reports whether the decision involves the local index.
func (d RouteDecision) NeedsRetrieval() bool {
	return d == RouteRetrievalOnly || d == RouteBoth
}

// NeedsWeb reports whether the decision involves web search.
func (d RouteDecision) NeedsWeb() bool {
	return d == RouteWebOnly || d == RouteBoth
}

// RoutePlan is the full routing outcome for a query: the decision, a
// possibly refined web query, and a human-readable reason used for
// verbose logging.
type RoutePlan struct {
	Decision RouteDecision

	// WebQuery is the query to send to the web search provider. It may
	// be refined with domain suffixes; empty when Decision does not
	// involve web search.
	WebQuery string

	// Reason explains which signals produced the decision.
	Reason string

	// ProbeSuggested is set when no lexical signal fired and the router
	// would change its answer given knowledge of whether the index
	// holds relevant content. The caller may re-run Decide with the
	// probe outcome.
	ProbeSuggested bool
}
