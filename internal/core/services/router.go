package services

import (
	"strings"
	"unicode"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
)

// Ensure RuleRouter implements the interface.
var _ driving.Router = (*RuleRouter)(nil)

// dynamicMarkers signal current or time-sensitive information that the
// local knowledge base cannot answer.
var dynamicMarkers = []string{
	"today", "now", "current", "currently", "latest", "recent",
	"this week", "this month", "this year", "right now", "news",
	"mortgage rate", "interest rate", "breaking",
}

// conversationalMarkers identify greetings and small talk that need
// neither information source.
var conversationalMarkers = []string{
	"hi", "hello", "hey", "thanks", "thank you", "bye", "goodbye",
	"good morning", "good afternoon", "good evening", "how are you",
}

// anaphoraMarkers identify follow-ups that refer back to the previous
// exchange and are answered from conversation context.
var anaphoraMarkers = []string{
	"it", "that", "those", "them", "this one", "the first one",
	"the second one", "the last one", "what about", "and the",
}

// marketTerms and availabilityTerms drive web-query refinement.
var marketTerms = []string{"price", "market", "value", "cost", "worth", "rate"}

var availabilityTerms = []string{"for sale", "available", "buy", "rent", "listing", "listings"}

// RuleRouter decides which information sources to consult for a query.
// It is a pure function of the query text, the recent turns and a flag
// saying whether relevant indexed content is known to exist.
type RuleRouter struct {
	entityMarkers []string
}

// NewRuleRouter creates a router that treats the given markers as
// evidence the local knowledge base covers the query. Markers are
// matched case-insensitively; multi-word markers as substrings,
// single words against whole tokens.
func NewRuleRouter(entityMarkers []string) *RuleRouter {
	lowered := make([]string, len(entityMarkers))
	for i, m := range entityMarkers {
		lowered[i] = strings.ToLower(strings.TrimSpace(m))
	}
	return &RuleRouter{entityMarkers: lowered}
}

// Decide classifies the query into one of the four routing outcomes.
//
// Signals: temporal/current-event markers route toward web search;
// entity markers or known-relevant indexed content route toward
// retrieval. Both signal sets present means both sources. A greeting
// or a follow-up referring back to the conversation needs neither.
// With no signals at all the router asks the caller to probe the
// index (ProbeSuggested) and meanwhile routes to both sources, so a
// caller that ignores the suggestion still degrades gracefully.
func (r *RuleRouter) Decide(query string, history []domain.Turn, hasRelevantContent bool) domain.RoutePlan {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.RoutePlan{
			Decision: domain.RouteDirectAnswer,
			Reason:   "empty query",
		}
	}

	tokens := tokenise(q)

	web := matchesAny(q, tokens, dynamicMarkers)
	retrieval := matchesAny(q, tokens, r.entityMarkers) || hasRelevantContent

	switch {
	case retrieval && web:
		return domain.RoutePlan{
			Decision: domain.RouteBoth,
			WebQuery: refineWebQuery(query, q),
			Reason:   "temporal and knowledge-base signals present",
		}
	case retrieval:
		return domain.RoutePlan{
			Decision: domain.RouteRetrievalOnly,
			Reason:   "knowledge-base signal present",
		}
	case web:
		return domain.RoutePlan{
			Decision: domain.RouteWebOnly,
			WebQuery: refineWebQuery(query, q),
			Reason:   "temporal signal present, no knowledge-base signal",
		}
	}

	if matchesAny(q, tokens, conversationalMarkers) {
		return domain.RoutePlan{
			Decision: domain.RouteDirectAnswer,
			Reason:   "conversational query",
		}
	}

	if len(history) > 0 && matchesAny(q, tokens, anaphoraMarkers) {
		return domain.RoutePlan{
			Decision: domain.RouteDirectAnswer,
			Reason:   "follow-up answered from conversation context",
		}
	}

	return domain.RoutePlan{
		Decision:       domain.RouteBoth,
		WebQuery:       refineWebQuery(query, q),
		Reason:         "no lexical signals; consulting both sources",
		ProbeSuggested: true,
	}
}

// refineWebQuery augments the outbound web query with a domain suffix
// so generic terms land on real-estate results. The original casing of
// the query is preserved.
func refineWebQuery(original, lowered string) string {
	tokens := tokenise(lowered)
	switch {
	case matchesAny(lowered, tokens, availabilityTerms):
		return original + " MLS listings"
	case matchesAny(lowered, tokens, marketTerms):
		return original + " real estate market"
	default:
		return original
	}
}

// matchesAny reports whether any marker occurs in the query.
// Multi-word markers match as substrings; single words must match a
// whole token, so "it" never fires inside "city".
func matchesAny(q string, tokens map[string]bool, markers []string) bool {
	for _, m := range markers {
		if m == "" {
			continue
		}
		if strings.ContainsRune(m, ' ') {
			if strings.Contains(q, m) {
				return true
			}
			continue
		}
		if tokens[m] {
			return true
		}
	}
	return false
}

// tokenise splits a lowered query into a set of word tokens.
func tokenise(q string) map[string]bool {
	words := strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
