package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
	"github.com/casaverde-labs/mira-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// systemPrompt frames the assistant for the generation service. The
// assembled grounding context is appended to it per query.
const systemPrompt = `You are Mira, a knowledgeable Miami real-estate assistant.
Answer using the provided context. When the context does not cover the
question, say so instead of guessing. Be concise and concrete.`

// preferenceLocation is the session preference appended to outbound
// web queries when the query does not already mention it.
const preferenceLocation = "location"

// ChatService runs the per-query pipeline: route, gather, assemble,
// generate, record.
type ChatService struct {
	retrieval    driving.RetrievalService
	router       driving.Router
	web          driven.WebSearcher
	llm          driven.LLMService
	assembler    *Assembler
	conversation *ConversationStore
	settings     domain.AppSettings
}

// NewChatService creates a chat service. The web searcher may be nil
// when no provider is configured; web routes then degrade to the
// remaining sources.
func NewChatService(
	retrieval driving.RetrievalService,
	router driving.Router,
	web driven.WebSearcher,
	llm driven.LLMService,
	assembler *Assembler,
	conversation *ConversationStore,
	settings domain.AppSettings,
) *ChatService {
	return &ChatService{
		retrieval:    retrieval,
		router:       router,
		web:          web,
		llm:          llm,
		assembler:    assembler,
		conversation: conversation,
		settings:     settings,
	}
}

// Ask answers a single user query. Retrieval and web failures degrade
// to the remaining sources; only a generation failure is fatal to the
// turn. Session state is appended only after a successful exchange, so
// a failed turn never corrupts the history.
func (s *ChatService) Ask(ctx context.Context, query string) (driving.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return driving.Answer{}, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	logger.Section("Query")
	logger.Debug("query: %q", query)

	history := s.conversation.Recent(s.settings.Context.HistoryTurns)

	plan := s.router.Decide(query, history, false)
	if plan.ProbeSuggested {
		plan = s.probe(ctx, query, history, plan)
	}
	logger.Info("route: %s (%s)", plan.Decision, plan.Reason)

	chunks, decision := s.gatherRetrieval(ctx, query, plan)
	web := s.gatherWeb(ctx, query, plan, decision)

	assembled := s.assembler.Assemble(chunks, web, history)
	logger.Debug("context: %d chunks, %d snippets, %d turns, truncated=%t",
		assembled.ChunksIncluded, assembled.SnippetsIncluded,
		assembled.TurnsIncluded, assembled.Truncated)

	prompt := systemPrompt
	if !assembled.Empty() {
		prompt += "\n\nContext:\n" + assembled.Text
	}
	messages := []driven.ChatMessage{
		{Role: "system", Content: prompt},
		{Role: "user", Content: query},
	}

	text, err := s.llm.Chat(ctx, messages, driven.GenerateOptions{})
	if err != nil {
		return driving.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	now := time.Now()
	s.conversation.Append(domain.Turn{Role: domain.RoleUser, Text: query, Timestamp: now})
	s.conversation.Append(domain.Turn{Role: domain.RoleAssistant, Text: text, Timestamp: now})

	return driving.Answer{
		Text:     text,
		Decision: decision,
		Sources:  sources(assembled),
	}, nil
}

// End flushes the session through the persistence boundary.
func (s *ChatService) End(ctx context.Context) error {
	return s.conversation.Flush(ctx)
}

// probe runs a cheap top-1 retrieval to tell the router whether the
// index holds relevant content, then re-runs the decision with the
// outcome. A probe failure keeps the initial plan.
func (s *ChatService) probe(ctx context.Context, query string, history []domain.Turn, plan domain.RoutePlan) domain.RoutePlan {
	res, err := s.retrieval.Retrieve(ctx, query, 1, s.settings.Retrieval.MinScore)
	if err != nil {
		logger.Warn("route probe failed, keeping initial plan: %v", err)
		return plan
	}
	if res.Empty() {
		return plan
	}
	logger.Debug("route probe hit (score %.3f)", res.TopScore())
	return s.router.Decide(query, history, true)
}

// gatherRetrieval fetches chunks when the plan calls for retrieval.
// A recoverable failure degrades the decision to the remaining
// sources; a dimension mismatch cannot be recovered per query but is
// still reported as empty retrieval so the turn can proceed on other
// sources, matching the degrade-over-surface policy.
func (s *ChatService) gatherRetrieval(ctx context.Context, query string, plan domain.RoutePlan) (domain.RetrievalResult, domain.RouteDecision) {
	decision := plan.Decision
	if !decision.NeedsRetrieval() {
		return nil, decision
	}

	res, err := s.retrieval.Retrieve(ctx, query, s.settings.Retrieval.TopK, s.settings.Retrieval.MinScore)
	if err == nil {
		return res, decision
	}

	if errors.Is(err, domain.ErrDimensionMismatch) {
		logger.Warn("retrieval disabled for this turn, index dimension mismatch: %v", err)
	} else {
		logger.Warn("retrieval failed, degrading: %v", err)
	}

	if s.web != nil {
		return nil, domain.RouteWebOnly
	}
	return nil, domain.RouteDirectAnswer
}

// gatherWeb fetches web snippets when the effective decision calls for
// them. Provider failures are treated as "no web results".
func (s *ChatService) gatherWeb(ctx context.Context, query string, plan domain.RoutePlan, decision domain.RouteDecision) []driven.WebResult {
	if !decision.NeedsWeb() || s.web == nil {
		return nil
	}

	webQuery := plan.WebQuery
	if webQuery == "" {
		webQuery = query
	}
	if loc, ok := s.conversation.Preference(preferenceLocation); ok && loc != "" {
		if !strings.Contains(strings.ToLower(webQuery), strings.ToLower(loc)) {
			webQuery += " " + loc
		}
	}

	results, err := s.web.Search(ctx, webQuery, s.settings.WebSearch.Results)
	if err != nil {
		logger.Warn("web search failed, continuing without web results: %v", err)
		return nil
	}
	logger.Debug("web search %q returned %d results", webQuery, len(results))
	return results
}

// sources names the information sources that actually contributed.
func sources(assembled AssembledContext) []string {
	var out []string
	if assembled.ChunksIncluded > 0 {
		out = append(out, "knowledge base")
	}
	if assembled.SnippetsIncluded > 0 {
		out = append(out, "web search")
	}
	if len(out) == 0 {
		out = append(out, "conversation")
	}
	return out
}
