package services

import (
	"fmt"
	"strings"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
)

// Section labels for the assembled payload.
const (
	sectionKnowledge    = "Knowledge base:"
	sectionWeb          = "Current information:"
	sectionConversation = "Recent conversation:"
)

// AssembledContext is the bounded grounding payload handed to the
// generation service, plus counters for logging and tests.
type AssembledContext struct {
	Text string

	// ChunksIncluded, SnippetsIncluded and TurnsIncluded count the
	// whole items that made it into the payload.
	ChunksIncluded   int
	SnippetsIncluded int
	TurnsIncluded    int

	// Truncated is set when at least one available item was dropped
	// to honour the budget.
	Truncated bool
}

// Empty reports whether nothing at all fit or was available.
func (a AssembledContext) Empty() bool { return a.Text == "" }

// Assembler merges retrieval chunks, web snippets and recent turns
// into one bounded payload.
type Assembler struct {
	maxUnits     int
	historyTurns int
}

// NewAssembler creates an assembler with a rune budget and a cap on
// conversation turns considered. Fails with domain.ErrInvalidConfig
// for a non-positive budget or a negative turn cap.
func NewAssembler(maxUnits, historyTurns int) (*Assembler, error) {
	if maxUnits <= 0 {
		return nil, fmt.Errorf("%w: context budget must be positive, got %d", domain.ErrInvalidConfig, maxUnits)
	}
	if historyTurns < 0 {
		return nil, fmt.Errorf("%w: history turns must be non-negative, got %d", domain.ErrInvalidConfig, historyTurns)
	}
	return &Assembler{maxUnits: maxUnits, historyTurns: historyTurns}, nil
}

// Assemble concatenates sources in fixed priority order: retrieval
// chunks (highest score first), then web snippets in provider order,
// then the most recent turns oldest first. Once the rune budget is
// reached, assembly stops: items are included whole or excluded whole,
// never cut mid-item. Both retrieval and web absent is a valid
// outcome, not an error; the payload then carries history only.
func (a *Assembler) Assemble(retrieval domain.RetrievalResult, web []driven.WebResult, history []domain.Turn) AssembledContext {
	var (
		b      strings.Builder
		used   int
		out    AssembledContext
		capped = false
	)

	// add appends one whole item under the section header, emitting
	// the header before the section's first included item. Returns
	// false once the budget is exhausted.
	add := func(header string, headerDone *bool, item string) bool {
		cost := len([]rune(item)) + 1 // trailing newline
		if !*headerDone {
			cost += len([]rune(header)) + 1
		}
		if used+cost > a.maxUnits {
			capped = true
			return false
		}
		if !*headerDone {
			b.WriteString(header)
			b.WriteString("\n")
			*headerDone = true
		}
		b.WriteString(item)
		b.WriteString("\n")
		used += cost
		return true
	}

	knowledgeStarted := false
	for _, sc := range retrieval {
		if !add(sectionKnowledge, &knowledgeStarted, sc.Chunk.Text) {
			break
		}
		out.ChunksIncluded++
	}

	webStarted := false
	if !capped {
		for _, w := range web {
			if !add(sectionWeb, &webStarted, renderWebResult(w)) {
				break
			}
			out.SnippetsIncluded++
		}
	}

	convStarted := false
	if !capped {
		turns := history
		if len(turns) > a.historyTurns {
			turns = turns[len(turns)-a.historyTurns:]
		}
		for _, turn := range turns {
			if !add(sectionConversation, &convStarted, renderTurn(turn)) {
				break
			}
			out.TurnsIncluded++
		}
	}

	out.Text = strings.TrimRight(b.String(), "\n")
	out.Truncated = capped
	return out
}

// renderWebResult formats one web hit as a single payload item.
func renderWebResult(w driven.WebResult) string {
	if w.URL == "" {
		return fmt.Sprintf("%s: %s", w.Title, w.Snippet)
	}
	return fmt.Sprintf("%s: %s (%s)", w.Title, w.Snippet, w.URL)
}

// renderTurn formats one conversation turn.
func renderTurn(t domain.Turn) string {
	return fmt.Sprintf("%s: %s", t.Role, t.Text)
}
