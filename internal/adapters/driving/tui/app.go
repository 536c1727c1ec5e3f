// Package tui implements the interactive chat interface following the
// Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
)

// answerReceived carries a completed exchange back into the update loop.
type answerReceived struct {
	query  string
	answer driving.Answer
}

// answerFailed carries a per-turn error; the session continues.
type answerFailed struct {
	query string
	err   error
}

// App is the chat TUI model. It implements tea.Model.
type App struct {
	chat driving.ChatService
	ctx  context.Context

	styles   *Styles
	input    textinput.Model
	viewport viewport.Model

	transcript []string
	waiting    bool
	err        error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat TUI over the given chat service.
func NewApp(ctx context.Context, chat driving.ChatService) *App {
	input := textinput.New()
	input.Placeholder = "Ask about Miami real estate..."
	input.Focus()
	input.CharLimit = 500

	return &App{
		chat:   chat,
		ctx:    ctx,
		styles: DefaultStyles(),
		input:  input,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("mira - Miami real-estate assistant"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		headerAndInput := 6
		a.viewport = viewport.New(msg.Width, max(msg.Height-headerAndInput, 3))
		a.viewport.SetContent(a.renderTranscript())
		a.input.Width = max(msg.Width-6, 20)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit
		case "enter":
			if a.waiting {
				return a, nil
			}
			query := strings.TrimSpace(a.input.Value())
			if query == "" {
				return a, nil
			}
			a.input.Reset()
			a.err = nil
			a.waiting = true
			a.appendLine(a.styles.User.Render("you: ") + query)
			return a, a.ask(query)
		}

	case answerReceived:
		a.waiting = false
		a.appendLine(a.styles.Assistant.Render("mira: " + msg.answer.Text))
		if len(msg.answer.Sources) > 0 {
			a.appendLine(a.styles.Meta.Render(
				fmt.Sprintf("  (%s via %s)", msg.answer.Decision, strings.Join(msg.answer.Sources, ", "))))
		}
		a.appendLine("")
		return a, nil

	case answerFailed:
		a.waiting = false
		a.err = msg.err
		a.appendLine(a.styles.Error.Render(fmt.Sprintf("error: %v", msg.err)))
		a.appendLine("")
		return a, nil
	}

	var inputCmd, viewportCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)
	a.viewport, viewportCmd = a.viewport.Update(msg)
	return a, tea.Batch(inputCmd, viewportCmd)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Header.Render("Mira"))
	b.WriteString("\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")
	b.WriteString(a.styles.InputBox.Render(a.input.View()))
	b.WriteString("\n")
	if a.waiting {
		b.WriteString(a.styles.Help.Render("thinking..."))
	} else {
		b.WriteString(a.styles.Help.Render("enter to send, esc to quit"))
	}
	return b.String()
}

// ask runs one exchange off the update loop.
func (a *App) ask(query string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.chat.Ask(a.ctx, query)
		if err != nil {
			return answerFailed{query: query, err: err}
		}
		return answerReceived{query: query, answer: answer}
	}
}

// appendLine adds a transcript line and keeps the viewport pinned to
// the bottom.
func (a *App) appendLine(line string) {
	a.transcript = append(a.transcript, line)
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

func (a *App) renderTranscript() string {
	return strings.Join(a.transcript, "\n")
}

// Transcript returns the rendered conversation (for testing).
func (a *App) Transcript() []string {
	return a.transcript
}

// Waiting reports whether an exchange is in flight (for testing).
func (a *App) Waiting() bool {
	return a.waiting
}

// Err returns the last per-turn error.
func (a *App) Err() error {
	return a.err
}

// Run starts the chat TUI and flushes the session when it exits.
func Run(ctx context.Context, chat driving.ChatService) error {
	app := NewApp(ctx, chat)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return chat.End(ctx)
}
