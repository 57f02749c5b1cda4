// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive question and answer screen of the
// reporting assistant. Each submitted question is answered independently.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/sustain-research/internal/rag"
)

const (
	title    = "Sustainability Reporting Assistant"
	subtitle = "Ask questions about your company's sustainability reporting based on ESRS standards."
)

// Answerer is the TUI-facing subset of rag.Assistant.
type Answerer interface {
	Answer(ctx context.Context, query string) (rag.Answer, error)
}

// answerMsg carries the result of one background answer pass.
type answerMsg struct {
	query  string
	answer rag.Answer
	err    error
}

// Model is the Bubble Tea model for the assistant screen.
type Model struct {
	ctx      context.Context
	answerer Answerer
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	summary  string
	answer   rag.Answer
	errText  string
	pending  string
	ready    bool
}

// New creates the model. summary is shown under the subtitle, typically
// the ingestion counts.
func New(ctx context.Context, answerer Answerer, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "Enter your question: "
	ti.Placeholder = "What does ESRS E1 require?"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		answerer: answerer,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		summary:  summary,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 4 + 1 + qh + 1 // title, subtitle, summary, spacer; input; error line
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-ah)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case answerMsg:
		if msg.query != m.pending {
			return m, nil
		}
		m.pending = ""
		m.answer = msg.answer
		m.errText = ""
		if msg.err != nil {
			m.answer = rag.Answer{}
			m.errText = errorText(msg.err)
		}
		m.viewport.SetContent(m.renderAnswer())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.pending == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending != "" {
				return m, nil
			}
			m.pending = q
			m.errText = ""
			return m, tea.Batch(m.ask(q), m.spinner.Tick)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask answers q off the UI goroutine.
func (m Model) ask(q string) tea.Cmd {
	return func() tea.Msg {
		ans, err := m.answerer.Answer(m.ctx, q)
		return answerMsg{query: q, answer: ans, err: err}
	}
}

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(subtitle + "\n")
	b.WriteString(dimStyle.Render(m.summary) + "\n\n")
	b.WriteString(queryBoxStyle.Render(m.input.View()) + "\n")
	b.WriteString(answerBoxStyle.Render(m.viewport.View()) + "\n")
	switch {
	case m.pending != "":
		b.WriteString(m.spinner.View() + " Thinking...")
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	}
	return b.String()
}

func (m Model) renderAnswer() string {
	if m.answer.Text == "" {
		return dimStyle.Render("No answer yet.")
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render("Answer") + "\n\n")
	b.WriteString(strings.TrimSpace(m.answer.Text) + "\n")
	if len(m.answer.Sources) > 0 {
		names := make([]string, len(m.answer.Sources))
		for i, s := range m.answer.Sources {
			names[i] = s.ID
		}
		b.WriteString("\n" + dimStyle.Render("Sources: "+strings.Join(names, ", ")))
	}
	return b.String()
}

// errorText formats a failed pass the way the assistant reports it: token
// ceiling violations verbatim, anything else prefixed.
func errorText(err error) string {
	var tooLong *rag.PromptTooLongError
	if errors.As(err, &tooLong) {
		return tooLong.Error()
	}
	return fmt.Sprintf("An error occurred: %v", err)
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	headingStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, answerer Answerer, summary string) error {
	p := tea.NewProgram(New(ctx, answerer, summary), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
