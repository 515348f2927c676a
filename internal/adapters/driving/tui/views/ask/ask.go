// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

var (
	// ErrNoQueryService indicates that no query service was provided.
	ErrNoQueryService = errors.New("query service is required")

	// ErrNoOrganization indicates that no organization has been selected.
	ErrNoOrganization = errors.New("select an organization first")
)

// View is the ask view with a question input, the answer and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	statusbar *status.Bar

	queryService driving.QueryService
	ctx          context.Context

	orgID       string
	result      *domain.QueryResult
	showContext bool

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a question, false = reading the answer
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQuestionInput(s),
		statusbar:    status.NewBar(s, km),
		queryService: queryService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
		focusInput:   true,
	}
}

// WithContext sets the context used for queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetOrganization scopes every question to orgID.
func (v *View) SetOrganization(orgID string) {
	v.orgID = orgID
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QuestionAnswered:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			question := strings.TrimSpace(v.input.Value())
			if question == "" {
				return v, nil
			}
			v.err = nil
			v.statusbar.SetState(status.StateAsking)
			return v, v.ask(question)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.NewQuestion):
		v.Reset()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Context):
		v.showContext = !v.showContext
		return v, nil
	}
	return v, nil
}

// ask returns a command that answers question for the current organization.
func (v *View) ask(question string) tea.Cmd {
	orgID := v.orgID
	return func() tea.Msg {
		if v.queryService == nil {
			return messages.ErrorOccurred{Err: ErrNoQueryService}
		}
		if orgID == "" {
			return messages.ErrorOccurred{Err: ErrNoOrganization}
		}

		result, err := v.queryService.Query(v.ctx, question, orgID)
		return messages.QuestionAnswered{Result: result, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.QuestionAnswered) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.result = msg.Result
	v.showContext = false
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetCount(len(msg.Result.DocumentIDs))

	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)

	header := v.styles.Title.Render("ragdesk")
	if v.orgID != "" {
		header += "  " + v.styles.Muted.Render(v.orgID)
	}
	sections = append(sections, header, "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.result != nil {
		sections = append(sections, v.renderAnswer()...)
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderAnswer() []string {
	width := max(v.width-4, 20)
	out := []string{
		v.styles.Answer.Width(width).Render(v.result.Answer),
		"",
	}

	confidence := fmt.Sprintf("Confidence: %.0f%%", v.result.Confidence*100)
	out = append(out, v.styles.Confidence(v.result.Confidence).Render(confidence))

	if len(v.result.DocumentIDs) > 0 {
		out = append(out, v.styles.Subtitle.Render("Sources"))
		for _, id := range v.result.DocumentIDs {
			out = append(out, v.styles.Muted.Render("  "+id))
		}
	}

	if v.showContext && v.result.Context != "" {
		out = append(out, "", v.styles.Subtitle.Render("Context"),
			v.styles.Muted.Width(width).Render(v.result.Context))
	}
	return out
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the current question text.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the question text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Result returns the last answer, or nil.
func (v *View) Result() *domain.QueryResult {
	return v.result
}

// ShowingContext reports whether the retrieved context is displayed.
func (v *View) ShowingContext() bool {
	return v.showContext
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset clears the answer and focuses the question input.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.result = nil
	v.showContext = false
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
