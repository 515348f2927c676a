// Package status renders the one-line bar at the bottom of the ask and
// documents views.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
)

// State selects the left-hand text and the key hints on the right.
type State string

const (
	StateReady     State = "ready"
	StateAsking    State = "asking"
	StateLoading   State = "loading"
	StateError     State = "error"
	StateAnswered  State = "answered"
	StateDocuments State = "documents"
	StateConfirm   State = "confirm"
)

const defaultWidth = 80

// Bar is a passive component: views push state into it and call View.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	count   int
	width   int
}

// NewBar returns a bar in StateReady. Nil arguments select the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: defaultWidth}
}

func (b *Bar) View() string {
	left, right := b.status(), b.hints()
	gap := max(1, b.width-lipgloss.Width(left)-lipgloss.Width(right))
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

// status renders the left side. A message replaces the default text in the
// ready and documents states.
func (b *Bar) status() string {
	st := b.styles
	switch b.state {
	case StateAsking:
		return st.Muted.Render("Thinking...")
	case StateLoading:
		return st.Muted.Render("Loading...")
	case StateError:
		if b.message == "" {
			return st.Error.Render("Error")
		}
		return st.Error.Render("Error: " + b.message)
	case StateAnswered:
		return st.Normal.Render(plural(b.count, "source"))
	case StateConfirm:
		return st.Warning.Render("Confirm delete")
	case StateDocuments:
		if b.message == "" {
			return st.Normal.Render(plural(b.count, "document"))
		}
	}
	if b.message != "" {
		return st.Normal.Render(b.message)
	}
	return st.Muted.Render("Ready")
}

func (b *Bar) hints() string {
	var bindings []key.Binding
	switch b.state {
	case StateAnswered:
		bindings = b.keymap.AnswerHelp()
	case StateDocuments:
		bindings = b.keymap.DocumentsHelp()
	case StateConfirm:
		bindings = b.keymap.ConfirmHelp()
	default:
		bindings = b.keymap.ShortHelp()
	}

	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		parts[i] = kb.Help().Key + ": " + kb.Help().Desc
	}
	return b.styles.Muted.Render(strings.Join(parts, " | "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func (b *Bar) SetState(state State)  { b.state = state }
func (b *Bar) State() State          { return b.state }
func (b *Bar) SetMessage(msg string) { b.message = msg }
func (b *Bar) Message() string       { return b.message }

// SetCount sets the number of sources or documents reported.
func (b *Bar) SetCount(n int) { b.count = n }
func (b *Bar) Count() int     { return b.count }
func (b *Bar) SetWidth(w int) { b.width = w }
func (b *Bar) Width() int     { return b.width }

// Clear returns the bar to StateReady with no message or count.
func (b *Bar) Clear() {
	b.state, b.message, b.count = StateReady, "", 0
}
