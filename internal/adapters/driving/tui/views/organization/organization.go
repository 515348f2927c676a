// Package organization provides the view that picks the active organization.
package organization

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
)

// View prompts for an organization ID.
type View struct {
	styles *styles.Styles
	input  *input.Field
	width  int
	ready  bool
}

// NewView creates a new organization view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		input:  input.NewOrganizationInput(s),
		width:  80,
	}
}

// Init focuses the input.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// SetOrganization pre-fills the input with the current organization.
func (v *View) SetOrganization(orgID string) {
	v.input.SetValue(orgID)
}

// Update handles messages for the organization view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type { //nolint:exhaustive // only submit and cancel are handled here
		case tea.KeyEsc:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case tea.KeyEnter:
			orgID := strings.TrimSpace(v.input.Value())
			if orgID == "" {
				return v, nil
			}
			return v, func() tea.Msg {
				return messages.OrganizationChanged{OrgID: orgID}
			}
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the prompt.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Organization"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Questions and document lists only see this organization's documents."))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] select  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
	v.ready = true
	v.input.SetWidth(width)
}

// Value returns the typed organization ID.
func (v *View) Value() string {
	return v.input.Value()
}
