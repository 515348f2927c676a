// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Entries with NeedsOrg are shown dimmed until an
// organization is selected.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	NeedsOrg    bool
	Quit        bool
}

// DefaultItems returns the entries of the main menu.
func DefaultItems() []Item {
	return []Item{
		{Label: "Ask a question", Description: "Answer from the organization's PDFs", View: messages.ViewAsk, NeedsOrg: true},
		{Label: "Documents", Description: "Browse and delete ingested documents", View: messages.ViewDocuments, NeedsOrg: true},
		{Label: "Switch organization", Description: "Choose which organization to work in", View: messages.ViewOrganization},
		{Label: "Help", View: messages.ViewHelp},
		{Label: "Quit", Quit: true},
	}
}

// View is the main menu.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	items  []Item
	orgID  string
	cursor int
	width  int
	height int
	ready  bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		items:  DefaultItems(),
		width:  80,
		height: 24,
	}
}

// Init implements the view lifecycle. The menu has nothing to start.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}
	return v, nil
}

func (v *View) handleKey(k string) tea.Cmd {
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.cursor = max(v.cursor-1, 0)
	case keymap.Matches(k, v.keymap.Down):
		v.cursor = min(v.cursor+1, len(v.items)-1)
	case keymap.Matches(k, v.keymap.Help):
		return changeView(messages.ViewHelp)
	case keymap.Matches(k, v.keymap.Quit):
		return tea.Quit
	case keymap.Matches(k, v.keymap.Select):
		item := v.items[v.cursor]
		if item.Quit {
			return tea.Quit
		}
		return changeView(item.View)
	}
	return nil
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("ragdesk"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Questions answered from your organization's PDFs"))
	b.WriteString("\n")
	if v.orgID == "" {
		b.WriteString(v.styles.Warning.Render("No organization selected"))
	} else {
		b.WriteString(v.styles.Subtitle.Render("Organization: " + v.orgID))
	}
	b.WriteString("\n\n")

	for i, item := range v.items {
		b.WriteString(v.renderItem(i, item))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [?] Help  [q] Quit"))
	return b.String()
}

func (v *View) renderItem(i int, item Item) string {
	cursor, style := "  ", v.styles.MenuItem
	if i == v.cursor {
		cursor, style = "> ", v.styles.MenuActive
	}
	if item.NeedsOrg && v.orgID == "" {
		style = v.styles.Muted
	}

	line := cursor + style.Render(item.Label)
	if item.Description != "" && i == v.cursor {
		line += "  " + v.styles.Muted.Render(item.Description)
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// SetOrganization sets the organization shown in the header.
func (v *View) SetOrganization(orgID string) {
	v.orgID = orgID
}

// Selected returns the index under the cursor.
func (v *View) Selected() int {
	return v.cursor
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}
