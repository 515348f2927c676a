package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/organization"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView         *menu.View
	askView          *ask.View
	documentsView    *documents.View
	organizationView *organization.View

	// orgID scopes every question and document list.
	orgID string

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:            ports,
		ctx:              context.Background(),
		styles:           s,
		menuView:         menu.NewView(s, km),
		askView:          ask.NewView(s, km, ports.Query),
		documentsView:    documents.NewView(s, km, ports.Document, ports.Deletion),
		organizationView: organization.NewView(s),
		currentView:      messages.ViewMenu,
	}, nil
}

// WithContext sets the context used by every service call.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	return a
}

// WithOrganization preselects the organization.
func (a *App) WithOrganization(orgID string) *App {
	a.setOrganization(orgID)
	return a
}

func (a *App) setOrganization(orgID string) {
	a.orgID = orgID
	a.menuView.SetOrganization(orgID)
	a.askView.SetOrganization(orgID)
	a.organizationView.SetOrganization(orgID)
}

// Init implements tea.Model. Without an organization the app opens on the
// organization prompt.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("ragdesk"),
	}
	if a.orgID == "" {
		cmds = append(cmds, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewOrganization}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forwardKey(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.OrganizationChanged:
		a.setOrganization(msg.OrgID)
		a.askView.Reset()
		a.currentView = messages.ViewMenu
		return a, nil

	case messages.QuestionAnswered:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentsDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.err = a.documentsView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewAsk:
			a.askView, cmd = a.askView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewMenu, messages.ViewOrganization, messages.ViewHelp:
			// Other views don't display errors
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink and the like) to the active view
	switch a.currentView {
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewOrganization:
		a.organizationView, cmd = a.organizationView.Update(msg)
	case messages.ViewMenu, messages.ViewDocuments, messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewOrganization:
		a.organizationView, cmd = a.organizationView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// switchView activates view. Views that need an organization redirect to
// the organization prompt until one is chosen.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	if a.orgID == "" && (view == messages.ViewAsk || view == messages.ViewDocuments) {
		view = messages.ViewOrganization
	}
	a.currentView = view

	switch view {
	case messages.ViewAsk:
		a.askView.Reset()
		return a.askView.Init()
	case messages.ViewDocuments:
		return a.documentsView.SetOrganization(a.orgID)
	case messages.ViewOrganization:
		a.organizationView.SetOrganization(a.orgID)
		return a.organizationView.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewOrganization:
		return a.organizationView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Ask:
  (type)      Enter a question
  enter       Ask
  n           New question
  c           Show or hide the retrieved context

Documents:
  j/k, ↑/↓    Navigate documents
  d           Delete the selected document
  r           Reload

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Organization returns the active organization.
func (a *App) Organization() string {
	return a.orgID
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.organizationView.SetDimensions(width, height)
}
