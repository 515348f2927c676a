// Package documents provides the document list view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

var (
	errNoDocumentService = errors.New("document service not available")
	errNoDeletionService = errors.New("deletion service not available")
)

// View lists an organization's documents and deletes them on request.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	list            *list.DocumentList
	statusbar       *status.Bar
	documentService driving.DocumentService
	deletionService driving.DeletionService
	ctx             context.Context

	orgID      string
	confirming bool
	loading    bool
	err        error
	width      int
	height     int
	ready      bool
}

// NewView creates a new documents view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	documentService driving.DocumentService,
	deletionService driving.DeletionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	bar := status.NewBar(s, km)
	bar.SetState(status.StateDocuments)

	return &View{
		styles:          s,
		keymap:          km,
		list:            list.NewDocumentList(s),
		statusbar:       bar,
		documentService: documentService,
		deletionService: deletionService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetOrganization switches the view to orgID and loads its documents.
func (v *View) SetOrganization(orgID string) tea.Cmd {
	v.orgID = orgID
	v.list.SetDocuments(nil)
	v.confirming = false
	v.err = nil
	return v.Load()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load returns a command that loads the organization's documents.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.statusbar.SetState(status.StateLoading)
	orgID := v.orgID
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{OrgID: orgID, Err: errNoDocumentService}
		}
		docs, err := v.documentService.ListByOrganization(v.ctx, orgID)
		return messages.DocumentsLoaded{OrgID: orgID, Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		if msg.OrgID != v.orgID {
			// A late reply for a previous organization.
			return v, nil
		}
		v.loading = false
		v.statusbar.SetState(status.StateDocuments)
		v.statusbar.SetMessage("")
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.list.SetDocuments(msg.Documents)
		v.statusbar.SetCount(len(msg.Documents))
		return v, nil

	case messages.DocumentsDeleted:
		if msg.Result != nil {
			v.list.Remove(msg.Result.DeletedIDs...)
			v.statusbar.SetCount(v.list.Count())
			v.statusbar.SetMessage(msg.Result.Message)
		}
		v.err = msg.Err
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Up), keymap.Matches(msg.String(), v.keymap.Down):
		v.list, _ = v.list.Update(msg)
	case keymap.Matches(msg.String(), v.keymap.Reload):
		return v, v.Load()
	case keymap.Matches(msg.String(), v.keymap.Delete):
		if v.list.SelectedDocument() != nil {
			v.confirming = true
			v.statusbar.SetState(status.StateConfirm)
		}
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Confirm):
		v.confirming = false
		v.statusbar.SetState(status.StateDocuments)
		doc := v.list.SelectedDocument()
		if doc == nil {
			return v, nil
		}
		return v, v.deleteDocument(doc.ID)
	case keymap.Matches(msg.String(), v.keymap.Deny):
		v.confirming = false
		v.statusbar.SetState(status.StateDocuments)
	}
	return v, nil
}

// deleteDocument returns a command that deletes one document.
func (v *View) deleteDocument(id string) tea.Cmd {
	return func() tea.Msg {
		if v.deletionService == nil {
			return messages.DocumentsDeleted{Err: errNoDeletionService}
		}
		result, err := v.deletionService.DeleteDocuments(v.ctx, []string{id})
		return messages.DocumentsDeleted{Result: result, Err: err}
	}
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents - " + v.orgID))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.confirming:
		doc := v.list.SelectedDocument()
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf(
			"Delete %s (%s) with its file and embeddings? [y/n]", doc.OriginalFilename, doc.ID)))
	default:
		if v.err != nil {
			b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
			b.WriteString("\n\n")
		}
		if v.list.IsEmpty() && v.err == nil {
			b.WriteString(v.styles.Muted.Render("No documents ingested for this organization."))
		} else {
			b.WriteString(v.list.View())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// Organization returns the organization being listed.
func (v *View) Organization() string {
	return v.orgID
}

// Documents returns the listed documents.
func (v *View) Documents() []domain.DocumentRecord {
	return v.list.Documents()
}

// SelectedDocument returns the selected document, or nil.
func (v *View) SelectedDocument() *domain.DocumentRecord {
	return v.list.SelectedDocument()
}

// Confirming reports whether a delete confirmation is pending.
func (v *View) Confirming() bool {
	return v.confirming
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
