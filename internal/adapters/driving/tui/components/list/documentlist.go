// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// DocumentList displays document records in a navigable list.
type DocumentList struct {
	documents []domain.DocumentRecord
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the document list.
func (l *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the document list.
func (l *DocumentList) View() string {
	if len(l.documents) == 0 {
		return l.styles.Muted.Render("No documents")
	}

	lines := make([]string, 0, len(l.documents)*2+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(l.documents))), "")

	// Each document takes two lines.
	visibleCount := max((l.height-4)/2, 1)

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(l.documents))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderDocument(i, &l.documents[i]))
	}

	if len(l.documents) > visibleCount {
		lines = append(lines, "", l.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(l.documents))))
	}

	return strings.Join(lines, "\n")
}

func (l *DocumentList) renderDocument(index int, doc *domain.DocumentRecord) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := doc.OriginalFilename
	if doc.DisplayName != "" {
		name = doc.DisplayName + " / " + doc.OriginalFilename
	}

	maxNameLen := max(l.width-16, 10)
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	status := doc.Status.String()
	var nameLine string
	if index == l.selected {
		nameLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, status))
	} else {
		nameLine = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
			l.styles.Status(doc.Status).Render(status)
	}

	detail := fmt.Sprintf("    %s  %s", doc.ID, doc.UploadedAt.Format("2006-01-02 15:04"))
	return nameLine + "\n" + l.styles.Muted.Render(detail)
}

// SetDocuments replaces the listed documents and resets the selection.
func (l *DocumentList) SetDocuments(docs []domain.DocumentRecord) {
	l.documents = docs
	l.selected = 0
}

// Documents returns the listed documents.
func (l *DocumentList) Documents() []domain.DocumentRecord {
	return l.documents
}

// Remove drops the documents with the given IDs, keeping the selection in range.
func (l *DocumentList) Remove(ids ...string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := l.documents[:0:0]
	for i := range l.documents {
		if !drop[l.documents[i].ID] {
			kept = append(kept, l.documents[i])
		}
	}
	l.documents = kept
	if l.selected >= len(l.documents) {
		l.selected = max(len(l.documents)-1, 0)
	}
}

// Selected returns the index of the selected document.
func (l *DocumentList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *DocumentList) SetSelected(index int) {
	if index >= 0 && index < len(l.documents) {
		l.selected = index
	}
}

// SelectedDocument returns the selected document, or nil if the list is empty.
func (l *DocumentList) SelectedDocument() *domain.DocumentRecord {
	if len(l.documents) == 0 || l.selected < 0 || l.selected >= len(l.documents) {
		return nil
	}
	return &l.documents[l.selected]
}

// MoveUp moves selection up.
func (l *DocumentList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *DocumentList) MoveDown() {
	if l.selected < len(l.documents)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *DocumentList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of documents.
func (l *DocumentList) Count() int {
	return len(l.documents)
}

// IsEmpty returns whether the list is empty.
func (l *DocumentList) IsEmpty() bool {
	return len(l.documents) == 0
}
