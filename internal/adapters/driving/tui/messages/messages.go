// Package messages holds the tea.Msg types exchanged between the TUI views
// and the app model.
package messages

import (
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// ViewType identifies a screen of the TUI.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewAsk
	ViewDocuments
	ViewOrganization
	ViewHelp
)

var viewNames = [...]string{
	ViewMenu:         "menu",
	ViewAsk:          "ask",
	ViewDocuments:    "documents",
	ViewOrganization: "organization",
	ViewHelp:         "help",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewChanged asks the app to switch screens. Views that need an
// organization are redirected to ViewOrganization until one is chosen.
type ViewChanged struct {
	View ViewType
}

// OrganizationChanged scopes every later question and listing to OrgID.
type OrganizationChanged struct {
	OrgID string
}

// QuestionAnswered carries a query result back to the ask view.
type QuestionAnswered struct {
	Result *domain.QueryResult
	Err    error
}

// DocumentsLoaded carries the documents of an organization.
type DocumentsLoaded struct {
	OrgID     string
	Documents []domain.DocumentRecord
	Err       error
}

// DocumentsDeleted carries a deletion report. Result may be set alongside Err.
type DocumentsDeleted struct {
	Result *domain.DeletionResult
	Err    error
}

// ErrorOccurred reports a failure that is not tied to one request.
type ErrorOccurred struct {
	Err error
}

type Quit struct{}
