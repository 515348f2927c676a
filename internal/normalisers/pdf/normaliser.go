// Package pdf extracts page text from PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// pageReader is the subset of a parsed PDF the normaliser needs.
type pageReader interface {
	NumPage() int
	PageText(n int) (string, error)
}

// Normaliser extracts plain text from each page of a PDF.
type Normaliser struct {
	open func(content []byte) (pageReader, error)
}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{open: openPDF}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.PDFContentType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise returns one LoadedPage per page with text. Pages without
// extractable text are skipped; a page that fails to decode is logged and
// skipped so one bad page does not lose the whole document.
func (n *Normaliser) Normalise(ctx context.Context, storageName string, content []byte) ([]domain.LoadedPage, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty pdf content", domain.ErrInvalidInput)
	}

	r, err := n.open(content)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf %s: %v", domain.ErrProcessingFailed, storageName, err)
	}

	total := r.NumPage()
	pages := make([]domain.LoadedPage, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := r.PageText(i)
		if err != nil {
			logger.Warn("pdf %s: page %d: %v", storageName, i, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, domain.LoadedPage{
			StorageName: storageName,
			Number:      i,
			Text:        text,
		})
	}

	logger.Debug("pdf %s: %d of %d pages with text", storageName, len(pages), total)
	return pages, nil
}

type ledongthucReader struct {
	r *pdf.Reader
}

func openPDF(content []byte) (pageReader, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	return &ledongthucReader{r: r}, nil
}

func (l *ledongthucReader) NumPage() int {
	return l.r.NumPage()
}

func (l *ledongthucReader) PageText(n int) (string, error) {
	p := l.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range p.Fonts() {
		f := p.Font(name)
		fonts[name] = &f
	}
	return p.GetPlainText(fonts)
}
