package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var (
	ingestOrg  string
	ingestName string
	ingestJSON bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf...]",
	Short: "Upload PDFs for an organization",
	Long: `Stores each PDF, records it for the organization, and indexes its text
so it can be queried. Files that fail validation are reported and skipped;
the rest are still ingested.

Examples:
  ragdesk ingest --org acme handbook.pdf pricing.pdf
  ragdesk ingest --org acme --name "Q3 reports" reports/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOrg, "org", "o", "", "organization ID (required)")
	ingestCmd.Flags().StringVarP(&ingestName, "name", "n", "", "display name for this upload")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output result as JSON")
	_ = ingestCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	files := make([]domain.UploadedFile, 0, len(args))
	for _, path := range args {
		f, err := readUpload(path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	result, err := ingestionService.Ingest(cmd.Context(), files, ingestOrg, ingestName)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if ingestJSON {
		if err := printJSON(cmd, result); err != nil {
			return err
		}
	} else {
		printUploadResult(cmd, result)
	}

	if !result.Success {
		return fmt.Errorf("%w: %d error(s) during ingestion", domain.ErrProcessingFailed, len(result.Errors))
	}
	return nil
}

// readUpload reads a local file as an upload. The content type comes from
// the extension; the ingestion pipeline rejects anything that is not a PDF.
func readUpload(path string) (domain.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	contentType := "application/octet-stream"
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		contentType = domain.PDFContentType
	}

	return domain.UploadedFile{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Content:     data,
	}, nil
}

func printUploadResult(cmd *cobra.Command, r *domain.UploadResult) {
	cmd.Printf("%s\n\n", r.Message)
	cmd.Printf("  Files:   %d\n", r.FilesUploaded)
	cmd.Printf("  Pages:   %d\n", r.PagesProcessed)
	cmd.Printf("  Chunks:  %d\n", r.ChunksProcessed)
	cmd.Printf("  Elapsed: %s\n", r.Elapsed.Round(time.Millisecond))

	if len(r.DocumentIDs) > 0 {
		cmd.Println("\n  Documents:")
		for _, id := range r.DocumentIDs {
			cmd.Printf("    %s\n", id)
		}
	}
	if len(r.Errors) > 0 {
		cmd.Println("\n  Errors:")
		for _, e := range r.Errors {
			cmd.Printf("    %s\n", e.Error())
		}
	}
}
