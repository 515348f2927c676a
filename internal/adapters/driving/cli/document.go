package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, view, or delete the documents ingested for an organization.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [org-id]",
	Short: "List documents for an organization",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id...]",
	Short: "Delete documents, their files and embeddings",
	Long: `Removes each document record, its uploaded file and every embedding
tagged with its ID. The three stores are not transactional, so the report
lists what was removed from each and every failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocumentDelete,
}

var documentJSON bool

func init() {
	documentCmd.PersistentFlags().BoolVar(&documentJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	orgID := args[0]
	docs, err := documentService.ListByOrganization(cmd.Context(), orgID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found for organization: %s\n", orgID)
		return nil
	}

	cmd.Printf("Documents for organization %s:\n\n", orgID)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:     %s\n", docs[i].OriginalFilename)
		if docs[i].DisplayName != "" {
			cmd.Printf("    Name:     %s\n", docs[i].DisplayName)
		}
		cmd.Printf("    Status:   %s\n", docs[i].Status)
		cmd.Printf("    Uploaded: %s\n", docs[i].UploadedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if documentJSON {
		return printJSON(cmd, doc)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Organization: %s\n", doc.OrganizationID)
	cmd.Printf("  File:         %s\n", doc.OriginalFilename)
	cmd.Printf("  Name:         %s\n", doc.DisplayName)
	cmd.Printf("  Stored as:    %s\n", doc.StoragePath)
	cmd.Printf("  Size:         %d bytes\n", doc.FileSizeBytes)
	cmd.Printf("  Status:       %s\n", doc.Status)
	cmd.Printf("  Uploaded:     %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if deletionService == nil {
		return errors.New("deletion service not configured")
	}

	result, err := deletionService.DeleteDocuments(cmd.Context(), args)
	if result != nil {
		if documentJSON {
			if jerr := printJSON(cmd, result); jerr != nil {
				return jerr
			}
		} else {
			printDeletionResult(cmd, result)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	if result.Outcome() == domain.DeletionFailed {
		return fmt.Errorf("%w: no documents were deleted", domain.ErrPartialFailure)
	}
	return nil
}

func printDeletionResult(cmd *cobra.Command, r *domain.DeletionResult) {
	cmd.Printf("Deletion %s: %s\n\n", r.Outcome(), r.Message)
	cmd.Printf("  Requested:  %d\n", r.DocumentsRequested)
	cmd.Printf("  Found:      %d\n", r.DocumentsFound)
	cmd.Printf("  Removed:    %d\n", r.DocumentsDeletedFromStore)
	cmd.Printf("  Files:      %d\n", r.FilesDeleted)
	cmd.Printf("  Embeddings: %d\n", r.EmbeddingsDeleted)

	if len(r.Errors.InvalidIDs) > 0 {
		cmd.Println("\n  Invalid IDs:")
		for _, id := range r.Errors.InvalidIDs {
			cmd.Printf("    %s\n", id)
		}
	}
	printItemErrors(cmd, "File errors", r.Errors.FileDeletionErrors)
	printItemErrors(cmd, "Vector index errors", r.Errors.VectorStoreDeletionErrors)
}

func printItemErrors(cmd *cobra.Command, title string, errs []domain.ItemError) {
	if len(errs) == 0 {
		return
	}
	cmd.Printf("\n  %s:\n", title)
	for _, e := range errs {
		cmd.Printf("    %s: %s\n", e.DocumentID, e.Message)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
