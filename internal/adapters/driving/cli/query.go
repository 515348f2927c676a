package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var (
	queryOrg         string
	queryDocument    string
	queryTopK        int
	queryJSON        bool
	queryShowContext bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about an organization's documents",
	Long: `Retrieves the passages closest to the question from the organization's
documents and asks the configured model to answer from them only.

Examples:
  ragdesk query --org acme "How many holiday days do employees get?"
  ragdesk query --org acme --document <doc-id> "What is the refund policy?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryOrg, "org", "o", "", "organization ID (required)")
	queryCmd.Flags().StringVarP(&queryDocument, "document", "d", "", "restrict retrieval to one document")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of passages to retrieve (0 = configured default)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output result as JSON")
	queryCmd.Flags().BoolVar(&queryShowContext, "context", false, "print the retrieved passages")
	_ = queryCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	question := strings.Join(args, " ")
	result, err := queryService.QueryWithOptions(cmd.Context(), question, queryOrg, domain.QueryOptions{
		DocumentID: queryDocument,
		TopK:       queryTopK,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return printJSON(cmd, result)
	}

	cmd.Println(result.Answer)
	cmd.Println()
	if len(result.DocumentIDs) > 0 {
		cmd.Printf("Sources (confidence %.2f):\n", result.Confidence)
		for _, id := range result.DocumentIDs {
			cmd.Printf("  %s\n", id)
		}
	}
	if queryShowContext && result.Context != "" {
		cmd.Println("\nContext:")
		cmd.Println(result.Context)
	}
	return nil
}
