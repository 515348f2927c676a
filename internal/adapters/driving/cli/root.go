// Package cli provides the cobra command tree for ragdesk.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// annotationNoServices marks commands that run without bootstrapping.
const annotationNoServices = "ragdesk/no-services"

// Services holds the driving ports the commands call into.
type Services struct {
	Ingestion driving.IngestionService
	Query     driving.QueryService
	Deletion  driving.DeletionService
	Document  driving.DocumentService
}

var (
	ingestionService driving.IngestionService
	queryService     driving.QueryService
	deletionService  driving.DeletionService
	documentService  driving.DocumentService

	// app is set when the services were bootstrapped by this package.
	app *App

	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "ragdesk",
	Short: "Ask questions about your organization's PDFs",
	Long: `ragdesk ingests PDF documents per organization, indexes their text
with embeddings, and answers questions from those documents only.

Documents are isolated by organization ID: a question asked for one
organization never sees another organization's content.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.ragdesk/config.toml)")
}

// SetVersion sets the version reported by `ragdesk version`.
func SetVersion(v string) {
	version = v
}

// SetServices injects pre-built services, skipping bootstrap.
func SetServices(s Services) {
	ingestionService = s.Ingestion
	queryService = s.Query
	deletionService = s.Deletion
	documentService = s.Document
}

// Execute runs the root command. Cancelling ctx stops long-running
// commands such as `mcp serve`.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func servicesConfigured() bool {
	return ingestionService != nil || queryService != nil || deletionService != nil || documentService != nil
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if _, ok := cmd.Annotations[annotationNoServices]; ok || servicesConfigured() {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := Bootstrap(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	app = a
	SetServices(a.Services)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	SetServices(Services{})
	return err
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return file.DefaultConfigPath()
}

func loadConfig() (*file.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := file.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
