// Package cli implements the sercha-extract command line interface.
package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-extract/internal/logger"
)

// version is set by main from build flags.
var version = "dev"

// verbose enables debug logging for a single invocation.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sercha-extract",
	Short: "Extract typed field values from documents with regular expressions",
	Long: `sercha-extract stores documents and fills configurable fields from their
text. Each field has a data type and an optional extraction rule: a regular
expression, the capture group to read and an enabled flag. Whenever a
document is ingested every enabled rule runs against its content and the
coerced value is stored for that document and field.

Patterns are matched case-insensitively, with ^ and $ matching at line
breaks and . matching newlines.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Migrator manages the schema version of the metadata store.
type Migrator interface {
	SchemaVersion(ctx context.Context) (int, error)
	MigrateDown(ctx context.Context, target int) error
}

// Services holds everything the commands call into.
// Nil members make the commands that need them fail with a clear error.
type Services struct {
	Field      driving.FieldService
	Document   driving.DocumentService
	Extraction driving.ExtractionService
	Ingest     driving.IngestService
	Settings   driving.SettingsService
	Migrator   Migrator

	// Metrics serves Prometheus metrics for the watch command.
	Metrics http.Handler
}

var (
	fieldService      driving.FieldService
	documentService   driving.DocumentService
	extractionService driving.ExtractionService
	ingestService     driving.IngestService
	settingsService   driving.SettingsService
	migrator          Migrator
	metricsHandler    http.Handler
)

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	fieldService = s.Field
	documentService = s.Document
	extractionService = s.Extraction
	ingestService = s.Ingest
	settingsService = s.Settings
	migrator = s.Migrator
	metricsHandler = s.Metrics
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the context of the running command.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
