// Command sercha-extract extracts typed field values from documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driven/metrics"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-extract/internal/core/services"
	"github.com/custodia-labs/sercha-extract/internal/logger"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/eml"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/markdown"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/pdf"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/plaintext"
)

// Version is injected at build time.
var Version = "dev"

// configDirEnv overrides the configuration directory.
const configDirEnv = "SERCHA_EXTRACT_CONFIG_DIR"

func main() {
	runMain(os.Exit)
}

func runMain(exit func(int)) {
	if err := run(context.Background()); err != nil {
		exit(1)
	}
}

func run(ctx context.Context) error {
	app, err := newApp(os.Getenv(configDirEnv))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	defer app.Close()

	cli.SetVersion(Version)
	cli.SetServices(app.services)
	return cli.ExecuteContext(ctx)
}

// app owns the long-lived resources behind the CLI services.
type app struct {
	store    *sqlite.Store
	services cli.Services
}

// newApp loads settings, configures logging, opens the store and wires the
// services together. An empty configDir selects the default location.
func newApp(configDir string) (*app, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	logger.SetFormat(settings.Log.Format.String())
	logger.SetVerbose(settings.Log.Verbose)

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debugw("store opened", "path", store.Path())

	observer := metrics.NewObserver()
	extraction := services.NewExtractionService(
		store.FieldStore(),
		store.FieldValueStore(),
		services.WithObserver(observer),
		services.WithDocumentStore(store.DocumentStore()),
	)
	documents := services.NewDocumentService(store.DocumentStore(), extraction)
	registry := services.NewNormaliserRegistry(plaintext.New(), markdown.New(), eml.New(), pdf.New())

	return &app{
		store: store,
		services: cli.Services{
			Field:      services.NewFieldService(store.FieldStore()),
			Document:   documents,
			Extraction: extraction,
			Ingest:     services.NewIngestService(registry, documents),
			Settings:   settingsService,
			Migrator:   store,
			Metrics:    observer.Handler(),
		},
	}, nil
}

// Close releases the store and flushes buffered log output.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warnw("closing store", "error", err)
	}
	logger.Sync()
}
