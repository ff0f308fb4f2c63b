package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-extract/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Consume files from a directory and keep watching it",
	Long: `Consume every matching file under a directory, then keep watching it and
consume files as they are created or modified. Each consumed file runs field
extraction. Hidden files and directories are skipped. Deleting a file leaves
its document and values in place.

Extensions and the ingest rate come from the watch settings.

Examples:
  sercha-extract watch ~/invoices
  sercha-extract watch ~/invoices --metrics-addr :9090
  sercha-extract watch ~/invoices --once`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	watchCmd.Flags().Bool("no-initial-sync", false, "Skip consuming existing files")
	watchCmd.Flags().Bool("once", false, "Consume existing files and exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn := filesystem.New(root, settings.Watch)
	defer conn.Close()
	if err := conn.Validate(ctx); err != nil {
		return err
	}

	flags := cmd.Flags()
	addr, _ := flags.GetString("metrics-addr")
	if addr == "" {
		addr = settings.Metrics.Addr
	}
	if addr != "" {
		if err := serveMetrics(ctx, addr); err != nil {
			return err
		}
		cmd.Printf("Metrics on http://%s/metrics\n", addr)
	}

	noSync, _ := flags.GetBool("no-initial-sync")
	once, _ := flags.GetBool("once")

	if !noSync {
		n, failed, err := initialSync(ctx, conn)
		if err != nil {
			return fmt.Errorf("initial sync failed: %w", err)
		}
		cmd.Printf("Consumed %d files from %s (%d failed)\n", n, root, failed)
	}
	if once {
		return nil
	}

	changes, err := conn.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch: %w", err)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", root)
	stats := ingestService.Consume(ctx, changes)
	cmd.Printf("\nStopped: %d consumed, %d skipped, %d failed\n", stats.Ingested, stats.Skipped, stats.Failed)
	return nil
}

// initialSync consumes every document the connector lists.
// Documents that fail to ingest are logged and counted.
func initialSync(ctx context.Context, conn driven.Connector) (ingested, failed int, err error) {
	docs, errs := conn.FullSync(ctx)
	for docs != nil || errs != nil {
		select {
		case raw, ok := <-docs:
			if !ok {
				docs = nil
				continue
			}
			if _, ierr := ingestService.IngestRaw(ctx, &raw); ierr != nil {
				logger.Warnw("ingest failed", "uri", raw.URI, "error", ierr)
				failed++
				continue
			}
			ingested++
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if e != nil && err == nil {
				err = e
			}
		}
	}
	return ingested, failed, err
}

// serveMetrics starts the metrics endpoint and stops it when ctx is done.
func serveMetrics(ctx context.Context, addr string) error {
	if metricsHandler == nil {
		return errors.New("metrics not configured")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("metrics server failed", "addr", addr, "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	return nil
}
