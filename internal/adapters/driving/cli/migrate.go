package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Inspect or roll back the database schema",
	Long: `Pending migrations are applied automatically at startup. Use these
commands to see the current schema version or roll back.`,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [version]",
	Short: "Roll the schema back to a version",
	Long: `Roll the schema back to the given version by running down migrations
in reverse order. Version 0 drops every table. The next start applies the
up migrations again.`,
	Args: cobra.ExactArgs(1),
	RunE: runMigrateDown,
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	if migrator == nil {
		return errors.New("migrator not configured")
	}

	version, err := migrator.SchemaVersion(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	cmd.Printf("Schema version: %d\n", version)
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	if migrator == nil {
		return errors.New("migrator not configured")
	}

	target, err := strconv.Atoi(args[0])
	if err != nil || target < 0 {
		return fmt.Errorf("invalid version %q: must be a non-negative integer", args[0])
	}

	ctx := commandContext(cmd)
	if err := migrator.MigrateDown(ctx, target); err != nil {
		return fmt.Errorf("failed to migrate down: %w", err)
	}

	cmd.Printf("Schema rolled back to version %d\n", target)
	return nil
}
