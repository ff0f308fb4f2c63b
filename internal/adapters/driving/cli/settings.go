package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// Setting keys accepted by "settings set".
var settingKeys = []string{
	"storage.data_dir",
	"log.verbose",
	"log.format",
	"watch.extensions",
	"watch.max_rate",
	"metrics.addr",
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change storage, logging, watcher and metrics settings.

Settings are stored in the configuration file and take effect on the next run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting.

Keys:
  storage.data_dir   directory of the metadata database
  log.verbose        true or false
  log.format         console or json
  watch.extensions   comma separated list, e.g. .txt,.md,.eml
  watch.max_rate     documents per second, 0 for unlimited
  metrics.addr       listen address for /metrics, empty to disable`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	metricsAddr := settings.Metrics.Addr
	if metricsAddr == "" {
		metricsAddr = "(disabled)"
	}
	rate := strconv.FormatFloat(settings.Watch.MaxRate, 'f', -1, 64) + "/s"
	if settings.Watch.MaxRate == 0 {
		rate = "unlimited"
	}

	cmd.Println(headerStyle.Render("Storage:"))
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Println()
	cmd.Println(headerStyle.Render("Logging:"))
	cmd.Printf("  Verbose: %t\n", settings.Log.Verbose)
	cmd.Printf("  Format: %s\n", settings.Log.Format)
	cmd.Println()
	cmd.Println(headerStyle.Render("Watch:"))
	cmd.Printf("  Extensions: %s\n", strings.Join(settings.Watch.Extensions, ", "))
	cmd.Printf("  Max rate: %s\n", rate)
	cmd.Println()
	cmd.Println(headerStyle.Render("Metrics:"))
	cmd.Printf("  Address: %s\n", metricsAddr)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := applySetting(settings, args[0], args[1]); err != nil {
		return err
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("%s set to %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

// applySetting parses value and writes it into the setting named by key.
func applySetting(s *domain.AppSettings, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "storage.data_dir":
		s.Storage.DataDir = value
	case "log.verbose":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		s.Log.Verbose = v
	case "log.format":
		s.Log.Format = domain.LogFormat(strings.ToLower(value))
	case "watch.extensions":
		var exts []string
		for _, part := range strings.Split(value, ",") {
			if ext := strings.ToLower(strings.TrimSpace(part)); ext != "" {
				exts = append(exts, ext)
			}
		}
		s.Watch.Extensions = exts
	case "watch.max_rate":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		s.Watch.MaxRate = v
	case "metrics.addr":
		s.Metrics.Addr = value
	default:
		return fmt.Errorf("%w: unknown setting %q (valid: %s)",
			domain.ErrInvalidInput, key, strings.Join(settingKeys, ", "))
	}
	return s.Validate()
}
