package services

import (
	"fmt"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir         = "storage.data_dir"
	keyLogVerbose      = "log.verbose"
	keyLogFormat       = "log.format"
	keyWatchExtensions = "watch.extensions"
	keyWatchMaxRate    = "watch.max_rate"
	keyMetricsAddr     = "metrics.addr"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyDataDir),
		},
		Log: domain.LogSettings{
			Verbose: s.getBool(keyLogVerbose, defaults.Log.Verbose),
			Format:  s.getLogFormat(defaults.Log.Format),
		},
		Watch: domain.WatchSettings{
			Extensions: s.getStringSlice(keyWatchExtensions, defaults.Watch.Extensions),
			MaxRate:    s.getRate(keyWatchMaxRate, defaults.Watch.MaxRate),
		},
		Metrics: domain.MetricsSettings{
			Addr: s.configStore.GetString(keyMetricsAddr),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save data dir: %w", err)
	}
	if err := s.configStore.Set(keyLogVerbose, settings.Log.Verbose); err != nil {
		return fmt.Errorf("save log verbose: %w", err)
	}
	if err := s.configStore.Set(keyLogFormat, settings.Log.Format.String()); err != nil {
		return fmt.Errorf("save log format: %w", err)
	}
	if err := s.configStore.Set(keyWatchExtensions, settings.Watch.Extensions); err != nil {
		return fmt.Errorf("save watch extensions: %w", err)
	}
	if err := s.configStore.Set(keyWatchMaxRate, settings.Watch.MaxRate); err != nil {
		return fmt.Errorf("save watch max_rate: %w", err)
	}
	if err := s.configStore.Set(keyMetricsAddr, settings.Metrics.Addr); err != nil {
		return fmt.Errorf("save metrics addr: %w", err)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getRate(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getLogFormat(defaultVal domain.LogFormat) domain.LogFormat {
	val := s.configStore.GetString(keyLogFormat)
	if val == "" {
		return defaultVal
	}
	format := domain.LogFormat(val)
	if !format.IsValid() {
		return defaultVal
	}
	return format
}
