package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_NilStore(t *testing.T) {
	settings, err := NewSettingsService(nil).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("storage.data_dir", "/var/lib/extract")
	_ = store.Set("log.verbose", true)
	_ = store.Set("log.format", "json")
	_ = store.Set("watch.extensions", []any{".txt"})
	_ = store.Set("watch.max_rate", int64(3))
	_ = store.Set("metrics.addr", ":9464")

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/extract", settings.Storage.DataDir)
	assert.True(t, settings.Log.Verbose)
	assert.Equal(t, domain.LogFormatJSON, settings.Log.Format)
	assert.Equal(t, []string{".txt"}, settings.Watch.Extensions)
	assert.InDelta(t, 3.0, settings.Watch.MaxRate, 1e-9)
	assert.Equal(t, ":9464", settings.Metrics.Addr)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("log.format", "xml")
	_ = store.Set("watch.max_rate", -5.0)

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Log.Format, settings.Log.Format)
	assert.InDelta(t, defaults.Watch.MaxRate, settings.Watch.MaxRate, 1e-9)
}

func TestSettingsService_Get_ZeroRateDisablesThrottle(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("watch.max_rate", 0.0)

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)
	assert.Zero(t, settings.Watch.MaxRate)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Log.Verbose = true
	settings.Log.Format = domain.LogFormatJSON
	settings.Watch.MaxRate = 2.5
	settings.Metrics.Addr = "127.0.0.1:9464"

	require.NoError(t, service.Save(&settings))

	assert.True(t, store.GetBool("log.verbose"))
	assert.Equal(t, "json", store.GetString("log.format"))
	assert.InDelta(t, 2.5, store.GetFloat("watch.max_rate"), 1e-9)
	assert.Equal(t, "127.0.0.1:9464", store.GetString("metrics.addr"))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *loaded)
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings := domain.DefaultAppSettings()
	settings.Watch.Extensions = []string{"txt"}
	assert.ErrorIs(t, service.Save(&settings), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Save(nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, NewSettingsService(nil).Save(&settings), domain.ErrNotImplemented)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	assert.Equal(t, domain.DefaultAppSettings(), NewSettingsService(nil).GetDefaults())
}
