package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driven"
	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyTablePageSize  = "table.page_size"
	keyStorageBackend = "storage.backend"
	keyAPIURL         = "api.url"
	keyAPIToken       = "api.token"
	keyAPIRate        = "api.requests_per_second"
	keyAPITimeout     = "api.timeout_seconds"
)

var settingKeys = []string{
	keyTablePageSize,
	keyStorageBackend,
	keyAPIURL,
	keyAPIToken,
	keyAPIRate,
	keyAPITimeout,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid stored values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, errors.New("config store not configured")
	}

	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Table: domain.TableSettings{
			PageSize: s.getPageSize(defaults.Table.PageSize),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
		},
		API: domain.APISettings{
			URL:               s.configStore.GetString(keyAPIURL),
			Token:             s.configStore.GetString(keyAPIToken),
			RequestsPerSecond: s.getPositiveFloat(keyAPIRate, defaults.API.RequestsPerSecond),
			TimeoutSeconds:    s.getPositiveInt(keyAPITimeout, defaults.API.TimeoutSeconds),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return errors.New("config store not configured")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyTablePageSize, settings.Table.PageSize); err != nil {
		return fmt.Errorf("save page size: %w", err)
	}
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(keyAPIURL, settings.API.URL); err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	if settings.API.Token != "" {
		if err := s.configStore.Set(keyAPIToken, settings.API.Token); err != nil {
			return fmt.Errorf("save api token: %w", err)
		}
	} else if err := s.configStore.Delete(keyAPIToken); err != nil {
		return fmt.Errorf("clear api token: %w", err)
	}
	if err := s.configStore.Set(keyAPIRate, settings.API.RequestsPerSecond); err != nil {
		return fmt.Errorf("save api rate: %w", err)
	}
	if err := s.configStore.Set(keyAPITimeout, settings.API.TimeoutSeconds); err != nil {
		return fmt.Errorf("save api timeout: %w", err)
	}

	return s.configStore.Save()
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyTablePageSize:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Table.PageSize = n
	case keyStorageBackend:
		settings.Storage.Backend = domain.StorageBackend(value)
	case keyAPIURL:
		settings.API.URL = value
	case keyAPIToken:
		settings.API.Token = value
	case keyAPIRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.API.RequestsPerSecond = f
	case keyAPITimeout:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.API.TimeoutSeconds = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns the settable config keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getPageSize(defaultVal int) int {
	n := s.configStore.GetInt(keyTablePageSize)
	for _, opt := range domain.PageSizeOptions {
		if n == opt {
			return n
		}
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	b := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if b.IsValid() {
		return b
	}
	return defaultVal
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	if f := s.configStore.GetFloat(key); f > 0 {
		return f
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if n := s.configStore.GetInt(key); n > 0 {
		return n
	}
	return defaultVal
}
