package backend

import (
	"fmt"

	"ricevute/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:           backendType,
		UpstreamAPIURL: appConfig.UpstreamAPIURL,
		SQLiteDBPath:   appConfig.SQLiteDBPath,
		SeedDir:        appConfig.SeedDir,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case UpstreamBackend:
		if c.UpstreamAPIURL == "" {
			return fmt.Errorf("upstream API URL is required for upstream backend")
		}
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite snapshot path is required for upstream backend")
		}

	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case MemoryBackend:
		// SeedDir defaults to "seed" when empty.
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, UpstreamBackend, SQLiteBackend}
}
