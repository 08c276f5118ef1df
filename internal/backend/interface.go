package backend

import (
	"context"

	"ricevute/internal/records"
)

// Backend bundles the record source and mutation sink a deployment
// serves from.
type Backend struct {
	Source records.Source
	Sink   records.MutationSink
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Upstream specific
	UpstreamAPIURL string

	// SQLite snapshot, also used by the upstream backend as fallback
	SQLiteDBPath string

	// Memory backend specific
	SeedDir string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	UpstreamBackend BackendType = "upstream"
	SQLiteBackend   BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, UpstreamBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
