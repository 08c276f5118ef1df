package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"ricevute/internal/adapters"
	"ricevute/internal/records"
	"ricevute/internal/records/memory"
	"ricevute/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		return f.createMemoryBackend(config)
	case UpstreamBackend:
		return f.createUpstreamBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	seedDir := config.SeedDir
	if seedDir == "" {
		seedDir = "seed"
	}

	store := memory.NewFromFiles(seedDir)

	f.logger.Info("Initialized memory backend", "seed_dir", seedDir)

	return &BackendResult{
		Backend: Backend{Source: store, Sink: store},
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createUpstreamBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite snapshot: %w", err)
	}

	upstream := records.NewUpstreamClient(config.UpstreamAPIURL, nil)
	source := adapters.NewFallbackSource(upstream, repo)

	f.logger.Info("Initialized upstream backend",
		"api_url", config.UpstreamAPIURL,
		"snapshot_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: Backend{Source: source, Sink: upstream},
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized sqlite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: Backend{Source: repo, Sink: overlaySink{logger: f.logger}},
		Cleanup: repo.Close,
	}, nil
}

// overlaySink accepts mutations without forwarding them anywhere. The
// sqlite backend serves a frozen snapshot, so review actions live only
// in the session overlay.
type overlaySink struct {
	logger *slog.Logger
}

func (s overlaySink) UpdateBudget(ctx context.Context, userID string, amount decimal.Decimal) error {
	s.logger.DebugContext(ctx, "Budget update held in session overlay", "user_id", userID, "amount", amount.String())
	return nil
}

func (s overlaySink) ResolveRisk(ctx context.Context, invoiceID string) error {
	s.logger.DebugContext(ctx, "Risk resolution held in session overlay", "invoice_id", invoiceID)
	return nil
}

func (s overlaySink) RecordPayment(ctx context.Context, invoiceID string) error {
	s.logger.DebugContext(ctx, "Payment held in session overlay", "invoice_id", invoiceID)
	return nil
}
