package backend

import (
	"context"
	"path/filepath"
	"testing"

	"ricevute/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:    "upstream",
		UpstreamAPIURL: "https://api.example.com",
		SQLiteDBPath:   "/tmp/snap.db",
		SeedDir:        "./seed",
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != UpstreamBackend {
		t.Errorf("Type = %q, want %q", cfg.Type, UpstreamBackend)
	}
	if cfg.UpstreamAPIURL != appCfg.UpstreamAPIURL {
		t.Errorf("UpstreamAPIURL = %q, want %q", cfg.UpstreamAPIURL, appCfg.UpstreamAPIURL)
	}
}

func TestFromAppConfig_InvalidType(t *testing.T) {
	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Error("expected error for unknown backend type")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory without seed dir", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "/tmp/x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"upstream complete", Config{Type: UpstreamBackend, UpstreamAPIURL: "https://x", SQLiteDBPath: "/tmp/x.db"}, false},
		{"upstream without url", Config{Type: UpstreamBackend, SQLiteDBPath: "/tmp/x.db"}, true},
		{"upstream without snapshot", Config{Type: UpstreamBackend, UpstreamAPIURL: "https://x"}, true},
		{"unknown type", Config{Type: "sheets"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend_Memory(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:    MemoryBackend,
		SeedDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if result.Backend.Source == nil || result.Backend.Sink == nil {
		t.Error("memory backend must provide both source and sink")
	}

	recs, err := result.Backend.Source.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("empty seed dir should yield no records, got %d", len(recs))
	}
}

func TestCreateBackend_SQLite(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "snap.db"),
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	// Mutations against the frozen snapshot succeed without effect.
	if err := result.Backend.Sink.ResolveRisk(context.Background(), "inv-1"); err != nil {
		t.Errorf("ResolveRisk() error = %v", err)
	}
}
