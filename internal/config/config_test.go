package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"ORACLE_MODE", "ORACLE_PORT", "PORT", "ORACLE_LLM_PROVIDER", "ORACLE_STORAGE_BACKEND",
		"ORACLE_DATA_DIR", "ORACLE_LOCALE", "ORACLE_COUNCIL_DELAY", "ORACLE_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Mode != ModeLocal {
		t.Fatalf("expected local mode, got %q", cfg.Mode)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.LLMProvider != ProviderMock {
		t.Fatalf("expected mock provider, got %q", cfg.LLMProvider)
	}
	if cfg.StorageBackend != StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.StorageBackend)
	}
	if cfg.CouncilDelay != 600*time.Millisecond {
		t.Fatalf("expected 600ms council delay, got %v", cfg.CouncilDelay)
	}
	if cfg.Locale != "zh-TW" {
		t.Fatalf("expected zh-TW locale, got %q", cfg.Locale)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadGCPModeDefaultsToVertex(t *testing.T) {
	t.Setenv("ORACLE_MODE", "gcp")
	t.Setenv("ORACLE_LLM_PROVIDER", "")
	t.Setenv("ORACLE_GCP_PROJECT", "")

	cfg := Load()
	if cfg.LLMProvider != ProviderVertex {
		t.Fatalf("expected vertex provider in gcp mode, got %q", cfg.LLMProvider)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without a GCP project")
	}

	t.Setenv("ORACLE_GCP_PROJECT", "demo")
	if err := Load().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCouncilDelayOverride(t *testing.T) {
	t.Setenv("ORACLE_COUNCIL_DELAY", "0s")
	if d := Load().CouncilDelay; d != 0 {
		t.Fatalf("expected 0 delay, got %v", d)
	}

	t.Setenv("ORACLE_COUNCIL_DELAY", "soon")
	if d := Load().CouncilDelay; d != 600*time.Millisecond {
		t.Fatalf("invalid duration should fall back, got %v", d)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "mock memory", cfg: Config{Mode: ModeLocal, LLMProvider: ProviderMock, StorageBackend: StorageMemory}},
		{name: "gemini with key", cfg: Config{Mode: ModeLocal, LLMProvider: ProviderGemini, GeminiAPIKey: "k", StorageBackend: StorageBolt}},
		{name: "gemini without key", cfg: Config{Mode: ModeLocal, LLMProvider: ProviderGemini, StorageBackend: StorageMemory}, wantErr: true},
		{name: "openai without key", cfg: Config{Mode: ModeLocal, LLMProvider: ProviderOpenAI, StorageBackend: StorageMemory}, wantErr: true},
		{name: "unknown provider", cfg: Config{Mode: ModeLocal, LLMProvider: "oracle-bones", StorageBackend: StorageMemory}, wantErr: true},
		{name: "unknown storage", cfg: Config{Mode: ModeLocal, LLMProvider: ProviderMock, StorageBackend: "tape"}, wantErr: true},
		{name: "firestore without project", cfg: Config{Mode: ModeLocal, LLMProvider: ProviderMock, StorageBackend: StorageFirestore}, wantErr: true},
		{name: "sqlite", cfg: Config{Mode: ModeLocal, LLMProvider: ProviderMock, StorageBackend: StorageSQLite}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDataPaths(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/oracle"}
	if got := cfg.BoltPath(); got != filepath.Join("/var/lib/oracle", "soul_oracle.db") {
		t.Fatalf("unexpected bolt path %q", got)
	}
	if got := cfg.SQLitePath(); got != filepath.Join("/var/lib/oracle", "soul_oracle.sqlite") {
		t.Fatalf("unexpected sqlite path %q", got)
	}
}
