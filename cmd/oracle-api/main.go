package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	httpadapter "github.com/PabloGalante/soul-oracle/internal/adapters/http"
	"github.com/PabloGalante/soul-oracle/internal/adapters/llm"
	boltstore "github.com/PabloGalante/soul-oracle/internal/adapters/storage/bolt"
	firestorestore "github.com/PabloGalante/soul-oracle/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/soul-oracle/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/soul-oracle/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/soul-oracle/internal/app/conversation"
	"github.com/PabloGalante/soul-oracle/internal/app/journal"
	"github.com/PabloGalante/soul-oracle/internal/app/persistence"
	"github.com/PabloGalante/soul-oracle/internal/config"
	"github.com/PabloGalante/soul-oracle/internal/domain"
	"github.com/PabloGalante/soul-oracle/internal/observability"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	observability.Configure(os.Stdout, cfg.LogLevel)
	log := observability.Logger()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	llmClient, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Error("error initializing LLM client", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}
	log.Info("llm client ready", "provider", cfg.LLMProvider, "model", cfg.ModelName)

	kv, closeStore, err := newKVStore(ctx, cfg)
	if err != nil {
		log.Error("error initializing storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	log.Info("storage ready", "backend", cfg.StorageBackend)

	store := persistence.NewAdapter(kv)

	// Conversation Session starts on the council.
	chat := conversation.NewSession(llmClient, store, conversation.WithRevealDelay(cfg.CouncilDelay))
	if _, err := chat.Activate(ctx, domain.PersonaCouncil); err != nil {
		log.Error("error activating default persona", "error", err)
		os.Exit(1)
	}

	journalSvc := journal.NewService(llmClient, store, journal.ParseLocale(cfg.Locale))
	journalSvc.Initialize(ctx)

	// HTTP server
	handler := httpadapter.NewServer(chat, journalSvc)

	addr := ":" + cfg.Port
	log.Info("Soul Oracle API listening", "addr", addr, "mode", cfg.Mode)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newGenerator(ctx context.Context, cfg *config.Config) (domain.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			ModelName: cfg.ModelName,
		})
	case config.ProviderVertex:
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			ModelName: cfg.ModelName,
		})
	case config.ProviderMock:
		return llm.NewMockLLM(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// newKVStore opens the configured backend; the returned func releases it.
func newKVStore(ctx context.Context, cfg *config.Config) (domain.KVStore, func(), error) {
	var (
		kv  domain.KVStore
		c   io.Closer
		err error
	)

	switch cfg.StorageBackend {
	case config.StorageBolt:
		var s *boltstore.Store
		s, err = boltstore.Open(cfg.BoltPath())
		kv, c = s, s
	case config.StorageSQLite:
		var s *sqlitestore.Store
		s, err = sqlitestore.Open(cfg.SQLitePath())
		kv, c = s, s
	case config.StorageFirestore:
		var s *firestorestore.Store
		s, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
		kv, c = s, s
	case config.StorageMemory:
		return memstore.NewKVStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, nil, err
	}

	return kv, func() {
		if err := c.Close(); err != nil {
			observability.Logger().Warn("error closing storage", "error", err)
		}
	}, nil
}
