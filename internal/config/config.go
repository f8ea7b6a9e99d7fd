package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	ProviderMock   = "mock"
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
	ProviderOpenAI = "openai"
)

const (
	StorageMemory    = "memory"
	StorageBolt      = "bolt"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"
)

type Config struct {
	Mode Mode

	Port string

	LLMProvider string // "mock", "gemini", "vertex" or "openai"
	ModelName   string // empty = provider default

	GeminiAPIKey string
	GCPProjectID string
	GCPLocation  string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	StorageBackend string // "memory", "bolt", "sqlite" or "firestore"
	DataDir        string

	Locale       string
	CouncilDelay time.Duration
	LogLevel     string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("ORACLE_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultProvider := ProviderMock
	if mode == ModeGCP {
		defaultProvider = ProviderVertex
	}

	return &Config{
		Mode: mode,

		Port: getEnv("ORACLE_PORT", getEnv("PORT", "8080")),

		LLMProvider: getEnv("ORACLE_LLM_PROVIDER", defaultProvider),
		ModelName:   getEnv("ORACLE_MODEL_NAME", ""),

		GeminiAPIKey: getEnv("ORACLE_GEMINI_API_KEY", ""),
		GCPProjectID: getEnv("ORACLE_GCP_PROJECT", ""),
		GCPLocation:  getEnv("ORACLE_GCP_LOCATION", "us-central1"),

		OpenAIAPIKey:  getEnv("ORACLE_OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("ORACLE_OPENAI_BASE_URL", ""),

		StorageBackend: getEnv("ORACLE_STORAGE_BACKEND", StorageMemory),
		DataDir:        getEnv("ORACLE_DATA_DIR", "data"),

		Locale:       getEnv("ORACLE_LOCALE", "zh-TW"),
		CouncilDelay: getDurationEnv("ORACLE_COUNCIL_DELAY", 600*time.Millisecond),
		LogLevel:     getEnv("ORACLE_LOG_LEVEL", "info"),
	}
}

// Validate checks the combinations that would only fail at first use.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderMock:
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("ORACLE_GEMINI_API_KEY must be set for the gemini provider")
		}
	case ProviderVertex:
		if c.GCPProjectID == "" {
			return fmt.Errorf("ORACLE_GCP_PROJECT must be set for the vertex provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("ORACLE_OPENAI_API_KEY must be set for the openai provider")
		}
	default:
		return fmt.Errorf("unknown ORACLE_LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.StorageBackend {
	case StorageMemory, StorageBolt, StorageSQLite:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("ORACLE_GCP_PROJECT must be set for the firestore storage backend")
		}
	default:
		return fmt.Errorf("unknown ORACLE_STORAGE_BACKEND %q", c.StorageBackend)
	}

	// Minimal validation in GCP mode
	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return fmt.Errorf("ORACLE_GCP_PROJECT must be set in gcp mode")
	}

	return nil
}

// BoltPath is where the bolt backend keeps its file.
func (c *Config) BoltPath() string {
	return filepath.Join(c.DataDir, "soul_oracle.db")
}

// SQLitePath is where the sqlite backend keeps its file.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "soul_oracle.sqlite")
}
