package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/whymaker/chat-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr        string `env:"SERVER_ADDR,notEmpty"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`

	// External service configurations
	SearchConnectorCfg SearchConnectorConfig `envPrefix:"SEARCH_"`
	LLMConnectorCfg    LLMConnectorConfig    `envPrefix:"LLM_"`

	// Credential resolution configuration
	AuthCfg AuthConfig `envPrefix:"AUTH_"`

	// Chat pipeline configuration
	ChatCfg ChatConfig `envPrefix:"CHAT_"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// AuthConfig configures the credential resolver for the document index.
type AuthConfig struct {
	// ServiceAccountJSON is the service principal key material. Left empty,
	// only end-user tokens can authorize index calls.
	ServiceAccountJSON string        `env:"SERVICE_ACCOUNT_JSON"`
	Scope              string        `env:"SCOPE" envDefault:"https://www.googleapis.com/auth/cloud-platform"`
	CookieName         string        `env:"COOKIE_NAME" envDefault:"wm_google_oauth"`
	TokenCacheSkew     time.Duration `env:"TOKEN_CACHE_SKEW" envDefault:"30s"`
}

// SearchConnectorConfig configures the document index connector.
type SearchConnectorConfig struct {
	HTTPClientConfig
	ProjectID             string               `env:"PROJECT_ID"`
	Location              string               `env:"LOCATION" envDefault:"global"`
	EngineID              string               `env:"ENGINE_ID"`
	DataStoreID           string               `env:"DATA_STORE_ID"`
	ServingConfigOverride string               `env:"SERVING_CONFIG"`
	LanguageCode          string               `env:"LANGUAGE_CODE" envDefault:"en-US"`
	PageSize              int                  `env:"PAGE_SIZE" envDefault:"10"`
	TimeZone              string               `env:"TIME_ZONE" envDefault:"UTC"`
	Retry                 pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// HasSearchTarget reports whether at least one serving config can be built.
// A missing target surfaces per request, not at startup, so the service can
// run in mock mode without index configuration.
func (c *SearchConnectorConfig) HasSearchTarget() bool {
	return c.ServingConfigOverride != "" || c.EngineID != "" || c.DataStoreID != ""
}

// LLMConnectorConfig configures the generation service connector.
type LLMConnectorConfig struct {
	APIKey       string `env:"API_KEY,notEmpty"`
	BaseURL      string `env:"BASE_URL"`
	DefaultModel string `env:"DEFAULT_MODEL" envDefault:"gpt-4o-mini"`
	TitleModel   string `env:"TITLE_MODEL" envDefault:"gpt-4.1-nano"`
}

// ChatConfig holds chat pipeline tunables.
type ChatConfig struct {
	// OrgName is appended to expansion queries that do not already mention
	// the organization.
	OrgName string `env:"ORG_NAME" envDefault:"WhyMaker"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`   // 10 MiB per file
	MaxTotalSize  int64 `env:"MAX_TOTAL_SIZE" envDefault:"33554432"`  // 32 MiB per request
	MaxFileCount  int   `env:"MAX_FILE_COUNT" envDefault:"4"`         // files processed per request
	MaxFileChars  int   `env:"MAX_FILE_CHARS" envDefault:"8000"`      // extracted characters per file
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // multipart memory budget
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"20s"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://discoveryengine.googleapis.com/v1alpha"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.SearchConnectorCfg.PageSize < 1 || cfg.SearchConnectorCfg.PageSize > 100 {
		errors = append(errors, fmt.Sprintf("SEARCH_PAGE_SIZE must be between 1 and 100, got %d", cfg.SearchConnectorCfg.PageSize))
	}

	if cfg.FileUploadCfg.MaxFileCount < 1 || cfg.FileUploadCfg.MaxFileCount > 16 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_COUNT must be between 1 and 16, got %d", cfg.FileUploadCfg.MaxFileCount))
	}

	if cfg.FileUploadCfg.MaxFileChars < 1 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_CHARS must be positive, got %d", cfg.FileUploadCfg.MaxFileChars))
	}

	if cfg.FileUploadCfg.MaxFileSize < 1 || cfg.FileUploadCfg.MaxFileSize > cfg.FileUploadCfg.MaxTotalSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be between 1 and MAX_TOTAL_SIZE(%d), got %d", cfg.FileUploadCfg.MaxTotalSize, cfg.FileUploadCfg.MaxFileSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", errors[0])
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
