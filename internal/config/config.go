package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the assistant.
type Config struct {
	App      AppConfig
	Jira     JiraConfig
	LLM      LLMConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls top level behavior and the serve-mode listener.
type AppConfig struct {
	Name                  string
	Env                   string
	Version               string
	DemoMode              bool
	DryRun                bool
	Host                  string
	Port                  string
	RequestTimeoutSeconds int
}

// JiraConfig holds issue tracker connection values.
type JiraConfig struct {
	BaseURL               string
	Email                 string
	APIToken              string
	JQLAssignee           string
	JQLStatus             string
	MaxResults            int
	RequestTimeoutSeconds int
}

// LLM provider selectors.
const (
	ProviderStub   = "stub"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// LLMConfig selects and configures the text-generation provider.
type LLMConfig struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OllamaBaseURL string
	OllamaModel   string
}

// StorageConfig holds local file locations.
type StorageConfig struct {
	FixturePath  string
	ArtifactsDir string
	SessionFile  string
	CacheFile    string
}

// PostgresConfig holds DB connection values for the action history.
type PostgresConfig struct {
	DSN           string
	MaxConns      int32
	MinConns      int32
	RunMigrations bool
}

// RedisConfig holds Redis connection values for the ticket cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Output string
}

// AuthConfig defines serve-mode token parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderStub))
	switch provider {
	case ProviderStub, ProviderOpenAI, ProviderOllama:
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q", provider)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-assistant"),
			Env:                   getEnv("APP_ENV", "development"),
			Version:               getEnv("APP_VERSION", "dev"),
			DemoMode:              getEnvAsBool("DEMO_MODE", true),
			DryRun:                getEnvAsBool("DRY_RUN", true),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "8080"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Jira: JiraConfig{
			BaseURL:               strings.TrimRight(os.Getenv("JIRA_BASE_URL"), "/"),
			Email:                 os.Getenv("JIRA_EMAIL"),
			APIToken:              os.Getenv("JIRA_API_TOKEN"),
			JQLAssignee:           getEnv("JIRA_JQL_ASSIGNEE", "assignee = currentUser()"),
			JQLStatus:             getEnv("JIRA_JQL_STATUS", `status in ("To Do","In Progress","Selected for Development")`),
			MaxResults:            getEnvAsInt("JIRA_MAX_RESULTS", 50),
			RequestTimeoutSeconds: getEnvAsInt("JIRA_REQUEST_TIMEOUT_SECONDS", 20),
		},
		LLM: LLMConfig{
			Provider:      provider,
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
			OllamaBaseURL: strings.TrimRight(getEnv("OLLAMA_BASE_URL", "http://localhost:11434"), "/"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llama3.1"),
		},
		Storage: StorageConfig{
			FixturePath:  getEnv("FIXTURE_PATH", "fixtures/sample_tickets.json"),
			ArtifactsDir: getEnv("ARTIFACTS_DIR", "artifacts"),
			SessionFile:  getEnv("SESSION_FILE", ".pta_session.json"),
			CacheFile:    getEnv("TICKET_CACHE_FILE", ".ticket_cache.json"),
		},
		Postgres: PostgresConfig{
			DSN:           os.Getenv("POSTGRES_DSN"),
			MaxConns:      int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:      int32(getEnvAsInt("POSTGRES_MIN_CONNS", 0)),
			RunMigrations: getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stderr"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RequestTimeout returns the fixed per-request deadline for tracker calls.
func (j JiraConfig) RequestTimeout() time.Duration {
	if j.RequestTimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(j.RequestTimeoutSeconds) * time.Second
}

// Remote reports whether a tracker endpoint is configured.
func (j JiraConfig) Remote() bool {
	return j.BaseURL != ""
}

// JQL joins the assignee and status filters.
func (j JiraConfig) JQL() string {
	return fmt.Sprintf("%s AND %s", j.JQLAssignee, j.JQLStatus)
}

// UseFixture reports whether tickets come from the local fixture instead of the tracker.
func (c *Config) UseFixture() bool {
	return c.App.DemoMode || !c.Jira.Remote()
}

// SimulateWrites reports whether remote side effects must be logged instead of executed.
func (c *Config) SimulateWrites() bool {
	return c.App.DemoMode || c.App.DryRun || !c.Jira.Remote()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return fallback
}
