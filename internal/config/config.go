package config

import (
	"fmt"
	"strings"
	"time"

	"cyoa-server/shared/logger"
	"cyoa-server/shared/utils"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds everything the server and CLI read from the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	HTTPPort string `env:"HTTP_PORT" env-default:"3000"`
	Logger   logger.Config
	Storage  StorageConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	AI       AIConfig
	Image    ImageConfig
	Admin    AdminConfig
	HTTP     HTTPConfig
}

type StorageConfig struct {
	Driver           string        `env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath       string        `env:"SQLITE_PATH" env-default:"./data/cyoa.db"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	DBMaxConns       int32         `env:"DB_MAX_CONNS" env-default:"10"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"10s"`
	TemplateCacheTTL time.Duration `env:"TEMPLATE_CACHE_TTL" env-default:"5m"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" env-default:"0"`
	ScreenCacheTTL time.Duration `env:"SCREEN_CACHE_TTL" env-default:"1h"`
}

type RabbitMQConfig struct {
	URL        string        `env:"RABBITMQ_URL"`
	MaxRetries int           `env:"RABBITMQ_MAX_RETRIES" env-default:"5"`
	RetryDelay time.Duration `env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// AIConfig selects the live text backend. Without a credential for the selected
// provider the service runs in offline mode.
type AIConfig struct {
	Provider          string        `env:"AI_PROVIDER" env-default:"gemini"`
	BaseURL           string        `env:"AI_BASE_URL"`
	GoogleAPIKey      string        `env:"GOOGLE_API_KEY"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" env-default:"60s"`
	MaxRetries        int           `env:"AI_MAX_RETRIES" env-default:"1"`
}

type ImageConfig struct {
	BackendURL    string        `env:"IMAGE_BACKEND_URL"`
	SavePath      string        `env:"IMAGE_SAVE_PATH" env-default:"./data/images"`
	PublicBaseURL string        `env:"IMAGE_PUBLIC_BASE_URL" env-default:"http://localhost:3000/images"`
	Timeout       time.Duration `env:"IMAGE_TIMEOUT" env-default:"60s"`
	RateInterval  time.Duration `env:"IMAGE_RATE_INTERVAL" env-default:"500ms"`
}

type AdminConfig struct {
	User     string `env:"ADMIN_USER" env-default:"admin"`
	Password string `env:"ADMIN_PASS" env-default:"change-me"`
}

type HTTPConfig struct {
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	RateLimitPerMinute uint          `env:"RATE_LIMIT_PER_MINUTE" env-default:"30"`
	ReadTimeout        time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout       time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"150s"`
	IdleTimeout        time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Load reads optional .env files, then the environment, then Docker secrets.
func Load(envFiles ...string) (*Config, error) {
	// Missing .env files are fine.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	cfg.AI.GoogleAPIKey = utils.SecretOrDefault("GOOGLE_API_KEY", cfg.AI.GoogleAPIKey)
	cfg.AI.OpenAIAPIKey = utils.SecretOrDefault("OPENAI_API_KEY", cfg.AI.OpenAIAPIKey)
	cfg.Admin.Password = utils.SecretOrDefault("ADMIN_PASS", cfg.Admin.Password)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage driver %q", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AI.Provider)
	}
	return nil
}

// HasTextCredential reports whether the selected provider can be called at all.
func (c *Config) HasTextCredential() bool {
	switch c.AI.Provider {
	case ProviderGemini:
		return c.AI.GoogleAPIKey != ""
	case ProviderOpenAI:
		return c.AI.OpenAIAPIKey != ""
	case ProviderOllama:
		return c.AI.BaseURL != ""
	}
	return false
}

// AllowedOrigins drops blanks left by trailing commas.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, len(c.HTTP.CORSAllowedOrigins))
	for _, o := range c.HTTP.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
