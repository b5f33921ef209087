package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Crawl     CrawlConfig
	OpenAI    OpenAIConfig
	Neo4j     Neo4jConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CrawlConfig holds site-crawl configuration
type CrawlConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	ProductPathMarker string        `mapstructure:"product_path_marker"`
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	DataDir           string        `mapstructure:"data_dir"`
}

// OpenAIConfig holds language-model API configuration
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Neo4jConfig holds graph-database connection configuration
type Neo4jConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	URI      string        `mapstructure:"uri"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds conversation-session storage configuration
type SessionConfig struct {
	Backend    string        `mapstructure:"backend"` // "memory" or "redis"
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	PerIP float64 `mapstructure:"per_ip"` // requests per second
	Burst int     `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/snackwise/")

	v.SetEnvPrefix("SNACKWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("crawl.base_url", "https://www.madewithnestle.ca/")
	v.SetDefault("crawl.product_path_marker", "/products/")
	v.SetDefault("crawl.timeout", "10s")
	v.SetDefault("crawl.user_agent", "SnackwiseBot/1.0 (+https://snackwise.example)")
	v.SetDefault("crawl.data_dir", "data/scraped")

	// Secrets default to empty so the keys are visible to Unmarshal when
	// they only arrive through the environment.
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.timeout", "30s")

	v.SetDefault("neo4j.enabled", false)
	v.SetDefault("neo4j.uri", "")
	v.SetDefault("neo4j.user", "")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.timeout", "15s")

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.redis_url", "")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.max_entries", 10000)

	v.SetDefault("ratelimit.per_ip", 5.0)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OpenAI.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required (set SNACKWISE_OPENAI_API_KEY)")
	}

	if config.Crawl.BaseURL == "" {
		return fmt.Errorf("crawl base URL cannot be empty")
	}
	if config.Crawl.ProductPathMarker == "" {
		return fmt.Errorf("crawl product path marker cannot be empty")
	}
	if config.Crawl.Timeout <= 0 {
		return fmt.Errorf("crawl timeout must be positive")
	}

	if config.Session.Backend != "memory" && config.Session.Backend != "redis" {
		return fmt.Errorf("session backend must be 'memory' or 'redis', got: %s", config.Session.Backend)
	}
	if config.Session.Backend == "redis" && config.Session.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when session backend is 'redis'")
	}

	if config.Neo4j.Enabled {
		if config.Neo4j.URI == "" {
			return fmt.Errorf("Neo4j URI is required when the graph mirror is enabled")
		}
		if config.Neo4j.User == "" || config.Neo4j.Password == "" {
			return fmt.Errorf("Neo4j credentials are required when the graph mirror is enabled")
		}
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("rate limit per IP must be positive")
	}

	return nil
}
