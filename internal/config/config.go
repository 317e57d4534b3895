// Package config turns viper settings into the typed configuration used by the service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/common"
)

// Supported values for driver and provider settings.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// DefaultFallbackSlug is the vertical used when a match cannot be validated.
const DefaultFallbackSlug = "professional-services"

// Config holds the complete service configuration.
type Config struct {
	Logging  LoggingConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Server   ServerConfig
	Matcher  MatcherConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// DatabaseConfig selects and locates the industry catalog.
type DatabaseConfig struct {
	Driver string
	Path   string
	DSN    string
}

// LLMConfig configures the classification provider.
type LLMConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	RateLimit   int
}

// MatcherConfig configures the industry matcher.
type MatcherConfig struct {
	FallbackSlug         string
	Timeout              time.Duration
	MaxDescriptionLength int
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 64<<10)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "$HOME/.local/share/journ3y/journ3y.db")

	v.SetDefault("llm.provider", ProviderAnthropic)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 500)
	v.SetDefault("llm.rate_limit", 120)

	v.SetDefault("matcher.fallback_slug", DefaultFallbackSlug)
	v.SetDefault("matcher.timeout", 20*time.Second)
	v.SetDefault("matcher.max_description_length", 2000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from v. Defaults must already be registered.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			CORSOrigins:     v.GetStringSlice("server.cors_origins"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			MaxBodyBytes:    v.GetInt64("server.max_body_bytes"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("database.driver")),
			Path:   ExpandPath(v.GetString("database.path")),
			DSN:    v.GetString("database.dsn"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			APIKey:      v.GetString("llm.api_key"),
			Model:       v.GetString("llm.model"),
			BaseURL:     v.GetString("llm.base_url"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			RateLimit:   v.GetInt("llm.rate_limit"),
		},
		Matcher: MatcherConfig{
			FallbackSlug:         v.GetString("matcher.fallback_slug"),
			Timeout:              v.GetDuration("matcher.timeout"),
			MaxDescriptionLength: v.GetInt("matcher.max_description_length"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	// Provider credentials may come from the vendor's conventional variable.
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case ProviderAnthropic:
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case ProviderGemini:
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
// A missing API key is not an error here: the matcher reports it per request.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported database driver %q", common.ErrInvalidConfig, c.Database.Driver)
	}

	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("%w: unsupported llm provider %q", common.ErrInvalidConfig, c.LLM.Provider)
	}

	if c.Matcher.FallbackSlug == "" {
		return fmt.Errorf("%w: matcher.fallback_slug", common.ErrMissingConfig)
	}
	if c.Matcher.Timeout <= 0 {
		return fmt.Errorf("%w: matcher.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.Matcher.MaxDescriptionLength <= 0 {
		return fmt.Errorf("%w: matcher.max_description_length must be positive", common.ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
