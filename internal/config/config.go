package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const DefaultConfigFile = "config.yaml"

type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	AI          AIConfig          `mapstructure:"ai"`
	Application ApplicationConfig `mapstructure:"application"`
	Log         LogConfig         `mapstructure:"log"`
}

type ApplicationConfig struct {
	Name         string        `mapstructure:"name"`
	Version      string        `mapstructure:"version"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Storage      StorageConfig `mapstructure:"storage"`
}

// Addr is the listen address for the HTTP server.
func (c *ApplicationConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type StorageConfig struct {
	// Output is the directory generated decks are written to.
	Output string `mapstructure:"output"`
}

type AIConfig struct {
	ActiveProvider string                      `mapstructure:"active_provider"`
	Timeout        time.Duration               `mapstructure:"timeout"`
	Providers      map[string]ProviderSettings `mapstructure:"providers"`
}

// Active returns the settings of the active provider.
func (c *AIConfig) Active() (ProviderSettings, bool) {
	p, ok := c.Providers[c.ActiveProvider]
	return p, ok
}

type ProviderSettings struct {
	Driver      string  `mapstructure:"driver"` // gemini, openai, mock
	Key         string  `mapstructure:"key"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// MaskedKey shows only the first and last four characters of the key.
func (p ProviderSettings) MaskedKey() string {
	k := p.Key
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + "..." + k[len(k)-4:]
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Options  string `mapstructure:"options"`
}

// Enabled reports whether a Postgres registry is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

func (c *DatabaseConfig) GetConnectStr() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, sslmode)

	if c.Options != "" {
		// Basic URL encoding for the options value: space -> %20
		encodedOptions := strings.ReplaceAll(c.Options, " ", "%20")
		connStr += fmt.Sprintf("&options=%s", encodedOptions)
	}

	return connStr
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console, json
}

// LoadConfig reads .env, an optional YAML file and the environment.
// An empty path means DefaultConfigFile.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("Note: .env file not found, using system environment variables")
	}

	if path == "" {
		path = DefaultConfigFile
	}

	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable mappings
	mappings := []struct {
		key  string
		envs []string
	}{
		{"database.url", []string{"DB_URL"}},
		{"database.host", []string{"PG_HOST"}},
		{"database.port", []string{"PG_PORT"}},
		{"database.user", []string{"PG_USER"}},
		{"database.password", []string{"PG_PASSWORD"}},
		{"database.dbname", []string{"PG_DB"}},
		{"database.sslmode", []string{"PG_SSLMODE"}},
		{"database.options", []string{"PG_OPTIONS"}},

		{"application.host", []string{"APP_HOST"}},
		{"application.port", []string{"PORT"}},
		{"application.storage.output", []string{"STORAGE_OUTPUT"}},

		{"ai.active_provider", []string{"AI_PROVIDER"}},
		{"ai.timeout", []string{"AI_TIMEOUT"}},

		// AI Providers
		{"ai.providers.gemini.key", []string{"GEMINI_API_KEY", "GEMINI_KEY"}},
		{"ai.providers.gemini.model", []string{"GEMINI_MODEL"}},
		{"ai.providers.openai.key", []string{"OPENAI_API_KEY"}},
		{"ai.providers.openai.model", []string{"OPENAI_MODEL"}},
		{"ai.providers.openai.endpoint", []string{"OPENAI_BASE_URL"}},

		{"log.level", []string{"LOG_LEVEL"}},
		{"log.format", []string{"LOG_FORMAT"}},
	}

	for _, m := range mappings {
		if err := v.BindEnv(append([]string{m.key}, m.envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", m.key, err)
		}
	}

	// Defaults
	v.SetDefault("application.name", "DeckForge")
	v.SetDefault("application.host", "")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.read_timeout", "15s")
	v.SetDefault("application.write_timeout", "120s")
	v.SetDefault("application.storage.output", "generated")
	v.SetDefault("ai.active_provider", "gemini")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("ai.providers.gemini.driver", "gemini")
	v.SetDefault("ai.providers.gemini.model", "gemini-1.5-flash")
	v.SetDefault("ai.providers.gemini.temperature", 0.7)
	v.SetDefault("ai.providers.openai.driver", "openai")
	v.SetDefault("ai.providers.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.providers.openai.temperature", 0.7)
	v.SetDefault("ai.providers.mock.driver", "mock")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.AI.ActiveProvider == "" {
		cfg.AI.ActiveProvider = "gemini"
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	p, ok := c.AI.Active()
	if !ok {
		return fmt.Errorf("ai provider %q is not configured", c.AI.ActiveProvider)
	}
	switch p.Driver {
	case "mock":
	case "gemini", "openai":
		if p.Key == "" {
			return fmt.Errorf("ai provider %q has no API key (set %s)", c.AI.ActiveProvider, keyEnvHint(p.Driver))
		}
	default:
		return fmt.Errorf("ai provider %q has unsupported driver %q", c.AI.ActiveProvider, p.Driver)
	}
	if c.Application.Storage.Output == "" {
		return errors.New("application.storage.output must not be empty")
	}
	return nil
}

func keyEnvHint(driver string) string {
	if driver == "openai" {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}
