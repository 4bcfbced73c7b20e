package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort   = "8000"
	envPrefix     = "JOBHUNTER"
	configName    = "config.yaml"
	appDirName    = ".jobhunter"
	baseURLEnvVar = "JOBHUNTER_API_BASE_URL"
)

// Config holds the application configuration
type Config struct {
	APIBaseURL string `mapstructure:"api_base_url" validate:"omitempty,url"`
	Host       string `mapstructure:"host"`
	UserID     string `mapstructure:"user_id"`
	Email      string `mapstructure:"email" validate:"omitempty,email"`
	AuthToken  string `mapstructure:"auth_token"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `mapstructure:"log_file"`

	RequestTimeout       time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	StatusPollInterval   time.Duration `mapstructure:"status_poll_interval" validate:"gte=1000000000"`
	TimelinePollInterval time.Duration `mapstructure:"timeline_poll_interval" validate:"gte=1000000000"`
	JobsLimit            int           `mapstructure:"jobs_limit" validate:"gte=1,lte=500"`

	// Local snapshot cache: sqlite, redis or none
	CacheBackend  string `mapstructure:"cache_backend" validate:"oneof=sqlite redis none"`
	CachePath     string `mapstructure:"cache_path"`
	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=CacheBackend redis"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`

	CaptureDir string `mapstructure:"capture_dir"`

	// Dir is the directory holding the config file, cache and logs
	Dir string `mapstructure:"-"`
}

// ErrInvalid marks a configuration that fails validation
var ErrInvalid = errors.New("invalid config")

// SettableKeys are the keys `config set` accepts
var SettableKeys = []string{
	"api_base_url", "host", "user_id", "email", "auth_token",
	"log_level", "log_file", "request_timeout", "status_poll_interval",
	"timeline_poll_interval", "jobs_limit", "cache_backend", "cache_path",
	"redis_addr", "redis_password", "redis_db", "capture_dir",
}

// DefaultDir returns ~/.jobhunter
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDirName), nil
}

// Load reads (creating on first use) dir/config.yaml. Environment variables
// prefixed JOBHUNTER_ override file values; a .env file in the working
// directory is honoured.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	configFile, err := ensureConfigFile(dir)
	if err != nil {
		return nil, err
	}

	v := newViper(configFile, dir)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ensureConfigFile creates dir and a default config.yaml on first use
func ensureConfigFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(dir, configName)
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return "", err
		}
	}
	return configFile, nil
}

func newViper(configFile, dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "")
	v.SetDefault("host", "localhost")
	v.SetDefault("user_id", "")
	v.SetDefault("email", "")
	v.SetDefault("auth_token", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(dir, "jobhunter.log"))
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("status_poll_interval", 5*time.Second)
	v.SetDefault("timeline_poll_interval", 2*time.Second)
	v.SetDefault("jobs_limit", 50)
	v.SetDefault("cache_backend", "sqlite")
	v.SetDefault("cache_path", filepath.Join(dir, "cache.db"))
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("capture_dir", filepath.Join(dir, "captures"))
	return v
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	v := validator.New()
	// report keys the way they are written in config.yaml
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// BaseURL resolves the backend base URL: environment, then config file, then
// the same-host heuristic, then localhost.
func (c *Config) BaseURL() string {
	return ResolveBaseURL(os.Getenv(baseURLEnvVar), c.APIBaseURL, c.Host)
}

// ResolveBaseURL applies the base URL precedence rules. When the client is used
// from another machine on the network (host is neither localhost nor
// 127.0.0.1), the backend is assumed to run on that same host.
func ResolveBaseURL(fromEnv, fromConfig, host string) string {
	if u := strings.TrimSpace(fromEnv); u != "" {
		return strings.TrimRight(u, "/")
	}
	if u := strings.TrimSpace(fromConfig); u != "" {
		return strings.TrimRight(u, "/")
	}
	host = strings.TrimSpace(host)
	if host != "" && host != "localhost" && host != "127.0.0.1" {
		return (&url.URL{Scheme: "http", Host: net.JoinHostPort(host, defaultPort)}).String()
	}
	return "http://localhost:" + defaultPort
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# JobHunter Configuration
# Backend location. Leave api_base_url empty to derive it from host.
api_base_url: ""
host: localhost

# Identity issued by your identity provider
user_id: ""
email: ""
auth_token: ""

# Logging: debug, info, warn, error
log_level: info

# Polling
status_poll_interval: 5s
timeline_poll_interval: 2s
request_timeout: 15s
jobs_limit: 50

# Local snapshot cache: sqlite, redis, none
cache_backend: sqlite
redis_addr: ""
redis_password: ""
redis_db: 0
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value in dir/config.yaml. The file is only
// written when the resulting configuration is valid.
func Set(dir, key, value string) error {
	configFile, err := ensureConfigFile(dir)
	if err != nil {
		return err
	}
	v := newViper(configFile, dir)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return v.WriteConfig()
}

// IsSettable reports whether key may be changed with `config set`
func IsSettable(key string) bool {
	for _, k := range SettableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Path returns the config file path inside dir
func Path(dir string) string {
	return filepath.Join(dir, configName)
}
