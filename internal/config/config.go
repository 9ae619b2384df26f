package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Directory sources
const (
	DIRECTORY_SOURCE_MEMORY = "memory"
	DIRECTORY_SOURCE_HTTP   = "http"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // "sqlite" or "postgres"
	Path            string        `mapstructure:"path"`   // SQLite database file
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"` // Index-changed notifications are disabled when empty
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// DirectoryConfig holds contact directory configuration
type DirectoryConfig struct {
	Source      string        `mapstructure:"source"`       // "memory" or "http"
	FixturePath string        `mapstructure:"fixture_path"` // YAML fixture loaded into the memory directory
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	PageSize    int           `mapstructure:"page_size"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SyncConfig holds sync engine configuration
type SyncConfig struct {
	BatchSize          int           `mapstructure:"batch_size"`
	MaxLookupKeyLength int           `mapstructure:"max_lookup_key_length"`
	Interval           time.Duration `mapstructure:"interval"` // Periodic passes are disabled when zero
	RunOnStart         bool          `mapstructure:"run_on_start"`
}

// QueryConfig holds query engine configuration
type QueryConfig struct {
	MaxResults int `mapstructure:"max_results"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"` // Per-client lookup rate, 0 disables limiting
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// WebhookConfig holds a webhook endpoint notified after every completed sync pass
type WebhookConfig struct {
	URL          string   `mapstructure:"url"`
	Secret       string   `mapstructure:"secret"` // Hex encoded HMAC key
	EventFilters []string `mapstructure:"event_filters"`
}

// SmartDialConfig holds configuration for the smart-dial service
type SmartDialConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Auth       AuthConfig      `mapstructure:"auth"`
	Database   DatabaseConfig  `mapstructure:"database"`
	NATS       NATSConfig      `mapstructure:"nats"`
	Directory  DirectoryConfig `mapstructure:"directory"`
	Sync       SyncConfig      `mapstructure:"sync"`
	Query      QueryConfig     `mapstructure:"query"`
	Webhooks   []WebhookConfig `mapstructure:"webhooks"`
}

// CtlConfig holds configuration for the operator CLI
type CtlConfig struct {
	BaseConfig `mapstructure:",squash"`
	APIURL     string         `mapstructure:"api_url"`
	APIKey     string         `mapstructure:"api_key"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
}

// LoadSmartDialConfig loads configuration for the smart-dial service
func LoadSmartDialConfig(configFile string, envPath string) (*SmartDialConfig, error) {
	v := configureViper("smartdial", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.rate_limit_rps", 20)
	v.SetDefault("server.rate_limit_burst", 40)
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	v.SetDefault("nats.connection_name", "smartdial")
	v.SetDefault("directory.source", DIRECTORY_SOURCE_MEMORY)
	v.SetDefault("directory.page_size", 200)
	v.SetDefault("directory.timeout", "15s")
	v.SetDefault("sync.batch_size", 500)
	v.SetDefault("sync.max_lookup_key_length", 1000)
	v.SetDefault("sync.interval", "5m")
	v.SetDefault("sync.run_on_start", true)
	v.SetDefault("query.max_results", 20)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg SmartDialConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Directory.Source {
	case DIRECTORY_SOURCE_MEMORY:
	case DIRECTORY_SOURCE_HTTP:
		if cfg.Directory.BaseURL == "" {
			return nil, errors.New("directory.base_url is required for the http directory")
		}
	default:
		return nil, fmt.Errorf("unsupported directory source: %s", cfg.Directory.Source)
	}
	for i, wh := range cfg.Webhooks {
		if wh.URL == "" || wh.Secret == "" {
			return nil, fmt.Errorf("webhooks[%d] requires url and secret", i)
		}
	}

	return &cfg, nil
}

// LoadCtlConfig loads configuration for the operator CLI
func LoadCtlConfig(configFile string, envPath string) (*CtlConfig, error) {
	v := configureViper("smartdialctl", configFile, envPath)

	// Set defaults
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("timeout", "30s")
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	v.SetDefault("nats.connection_name", "smartdialctl")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg CtlConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "smartdial.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.stream_name", "SMARTDIAL_EVENTS")
	v.SetDefault("nats.consumer_name", "smartdial-watch")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
}

// readConfig reads the config file; a missing file falls back to environment variables
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/smartdial/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("SMARTDIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.driver",
		"database.path",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		"server.rate_limit_rps",
		"server.rate_limit_burst",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Directory
		"directory.source",
		"directory.fixture_path",
		"directory.base_url",
		"directory.api_key",
		"directory.page_size",
		"directory.timeout",
		// Sync
		"sync.batch_size",
		"sync.max_lookup_key_length",
		"sync.interval",
		"sync.run_on_start",
		// Query
		"query.max_results",
		// CLI
		"api_url",
		"api_key",
		"timeout",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// Validate checks the fields the selected driver needs
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite", "":
		if c.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres":
		if c.Host == "" {
			return errors.New("database.host is required for postgres")
		}
		if c.DBName == "" {
			return errors.New("database.dbname is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}
	return nil
}

// DSN returns the database connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}
