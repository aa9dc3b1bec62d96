package config

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Social   SocialConfig
	Draws    DrawsConfig
	Notify   NotifyConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
	Environment  string
}

// StorageConfig selects the repository implementation
type StorageConfig struct {
	Driver string // mongodb or memory
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AdminConfig holds the credentials of the admin endpoints
type AdminConfig struct {
	PasswordHash string
}

// SocialConfig holds the comment provider configuration
type SocialConfig struct {
	InstagramBaseURL string
	TiktokBaseURL    string
	APIKey           string
	MockAPI          bool
	Timeout          time.Duration
	CacheSize        int
	CacheTTL         time.Duration
}

// DrawsConfig holds result retention settings
type DrawsConfig struct {
	ResultsLimit int
	PurgeDays    int
}

// NotifyConfig holds the secret santa delivery settings
type NotifyConfig struct {
	Mode       string // mock or webhook
	WebhookURL string
	Secret     string
	BaseURL    string
	Timeout    time.Duration
}

// Notification modes
const (
	NotifyMock    = "mock"
	NotifyWebhook = "webhook"
)

// Storage drivers
const (
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// Load loads configuration from a .env file, environment variables and
// config files
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongoDB, DriverMemory:
	default:
		return errors.New("storage driver must be mongodb or memory")
	}
	switch c.Notify.Mode {
	case NotifyMock:
	case NotifyWebhook:
		if c.Notify.WebhookURL == "" {
			return errors.New("notify webhook url is required in webhook mode")
		}
	default:
		return errors.New("notify mode must be mock or webhook")
	}
	if c.Draws.ResultsLimit < 1 {
		return errors.New("draws results limit must be positive")
	}
	if c.Draws.PurgeDays < 1 {
		return errors.New("draws purge days must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// TokenTTL returns how long issued admin tokens stay valid
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiresIn) * time.Second
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	v.SetDefault("Server.Environment", "development")
	v.SetDefault("Storage.Driver", DriverMongoDB)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "draws")
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Admin.PasswordHash", "")
	v.SetDefault("Social.InstagramBaseURL", "https://api.lamadava.com")
	v.SetDefault("Social.TiktokBaseURL", "https://api.lamatok.com")
	v.SetDefault("Social.APIKey", "")
	v.SetDefault("Social.MockAPI", true)
	v.SetDefault("Social.Timeout", 10*time.Second)
	v.SetDefault("Social.CacheSize", 256)
	v.SetDefault("Social.CacheTTL", time.Minute)
	v.SetDefault("Draws.ResultsLimit", 50)
	v.SetDefault("Draws.PurgeDays", 90)
	v.SetDefault("Notify.Mode", NotifyMock)
	v.SetDefault("Notify.WebhookURL", "")
	v.SetDefault("Notify.Secret", "")
	v.SetDefault("Notify.BaseURL", "http://localhost:3000")
	v.SetDefault("Notify.Timeout", 5*time.Second)
	v.SetDefault("LogLevel", "info")
}

// NewLogger builds the application logger and installs it as the default
// one. Production logs are JSON, everything else is text.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
