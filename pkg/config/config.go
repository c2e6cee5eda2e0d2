package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Storage     StorageConfig
	Bot         BotConfig
	Assembly    AssemblyAIConfig
	Export      ExportConfig
	Webhook     WebhookConfig
	Maintenance MaintenanceConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration (DB_*)
type DatabaseConfig struct {
	Host          string        `envconfig:"HOST" default:"localhost"`
	Port          string        `envconfig:"PORT" default:"5432"`
	User          string        `envconfig:"USER" default:"postgres"`
	Password      string        `envconfig:"PASSWORD" default:"postgres"`
	Name          string        `envconfig:"NAME" default:"meeting_notetaker"`
	SSLMode       string        `envconfig:"SSLMODE" default:"disable"`
	MaxConns      int           `envconfig:"MAX_CONNS" default:"25"`
	MinConns      int           `envconfig:"MIN_CONNS" default:"5"`
	AutoMigrate   bool          `envconfig:"AUTO_MIGRATE" default:"false"`
	SlowThreshold time.Duration `envconfig:"SLOW_THRESHOLD" default:"500ms"`
}

// RedisConfig holds Redis configuration (REDIS_*)
type RedisConfig struct {
	Host       string        `envconfig:"HOST" default:"localhost"`
	Port       string        `envconfig:"PORT" default:"6379"`
	Password   string        `envconfig:"PASSWORD"`
	DB         int           `envconfig:"DB" default:"0"`
	WebhookTTL time.Duration `envconfig:"WEBHOOK_TTL" default:"24h"`
}

// JWTConfig holds the secret shared with the auth provider (JWT_*)
type JWTConfig struct {
	AccessSecret string `envconfig:"ACCESS_SECRET"`
	Issuer       string `envconfig:"ISSUER"`
}

// StorageConfig holds object storage configuration (STORAGE_*)
type StorageConfig struct {
	Enabled         bool   `envconfig:"ENABLED" default:"false"`
	Endpoint        string `envconfig:"ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"BUCKET" default:"meeting-notetaker"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"false"`
	PublicURL       string `envconfig:"PUBLIC_URL"`
}

// BotConfig holds the meeting bot provider configuration (RECALL_*)
type BotConfig struct {
	APIURL  string        `envconfig:"API_URL" default:"https://us-west-2.recall.ai/api/v1/bot"`
	APIKey  string        `envconfig:"API_KEY"`
	BotName string        `envconfig:"BOT_NAME" default:"Notetaker"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// AssemblyAIConfig holds transcription provider configuration (ASSEMBLYAI_*)
type AssemblyAIConfig struct {
	APIKey        string `envconfig:"API_KEY"`
	WebhookURL    string `envconfig:"WEBHOOK_URL"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
	LanguageCode  string `envconfig:"LANGUAGE_CODE" default:"de"`
}

// ExportConfig holds transcript export configuration (TRANSCRIPT_EXPORT_*)
type ExportConfig struct {
	URL          string        `envconfig:"URL"`
	Secret       string        `envconfig:"SECRET"`
	Delay        time.Duration `envconfig:"DELAY" default:"300ms"`
	DefaultLimit int           `envconfig:"DEFAULT_LIMIT" default:"50"`
}

// WebhookConfig holds inbound meeting webhook configuration (MEETING_WEBHOOK_*)
type WebhookConfig struct {
	Secret  string        `envconfig:"SECRET"`
	MaxSkew time.Duration `envconfig:"MAX_SKEW" default:"5m"`
}

// MaintenanceConfig holds the background job configuration (MAINTENANCE_*)
type MaintenanceConfig struct {
	Enabled    bool          `envconfig:"ENABLED" default:"true"`
	Interval   time.Duration `envconfig:"INTERVAL" default:"5m"`
	StaleAfter time.Duration `envconfig:"STALE_AFTER" default:"4h"`
	SyncMinAge time.Duration `envconfig:"SYNC_MIN_AGE" default:"5m"`
	SyncLimit  int           `envconfig:"SYNC_LIMIT" default:"20"`
}

// Load reads and validates configuration from .env and the environment
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read reads configuration without validating it
func Read() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	sections := []struct {
		prefix string
		spec   interface{}
	}{
		{"", &cfg.Server},
		{"DB", &cfg.Database},
		{"REDIS", &cfg.Redis},
		{"JWT", &cfg.JWT},
		{"STORAGE", &cfg.Storage},
		{"RECALL", &cfg.Bot},
		{"ASSEMBLYAI", &cfg.Assembly},
		{"TRANSCRIPT_EXPORT", &cfg.Export},
		{"MEETING_WEBHOOK", &cfg.Webhook},
		{"MAINTENANCE", &cfg.Maintenance},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.spec); err != nil {
			return nil, fmt.Errorf("failed to read %s config: %w", s.prefix, err)
		}
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if c.Export.URL != "" && c.Export.Secret == "" {
		return fmt.Errorf("TRANSCRIPT_EXPORT_SECRET is required when TRANSCRIPT_EXPORT_URL is set")
	}
	if c.Maintenance.Enabled && c.Maintenance.Interval <= 0 {
		return fmt.Errorf("MAINTENANCE_INTERVAL must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
