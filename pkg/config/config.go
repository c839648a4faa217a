package config

import "time"

// Config holds the runtime configuration for the intake bot.
type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Logger   LoggerConfig   `mapstructure:"logger"`
	Bot      BotConfig      `mapstructure:"bot"`
	Dialog   DialogConfig   `mapstructure:"dialog"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Sentry   SentryConfig   `mapstructure:"sentry"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// LoggerConfig controls log output format, level and file rotation.
type LoggerConfig struct {
	Level    string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format   string `mapstructure:"format" validate:"required,oneof=text json"`
	FilePath string `mapstructure:"file_path"`

	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// BotConfig holds Telegram connection settings.
type BotConfig struct {
	Token       string        `mapstructure:"token" validate:"required"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// DialogConfig holds dialog session settings.
type DialogConfig struct {
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// DeliveryConfig holds lead delivery settings.
type DeliveryConfig struct {
	GroupChatID int64         `mapstructure:"group_chat_id" validate:"required"`
	GroupName   string        `mapstructure:"group_name"`
	ChannelLink string        `mapstructure:"channel_link" validate:"required,url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	JournalPath string        `mapstructure:"journal_path"`
}

// RedisConfig holds Redis connection settings. When Addr is empty the
// bot falls back to in-memory session storage.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DatabaseConfig holds the optional PostgreSQL lead archive settings.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ServerConfig holds the health/metrics HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SentryConfig holds error reporting settings.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// RateLimitConfig holds per-user update throttling settings.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// GetDSN returns a PostgreSQL DSN based on the database settings.
func (c DatabaseConfig) GetDSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.Name + " sslmode=" + sslMode
}

// ApplyDefaults fills zero values with sane defaults.
func (c *Config) ApplyDefaults() {
	if c.Bot.PollTimeout <= 0 {
		c.Bot.PollTimeout = 10 * time.Second
	}
	if c.Dialog.SessionTTL <= 0 {
		c.Dialog.SessionTTL = time.Hour
	}
	if c.Dialog.CleanupInterval <= 0 {
		c.Dialog.CleanupInterval = 10 * time.Minute
	}
	if c.Delivery.Timeout <= 0 {
		c.Delivery.Timeout = 10 * time.Second
	}
	if c.Delivery.JournalPath == "" {
		c.Delivery.JournalPath = "logs/leads-fallback.jsonl"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.RateLimit.Limit <= 0 {
		c.RateLimit.Limit = 20
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
}
