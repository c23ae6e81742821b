package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// HTTP
	HTTP HTTPConfig `mapstructure:"http"`

	// Dashboard row rendering
	Dashboard DashboardConfig `mapstructure:"dashboard"`

	// Session cookies
	Session SessionConfig `mapstructure:"session"`

	// Storage driver selection
	Database DatabaseConfig `mapstructure:"database"`

	// PostgreSQL
	Postgres PostgresConfig `mapstructure:"postgres"`

	// SQLite
	SQLite SQLiteConfig `mapstructure:"sqlite"`

	// Redis
	Redis RedisConfig `mapstructure:"redis"`

	// NATS
	NATS NATSConfig `mapstructure:"nats"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

type HTTPConfig struct {
	Addr          string `mapstructure:"addr"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
	RateLimit     int    `mapstructure:"rate_limit"`
}

type DashboardConfig struct {
	ShortLinkBase   string `mapstructure:"short_link_base"`
	FaviconTemplate string `mapstructure:"favicon_template"`
	DateLayout      string `mapstructure:"date_layout"`
	TimeZone        string `mapstructure:"time_zone"`
	QRSize          int    `mapstructure:"qr_size"`
	BloomCapacity   uint   `mapstructure:"bloom_capacity"`
	BloomRefresh    string `mapstructure:"bloom_refresh"`
	ClipboardTTL    string `mapstructure:"clipboard_ttl"`
}

type SessionConfig struct {
	Secret string `mapstructure:"secret"`
	TTL    string `mapstructure:"ttl"`
	Secure bool   `mapstructure:"secure"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Port     int    `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   string `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   string `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod string `mapstructure:"health_check_period"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type PrometheusConfig struct {
	Port int `mapstructure:"port"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origin", "*")
	v.SetDefault("http.rate_limit", 120)

	v.SetDefault("dashboard.short_link_base", "http://localhost:8080")
	v.SetDefault("dashboard.date_layout", "2006-01-02")
	v.SetDefault("dashboard.time_zone", "UTC")
	v.SetDefault("dashboard.qr_size", 256)
	v.SetDefault("dashboard.bloom_capacity", 100000)
	v.SetDefault("dashboard.bloom_refresh", "5m")
	v.SetDefault("dashboard.clipboard_ttl", "10m")

	v.SetDefault("session.ttl", "24h")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("sqlite.path", "linkdash.db")
}

func bindEnvVars(v *viper.Viper) {
	// HTTP
	v.BindEnv("http.addr", "HTTP_ADDR")
	v.BindEnv("http.allowed_origin", "CORS_ORIGIN")

	// Dashboard
	v.BindEnv("dashboard.short_link_base", "SHORT_LINK_BASE")
	v.BindEnv("dashboard.favicon_template", "FAVICON_TEMPLATE")
	v.BindEnv("dashboard.time_zone", "DASHBOARD_TZ")

	// Session
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("session.secure", "SESSION_SECURE")

	// Database
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("sqlite.path", "SQLITE_PATH")

	// PostgreSQL
	v.BindEnv("postgres.host", "PG_HOST")
	v.BindEnv("postgres.user", "PG_USER")
	v.BindEnv("postgres.password", "PG_PASSWORD")
	v.BindEnv("postgres.database", "PG_DB")
	v.BindEnv("postgres.port", "PG_PORT")
	v.BindEnv("postgres.sslmode", "PG_SSLMODE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// NATS
	v.BindEnv("nats.host", "NATS_HOST")
	v.BindEnv("nats.port", "NATS_PORT")
	v.BindEnv("nats.user", "NATS_USER")
	v.BindEnv("nats.password", "NATS_PASSWORD")

	// Prometheus
	v.BindEnv("prometheus.port", "PROM_PORT")
}

// Duration parses value, returning fallback when it is empty or malformed.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
