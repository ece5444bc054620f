package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
	Export     ExportConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for raw document storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxTextSizeKB int64  `mapstructure:"max_text_size_kb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds field extraction and normalization settings.
type ExtractionConfig struct {
	// RulesPath points to an optional TOML rule file; empty means the
	// built-in pattern library.
	RulesPath        string `mapstructure:"rules_path"`
	FallbackLanguage string `mapstructure:"fallback_language"`
	FallbackCurrency string `mapstructure:"fallback_currency"`
	FallbackCategory string `mapstructure:"fallback_category"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	MaxRows int `mapstructure:"max_rows"`
}

// Load reads configuration from environment variables with the BILLSCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "billscan")
	v.SetDefault("db.password", "billscan_secret")
	v.SetDefault("db.name", "billscan_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "billscan-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_text_size_kb", 512)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extraction defaults
	v.SetDefault("extraction.rules_path", "")
	v.SetDefault("extraction.fallback_language", "en")
	v.SetDefault("extraction.fallback_currency", "USD")
	v.SetDefault("extraction.fallback_category", "")

	// Export defaults
	v.SetDefault("export.max_rows", 10000)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "BILLSCAN_SERVER_PORT",
		"server.read_timeout":          "BILLSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "BILLSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":           "BILLSCAN_SERVER_ENVIRONMENT",
		"db.host":                      "BILLSCAN_DB_HOST",
		"db.port":                      "BILLSCAN_DB_PORT",
		"db.user":                      "BILLSCAN_DB_USER",
		"db.password":                  "BILLSCAN_DB_PASSWORD",
		"db.name":                      "BILLSCAN_DB_NAME",
		"db.sslmode":                   "BILLSCAN_DB_SSLMODE",
		"db.max_open":                  "BILLSCAN_DB_MAX_OPEN",
		"db.max_idle":                  "BILLSCAN_DB_MAX_IDLE",
		"s3.region":                    "BILLSCAN_S3_REGION",
		"s3.bucket":                    "BILLSCAN_S3_BUCKET",
		"s3.endpoint":                  "BILLSCAN_S3_ENDPOINT",
		"s3.access_key":                "BILLSCAN_S3_ACCESS_KEY",
		"s3.secret_key":                "BILLSCAN_S3_SECRET_KEY",
		"s3.max_text_size_kb":          "BILLSCAN_S3_MAX_TEXT_SIZE_KB",
		"s3.presign_expiry":            "BILLSCAN_S3_PRESIGN_EXPIRY",
		"log.level":                    "BILLSCAN_LOG_LEVEL",
		"log.format":                   "BILLSCAN_LOG_FORMAT",
		"cors.allowed_origins":         "BILLSCAN_CORS_ALLOWED_ORIGINS",
		"extraction.rules_path":        "BILLSCAN_EXTRACTION_RULES_PATH",
		"extraction.fallback_language": "BILLSCAN_EXTRACTION_FALLBACK_LANGUAGE",
		"extraction.fallback_currency": "BILLSCAN_EXTRACTION_FALLBACK_CURRENCY",
		"extraction.fallback_category": "BILLSCAN_EXTRACTION_FALLBACK_CATEGORY",
		"export.max_rows":              "BILLSCAN_EXPORT_MAX_ROWS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BILLSCAN_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BILLSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxTextSizeKB: v.GetInt64("s3.max_text_size_kb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(v.GetString("cors.allowed_origins")),
	}
	cfg.Extraction = ExtractionConfig{
		RulesPath:        v.GetString("extraction.rules_path"),
		FallbackLanguage: v.GetString("extraction.fallback_language"),
		FallbackCurrency: v.GetString("extraction.fallback_currency"),
		FallbackCategory: v.GetString("extraction.fallback_category"),
	}
	cfg.Export = ExportConfig{
		MaxRows: v.GetInt("export.max_rows"),
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
