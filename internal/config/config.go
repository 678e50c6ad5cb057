package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data sources. The execution strategy follows from the deployment's choice:
// database sources push work down to the store, csv scans the file in process.
const (
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceCSV      = "csv"
)

type Config struct {
	Port    string
	GinMode string

	DataSource string
	Database   DatabaseConfig
	Dataset    DatasetConfig
	Logger     LoggerConfig
	Security   SecurityConfig
	Paging     PagingConfig
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

type DatasetConfig struct {
	CSVPath       string
	ImportOnStart bool
	BatchSize     int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int
	JWTSecret      string
}

// AuthEnabled reports whether bearer tokens are required on protected routes.
func (s SecurityConfig) AuthEnabled() bool {
	return s.JWTSecret != ""
}

type PagingConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Load reads configs/.env when present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load("configs/.env")

	cfg := &Config{
		Port:       getEnvString("PORT", "8080"),
		GinMode:    getEnvString("GIN_MODE", "debug"),
		DataSource: strings.ToLower(getEnvString("DATA_SOURCE", SourceSQLite)),
		Database: DatabaseConfig{
			Host:       getEnvString("DB_HOST", "localhost"),
			Port:       getEnvString("DB_PORT", "5432"),
			User:       getEnvString("DB_USER", "postgres"),
			Password:   getEnvString("DB_PASSWORD", "postgres"),
			Name:       getEnvString("DB_NAME", "postgres"),
			SSLMode:    getEnvString("DB_SSLMODE", "disable"),
			SQLitePath: getEnvString("SQLITE_PATH", "sales.db"),
		},
		Dataset: DatasetConfig{
			CSVPath:       getEnvString("CSV_PATH", "data/sales.csv"),
			ImportOnStart: getEnvBool("IMPORT_ON_START", true),
			BatchSize:     getEnvInt("IMPORT_BATCH_SIZE", 500),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(getEnvString("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnvString("LOG_FORMAT", "json")),
		},
		Security: SecurityConfig{
			AllowedOrigins: getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
			RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 50),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 100),
			JWTSecret:      os.Getenv("JWT_SECRET"),
		},
		Paging: PagingConfig{
			DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:     getEnvInt("MAX_PAGE_SIZE", 100),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %q", c.Port)
	}

	sources := []string{SourcePostgres, SourceSQLite, SourceCSV}
	if !slices.Contains(sources, c.DataSource) {
		return fmt.Errorf("invalid data source %q, must be one of: %s", c.DataSource, strings.Join(sources, ", "))
	}
	if c.DataSource == SourceCSV && c.Dataset.CSVPath == "" {
		return fmt.Errorf("CSV_PATH is required when DATA_SOURCE is csv")
	}
	if c.DataSource == SourceSQLite && c.Database.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH cannot be empty")
	}
	if c.Dataset.BatchSize <= 0 {
		return fmt.Errorf("import batch size must be positive")
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(levels, ", "))
	}
	formats := []string{"json", "text"}
	if !slices.Contains(formats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(formats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 || c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit RPS and burst must be positive")
	}
	if c.Paging.DefaultPageSize <= 0 || c.Paging.MaxPageSize < c.Paging.DefaultPageSize {
		return fmt.Errorf("page sizes must satisfy 0 < default (%d) <= max (%d)", c.Paging.DefaultPageSize, c.Paging.MaxPageSize)
	}
	return nil
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.Port
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
