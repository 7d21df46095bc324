package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the service
type Config struct {
	Server Server
	Store  StoreConfig
	Redis  RedisConfig
	App    AppConfig
}

// Server holds HTTP server configuration
type Server struct {
	Host string
	Port string
}

// StoreConfig selects and configures the durable backend.
// Backend is one of: postgres, sqlite, sheets, memory.
type StoreConfig struct {
	Backend string
	// CascadeRepairs controls whether deleting a property also removes its
	// repair requests.
	CascadeRepairs bool
	Database       DatabaseConfig
	Sheets         SheetsConfig
}

// DatabaseConfig holds relational backend configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// SQLitePath is used when Backend is sqlite
	SQLitePath string
}

// SheetsConfig holds spreadsheet backend configuration
type SheetsConfig struct {
	BaseURL       string
	SpreadsheetID string
	TokenURL      string
	ClientID      string
	ClientSecret  string
	RefreshToken  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment string
	LogLevel    string
}

// New creates a new configuration instance
func New() *Config {
	return &Config{
		Server: Server{
			Host: getEnvWithDefault("SERVER_HOST", "0.0.0.0"),
			Port: getEnvWithDefault("PORT", "8090"),
		},
		Store: StoreConfig{
			Backend:        getEnvWithDefault("STORE_BACKEND", "memory"),
			CascadeRepairs: getEnvAsBoolWithDefault("CASCADE_REPAIRS", true),
			Database: DatabaseConfig{
				Host:       getEnvWithDefault("DB_HOST", "localhost"),
				Port:       getEnvWithDefault("DB_PORT", "5432"),
				User:       getEnvWithDefault("DB_USER", "postgres"),
				Password:   getEnvWithDefault("DB_PASSWORD", "postgres"),
				Name:       getEnvWithDefault("DB_NAME", "landlord_db"),
				SSLMode:    getEnvWithDefault("DB_SSLMODE", "disable"),
				SQLitePath: getEnvWithDefault("SQLITE_PATH", "landlord.db"),
			},
			Sheets: SheetsConfig{
				BaseURL:       getEnvWithDefault("SHEETS_BASE_URL", "https://sheets.googleapis.com/v4/spreadsheets"),
				SpreadsheetID: getEnvWithDefault("SHEETS_SPREADSHEET_ID", ""),
				TokenURL:      getEnvWithDefault("SHEETS_TOKEN_URL", "https://oauth2.googleapis.com/token"),
				ClientID:      getEnvWithDefault("SHEETS_CLIENT_ID", ""),
				ClientSecret:  getEnvWithDefault("SHEETS_CLIENT_SECRET", ""),
				RefreshToken:  getEnvWithDefault("SHEETS_REFRESH_TOKEN", ""),
			},
		},
		Redis: RedisConfig{
			Host:     getEnvWithDefault("REDIS_HOST", "localhost"),
			Port:     getEnvWithDefault("REDIS_PORT", "6379"),
			Password: getEnvWithDefault("REDIS_PASSWORD", ""),
			DB:       getEnvAsIntWithDefault("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment: getEnvWithDefault("APP_ENV", "development"),
			LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		},
	}
}

// IsProduction reports whether the service runs in production mode.
// Non-production startups fall back to the illustrative dataset when the
// durable backend is unreachable; production starts empty instead.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// getEnvWithDefault gets environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault gets environment variable as integer with default fallback
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolWithDefault gets environment variable as boolean with default fallback
func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
