package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Supported authentication modes.
const (
	AuthModeFirebase = "firebase"
	AuthModeHMAC     = "hmac"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Store    StoreConfig
	MongoDB  MongoDBConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	Payroll  PayrollConfig
	Sheets   SheetsConfig
	WhatsApp WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port        string
	BasePath    string
	CORSOrigins []string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// StoreConfig selects the storage backend: mongodb, postgres or memory.
type StoreConfig struct {
	Driver string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// PostgresConfig holds settings for the relational store.
type PostgresConfig struct {
	DSN         string
	AutoMigrate bool
}

// AuthConfig configures bearer credential verification.
type AuthConfig struct {
	Mode              string
	FirebaseProjectID string
	CertsURL          string
	HMACSecret        string
	// SuperAdminEmail is granted admin rights without the admin claim.
	SuperAdminEmail string
}

// PayrollConfig holds scheduler-related settings.
type PayrollConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig contains configuration required to export payroll to Google Sheets.
// Export is disabled when SpreadsheetID is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	PayrollRange    string
}

// Enabled reports whether payroll rows should be exported.
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != ""
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used to
// send weekly salary slips. Notifications are disabled without a token.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
}

// Enabled reports whether salary slips should be sent.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getenvWithDefault("APP_PORT", "8080"),
			BasePath:    strings.TrimSuffix(os.Getenv("API_BASE_PATH"), "/"),
			CORSOrigins: splitList(getenvWithDefault("CORS_ALLOW_ORIGINS", "*")),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getenvWithDefault("STORE_DRIVER", "mongodb")),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "weaver"),
		},
		Postgres: PostgresConfig{
			DSN:         os.Getenv("DB_DSN"),
			AutoMigrate: parseBool(getenvWithDefault("DB_AUTO_MIGRATE", "true")),
		},
		Auth: AuthConfig{
			Mode:              strings.ToLower(getenvWithDefault("AUTH_MODE", AuthModeFirebase)),
			FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
			CertsURL:          os.Getenv("FIREBASE_CERTS_URL"),
			HMACSecret:        os.Getenv("AUTH_HMAC_SECRET"),
			SuperAdminEmail:   strings.ToLower(strings.TrimSpace(os.Getenv("SUPER_ADMIN_EMAIL"))),
		},
		Payroll: PayrollConfig{
			CronSchedule: getenvWithDefault("PAYROLL_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_PAYROLL_ID"),
			PayrollRange:    getenvWithDefault("GOOGLE_SHEET_PAYROLL_RANGE", "Payroll!A:G"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case "mongodb":
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			return errors.New("DB_DSN must be provided when STORE_DRIVER=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Auth.Mode {
	case AuthModeFirebase:
		if c.Auth.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID must be provided")
		}
	case AuthModeHMAC:
		if c.Auth.HMACSecret == "" {
			return errors.New("AUTH_HMAC_SECRET must be provided when AUTH_MODE=hmac")
		}
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q", c.Auth.Mode)
	}

	if c.Payroll.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Sheets.Enabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when payroll export is enabled")
		}
		if c.Sheets.PayrollRange == "" {
			return errors.New("GOOGLE_SHEET_PAYROLL_RANGE must not be empty")
		}
	}

	if c.WhatsApp.Enabled() && c.WhatsApp.PhoneNumberID == "" {
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided when WHATSAPP_TOKEN is set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "0", "no", "off":
		return false
	default:
		return true
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
