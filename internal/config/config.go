package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverSQLite3  = "sqlite3"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	AIProviderGemini   = "gemini"
	AIProviderDeepSeek = "deepseek"

	MailConsole  = "console"
	MailSendgrid = "sendgrid"
)

type Config struct {
	Env           string   `koanf:"env"`
	Port          string   `koanf:"port"`
	DBDriver      string   `koanf:"db_driver"`
	DBPath        string   `koanf:"db_path"`
	DatabaseURL   string   `koanf:"database_url"`
	CORSOrigins   []string `koanf:"cors_origins"`
	JWTSecret     string   `koanf:"jwt_secret"`
	TokenTTLHours int      `koanf:"token_ttl_hours"`
	DefaultUserID int64    `koanf:"default_user_id"`

	UploadsDir  string `koanf:"uploads_dir"`
	MaxUploadMB int    `koanf:"max_upload_mb"`
	Tesseract   string `koanf:"tesseract_path"`

	AIProvider     string `koanf:"ai_provider"`
	AITimeoutSecs  int    `koanf:"ai_timeout_seconds"`
	GeminiAPIKey   string `koanf:"gemini_api_key"`
	GeminiModel    string `koanf:"gemini_model"`
	DeepSeekAPIKey string `koanf:"deepseek_api_key"`
	DeepSeekModel  string `koanf:"deepseek_model"`

	MailBackend    string `koanf:"mail_backend"`
	MailFrom       string `koanf:"mail_from"`
	MailFromName   string `koanf:"mail_from_name"`
	SendgridAPIKey string `koanf:"sendgrid_api_key"`

	RollbarToken string `koanf:"rollbar_token"`
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSecs) * time.Second
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"env":                "development",
		"port":               "8080",
		"db_driver":          DriverSQLite3,
		"db_path":            "./data/studysync.db",
		"database_url":       "",
		"cors_origins":       []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		"jwt_secret":         "change-this-secret",
		"token_ttl_hours":    72,
		"default_user_id":    1,
		"uploads_dir":        "./uploads",
		"max_upload_mb":      10,
		"tesseract_path":     "tesseract",
		"ai_provider":        AIProviderGemini,
		"ai_timeout_seconds": 30,
		"gemini_model":       "gemini-2.5-flash",
		"deepseek_model":     "deepseek-chat",
		"mail_backend":       MailConsole,
		"mail_from":          "noreply@studysync.local",
		"mail_from_name":     "StudySync",
	}
}

// Load layers defaults, an optional YAML file named by CONFIG_FILE and the
// process environment. A .env file in the working directory is loaded
// first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envValue maps upper-case environment names onto config keys. Variables
// that are not config keys are dropped.
func envValue(key, value string) (string, interface{}) {
	name := strings.ToLower(key)
	if _, ok := defaults()[name]; !ok && !isOptionalKey(name) {
		return "", nil
	}
	if value == "" {
		return "", nil
	}
	if name == "cors_origins" {
		return name, splitList(value)
	}
	return name, value
}

func isOptionalKey(name string) bool {
	switch name {
	case "gemini_api_key", "deepseek_api_key", "sendgrid_api_key", "rollbar_token":
		return true
	}
	return false
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite3, DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for driver %s", c.DBDriver)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for driver postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DefaultUserID <= 0 {
		return errors.New("DEFAULT_USER_ID must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	return nil
}
