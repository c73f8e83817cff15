// Package config loads the application configuration from a YAML file with
// environment variable overrides for secrets and deployment knobs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the holiday reminder service.
type Config struct {
	Server     Server    `yaml:"server"`
	Storage    Storage   `yaml:"storage"`
	Email      Email     `yaml:"email"`
	HolidayAPI API       `yaml:"holiday_api"`
	Scheduler  Scheduler `yaml:"scheduler"`
	Dashboard  Dashboard `yaml:"dashboard"`
	Logging    Logging   `yaml:"logging"`
}

// Server holds network listener configuration.
type Server struct {
	Addr string `yaml:"addr"`
}

// Storage holds paths for data persistence. DefaultReceivers seeds the
// recipient list when the state file does not exist yet.
type Storage struct {
	StatePath        string   `yaml:"state_path"`
	SQLitePath       string   `yaml:"sqlite_path"`
	DefaultReceivers []string `yaml:"default_receivers"`
}

// Email configures the delivery transport. Provider selects between "smtp",
// "resend", and "noop".
type Email struct {
	Provider     string `yaml:"provider"`
	Sender       string `yaml:"sender"`
	ReplyTo      string `yaml:"reply_to"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	ResendAPIKey string `yaml:"resend_api_key"`
	TimeoutSecs  int    `yaml:"timeout_secs"`
}

// API holds the upstream holiday API endpoint.
type API struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Scheduler configures the daily job.
type Scheduler struct {
	CronSpec string `yaml:"cron_spec"`
	Timezone string `yaml:"timezone"`
}

// Dashboard configures the web UI. AdminPasswordHash is a bcrypt hash; when
// empty the dashboard is open.
type Dashboard struct {
	AdminUser         string `yaml:"admin_user"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
	CSRFKey           string `yaml:"csrf_key"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Storage: Storage{
			StatePath:        "data.json",
			SQLitePath:       "sendlog.db",
			DefaultReceivers: []string{"team@company.com"},
		},
		Email: Email{
			Provider:    "smtp",
			Sender:      "noreply@company.com",
			SMTPHost:    "smtp.gmail.com",
			SMTPPort:    587,
			TimeoutSecs: 30,
		},
		HolidayAPI: API{
			BaseURL:     "https://api-harilibur.vercel.app/api",
			TimeoutSecs: 30,
		},
		Scheduler: Scheduler{CronSpec: "0 8 * * *", Timezone: "Asia/Jakarta"},
		Logging:   Logging{Level: "info", Format: "json"},
	}
}

// Load reads the YAML configuration file at the given path, falling back to
// defaults when path is empty, and then applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STATE_PATH"); v != "" {
		cfg.Storage.StatePath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("DEFAULT_RECEIVERS"); v != "" {
		cfg.Storage.DefaultReceivers = splitList(v)
	}
	if v := os.Getenv("EMAIL_PROVIDER"); v != "" {
		cfg.Email.Provider = v
	}
	if v := os.Getenv("EMAIL_SENDER"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Email.SMTPUsername = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.Email.ResendAPIKey = v
	}
	if v := os.Getenv("HOLIDAY_API_URL"); v != "" {
		cfg.HolidayAPI.BaseURL = v
	}
	if v := os.Getenv("CRON_SPEC"); v != "" {
		cfg.Scheduler.CronSpec = v
	}
	if v := os.Getenv("APP_TIMEZONE"); v != "" {
		cfg.Scheduler.Timezone = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Dashboard.AdminPasswordHash = v
	}
	if v := os.Getenv("CSRF_KEY"); v != "" {
		cfg.Dashboard.CSRFKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// splitList parses a comma-separated list, trimming whitespace and dropping
// empty items.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// validate rejects configurations that cannot produce a working service.
func (c *Config) validate() error {
	switch c.Email.Provider {
	case "smtp", "resend", "noop":
	default:
		return fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}
	if c.Email.Provider == "resend" && c.Email.ResendAPIKey == "" {
		return fmt.Errorf("resend provider requires resend_api_key")
	}
	if c.Storage.StatePath == "" {
		return fmt.Errorf("storage.state_path must not be empty")
	}
	if c.HolidayAPI.BaseURL == "" {
		return fmt.Errorf("holiday_api.base_url must not be empty")
	}
	return nil
}
