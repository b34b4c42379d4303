package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Extract   ExtractConfig   `yaml:"extract"`
	Watch     WatchConfig     `yaml:"watch"`
	State     StateConfig     `yaml:"state"`
	Notify    NotifyConfig    `yaml:"notify"`
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Scan      ScanConfig      `yaml:"scan"`
}

type SourceConfig struct {
	URL            string `yaml:"url"`
	ReaderPrefix   string `yaml:"reader_prefix"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ExtractConfig struct {
	Strategy string `yaml:"strategy"` // markdown or html
}

type WatchConfig struct {
	Classes []string `yaml:"classes"` // empty = watch everything
}

type StateConfig struct {
	Backend   string         `yaml:"backend"` // file, sqlite or postgres
	Path      string         `yaml:"path"`
	Retention string         `yaml:"retention"` // replace or retain-future
	Postgres  PostgresConfig `yaml:"postgres"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type NotifyConfig struct {
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	Email    EmailConfig    `yaml:"email"`
}

type WhatsAppConfig struct {
	APIURL string `yaml:"api_url"`
	ChatID string `yaml:"chat_id"`
}

type EmailConfig struct {
	Host      string   `yaml:"host"`
	Port      int      `yaml:"port"`
	Sender    string   `yaml:"sender"`
	Password  string   `yaml:"password"`
	Receivers []string `yaml:"receivers"`
}

type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type ScanConfig struct {
	IntervalMinutes int `yaml:"interval_minutes"` // 0 = single run (external cron)
}

// DSN returns a PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix SEATWATCH_ and underscore-separated
// paths:
//
//	SEATWATCH_SOURCE_URL, SEATWATCH_READER_PREFIX,
//	SEATWATCH_WATCH_CLASSES (comma-separated),
//	SEATWATCH_STATE_BACKEND, SEATWATCH_STATE_PATH, SEATWATCH_RETENTION,
//	SEATWATCH_DB_HOST, SEATWATCH_DB_PORT, SEATWATCH_DB_NAME,
//	SEATWATCH_DB_USER, SEATWATCH_DB_PASSWORD,
//	SEATWATCH_WHATSAPP_API_URL, SEATWATCH_WHATSAPP_CHAT_ID,
//	SEATWATCH_EMAIL_SENDER, SEATWATCH_EMAIL_PASSWORD,
//	SEATWATCH_EMAIL_RECEIVERS (comma-separated),
//	SEATWATCH_SERVER_PORT
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Source: SourceConfig{
			ReaderPrefix:   "https://r.jina.ai/",
			TimeoutSeconds: 30,
		},
		Extract: ExtractConfig{Strategy: "markdown"},
		State: StateConfig{
			Backend:   "file",
			Path:      "seatwatch_state.json",
			Retention: "replace",
		},
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEATWATCH_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("SEATWATCH_READER_PREFIX"); v != "" {
		cfg.Source.ReaderPrefix = v
	}
	if v := os.Getenv("SEATWATCH_WATCH_CLASSES"); v != "" {
		cfg.Watch.Classes = splitList(v)
	}
	if v := os.Getenv("SEATWATCH_STATE_BACKEND"); v != "" {
		cfg.State.Backend = v
	}
	if v := os.Getenv("SEATWATCH_STATE_PATH"); v != "" {
		cfg.State.Path = v
	}
	if v := os.Getenv("SEATWATCH_RETENTION"); v != "" {
		cfg.State.Retention = v
	}
	if v := os.Getenv("SEATWATCH_DB_HOST"); v != "" {
		cfg.State.Postgres.Host = v
	}
	if v := os.Getenv("SEATWATCH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.State.Postgres.Port = port
		}
	}
	if v := os.Getenv("SEATWATCH_DB_NAME"); v != "" {
		cfg.State.Postgres.Name = v
	}
	if v := os.Getenv("SEATWATCH_DB_USER"); v != "" {
		cfg.State.Postgres.User = v
	}
	if v := os.Getenv("SEATWATCH_DB_PASSWORD"); v != "" {
		cfg.State.Postgres.Password = v
	}
	if v := os.Getenv("SEATWATCH_WHATSAPP_API_URL"); v != "" {
		cfg.Notify.WhatsApp.APIURL = v
	}
	if v := os.Getenv("SEATWATCH_WHATSAPP_CHAT_ID"); v != "" {
		cfg.Notify.WhatsApp.ChatID = v
	}
	if v := os.Getenv("SEATWATCH_EMAIL_SENDER"); v != "" {
		cfg.Notify.Email.Sender = v
	}
	if v := os.Getenv("SEATWATCH_EMAIL_PASSWORD"); v != "" {
		cfg.Notify.Email.Password = v
	}
	if v := os.Getenv("SEATWATCH_EMAIL_RECEIVERS"); v != "" {
		cfg.Notify.Email.Receivers = splitList(v)
	}
	if v := os.Getenv("SEATWATCH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	switch c.Extract.Strategy {
	case "markdown", "html":
	default:
		return fmt.Errorf("extract.strategy must be markdown or html, got %q", c.Extract.Strategy)
	}
	switch c.State.Backend {
	case "file", "sqlite":
		if c.State.Path == "" {
			return fmt.Errorf("state.path is required for the %s backend", c.State.Backend)
		}
	case "postgres":
		if c.State.Postgres.Host == "" {
			return fmt.Errorf("state.postgres.host is required")
		}
		if c.State.Postgres.Name == "" {
			return fmt.Errorf("state.postgres.name is required")
		}
		if c.State.Postgres.User == "" {
			return fmt.Errorf("state.postgres.user is required")
		}
	default:
		return fmt.Errorf("state.backend must be file, sqlite or postgres, got %q", c.State.Backend)
	}
	switch c.State.Retention {
	case "replace", "retain-future":
	default:
		return fmt.Errorf("state.retention must be replace or retain-future, got %q", c.State.Retention)
	}
	if c.Notify.Email.Sender != "" && len(c.Notify.Email.Receivers) == 0 {
		return fmt.Errorf("notify.email.receivers is required when a sender is set")
	}
	return nil
}
