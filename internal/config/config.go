package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"golperbox/internal/relay"
)

const (
	DefaultPath = "config/config.yaml"

	targetLayout = "2006-01-02T15:04:05"
)

type ServiceConfig struct {
	Name    string `yaml:"name" env:"GOLPERBOX_SERVICE_NAME"`
	Version string `yaml:"version" env:"GOLPERBOX_SERVICE_VERSION"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" env:"GOLPERBOX_PORT"`
	GinMode         string        `yaml:"gin_mode" env:"GIN_MODE"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"GOLPERBOX_SHUTDOWN_TIMEOUT"`
}

type LaunchConfig struct {
	// Target is a local wall-clock time in Timezone, or an RFC 3339 instant.
	Target       string        `yaml:"target" env:"GOLPERBOX_LAUNCH_TARGET"`
	Timezone     string        `yaml:"timezone" env:"GOLPERBOX_LAUNCH_TIMEZONE"`
	TickInterval time.Duration `yaml:"tick_interval" env:"GOLPERBOX_TICK_INTERVAL"`
}

type FormConfig struct {
	URL        string        `yaml:"url" env:"GOLPERBOX_FORM_URL"`
	EmailField string        `yaml:"email_field" env:"GOLPERBOX_FORM_EMAIL_FIELD"`
	PhoneField string        `yaml:"phone_field" env:"GOLPERBOX_FORM_PHONE_FIELD"`
	Timeout    time.Duration `yaml:"timeout" env:"GOLPERBOX_FORM_TIMEOUT"`
}

type SiteConfig struct {
	Brand        string `yaml:"brand" env:"GOLPERBOX_BRAND"`
	FacebookURL  string `yaml:"facebook_url" env:"GOLPERBOX_FACEBOOK_URL"`
	InstagramURL string `yaml:"instagram_url" env:"GOLPERBOX_INSTAGRAM_URL"`
}

type TelemetryConfig struct {
	Exporter     string `yaml:"exporter" env:"GOLPERBOX_TRACE_EXPORTER"`
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"GOLPERBOX_OTLP_ENDPOINT"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"GOLPERBOX_LOG_LEVEL"`
}

type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Server    ServerConfig    `yaml:"server"`
	Launch    LaunchConfig    `yaml:"launch"`
	Form      FormConfig      `yaml:"form"`
	Site      SiteConfig      `yaml:"site"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`

	target time.Time
}

func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:    "golperbox",
			Version: "1.0.0",
		},
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 30 * time.Second,
		},
		Launch: LaunchConfig{
			Target:       "2025-04-30T00:00:00",
			Timezone:     "Asia/Dhaka",
			TickInterval: time.Second,
		},
		Form: FormConfig{
			URL:        relay.DefaultFormURL,
			EmailField: relay.DefaultEmailField,
			PhoneField: relay.DefaultPhoneField,
			Timeout:    relay.DefaultTimeout,
		},
		Site: SiteConfig{
			Brand:        "Golper Box",
			FacebookURL:  "https://www.facebook.com/golperbox",
			InstagramURL: "https://www.instagram.com/golperbox",
		},
		Telemetry: TelemetryConfig{
			Exporter: "stdout",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load applies, in order: defaults, the YAML file at path, variables from a
// .env file, and GOLPERBOX_* environment variables. A missing file is only
// an error when path is not the default one.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	if err := cfg.loadFile(path, path != DefaultPath); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	target, err := ParseTarget(c.Launch.Target, c.Launch.Timezone)
	if err != nil {
		return err
	}
	c.target = target

	if c.Form.URL == "" {
		return errors.New("form url must not be empty")
	}
	if c.Form.EmailField == "" || c.Form.PhoneField == "" {
		return errors.New("form field names must not be empty")
	}
	if c.Launch.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.Launch.TickInterval)
	}
	if c.Server.Port == "" {
		return errors.New("server port must not be empty")
	}
	return nil
}

// LaunchTarget is the instant the countdown reaches zero. Valid after
// Validate.
func (c *Config) LaunchTarget() time.Time {
	return c.target
}

func (c *Config) RelayConfig() relay.GoogleFormConfig {
	return relay.GoogleFormConfig{
		URL:        c.Form.URL,
		EmailField: c.Form.EmailField,
		PhoneField: c.Form.PhoneField,
		Timeout:    c.Form.Timeout,
	}
}

func ParseTarget(value, timezone string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	loc := time.Local
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid launch timezone %q: %w", timezone, err)
		}
	}

	t, err := time.ParseInLocation(targetLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid launch target %q: %w", value, err)
	}
	return t, nil
}
