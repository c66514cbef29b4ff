package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. A .env file in the
// working directory, if present, is loaded first so environment
// overrides pick it up.
func Load(_ context.Context, cfgPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(cfgPath) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	if cfg.InputDir == "" {
		return errors.New("input_dir: an input directory is required")
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.InputDir
	}

	switch cfg.Format {
	case "csv", "json":
	case "":
		cfg.Format = DefaultFormat
	default:
		return fmt.Errorf("format: invalid format %q (must be csv or json)", cfg.Format)
	}

	if cfg.FilePattern == "" {
		cfg.FilePattern = DefaultFilePattern
	}
	if _, err := path.Match(cfg.FilePattern, "probe"); err != nil {
		return fmt.Errorf("file_pattern: invalid pattern %q: %w", cfg.FilePattern, err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if err := validatePublish(&cfg.Publish); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateLog(lc *LogConfig) error {
	switch lc.Level {
	case "debug", "info", "warn", "error":
	case "":
		lc.Level = DefaultLogLevel
	default:
		return fmt.Errorf("invalid level %q (must be debug, info, warn, or error)", lc.Level)
	}

	switch lc.Format {
	case "text", "json":
	case "":
		lc.Format = DefaultLogFormat
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", lc.Format)
	}

	return nil
}

func validatePublish(pc *PublishConfig) error {
	if !pc.Enabled {
		return nil
	}

	if len(pc.Brokers) == 0 {
		return errors.New("at least one broker is required when publishing is enabled")
	}
	for i, broker := range pc.Brokers {
		if strings.TrimSpace(broker) == "" {
			return fmt.Errorf("brokers[%d] is empty", i)
		}
	}

	if pc.Topic == "" {
		return errors.New("topic is required when publishing is enabled")
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnErrors, WebhookTriggerAlways, WebhookTriggerNever:
			// Valid
		default:
			return fmt.Errorf("invalid trigger %q (must be on_errors, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnErrors
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
