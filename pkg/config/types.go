// Package config provides configuration loading and validation for the
// converter.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// InputDir is scanned for files matching FilePattern.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the converted files. Defaults to InputDir.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Format selects the exporter: csv or json.
	Format string `yaml:"format,omitempty"`

	// FilePattern is the glob matched against file names in InputDir.
	FilePattern string `yaml:"file_pattern,omitempty"`

	// Workers is the number of files converted concurrently.
	Workers int `yaml:"workers,omitempty"`

	// WriteSplitFiles writes each detected channel block back to disk as
	// <stem>_chan_<n>.V2 next to the source file.
	WriteSplitFiles bool `yaml:"write_split_files,omitempty"`

	Log      LogConfig       `yaml:"log,omitempty"`
	Publish  PublishConfig   `yaml:"publish,omitempty"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format,omitempty"`
}

// PublishConfig enables publishing converted records to a Kafka topic.
type PublishConfig struct {
	Enabled bool     `yaml:"enabled,omitempty"`
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnErrors fires only when the batch had failures (default).
	WebhookTriggerOnErrors WebhookTrigger = "on_errors"
	// WebhookTriggerAlways fires after every batch.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending batch summaries.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_errors" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
