package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultFormat         = "csv"
	DefaultFilePattern    = "*.V2"
	DefaultWorkers        = 4
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvInputDir  = "CESMD_INPUT_DIR"
	EnvOutputDir = "CESMD_OUTPUT_DIR"
	EnvFormat    = "CESMD_FORMAT"
	EnvWorkers   = "CESMD_WORKERS"
	EnvBrokers   = "KAFKA_BROKERS"
	EnvTopic     = "KAFKA_TOPIC"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:      DefaultFormat,
		FilePattern: DefaultFilePattern,
		Workers:     DefaultWorkers,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv(EnvInputDir); dir != "" {
		c.InputDir = dir
	}
	if dir := os.Getenv(EnvOutputDir); dir != "" {
		c.OutputDir = dir
	}
	if format := os.Getenv(EnvFormat); format != "" {
		c.Format = format
	}
	if workers := os.Getenv(EnvWorkers); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if brokers := os.Getenv(EnvBrokers); brokers != "" {
		c.Publish.Brokers = strings.Split(brokers, ",")
	}
	if topic := os.Getenv(EnvTopic); topic != "" {
		c.Publish.Topic = topic
	}
}
