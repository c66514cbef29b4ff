package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SaidaTaisei/CESMD-V2-File-Converter/internal/adapter/httpadapter"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/internal/adapter/kafka"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/internal/observability"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/internal/pipeline"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/config"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/export"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ConvertOptions holds command-line options for the convert command.
type ConvertOptions struct {
	Output      string
	InputDir    string
	OutputDir   string
	Format      string
	Workers     int
	WriteSplit  bool
	MetricsAddr string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <config-file>",
		Short: "Convert accelerograph files in a directory",
		Long: `Convert every matching V2 file in the configured input directory.

Each file is parsed, multi-channel files are split into per-channel
records, and each record is written as one output file per channel
(channel_<nnn>.csv or .json) under a directory named after the source.

Exit codes:
  0 - All files converted
  1 - One or more files failed to convert
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Summary format (text|json)")
	cmd.Flags().StringVar(&opts.InputDir, "input-dir", "", "Override input directory")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Override output directory")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Override export format (csv|json)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Override worker count")
	cmd.Flags().BoolVar(&opts.WriteSplit, "write-split", false, "Also write split channel files next to the source")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address during the batch")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_errors", "When to fire webhook (on_errors|always|never)")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, opts *ConvertOptions) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyOverrides(cfg, cmd, opts)

	logger := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	metrics := observability.NewMetrics()

	if opts.MetricsAddr != "" {
		srv := httpadapter.NewServer(opts.MetricsAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	exporter, err := export.New(cfg.Format, logger)
	if err != nil {
		return err
	}

	var publisher pipeline.Publisher
	if cfg.Publish.Enabled {
		writer := kafka.NewWriter(cfg.Publish, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Warn("closing kafka writer", "error", err)
			}
		}()
		publisher = writer
	}

	converter := pipeline.NewConverter(cfg, exporter, publisher, logger, metrics, nil)

	summary, err := converter.Run(ctx)
	if err != nil {
		return fmt.Errorf("conversion batch: %w", err)
	}

	if err := printSummary(cmd, summary, opts.Output); err != nil {
		return err
	}

	// Send webhooks (errors logged but don't fail the batch)
	sendWebhooks(ctx, cfg, opts, summary)

	if summary.FilesFailed > 0 {
		ExitCode = 1
	}

	return nil
}

// applyOverrides applies command-line flag overrides on top of the
// loaded configuration.
func applyOverrides(cfg *config.Config, cmd *cobra.Command, opts *ConvertOptions) {
	if opts.InputDir != "" {
		cfg.InputDir = opts.InputDir
		if !cmd.Flags().Changed("output-dir") && cfg.OutputDir == "" {
			cfg.OutputDir = opts.InputDir
		}
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if cmd.Flags().Changed("write-split") {
		cfg.WriteSplitFiles = opts.WriteSplit
	}
}

func printSummary(cmd *cobra.Command, summary *pipeline.Summary, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	case "text":
		fmt.Fprintf(out, "Converted %d/%d file(s), %d record(s)\n",
			summary.FilesConverted, summary.FilesFound, summary.RecordsExported)
		if summary.ChannelsSplit > 0 {
			fmt.Fprintf(out, "Channels split: %d\n", summary.ChannelsSplit)
		}
		if len(summary.Failures) > 0 {
			fmt.Fprintf(out, "Failures:\n")
			for _, f := range summary.Failures {
				fmt.Fprintf(out, "  - %s: %s\n", f.Source, f.Reason)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}

// sendWebhooks sends the batch summary to all configured webhooks.
// Errors are logged to stderr but don't fail the batch.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *ConvertOptions, summary *pipeline.Summary) {
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()
	for _, res := range client.Broadcast(ctx, webhooks, summary, summary.FilesFailed > 0) {
		if res.Response.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", res.Name, res.Response.StatusCode, res.Response.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", res.Name, res.Response.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ConvertOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnErrors
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
