package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SaidaTaisei/CESMD-V2-File-Converter/internal/pipeline"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file without running a conversion.

Checks:
  - YAML syntax
  - Required fields and value ranges
  - Webhook URL validity
  - Input directory contents (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Input dir:    %s\n", cfg.InputDir)
	fmt.Fprintf(out, "  Output dir:   %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "  Format:       %s\n", cfg.Format)
	fmt.Fprintf(out, "  File pattern: %s\n", cfg.FilePattern)
	fmt.Fprintf(out, "  Workers:      %d\n", cfg.Workers)
	if cfg.Publish.Enabled {
		fmt.Fprintf(out, "  Publishing:   %s (topic %s)\n", cfg.Publish.Brokers, cfg.Publish.Topic)
	}
	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(out, "  Webhooks:     %d\n", len(cfg.Webhooks))
	}

	// Check input directory contents (warnings only)
	if _, err := os.Stat(cfg.InputDir); err != nil {
		fmt.Fprintf(out, "\nWarning: input directory not accessible: %v\n", err)
		return nil
	}

	files, err := pipeline.FindInputFiles(cfg.InputDir, cfg.FilePattern)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: error matching input files: %v\n", err)
	} else if len(files) == 0 {
		fmt.Fprintf(out, "\nWarning: no files match %s in %s\n", cfg.FilePattern, cfg.InputDir)
	} else {
		fmt.Fprintf(out, "\nInput files matched: %d\n", len(files))
		for _, f := range files {
			fmt.Fprintf(out, "  - %s\n", f)
		}
	}

	return nil
}
