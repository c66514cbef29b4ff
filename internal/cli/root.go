// Package cli provides the command-line interface for the converter.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SaidaTaisei/CESMD-V2-File-Converter/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cesmd",
		Short: "Convert CESMD strong-motion V2 files",
		Long: `cesmd converts corrected accelerograph files in the CESMD V2 text
format into analysis-friendly CSV or JSON.

It extracts header metadata (station, channel, timestamps, peaks),
decodes the fixed-width acceleration, velocity, and displacement
sections, synthesizes the time axis from the sampling interval, and
splits multi-channel files into one record per channel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewConvertCommand())
	rootCmd.AddCommand(commands.NewSplitCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
