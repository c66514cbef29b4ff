package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	v2 "github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/v2"
)

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split <file>",
		Short: "Split a multi-channel file into per-channel files",
		Long: `Split a multi-channel V2 file into one file per channel.

A file is considered multi-channel when it contains more than two
"Corrected accelerogram ... Chan n:" headers. Each channel block is
written verbatim as <stem>_chan_<n>.V2 next to the source file. Text
before the first channel header is discarded.`,
		Args: cobra.ExactArgs(1),
		RunE: runSplit,
	}
}

func runSplit(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided file path is expected
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	content := strings.ToValidUTF8(string(data), "")

	if !v2.HasMultipleChannels(content) {
		fmt.Fprintf(out, "%s: single channel, nothing to split\n", path)
		return nil
	}

	blocks, preamble := v2.SplitChannels(content)
	if len(blocks) == 0 {
		fmt.Fprintf(out, "%s: no channel headers matched, nothing to split\n", path)
		return nil
	}
	if preamble != "" {
		fmt.Fprintf(out, "Discarding %d byte(s) before first channel header\n", len(preamble))
	}

	written, err := v2.WriteChannelBlocks(path, blocks)
	for _, w := range written {
		fmt.Fprintf(out, "Wrote %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("writing channel files: %w", err)
	}

	fmt.Fprintf(out, "Split %d channel(s)\n", len(blocks))
	return nil
}
