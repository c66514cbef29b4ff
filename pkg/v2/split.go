package v2

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// multiChannelMarker appears once per channel block, and commonly once more
// in a file-level header outside any block.
const multiChannelMarker = "corrected accelerogram"

// channelHeaderPattern opens a channel block. The channel-number token
// terminates the header so each block can re-derive its own number.
var channelHeaderPattern = regexp.MustCompile(`(?im)^Corrected accelerogram.*?Chan\s+(\d+):`)

// ChannelBlock is one channel's contiguous raw text within a multi-channel
// file, kept verbatim so the block can be re-parsed or written out as-is.
type ChannelBlock struct {
	Channel int
	Text    string
}

// HasMultipleChannels reports whether content likely packs more than one
// channel recording. A single extra marker occurrence is not yet a second
// channel, so the threshold is strictly more than two.
func HasMultipleChannels(content string) bool {
	return strings.Count(strings.ToLower(content), multiChannelMarker) > 2
}

// SplitChannels partitions raw file content into per-channel blocks. Each
// block runs from one channel header to the start of the next (or end of
// file). Content before the first header is returned as preamble and is
// never emitted as a channel block; callers report it as skipped rather
// than merging it into the first channel. When no header matches, blocks is
// empty and the caller falls back to single-channel parsing.
func SplitChannels(content string) (blocks []ChannelBlock, preamble string) {
	matches := channelHeaderPattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return nil, ""
	}

	if matches[0][0] > 0 {
		preamble = content[:matches[0][0]]
	}

	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		text := content[m[0]:end]

		// Re-derive the channel number from the block's own header.
		hm := channelHeaderPattern.FindStringSubmatch(text)
		if hm == nil {
			continue
		}
		num, err := strconv.Atoi(hm[1])
		if err != nil {
			continue
		}

		blocks = append(blocks, ChannelBlock{Channel: num, Text: text})
	}

	return blocks, preamble
}

// WriteChannelBlocks writes each block verbatim to
// <stem>_chan_<channel>.V2 alongside the source file and returns the paths
// written. A failure writing one block does not prevent the others; all
// write failures are joined into the returned error.
func WriteChannelBlocks(srcPath string, blocks []ChannelBlock) ([]string, error) {
	dir := filepath.Dir(srcPath)
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))

	var (
		paths []string
		errs  []error
	)

	for _, b := range blocks {
		out := filepath.Join(dir, fmt.Sprintf("%s_chan_%d.V2", stem, b.Channel))
		if err := os.WriteFile(out, []byte(b.Text), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("writing channel %d: %w", b.Channel, err))
			continue
		}
		paths = append(paths, out)
	}

	return paths, errors.Join(errs...)
}
