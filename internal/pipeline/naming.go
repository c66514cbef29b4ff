package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	v2 "github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/v2"
)

// chanFromName recovers a channel number from file names like
// EVENT_CHAN005.V2 when the header itself carried none.
var chanFromName = regexp.MustCompile(`(?i)CHAN(\d+)`)

// channelNumber picks the channel number for output naming: the header
// value when present, then the source file name, then 0. A header value
// of 0 is a placeholder, not a real channel, and falls through to the
// file name.
func channelNumber(rec *v2.WaveformRecord, source string) int {
	if rec.Metadata.ChannelNumber != nil && *rec.Metadata.ChannelNumber != 0 {
		return *rec.Metadata.ChannelNumber
	}
	if m := chanFromName.FindStringSubmatch(filepath.Base(source)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

// outputPath builds the destination path for a converted channel:
// <outputDir>/<source stem>/channel_<nnn>.<ext>.
func outputPath(outputDir, source string, channel int, ext string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem, fmt.Sprintf("channel_%03d.%s", channel, ext))
}
