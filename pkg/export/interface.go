// Package export renders parsed waveform records for downstream tools.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	v2 "github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/v2"
)

// ErrIncompleteRecord is returned when a record lacks a time axis or
// acceleration data. A record without a recovered sampling rate is
// incomplete for export purposes and must be rejected here, not papered
// over with a default axis.
var ErrIncompleteRecord = errors.New("record is incomplete: time axis or acceleration missing")

// Exporter renders a waveform record in a specific format.
type Exporter interface {
	// Export writes the record to w. Returns ErrIncompleteRecord when the
	// record lacks the mandatory time/acceleration pair.
	Export(ctx context.Context, rec *v2.WaveformRecord, w io.Writer) error

	// Name returns the format name (csv, json).
	Name() string

	// Ext returns the output file extension, without the dot.
	Ext() string
}

// New creates an exporter for the given format name.
func New(format string, logger *slog.Logger) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSV(logger), nil
	case "json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use csv or json)", format)
	}
}
