package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	v2 "github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/v2"
)

// CSVExporter writes the record as delimited text: one metadata comment
// line, a column header, then one row per sample.
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSV creates a CSV exporter. Length-mismatch warnings go to logger.
func NewCSV(logger *slog.Logger) *CSVExporter {
	return &CSVExporter{logger: logger}
}

// Name returns the format name.
func (e *CSVExporter) Name() string { return "csv" }

// Ext returns the output file extension.
func (e *CSVExporter) Ext() string { return "csv" }

// Export writes the record as CSV. Velocity and displacement columns are
// included only when their lengths match the time axis; a mismatched
// section is logged and skipped rather than failing the record.
func (e *CSVExporter) Export(_ context.Context, rec *v2.WaveformRecord, w io.Writer) error {
	if !rec.HasRequiredData() {
		return ErrIncompleteRecord
	}

	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "# %s\n", metadataComment(rec.Metadata)); err != nil {
		return err
	}

	check := rec.ValidateLengths()

	columns := []string{"Time", "Acceleration"}
	if check.Velocity {
		columns = append(columns, "Velocity")
	} else if rec.Velocity != nil {
		e.logger.Warn("velocity length does not match time axis, skipping column",
			"velocity", len(rec.Velocity), "time", len(rec.Time))
	}
	if check.Displacement {
		columns = append(columns, "Displacement")
	} else if rec.Displacement != nil {
		e.logger.Warn("displacement length does not match time axis, skipping column",
			"displacement", len(rec.Displacement), "time", len(rec.Time))
	}

	if _, err := fmt.Fprintln(bw, strings.Join(columns, ",")); err != nil {
		return err
	}

	row := make([]string, 0, len(columns))
	for i := range rec.Time {
		row = row[:0]
		row = append(row, formatFloat(rec.Time[i]), formatFloat(rec.Acceleration[i]))
		if check.Velocity {
			row = append(row, formatFloat(rec.Velocity[i]))
		}
		if check.Displacement {
			row = append(row, formatFloat(rec.Displacement[i]))
		}
		if _, err := fmt.Fprintln(bw, strings.Join(row, ",")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// metadataComment renders the flattened metadata as "key: value" pairs,
// sorted by key for deterministic output. Floats keep full precision
// without scientific notation surprises.
func metadataComment(md *v2.Metadata) string {
	flat := md.Flatten()

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]string, 0, len(keys))
	for _, k := range keys {
		items = append(items, fmt.Sprintf("%s: %s", k, formatScalar(flat[k])))
	}
	return strings.Join(items, ", ")
}

func formatScalar(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', 16, 64)
	}
	return fmt.Sprintf("%v", v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
