package export

import (
	"context"
	"encoding/json"
	"io"

	v2 "github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/v2"
)

// JSONExporter writes the record as a hierarchical document: flattened
// metadata attributes plus one named array per series. Unlike CSV the
// series are independent datasets, so velocity and displacement are kept
// even when their lengths differ from the time axis.
type JSONExporter struct{}

// NewJSON creates a JSON exporter.
func NewJSON() *JSONExporter {
	return &JSONExporter{}
}

// Name returns the format name.
func (e *JSONExporter) Name() string { return "json" }

// Ext returns the output file extension.
func (e *JSONExporter) Ext() string { return "json" }

type recordDocument struct {
	Metadata     map[string]any `json:"metadata"`
	Time         []float64      `json:"time"`
	Acceleration []float64      `json:"acceleration"`
	Velocity     []float64      `json:"velocity,omitempty"`
	Displacement []float64      `json:"displacement,omitempty"`
}

// Export writes the record as indented JSON.
func (e *JSONExporter) Export(_ context.Context, rec *v2.WaveformRecord, w io.Writer) error {
	if !rec.HasRequiredData() {
		return ErrIncompleteRecord
	}

	doc := recordDocument{
		Metadata:     rec.Metadata.Flatten(),
		Time:         rec.Time,
		Acceleration: rec.Acceleration,
		Velocity:     rec.Velocity,
		Displacement: rec.Displacement,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
