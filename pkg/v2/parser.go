package v2

import (
	"fmt"
	"os"
	"strings"
)

// Parse decodes one channel's worth of V2 text into a WaveformRecord.
// name and path identify the source and seed the record's metadata.
//
// The parse is synchronous and side-effect free: it operates only on the
// given text and returns a freshly owned record, so arbitrarily many parses
// may run concurrently. It fails with the first fatal condition found:
// ErrMissingTimestamp or ErrMissingAccelSection.
func Parse(content, name, path string) (*WaveformRecord, error) {
	lines := splitLines(content)

	md := NewMetadata(path)
	if name != "" {
		md.Filename = name
	}

	extractHeader(lines, md)

	if md.UTCTime == "" && md.ObservationTime == "" {
		return nil, ErrMissingTimestamp
	}

	secs, err := locateSections(lines)
	if err != nil {
		return nil, err
	}

	rec := &WaveformRecord{
		Acceleration: decodeFixedWidth(lines, secs.accelStart, secs.accelEnd),
		Metadata:     md,
	}

	if secs.velocStart >= 0 {
		rec.Velocity = decodeFixedWidth(lines, secs.velocStart, secs.velocEnd)
	}
	if secs.displStart >= 0 {
		rec.Displacement = decodeFixedWidth(lines, secs.displStart, secs.displEnd)
	}

	if md.SamplingRate != nil {
		rec.Time = timeAxis(len(rec.Acceleration), *md.SamplingRate)
	}

	return rec, nil
}

// ParseFile reads and parses a single-channel V2 file. Undecodable bytes in
// the input are dropped rather than failing the read; the format predates
// any consistent encoding.
func ParseFile(path string) (*WaveformRecord, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("reading V2 file %s: %w", path, err)
	}

	content := strings.ToValidUTF8(string(data), "")

	rec, err := Parse(content, "", path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rec, nil
}

// timeAxis synthesizes n evenly spaced values starting at 0 with step
// 1/rate. The axis length always equals the acceleration length.
func timeAxis(n int, rate float64) []float64 {
	if n == 0 || rate <= 0 {
		return nil
	}
	dt := 1.0 / rate
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * dt
	}
	return out
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
