package v2

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// dataRow renders values as one fixed-width data line, 10 characters per
// column, as the digitizers print them.
func dataRow(vals ...float64) string {
	var b strings.Builder
	for _, v := range vals {
		fmt.Fprintf(&b, "%10.5f", v)
	}
	return b.String()
}

// sampleChannelV2 builds one realistic channel block. 16 acceleration and
// velocity samples, 8 displacement samples (a legitimate length mismatch).
func sampleChannelV2(channel int) string {
	lines := []string{
		fmt.Sprintf("Corrected accelerogram   Chan  %d: 360 deg  (Sta Chn:  5)", channel),
		"Rcrd of Thu Apr 17, 2025 08:09: 20.5 PDT",
		"Hypocenter: 34.12N, 118.23W, depth 10.0 km   ML: 4.5 (CSMIP)",
		"Start time: 4/17/95, 15:09:14.0 UTC (ORIGIN(USGS): 4/17/95, 15:09:04.0 UTC)",
		"Station No. 24370    34.1N, 118.2W   Pacoima Dam",
		"Instr Period = .039 sec, damping = 0.6",
		"At equally-spaced intervals of  0.010 sec.",
		"Peak acceleration = -240.7 cm/sec2 at 4.58 sec",
		"      16 points of accel data equally spaced",
		dataRow(1, 2, 3, 4, 5, 6, 7, 8),
		dataRow(9, 10, 11, 12, 13, 14, 15, 16),
		"      16 points of veloc data equally spaced",
		dataRow(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8),
		dataRow(0.9, 1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6),
		"       8 points of displ data equally spaced",
		dataRow(0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08),
		fmt.Sprintf("End of data for channel  %d", channel),
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestParse_FullRecord(t *testing.T) {
	rec, err := Parse(sampleChannelV2(1), "sample.V2", "/data/sample.V2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(rec.Acceleration) != 16 {
		t.Errorf("len(Acceleration) = %d, want 16", len(rec.Acceleration))
	}
	if len(rec.Time) != len(rec.Acceleration) {
		t.Errorf("len(Time) = %d, want %d (must equal acceleration)", len(rec.Time), len(rec.Acceleration))
	}
	if len(rec.Velocity) != 16 {
		t.Errorf("len(Velocity) = %d, want 16", len(rec.Velocity))
	}
	if len(rec.Displacement) != 8 {
		t.Errorf("len(Displacement) = %d, want 8", len(rec.Displacement))
	}

	if rec.Time[1] != 0.01 {
		t.Errorf("Time[1] = %v, want 0.01", rec.Time[1])
	}
	if rec.Acceleration[0] != 1 || rec.Acceleration[15] != 16 {
		t.Errorf("Acceleration endpoints = %v, %v, want 1, 16", rec.Acceleration[0], rec.Acceleration[15])
	}

	md := rec.Metadata
	if md.Filename != "sample.V2" || md.Filepath != "/data/sample.V2" {
		t.Errorf("identity = %q, %q", md.Filename, md.Filepath)
	}
	if md.ChannelNumber == nil || *md.ChannelNumber != 1 {
		t.Errorf("ChannelNumber = %v, want 1", md.ChannelNumber)
	}
	if md.UTCYear == nil || *md.UTCYear != 1995 {
		t.Errorf("UTCYear = %v, want 1995", md.UTCYear)
	}
	if md.Latitude == nil || *md.Latitude != 34.1 {
		t.Errorf("Latitude = %v, want 34.1", md.Latitude)
	}
	if md.PeakAcceleration == nil || *md.PeakAcceleration != -240.7 {
		t.Errorf("PeakAcceleration = %v, want -240.7", md.PeakAcceleration)
	}

	check := rec.ValidateLengths()
	if !check.Velocity {
		t.Error("ValidateLengths().Velocity = false, want true")
	}
	if check.Displacement {
		t.Error("ValidateLengths().Displacement = true, want false (8 != 16)")
	}

	if !rec.HasRequiredData() {
		t.Error("HasRequiredData() = false, want true")
	}
}

func TestParse_MissingTimestampIsFatal(t *testing.T) {
	content := strings.Join([]string{
		"Corrected accelerogram   Chan  1: 360 deg",
		"At equally-spaced intervals of 0.010 sec",
		"16 points of accel data equally spaced",
		dataRow(1, 2, 3, 4),
		"End of data for channel 1",
	}, "\n")

	_, err := Parse(content, "x.V2", "x.V2")
	if !errors.Is(err, ErrMissingTimestamp) {
		t.Errorf("Parse() error = %v, want ErrMissingTimestamp", err)
	}
}

func TestParse_MissingAccelSectionIsFatal(t *testing.T) {
	content := strings.Join([]string{
		"Start time: 4/17/95, 15:09:14.0 UTC",
		"16 points of veloc data equally spaced",
		dataRow(1, 2, 3, 4),
		"End of data for channel 1",
	}, "\n")

	_, err := Parse(content, "x.V2", "x.V2")
	if !errors.Is(err, ErrMissingAccelSection) {
		t.Errorf("Parse() error = %v, want ErrMissingAccelSection", err)
	}
}

func TestParse_NoSamplingRateMeansNoTimeAxis(t *testing.T) {
	content := strings.Join([]string{
		"Start time: 4/17/95, 15:09:14.0 UTC",
		"4 points of accel data equally spaced",
		dataRow(1, 2, 3, 4),
		"End of data for channel 1",
	}, "\n")

	rec, err := Parse(content, "x.V2", "x.V2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rec.Time != nil {
		t.Errorf("Time = %v, want nil without a sampling rate", rec.Time)
	}
	if rec.HasRequiredData() {
		t.Error("HasRequiredData() = true, want false (incomplete for export)")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.V2")
	if err := os.WriteFile(path, []byte(sampleChannelV2(2)), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if rec.Metadata.Filename != "rec.V2" {
		t.Errorf("Filename = %q, want rec.V2", rec.Metadata.Filename)
	}
	if rec.Metadata.ChannelNumber == nil || *rec.Metadata.ChannelNumber != 2 {
		t.Errorf("ChannelNumber = %v, want 2", rec.Metadata.ChannelNumber)
	}
}

func TestParseFile_TolerantOfUndecodableBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.V2")

	content := []byte(sampleChannelV2(1))
	content = append([]byte{0xff, 0xfe}, content...) // stray non-UTF-8 bytes
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseFile(path); err != nil {
		t.Errorf("ParseFile() error = %v, want tolerant read", err)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.V2")); err == nil {
		t.Error("ParseFile() error = nil, want read error")
	}
}

func TestParse_CRLFLineEndings(t *testing.T) {
	content := strings.ReplaceAll(sampleChannelV2(1), "\n", "\r\n")

	rec, err := Parse(content, "x.V2", "x.V2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rec.Acceleration) != 16 {
		t.Errorf("len(Acceleration) = %d, want 16", len(rec.Acceleration))
	}
}
