package v2

import "testing"

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDecodeFixedWidth_TenCharColumns(t *testing.T) {
	lines := []string{"    1.2345    -2.341    0.0012"}

	got := decodeFixedWidth(lines, 0, 1)
	want := []float64{1.2345, -2.341, 0.0012}

	if !floatsEqual(got, want) {
		t.Errorf("decodeFixedWidth() = %v, want %v", got, want)
	}
}

func TestDecodeFixedWidth_ShortTrailingColumnSkipped(t *testing.T) {
	// The last column is only 3 characters after clipping and must be
	// skipped, not treated as a failure.
	lines := []string{"    1.2345    -2.341 .5"}

	got := decodeFixedWidth(lines, 0, 1)
	want := []float64{1.2345, -2.341}

	if !floatsEqual(got, want) {
		t.Errorf("decodeFixedWidth() = %v, want %v", got, want)
	}
}

func TestDecodeFixedWidth_BadColumnDroppedNotLine(t *testing.T) {
	lines := []string{"    1.2345    xxxxxx    0.0012"}

	got := decodeFixedWidth(lines, 0, 1)
	want := []float64{1.2345, 0.0012}

	if !floatsEqual(got, want) {
		t.Errorf("decodeFixedWidth() = %v, want %v", got, want)
	}
}

func TestDecodeFixedWidth_EightColumnsMax(t *testing.T) {
	line := ""
	for i := 0; i < 9; i++ {
		line += "    1.0000"
	}
	got := decodeFixedWidth([]string{line}, 0, 1)
	if len(got) != 8 {
		t.Errorf("decoded %d values, want 8 (ninth column ignored)", len(got))
	}
}

func TestDecodeFixedWidth_LineOrderThenColumnOrder(t *testing.T) {
	lines := []string{
		"    1.0000    2.0000",
		"    3.0000    4.0000",
	}

	got := decodeFixedWidth(lines, 0, 2)
	want := []float64{1, 2, 3, 4}

	if !floatsEqual(got, want) {
		t.Errorf("decodeFixedWidth() = %v, want %v", got, want)
	}
}

func TestDecodeFixedWidth_RangeClippedToInput(t *testing.T) {
	lines := []string{"    1.0000"}

	got := decodeFixedWidth(lines, 0, 10)
	if len(got) != 1 {
		t.Errorf("decoded %d values, want 1", len(got))
	}
	if got := decodeFixedWidth(lines, -1, 1); got != nil {
		t.Errorf("negative start: got %v, want nil", got)
	}
}
