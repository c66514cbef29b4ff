package v2

import (
	"errors"
	"testing"
)

// linesWithMarkers builds an n-line file with the given markers placed at
// specific indices.
func linesWithMarkers(n int, markers map[int]string) []string {
	lines := make([]string, n)
	for i, m := range markers {
		lines[i] = m
	}
	return lines
}

func TestLocateSections_AccelVelocEnd(t *testing.T) {
	lines := linesWithMarkers(80, map[int]string{
		10: "2900 points of accel data equally spaced at .010 sec",
		40: "2900 points of veloc data equally spaced at .010 sec",
		70: "End of data for channel  1",
	})

	s, err := locateSections(lines)
	if err != nil {
		t.Fatalf("locateSections() error = %v", err)
	}

	// Acceleration spans lines [11,39], velocity [41,69], displacement absent.
	if s.accelStart != 11 || s.accelEnd != 40 {
		t.Errorf("accel range = [%d,%d), want [11,40)", s.accelStart, s.accelEnd)
	}
	if s.velocStart != 41 || s.velocEnd != 70 {
		t.Errorf("veloc range = [%d,%d), want [41,70)", s.velocStart, s.velocEnd)
	}
	if s.displStart != -1 {
		t.Errorf("displStart = %d, want -1 (absent)", s.displStart)
	}
}

func TestLocateSections_AllThree(t *testing.T) {
	lines := linesWithMarkers(100, map[int]string{
		10: "points of accel data equally spaced",
		40: "points of veloc data equally spaced",
		70: "points of displ data equally spaced",
		95: "end of data for channel 1",
	})

	s, err := locateSections(lines)
	if err != nil {
		t.Fatalf("locateSections() error = %v", err)
	}

	if s.accelEnd != 40 {
		t.Errorf("accelEnd = %d, want 40", s.accelEnd)
	}
	if s.velocEnd != 70 {
		t.Errorf("velocEnd = %d, want 70", s.velocEnd)
	}
	if s.displStart != 71 || s.displEnd != 95 {
		t.Errorf("displ range = [%d,%d), want [71,95)", s.displStart, s.displEnd)
	}
}

func TestLocateSections_CaseInsensitive(t *testing.T) {
	lines := linesWithMarkers(20, map[int]string{
		5:  "2900 POINTS OF ACCEL DATA EQUALLY SPACED",
		15: "END OF DATA FOR CHANNEL 1",
	})

	s, err := locateSections(lines)
	if err != nil {
		t.Fatalf("locateSections() error = %v", err)
	}
	if s.accelStart != 6 || s.accelEnd != 15 {
		t.Errorf("accel range = [%d,%d), want [6,15)", s.accelStart, s.accelEnd)
	}
}

func TestLocateSections_MissingAccelIsFatal(t *testing.T) {
	lines := linesWithMarkers(20, map[int]string{
		5:  "points of veloc data equally spaced",
		15: "end of data for channel 1",
	})

	_, err := locateSections(lines)
	if !errors.Is(err, ErrMissingAccelSection) {
		t.Errorf("locateSections() error = %v, want ErrMissingAccelSection", err)
	}
}

func TestLocateSections_MissingEndMarkerRunsToEOF(t *testing.T) {
	lines := linesWithMarkers(20, map[int]string{
		5: "points of accel data equally spaced",
	})

	s, err := locateSections(lines)
	if err != nil {
		t.Fatalf("locateSections() error = %v", err)
	}
	if s.accelEnd != 20 {
		t.Errorf("accelEnd = %d, want 20 (end of file)", s.accelEnd)
	}
}
