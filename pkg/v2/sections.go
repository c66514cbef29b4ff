package v2

import "strings"

// Data section markers. Matched case-insensitively anywhere in a line.
const (
	markerAccel     = "points of accel data equally spaced"
	markerVeloc     = "points of veloc data equally spaced"
	markerDispl     = "points of displ data equally spaced"
	markerEndOfData = "end of data for channel"
)

// sections holds the resolved line ranges of the three data blocks.
// Each range is [start, end) over the file's line slice; a start of -1
// means the section is absent.
type sections struct {
	accelStart, accelEnd int
	velocStart, velocEnd int
	displStart, displEnd int
}

// locateSections scans every line for the section boundary markers. Data
// begins on the line after a data-type marker; the end marker index bounds
// the last open section exclusively. Acceleration's end is velocity's
// marker line when velocity exists, velocity's end is displacement's marker
// line when displacement exists, displacement always runs to the end
// marker. A missing end marker resolves to the end of the file.
func locateSections(lines []string) (sections, error) {
	accelStart, velocStart, displStart := -1, -1, -1
	endOfData := len(lines)

	for i, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, markerAccel):
			accelStart = i + 1
		case strings.Contains(lower, markerVeloc):
			velocStart = i + 1
		case strings.Contains(lower, markerDispl):
			displStart = i + 1
		case strings.Contains(lower, markerEndOfData):
			endOfData = i
		}
	}

	if accelStart < 0 {
		return sections{}, ErrMissingAccelSection
	}

	s := sections{
		accelStart: accelStart,
		accelEnd:   endOfData,
		velocStart: velocStart,
		velocEnd:   -1,
		displStart: displStart,
		displEnd:   -1,
	}

	if velocStart >= 0 {
		s.accelEnd = velocStart - 1
		s.velocEnd = endOfData
		if displStart >= 0 {
			s.velocEnd = displStart - 1
		}
	}
	if displStart >= 0 {
		s.displEnd = endOfData
	}

	return s, nil
}
