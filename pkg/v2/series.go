package v2

import (
	"strconv"
	"strings"
)

const (
	columnWidth    = 10
	columnsPerLine = 8
)

// decodeFixedWidth decodes the numeric sequence in lines[start:end]. Each
// line holds up to 8 values in fixed 10-character columns; a column is
// attempted only when its slice, clipped to the line length, is longer than
// 3 characters, which tolerates short trailing columns on the last line of
// a block. A column that fails numeric conversion is dropped on its own;
// blank padding and stray non-numeric cells are expected in the format.
// Values are returned in line order, then column order.
func decodeFixedWidth(lines []string, start, end int) []float64 {
	var out []float64

	if start < 0 {
		return out
	}
	if end > len(lines) {
		end = len(lines)
	}

	for i := start; i < end; i++ {
		line := lines[i]
		for j := 0; j < columnsPerLine; j++ {
			lo := columnWidth * j
			if lo >= len(line) {
				break
			}
			hi := lo + columnWidth
			if hi > len(line) {
				hi = len(line)
			}
			cell := line[lo:hi]
			if len(cell) <= 3 {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				continue
			}
			out = append(out, v)
		}
	}

	return out
}
