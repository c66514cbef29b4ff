package v2

import "errors"

// Fatal-to-record conditions. Either aborts the single record parse; the
// batch driver skips the file and continues.
var (
	// ErrMissingTimestamp means neither an observation time nor a UTC time
	// could be recovered from the header lines.
	ErrMissingTimestamp = errors.New("no observation or UTC timestamp found in header")

	// ErrMissingAccelSection means no acceleration data marker was found.
	// Acceleration is the only mandatory physical quantity.
	ErrMissingAccelSection = errors.New("acceleration data section not found")
)
