package v2

import (
	"regexp"
	"strconv"
	"strings"
)

// headerLines is how many leading lines are scanned for metadata facts.
const headerLines = 30

// Header fact patterns. Each is tried independently on every header line, so
// a single line may populate several fields. Dialect coverage follows the
// broadest set observed in the wild: both "Rcrd of" and "Record of" local
// timestamps, the "Earthquake of" form with a zone abbreviation, "Start
// time" in UTC or GMT, and the parenthetical ORIGIN fallback.
var (
	reChannel        = regexp.MustCompile(`(?i)Chan\s+(\d+)`)
	reStationChannel = regexp.MustCompile(`(?i)Sta\s*Chn\s*:\s*(\d+)`)

	reRecordOf = regexp.MustCompile(`(?i)(?:Rcrd|Record)\s+of\s+([A-Za-z]+)\s+([A-Za-z]+)\s+(\d{1,2}),\s+(\d{2,4})\s+(\d{1,2}):(\d{2}):\s*(\d{1,2}(?:\.\d+)?)`)
	reEarthquake = regexp.MustCompile(`(?i)Earthquake\s+of\s+\w+\s+([A-Za-z]{3,})\s+(\d{1,2}),\s+(\d{4})\s+(\d{1,2}):(\d{2})(?::\s*(\d{1,2}(?:\.\d+)?))?\s+([A-Z]{2,4})`)

	reStartTime = regexp.MustCompile(`(?i)Start\s+time:\s+(\d{1,2})[/-](\d{1,2})[/-](\d{2,4}),\s+(\d{1,2}):(\d{2})(?::\s*(\d{1,2}(?:\.\d+)?))?\s+(UTC|GMT)(?:\s*\(.*?\))?`)
	reOrigin    = regexp.MustCompile(`(?i)\(ORIGIN(?:\([A-Z]+\))?:\s*(\d{1,2})[/-](\d{1,2})[/-](\d{2,4}),\s*(\d{1,2}):(\d{2})(?::\s*(\d{1,2}(?:\.\d+)?))?\s+(UTC|GMT)\)`)

	reStation   = regexp.MustCompile(`(?i)Station No\.\s+(\d+)\s+([\d.]+)([NS])\s*,\s*([\d.]+)([EW])`)
	reMagnitude = regexp.MustCompile(`(?i)ML:\s+(.+)`)
	rePeriod    = regexp.MustCompile(`(?i)Instr(?:ument)?\s+Period\s*=\s*([\d.]+)\s*sec`)
	reInterval  = regexp.MustCompile(`(?i)At equally-spaced intervals of\s*([\d.]+)\s*sec`)

	rePeakAccel = regexp.MustCompile(`(?i)Peak acceleration\s*=\s*([\d.\-]+)`)
	rePeakVeloc = regexp.MustCompile(`(?i)Peak\s+velocity\s*=\s*([\d.\-]+)`)
	rePeakDispl = regexp.MustCompile(`(?i)Peak displacement\s*=\s*([\d.\-]+)`)
)

// extractHeader scans the leading lines for recognized facts and fills md.
// Unmatched lines are ignored; a matched but malformed numeric capture skips
// that field only. The scan itself never fails; the caller decides whether
// the recovered facts are sufficient.
func extractHeader(lines []string, md *Metadata) {
	n := headerLines
	if len(lines) < n {
		n = len(lines)
	}

	for _, line := range lines[:n] {
		if m := reChannel.FindStringSubmatch(line); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				md.ChannelNumber = &v
			}
		}

		if m := reStationChannel.FindStringSubmatch(line); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				md.StationChannelNumber = &v
			}
		}

		extractObservationTime(line, md)
		extractUTCTime(line, md)

		if m := reStation.FindStringSubmatch(line); m != nil {
			extractStation(m, md)
		}

		if strings.Contains(strings.ToLower(line), "hypocenter:") {
			md.HypocenterInfo = strings.TrimSpace(line)
		}

		if m := reMagnitude.FindStringSubmatch(line); m != nil {
			md.MagnitudeInfo = m[1]
		}

		if m := rePeriod.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				md.InstrumentPeriod = &v
			}
		}

		if m := reInterval.FindStringSubmatch(line); m != nil {
			if interval, err := strconv.ParseFloat(m[1], 64); err == nil && interval > 0 {
				rate := 1.0 / interval
				md.SamplingRate = &rate
				md.TimeInterval = &interval
			}
		}

		if m := rePeakAccel.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				md.PeakAcceleration = &v
			}
		}

		if m := rePeakVeloc.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				md.PeakVelocity = &v
			}
		}

		if m := rePeakDispl.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				md.PeakDisplacement = &v
			}
		}
	}
}

// extractObservationTime tries the "record of" form first; only if that is
// absent on the line does it try the "earthquake of" form. The record form
// requires seconds, the earthquake form defaults them to 0 and carries a
// time-zone abbreviation.
func extractObservationTime(line string, md *Metadata) {
	if m := reRecordOf.FindStringSubmatch(line); m != nil {
		sec, err := strconv.ParseFloat(m[7], 64)
		if err != nil {
			return
		}
		md.ObservationTime = m[0]
		md.ObsMonth = m[2]
		md.ObsDay = atoiPtr(m[3])
		md.ObsYear = atoiPtr(m[4])
		md.ObsHour = atoiPtr(m[5])
		md.ObsMinute = atoiPtr(m[6])
		md.ObsSecond = &sec
		return
	}

	if m := reEarthquake.FindStringSubmatch(line); m != nil {
		sec := 0.0
		if m[6] != "" {
			v, err := strconv.ParseFloat(m[6], 64)
			if err != nil {
				return
			}
			sec = v
		}
		md.ObservationTime = m[0]
		md.ObsMonth = m[1]
		md.ObsDay = atoiPtr(m[2])
		md.ObsYear = atoiPtr(m[3])
		md.ObsHour = atoiPtr(m[4])
		md.ObsMinute = atoiPtr(m[5])
		md.ObsSecond = &sec
		md.ObsTimezone = strings.ToUpper(m[7])
	}
}

// extractUTCTime handles the "Start time" form and the ORIGIN parenthetical
// fallback. Start time takes precedence by scan order: ORIGIN fills the UTC
// fields only while no Start time line has matched yet.
func extractUTCTime(line string, md *Metadata) {
	if m := reStartTime.FindStringSubmatch(line); m != nil {
		setUTCFields(m, md)
		return
	}

	if md.UTCTime != "" {
		return
	}
	if m := reOrigin.FindStringSubmatch(line); m != nil {
		setUTCFields(m, md)
	}
}

func setUTCFields(m []string, md *Metadata) {
	year, ok := normalizeYear(m[3])
	if !ok {
		return
	}
	sec := 0.0
	if m[6] != "" {
		v, err := strconv.ParseFloat(m[6], 64)
		if err != nil {
			return
		}
		sec = v
	}
	md.UTCTime = m[0]
	md.UTCMonth = atoiPtr(m[1])
	md.UTCDay = atoiPtr(m[2])
	md.UTCYear = &year
	md.UTCHour = atoiPtr(m[4])
	md.UTCMinute = atoiPtr(m[5])
	md.UTCSecond = &sec
}

func extractStation(m []string, md *Metadata) {
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return
	}
	lon, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return
	}
	if !strings.EqualFold(m[3], "N") {
		lat = -lat
	}
	if !strings.EqualFold(m[5], "E") {
		lon = -lon
	}
	md.StationID = m[1]
	md.Latitude = &lat
	md.Longitude = &lon
}

// normalizeYear expands a 2-digit year with the pivot at 90: values >= 90
// map to 1900+y, everything below to 2000+y. 4-digit years pass through.
func normalizeYear(text string) (int, bool) {
	y, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	if len(text) == 2 {
		if y >= 90 {
			return 1900 + y, true
		}
		return 2000 + y, true
	}
	return y, true
}

func atoiPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
