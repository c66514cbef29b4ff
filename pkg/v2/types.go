// Package v2 decodes CESMD V2 strong-motion accelerograph records:
// fixed-column text files containing header metadata followed by
// acceleration, velocity, and displacement data sections.
package v2

import "path/filepath"

// Metadata holds the facts extracted from a V2 record header.
//
// Every field except Filename and Filepath is optional; pointer fields
// distinguish "absent" from a legitimate zero value. Extras carries the
// long tail of facts outside the well-known set; values are restricted to
// string, int, or float64 so the whole mapping flattens to scalars.
type Metadata struct {
	Filename string
	Filepath string

	// Raw matched text of the timestamp lines, empty when absent.
	UTCTime         string
	ObservationTime string

	// ChannelNumber is digitizer-local, StationChannelNumber network-global.
	ChannelNumber        *int
	StationChannelNumber *int

	ObsMonth    string
	ObsDay      *int
	ObsYear     *int
	ObsHour     *int
	ObsMinute   *int
	ObsSecond   *float64
	ObsTimezone string

	UTCMonth  *int
	UTCDay    *int
	UTCYear   *int
	UTCHour   *int
	UTCMinute *int
	UTCSecond *float64

	StationID string
	Latitude  *float64 // degrees, positive north
	Longitude *float64 // degrees, positive east

	HypocenterInfo string
	MagnitudeInfo  string

	InstrumentPeriod *float64 // seconds
	SamplingRate     *float64 // Hz
	TimeInterval     *float64 // seconds, reciprocal of SamplingRate

	// Peaks in the engineering units printed in the header, sign preserved.
	PeakAcceleration *float64
	PeakVelocity     *float64
	PeakDisplacement *float64

	// Extras holds facts outside the fixed field set. Keys never collide
	// with the flattened names of the known fields.
	Extras map[string]any
}

// NewMetadata creates a Metadata for the given source path.
func NewMetadata(path string) *Metadata {
	return &Metadata{
		Filename: filepath.Base(path),
		Filepath: path,
		Extras:   make(map[string]any),
	}
}

// Flatten returns the metadata as a key to scalar mapping suitable for
// embedding as file comments or attributes. Known fields that are absent
// are omitted; extras are merged in as-is.
func (m *Metadata) Flatten() map[string]any {
	out := make(map[string]any)

	out["filename"] = m.Filename
	out["filepath"] = m.Filepath

	putString(out, "utc_time", m.UTCTime)
	putString(out, "observation_time", m.ObservationTime)
	putInt(out, "channel_number", m.ChannelNumber)
	putInt(out, "station_channel_number", m.StationChannelNumber)

	putString(out, "obs_month", m.ObsMonth)
	putInt(out, "obs_day", m.ObsDay)
	putInt(out, "obs_year", m.ObsYear)
	putInt(out, "obs_hour", m.ObsHour)
	putInt(out, "obs_minute", m.ObsMinute)
	putFloat(out, "obs_second", m.ObsSecond)
	putString(out, "obs_timezone", m.ObsTimezone)

	putInt(out, "utc_month", m.UTCMonth)
	putInt(out, "utc_day", m.UTCDay)
	putInt(out, "utc_year", m.UTCYear)
	putInt(out, "utc_hour", m.UTCHour)
	putInt(out, "utc_minute", m.UTCMinute)
	putFloat(out, "utc_second", m.UTCSecond)

	putString(out, "station_id", m.StationID)
	putFloat(out, "latitude", m.Latitude)
	putFloat(out, "longitude", m.Longitude)

	putString(out, "hypocenter_info", m.HypocenterInfo)
	putString(out, "magnitude_info", m.MagnitudeInfo)

	putFloat(out, "instrument_period", m.InstrumentPeriod)
	putFloat(out, "sampling_rate", m.SamplingRate)
	putFloat(out, "time_interval", m.TimeInterval)

	putFloat(out, "peak_acceleration", m.PeakAcceleration)
	putFloat(out, "peak_velocity", m.PeakVelocity)
	putFloat(out, "peak_displacement", m.PeakDisplacement)

	for k, v := range m.Extras {
		if _, taken := out[k]; !taken {
			out[k] = v
		}
	}

	return out
}

func putString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func putInt(m map[string]any, key string, v *int) {
	if v != nil {
		m[key] = *v
	}
}

func putFloat(m map[string]any, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

// WaveformRecord is one decoded channel recording: a metadata block plus up
// to three parallel series and a synthesized time axis. Records are created
// fresh per parse and not mutated afterwards.
type WaveformRecord struct {
	// Time is present iff a sampling rate was recovered from the header.
	// len(Time) == len(Acceleration) always, by construction.
	Time         []float64
	Acceleration []float64

	// Velocity and Displacement may legitimately differ in length from
	// Time; exporters check via ValidateLengths before emitting them.
	Velocity     []float64
	Displacement []float64

	Metadata *Metadata
}

// HasRequiredData reports whether the record carries both a time axis and
// acceleration data, the minimum exporters require.
func (r *WaveformRecord) HasRequiredData() bool {
	return len(r.Time) > 0 && len(r.Acceleration) > 0
}

// LengthCheck reports which optional series match the time axis length.
type LengthCheck struct {
	Velocity     bool
	Displacement bool
}

// ValidateLengths checks the optional series against the time axis. A false
// entry with a non-nil series means the section was present but its length
// disagrees; exporters skip that column rather than failing the record.
func (r *WaveformRecord) ValidateLengths() LengthCheck {
	if len(r.Time) == 0 {
		return LengthCheck{}
	}
	return LengthCheck{
		Velocity:     r.Velocity != nil && len(r.Velocity) == len(r.Time),
		Displacement: r.Displacement != nil && len(r.Displacement) == len(r.Time),
	}
}
