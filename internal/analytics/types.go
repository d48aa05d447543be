// Package analytics provides the statistics computed over heart-rate telemetry:
// descriptive summaries and calendar-window aggregates. Probability scoring lives
// in the anomaly subpackage and the motion regression in forecast.
package analytics

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// Limits holds every tunable constant used by the analytics packages.
// It is the single source of truth for physiological bands and window sizes.
type Limits struct {
	HeartRateMin float64 // Lower physiological bound (inclusive)
	HeartRateMax float64 // Upper physiological bound (inclusive)
	SanityMax    float64 // Upper bound a classified value may take before it is rejected

	OutlierK float64 // Outlier trim distance in standard deviations

	WindowDays  int // Distinct days returned by LastValidDays
	WindowHours int // Distinct hours returned by LastRegisteredHours

	MinReferencePoints int // Minimum reference values for classification

	ProjectionRows   int           // Trailing rows averaged for the projection
	ForecastHorizon  int           // Number of projected steps
	ForecastStep     time.Duration // Distance between projected steps
	JoinGranularity  time.Duration // Timestamp floor used to join heart-rate and motion
	IncludeGyroscope bool          // Use gyroscope channels as predictors too

	Location *time.Location // Timezone for calendar dates and hour buckets
}

// DefaultLimits returns the canonical limits.
func DefaultLimits() Limits {
	return Limits{
		HeartRateMin:       30,
		HeartRateMax:       200,
		SanityMax:          250,
		OutlierK:           3,
		WindowDays:         5,
		WindowHours:        5,
		MinReferencePoints: 2,
		ProjectionRows:     10,
		ForecastHorizon:    5,
		ForecastStep:       time.Minute,
		JoinGranularity:    time.Minute,
		Location:           time.FixedZone("-03:00", -3*60*60),
	}
}

// InBand reports whether v is a physiologically plausible heart rate.
func (l Limits) InBand(v float64) bool {
	return v >= l.HeartRateMin && v <= l.HeartRateMax
}

// Zone returns the analytics timezone, UTC when unset.
func (l Limits) Zone() *time.Location {
	if l.Location == nil {
		return time.UTC
	}
	return l.Location
}

// Sample is a single validated heart-rate reading.
type Sample struct {
	Time  time.Time
	Value float64
}

// Samples is a collection of validated heart-rate readings.
type Samples []Sample

// Values extracts just the values.
func (s Samples) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Round rounds v to the given number of decimal places.
// NaN is returned unchanged.
func Round(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil {
		return v
	}
	return r
}

// Ptr returns a pointer to a finite value, nil otherwise.
func Ptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
