package analytics

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/petdex/analytics/internal/models"
	"gonum.org/v1/gonum/stat"
)

// StatSummary is the descriptive summary of a heart-rate series.
// Every field is nil when no valid value remains after filtering.
type StatSummary struct {
	Mean     *float64 `json:"media"`
	Median   *float64 `json:"mediana"`
	Mode     *float64 `json:"moda"`
	StdDev   *float64 `json:"desvio_padrao"`
	Skewness *float64 `json:"assimetria"`
	Kurtosis *float64 `json:"curtose"`
	Count    int      `json:"quantidade"`
}

// Empty reports whether the summary carries no statistics.
func (s StatSummary) Empty() bool {
	return s.Mean == nil
}

// Valid returns the readings that carry an in-band heart rate, in input order.
func Valid(records []models.HeartRateRecord, limits Limits) Samples {
	out := make(Samples, 0, len(records))
	for _, r := range records {
		if r.HeartRate == nil || !limits.InBand(*r.HeartRate) {
			continue
		}
		out = append(out, Sample{Time: r.Timestamp, Value: *r.HeartRate})
	}
	return out
}

// TrimOutliers drops values farther than k sample standard deviations from
// the mean. It is a single pass: the band is computed once, before trimming.
func TrimOutliers(values []float64, k float64) []float64 {
	if len(values) < 2 {
		return values
	}

	mean, _ := stats.Mean(values)
	sd, _ := stats.StandardDeviationSample(values)
	if !(sd > 0) {
		return values
	}

	lower, upper := mean-k*sd, mean+k*sd
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lower && v <= upper {
			kept = append(kept, v)
		}
	}
	return kept
}

// Describe computes mean, median, mode, sample standard deviation and the
// bias-corrected skewness and excess kurtosis of the valid heart rates.
func Describe(records []models.HeartRateRecord, limits Limits) StatSummary {
	values := TrimOutliers(Valid(records, limits).Values(), limits.OutlierK)
	if len(values) == 0 {
		return StatSummary{}
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)

	summary := StatSummary{
		Mean:   Ptr(mean),
		Median: Ptr(median),
		Mode:   Ptr(firstMode(values)),
		Count:  len(values),
	}

	// n-1, n-2 and n-3 denominators leave the higher moments undefined for tiny samples
	sd := math.NaN()
	if len(values) > 1 {
		sd, _ = stats.StandardDeviationSample(values)
		summary.StdDev = Ptr(sd)
	}
	if len(values) > 2 && sd > 0 {
		summary.Skewness = Ptr(stat.Skew(values, nil))
	}
	if len(values) > 3 && sd > 0 {
		summary.Kurtosis = Ptr(stat.ExKurtosis(values, nil))
	}

	return summary
}

// firstMode returns the smallest of the most frequent values. When every value
// is equally frequent all of them are modes, so the minimum is returned.
func firstMode(values []float64) float64 {
	modes, err := stats.Mode(values)
	if err == nil && len(modes) > 0 {
		return modes[0]
	}
	min, _ := stats.Min(values)
	return min
}
