package analytics

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/petdex/analytics/internal/models"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "2006-01-02 15:00"

	// MessageNoData is carried by every aggregate that had nothing to average
	MessageNoData = "Nenhum dado válido encontrado para o período"
)

// PeriodMean is the mean heart rate of one calendar bucket.
type PeriodMean struct {
	Period string  `json:"periodo"`
	Mean   float64 `json:"media"`
}

// IntervalMean is the mean heart rate over an inclusive date range.
type IntervalMean struct {
	Start   string   `json:"inicio"`
	End     string   `json:"fim"`
	Mean    *float64 `json:"media"`
	Count   int      `json:"quantidade"`
	Message string   `json:"mensagem,omitempty"`
}

// DailyMeans holds per-day means of the most recent days that have data.
type DailyMeans struct {
	Days    []PeriodMean       `json:"-"`
	Means   map[string]float64 `json:"medias"`
	Message string             `json:"mensagem,omitempty"`
}

// HourlyMeans holds per-hour means of the most recent hours that have data and
// the mean of those per-hour means.
type HourlyMeans struct {
	Hours   []PeriodMean       `json:"-"`
	Means   map[string]float64 `json:"medias_por_hora"`
	Overall *float64           `json:"media_geral"`
	Message string             `json:"mensagem,omitempty"`
}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

// MeanByDateRange averages the valid readings whose calendar date lies in
// [start, end], both ends inclusive. Only the dates of start and end matter.
func MeanByDateRange(records []models.HeartRateRecord, start, end time.Time, limits Limits) IntervalMean {
	loc := limits.Zone()
	from, to := start.Format(dateLayout), end.Format(dateLayout)
	result := IntervalMean{Start: from, End: to}

	var values []float64
	for _, s := range Valid(records, limits) {
		day := s.Time.In(loc).Format(dateLayout)
		if day >= from && day <= to {
			values = append(values, s.Value)
		}
	}

	if len(values) == 0 {
		result.Message = MessageNoData
		return result
	}

	mean, _ := stats.Mean(values)
	result.Mean = Ptr(Round(mean, 2))
	result.Count = len(values)
	return result
}

type bucket struct {
	start  time.Time
	values []float64
}

// groupBy buckets the valid readings by floor(t), keyed by its start instant,
// and returns them most recent first.
func groupBy(samples Samples, floor func(time.Time) time.Time) []*bucket {
	index := make(map[int64]*bucket)
	for _, s := range samples {
		start := floor(s.Time)
		key := start.UnixNano()
		b, ok := index[key]
		if !ok {
			b = &bucket{start: start}
			index[key] = b
		}
		b.values = append(b.values, s.Value)
	}

	buckets := make([]*bucket, 0, len(index))
	for _, b := range index {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].start.After(buckets[j].start)
	})
	return buckets
}

// latest keeps the n most recent buckets and returns their means in ascending order.
func latest(buckets []*bucket, n int, layout string) []PeriodMean {
	if n > 0 && len(buckets) > n {
		buckets = buckets[:n]
	}

	out := make([]PeriodMean, len(buckets))
	for i, b := range buckets {
		mean, _ := stats.Mean(b.values)
		out[len(buckets)-1-i] = PeriodMean{Period: b.start.Format(layout), Mean: mean}
	}
	return out
}

func asMap(periods []PeriodMean) map[string]float64 {
	m := make(map[string]float64, len(periods))
	for _, p := range periods {
		m[p.Period] = p.Mean
	}
	return m
}

// LastValidDays returns the rounded mean of each of the most recent
// limits.WindowDays calendar dates present in the data, ascending by date.
// Sparse data reaches further back; it is not a calendar window.
func LastValidDays(records []models.HeartRateRecord, limits Limits) DailyMeans {
	loc := limits.Zone()
	buckets := groupBy(Valid(records, limits), func(t time.Time) time.Time {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	})

	days := latest(buckets, limits.WindowDays, dateLayout)
	for i := range days {
		days[i].Mean = Round(days[i].Mean, 2)
	}

	result := DailyMeans{Days: days, Means: asMap(days)}
	if len(days) == 0 {
		result.Message = MessageNoData
	}
	return result
}

// LastRegisteredHours returns per-hour means of the most recent
// limits.WindowHours hour buckets that have data, ascending. Overall is the
// mean of those per-hour means, not of the underlying readings.
func LastRegisteredHours(records []models.HeartRateRecord, limits Limits) HourlyMeans {
	loc := limits.Zone()
	buckets := groupBy(Valid(records, limits), func(t time.Time) time.Time {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	})

	hours := latest(buckets, limits.WindowHours, hourLayout)
	if len(hours) == 0 {
		return HourlyMeans{Means: map[string]float64{}, Message: MessageNoData}
	}

	perHour := make([]float64, len(hours))
	for i, h := range hours {
		perHour[i] = h.Mean
		hours[i].Mean = Round(h.Mean, 2)
	}
	overall, _ := stats.Mean(perHour)

	return HourlyMeans{
		Hours:   hours,
		Means:   asMap(hours),
		Overall: Ptr(Round(overall, 2)),
	}
}
