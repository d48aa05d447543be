package forecast

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/petdex/analytics/internal/analytics"
	"github.com/petdex/analytics/internal/models"
)

// Row is one joined observation: the mean heart rate of a time bucket and the
// mean of each motion channel over the same bucket.
type Row struct {
	Time       time.Time
	HeartRate  float64
	Predictors []float64
}

// floor truncates t to the join granularity. Non-positive granularity keeps t as is.
func floor(t time.Time, granularity time.Duration) time.Time {
	if granularity <= 0 {
		return t
	}
	return t.Truncate(granularity)
}

// heartRateBuckets averages the in-band heart rates per floored timestamp.
func heartRateBuckets(records []models.HeartRateRecord, limits analytics.Limits) map[int64]float64 {
	values := make(map[int64][]float64)
	for _, r := range records {
		if r.HeartRate == nil || !limits.InBand(*r.HeartRate) {
			continue
		}
		key := floor(r.Timestamp, limits.JoinGranularity).UnixNano()
		values[key] = append(values[key], *r.HeartRate)
	}

	means := make(map[int64]float64, len(values))
	for key, vs := range values {
		means[key], _ = stats.Mean(vs)
	}
	return means
}

// motionBuckets averages every channel per floored timestamp. A channel with no
// value in a bucket is nil for that bucket.
func motionBuckets(records []models.MotionRecord, channels []string, granularity time.Duration) map[int64][]*float64 {
	values := make(map[int64][][]float64)
	for _, r := range records {
		key := floor(r.Timestamp, granularity).UnixNano()
		perChannel, ok := values[key]
		if !ok {
			perChannel = make([][]float64, len(channels))
			values[key] = perChannel
		}
		for i, ch := range channels {
			if v := r.Channel(ch); v != nil {
				perChannel[i] = append(perChannel[i], *v)
			}
		}
	}

	means := make(map[int64][]*float64, len(values))
	for key, perChannel := range values {
		row := make([]*float64, len(channels))
		for i, vs := range perChannel {
			if len(vs) == 0 {
				continue
			}
			m, _ := stats.Mean(vs)
			row[i] = &m
		}
		means[key] = row
	}
	return means
}

// Join floors both series to the join granularity, averages each side per
// bucket and inner-joins them. Buckets without a valid heart rate or missing
// any predictor channel are dropped. Rows are returned in time order.
func Join(heart []models.HeartRateRecord, motion []models.MotionRecord, channels []string, limits analytics.Limits) []Row {
	hr := heartRateBuckets(heart, limits)
	mo := motionBuckets(motion, channels, limits.JoinGranularity)

	rows := make([]Row, 0, len(hr))
next:
	for key, y := range hr {
		predictors, ok := mo[key]
		if !ok {
			continue
		}
		x := make([]float64, len(channels))
		for i, p := range predictors {
			if p == nil {
				continue next
			}
			x[i] = *p
		}
		rows = append(rows, Row{Time: time.Unix(0, key).In(limits.Zone()), HeartRate: y, Predictors: x})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })
	return rows
}
