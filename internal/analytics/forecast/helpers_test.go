package forecast

import (
	"time"

	"github.com/petdex/analytics/internal/analytics"
	"github.com/petdex/analytics/internal/models"
)

// Common test data and helpers for all forecast tests

var testBaseTime = time.Date(2025, 5, 10, 14, 0, 0, 0, time.FixedZone("-03:00", -3*60*60))

func f(v float64) *float64 { return &v }

// linearHeartRate is the exact relation generated by generateLinearData
func linearHeartRate(ax, ay, az float64) float64 {
	return 60 + 2*ax - ay + 4*az
}

func motionAt(t time.Time, ax, ay, az float64) models.MotionRecord {
	return models.MotionRecord{
		Timestamp:      t,
		AccelerometerX: f(ax),
		AccelerometerY: f(ay),
		AccelerometerZ: f(az),
	}
}

// generateLinearData creates n minutes of readings where heart rate is an exact
// linear function of the accelerometer channels. Motion readings land a few
// seconds into each minute so the join has to floor them.
func generateLinearData(n int) ([]models.HeartRateRecord, []models.MotionRecord) {
	heart := make([]models.HeartRateRecord, n)
	motion := make([]models.MotionRecord, n)
	for i := 0; i < n; i++ {
		ax := float64(i % 7)
		ay := float64((i * 3) % 5)
		az := float64(i%4) * 0.5
		ts := testBaseTime.Add(time.Duration(i) * time.Minute)

		heart[i] = models.HeartRateRecord{Timestamp: ts, HeartRate: f(linearHeartRate(ax, ay, az))}
		motion[i] = motionAt(ts.Add(20*time.Second), ax, ay, az)
	}
	return heart, motion
}

// appendConstantTail adds k minutes of identical motion after the generated data.
func appendConstantTail(heart []models.HeartRateRecord, motion []models.MotionRecord, k int, ax, ay, az float64) ([]models.HeartRateRecord, []models.MotionRecord) {
	start := testBaseTime.Add(time.Duration(len(heart)) * time.Minute)
	for i := 0; i < k; i++ {
		ts := start.Add(time.Duration(i) * time.Minute)
		heart = append(heart, models.HeartRateRecord{Timestamp: ts, HeartRate: f(linearHeartRate(ax, ay, az))})
		motion = append(motion, motionAt(ts, ax, ay, az))
	}
	return heart, motion
}

func testLimits() analytics.Limits {
	return analytics.DefaultLimits()
}
