package forecast

import (
	"testing"
	"time"

	"github.com/petdex/analytics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_FloorsAndAverages(t *testing.T) {
	heart := []models.HeartRateRecord{
		{Timestamp: testBaseTime.Add(5 * time.Second), HeartRate: f(60)},
		{Timestamp: testBaseTime.Add(50 * time.Second), HeartRate: f(70)},
		{Timestamp: testBaseTime.Add(time.Minute), HeartRate: f(80)},
	}
	motion := []models.MotionRecord{
		motionAt(testBaseTime.Add(10*time.Second), 1, 2, 3),
		motionAt(testBaseTime.Add(40*time.Second), 3, 4, 5),
		motionAt(testBaseTime.Add(time.Minute+30*time.Second), 0, 0, 0),
	}

	rows := Join(heart, motion, models.AccelerometerChannels, testLimits())

	require.Len(t, rows, 2)
	assert.True(t, rows[0].Time.Equal(testBaseTime))
	assert.Equal(t, 65.0, rows[0].HeartRate)
	assert.Equal(t, []float64{2, 3, 4}, rows[0].Predictors)
	assert.Equal(t, 80.0, rows[1].HeartRate)
}

func TestJoin_InnerJoinDropsIncompleteBuckets(t *testing.T) {
	heart := []models.HeartRateRecord{
		{Timestamp: testBaseTime, HeartRate: f(60)},
		{Timestamp: testBaseTime.Add(time.Minute), HeartRate: nil},
		{Timestamp: testBaseTime.Add(2 * time.Minute), HeartRate: f(70)},
		{Timestamp: testBaseTime.Add(3 * time.Minute), HeartRate: f(900)},
		{Timestamp: testBaseTime.Add(4 * time.Minute), HeartRate: f(75)},
	}
	motion := []models.MotionRecord{
		motionAt(testBaseTime, 1, 1, 1),
		motionAt(testBaseTime.Add(time.Minute), 1, 1, 1),
		{Timestamp: testBaseTime.Add(2 * time.Minute), AccelerometerX: f(1)},
		motionAt(testBaseTime.Add(3*time.Minute), 1, 1, 1),
		motionAt(testBaseTime.Add(10*time.Minute), 1, 1, 1),
	}

	rows := Join(heart, motion, models.AccelerometerChannels, testLimits())

	require.Len(t, rows, 1)
	assert.Equal(t, 60.0, rows[0].HeartRate)
}

func TestJoin_SortedByTime(t *testing.T) {
	heart, motion := generateLinearData(30)
	rows := Join(heart, motion, models.AccelerometerChannels, testLimits())

	require.Len(t, rows, 30)
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i-1].Time.Before(rows[i].Time))
	}
}
