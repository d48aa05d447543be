package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petdex/analytics/internal/logging"
)

func TestTelemetryService_HeartRatesDropsMalformed(t *testing.T) {
	env := newTestEnv(t, false)
	env.upstream.heart = []string{
		heartJSON("2025-05-10T08:00:00", 70),
		heartJSON("not a date", 71),
		heartJSON("2025-05-10T08:02:00", "n/a"),
	}

	records, err := env.telemetry.HeartRates(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 70.0, *records[0].HeartRate)
	assert.Nil(t, records[1].HeartRate)
}

func TestTelemetryService_UpstreamUnavailable(t *testing.T) {
	env := newTestEnv(t, false)
	atomic.StoreInt32(&env.upstream.status, http.StatusBadGateway)

	_, err := env.telemetry.HeartRates(context.Background())
	require.Error(t, err)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, CodeUpstreamUnavailable, svcErr.Code)
}

func TestTelemetryService_SnapshotCache(t *testing.T) {
	env := newTestEnv(t, true)
	env.upstream.heart = []string{heartJSON("2025-05-10T08:00:00", 70)}
	ctx := context.Background()

	first, err := env.telemetry.HeartRates(ctx)
	require.NoError(t, err)
	calls := atomic.LoadInt32(&env.upstream.calls)

	second, err := env.telemetry.HeartRates(ctx)
	require.NoError(t, err)

	assert.Equal(t, calls, atomic.LoadInt32(&env.upstream.calls), "second read must be served from cache")
	assert.Equal(t, len(first), len(second))
	assert.True(t, first[0].Timestamp.Equal(second[0].Timestamp))
	_, err = env.store.Get(ctx, "test:batimentos")
	assert.NoError(t, err)
}

func TestTelemetryService_CorruptSnapshotIsReplaced(t *testing.T) {
	env := newTestEnv(t, true)
	env.upstream.heart = []string{heartJSON("2025-05-10T08:00:00", 70)}
	ctx := context.Background()

	require.NoError(t, env.store.Set(ctx, "test:batimentos", []byte{1, 0xff, 0xff}, time.Minute))

	records, err := env.telemetry.HeartRates(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&env.upstream.calls))

	// the fresh snapshot now serves the next read
	_, err = env.telemetry.HeartRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&env.upstream.calls))
}

func TestTelemetryService_LogsCarryRequestID(t *testing.T) {
	env := newTestEnv(t, false)
	atomic.StoreInt32(&env.upstream.status, http.StatusBadGateway)

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, zerolog.InfoLevel))
	ctx = logging.WithRequestID(ctx, "req-42")

	_, err := env.telemetry.HeartRates(ctx)
	require.Error(t, err)

	assert.Contains(t, buf.String(), "Failed to fetch telemetry")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestTelemetryService_HeartRatePage(t *testing.T) {
	env := newTestEnv(t, false)
	env.upstream.heart = []string{
		heartJSON("2025-05-10T08:00:00", 70),
		heartJSON("2025-05-10T08:01:00", 72),
		`{"frequenciaMedia":1}`,
	}

	page, err := env.telemetry.HeartRatePage(context.Background(), 0, 0)
	require.NoError(t, err)

	assert.Len(t, page.Data, 2)
	assert.Equal(t, 1, page.Dropped)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 3, page.TotalElements)
}

func TestTelemetryService_MotionPage(t *testing.T) {
	env := newTestEnv(t, false)
	env.upstream.motion = []string{motionJSON("2025-05-10T08:00:00", 1, 2, 3)}

	page, err := env.telemetry.MotionPage(context.Background(), 0, 10)
	require.NoError(t, err)

	require.Len(t, page.Data, 1)
	assert.Equal(t, 3.0, *page.Data[0].AccelerometerZ)
}
