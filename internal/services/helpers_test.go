package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petdex/analytics/internal/analytics"
	"github.com/petdex/analytics/internal/cache"
	"github.com/petdex/analytics/internal/config"
	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/queue"
	"github.com/petdex/analytics/internal/upstream"
)

// fakeUpstream serves the two PetDex collections of animal pet-1 as single pages
type fakeUpstream struct {
	heart  []string
	motion []string
	status int32 // non-zero forces every response to this status
	calls  int32
	server *httptest.Server
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.calls, 1)
	if status := atomic.LoadInt32(&f.status); status != 0 {
		w.WriteHeader(int(status))
		return
	}

	var records []string
	switch {
	case strings.HasPrefix(r.URL.Path, "/batimentos/animal/pet-1"):
		records = f.heart
	case strings.HasPrefix(r.URL.Path, "/movimentos/animal/pet-1"):
		records = f.motion
	default:
		http.NotFound(w, r)
		return
	}

	content := make([]json.RawMessage, len(records))
	for i, rec := range records {
		content[i] = json.RawMessage(rec)
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"content":       content,
		"totalPages":    1,
		"totalElements": len(records),
		"number":        0,
		"size":          len(records),
	})
}

func (f *fakeUpstream) config() config.UpstreamConfig {
	return config.UpstreamConfig{
		BaseURL:      f.server.URL,
		AnimalID:     "pet-1",
		PageSize:     500,
		Concurrency:  2,
		Timeout:      time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
		MaxBackoff:   2 * time.Millisecond,
	}
}

func heartJSON(ts string, v interface{}) string {
	value, _ := json.Marshal(v)
	return fmt.Sprintf(`{"data":%q,"frequenciaMedia":%s}`, ts, value)
}

func motionJSON(ts string, ax, ay, az float64) string {
	return fmt.Sprintf(`{"data":%q,"acelerometroX":%g,"acelerometroY":%g,"acelerometroZ":%g}`, ts, ax, ay, az)
}

// linearTelemetry produces n minutes of readings where the heart rate is
// exactly 60 + 2ax - ay + 4az
func linearTelemetry(n int) (heart, motion []string) {
	base := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ax := float64(i % 7)
		ay := float64((3 * i) % 5)
		az := float64(i%4) * 0.5
		ts := base.Add(time.Duration(i) * time.Minute)

		heart = append(heart, heartJSON(ts.Format("2006-01-02T15:04:05"), 60+2*ax-ay+4*az))
		motion = append(motion, motionJSON(ts.Add(20*time.Second).Format("2006-01-02T15:04:05"), ax, ay, az))
	}
	return heart, motion
}

type testEnv struct {
	upstream  *fakeUpstream
	telemetry *TelemetryService
	analytics *AnalyticsService
	queue     queue.Publisher
	memory    *queue.MemoryQueue
	store     *cache.MemoryStore
}

func newTestEnv(t *testing.T, withCache bool) *testEnv {
	t.Helper()

	logger := logging.NewNop()
	limits := analytics.DefaultLimits()
	fake := newFakeUpstream(t)
	client := upstream.NewClient(fake.config(), logger)

	env := &testEnv{upstream: fake}

	var snapshots *cache.Snapshots
	if withCache {
		env.store = cache.NewMemoryStore(time.Minute)
		t.Cleanup(func() { _ = env.store.Close() })
		snapshots = cache.NewSnapshots(env.store, "test:", time.Minute, true)
	}

	pub, err := queue.NewPublisher(config.QueueConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("Failed to create memory publisher: %v", err)
	}
	env.queue = pub
	env.memory = pub.(*queue.MemoryQueue)

	env.telemetry = NewTelemetryService(client, snapshots, limits)
	alerts := NewAlertNotifier(logger, pub, "petdex.alerts.heart_rate", "pet-1")
	env.analytics = NewAnalyticsService(logger, env.telemetry, alerts, limits)
	return env
}
