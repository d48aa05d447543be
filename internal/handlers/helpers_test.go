package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/petdex/analytics/internal/analytics"
	"github.com/petdex/analytics/internal/config"
	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/middleware"
	"github.com/petdex/analytics/internal/services"
	"github.com/petdex/analytics/internal/upstream"
)

// upstreamStub serves both PetDex collections of animal pet-1 as one page each
type upstreamStub struct {
	heart  []string
	motion []string
	status int32
	calls  int32
}

func (u *upstreamStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&u.calls, 1)
	if status := atomic.LoadInt32(&u.status); status != 0 {
		w.WriteHeader(int(status))
		return
	}

	records := u.heart
	if strings.HasPrefix(r.URL.Path, "/movimentos/") {
		records = u.motion
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

func heartAt(minute int, v float64) string {
	ts := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC).Add(time.Duration(minute) * time.Minute)
	return fmt.Sprintf(`{"data":%q,"frequenciaMedia":%g}`, ts.Format("2006-01-02T15:04:05"), v)
}

func motionAt(minute int, ax, ay, az float64) string {
	ts := time.Date(2025, 5, 10, 8, 0, 20, 0, time.UTC).Add(time.Duration(minute) * time.Minute)
	return fmt.Sprintf(`{"data":%q,"acelerometroX":%g,"acelerometroY":%g,"acelerometroZ":%g}`,
		ts.Format("2006-01-02T15:04:05"), ax, ay, az)
}

// linearStub produces n minutes where heart rate = 60 + 2ax - ay + 4az
func linearStub(n int) *upstreamStub {
	stub := &upstreamStub{}
	for i := 0; i < n; i++ {
		ax := float64(i % 7)
		ay := float64((3 * i) % 5)
		az := float64(i%4) * 0.5
		stub.heart = append(stub.heart, heartAt(i, 60+2*ax-ay+4*az))
		stub.motion = append(stub.motion, motionAt(i, ax, ay, az))
	}
	return stub
}

const testVersion = "1.2.3-test"

// setupTestApp wires the handlers over a stubbed upstream
func setupTestApp(t *testing.T, stub *upstreamStub) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	logger := logging.NewNop()
	limits := analytics.DefaultLimits()
	client := upstream.NewClient(config.UpstreamConfig{
		BaseURL:      srv.URL,
		AnimalID:     "pet-1",
		PageSize:     500,
		Concurrency:  2,
		Timeout:      time.Second,
		MaxRetries:   0,
		RetryBackoff: time.Millisecond,
	}, logger)

	telemetry := services.NewTelemetryService(client, nil, limits)
	analyticsSvc := services.NewAnalyticsService(logger, telemetry, nil, limits)
	h := New(logger, telemetry, analyticsSvc, testVersion, 5*time.Second)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	app.Get("/health", h.Health)
	app.Get("/batimentos", h.ListHeartRates)
	app.Get("/batimentos/estatisticas", h.Statistics)
	app.Get("/batimentos/media-por-data", h.MeanByDate)
	app.Get("/batimentos/probabilidade", h.Probability)
	app.Get("/batimentos/media-ultimos-5-dias", h.LastDays)
	app.Get("/batimentos/media-ultimas-5-horas-registradas", h.LastHours)
	app.Get("/batimentos/regressao", h.Regression)
	app.Get("/batimentos/predicao", h.Predict)
	app.Get("/movimentos", h.ListMotions)
	app.Use(h.NotFound)
	return app
}

// get performs a request and decodes the JSON body into a generic map
func get(t *testing.T, app *fiber.App, target string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", target, nil), 10000)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func errorCode(body map[string]interface{}) string {
	detail, _ := body["error"].(map[string]interface{})
	code, _ := detail["code"].(string)
	return code
}
