package handlers

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petdex/analytics/internal/logging"
)

func TestHandler_Health(t *testing.T) {
	app := setupTestApp(t, &upstreamStub{})

	status, body := get(t, app, "/health")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, testVersion, body["version"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandler_HealthDefaultVersion(t *testing.T) {
	h := New(logging.NewNop(), nil, nil, "", 0)
	app := fiber.New()
	app.Get("/health", h.Health)

	status, body := get(t, app, "/health")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, DefaultVersion, body["version"])
}

func TestHandler_NotFound(t *testing.T) {
	app := setupTestApp(t, &upstreamStub{})

	status, body := get(t, app, "/gatos")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestHandler_ListHeartRates(t *testing.T) {
	stub := &upstreamStub{heart: []string{heartAt(0, 70), heartAt(1, 72), `{"data":"x"}`}}
	app := setupTestApp(t, stub)

	status, body := get(t, app, "/batimentos?page=0&size=10")
	require.Equal(t, fiber.StatusOK, status)

	data, ok := body["dados"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)
	assert.Equal(t, 1.0, body["descartados"])
	assert.Equal(t, 3.0, body["total_registros"])
}

func TestHandler_ListHeartRates_InvalidPaging(t *testing.T) {
	app := setupTestApp(t, &upstreamStub{})

	for _, target := range []string{"/batimentos?page=-1", "/batimentos?size=abc", "/batimentos?size=5000"} {
		status, body := get(t, app, target)
		assert.Equal(t, fiber.StatusBadRequest, status, target)
		assert.Equal(t, "INVALID_REQUEST", errorCode(body), target)
	}
}

func TestHandler_ListMotions(t *testing.T) {
	stub := &upstreamStub{motion: []string{motionAt(0, 1, 2, 3)}}
	app := setupTestApp(t, stub)

	status, body := get(t, app, "/movimentos")
	require.Equal(t, fiber.StatusOK, status)

	data := body["dados"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, 2.0, data[0].(map[string]interface{})["acelerometroY"])
}

func TestHandler_UpstreamUnavailable(t *testing.T) {
	stub := &upstreamStub{status: http.StatusBadGateway}
	app := setupTestApp(t, stub)

	for _, target := range []string{
		"/batimentos",
		"/batimentos/estatisticas",
		"/batimentos/probabilidade?valor=80",
		"/batimentos/regressao",
	} {
		status, body := get(t, app, target)
		assert.Equal(t, fiber.StatusServiceUnavailable, status, target)
		assert.Equal(t, "UPSTREAM_UNAVAILABLE", errorCode(body), target)
	}
	assert.Positive(t, atomic.LoadInt32(&stub.calls))
}
