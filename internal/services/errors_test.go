package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petdex/analytics/internal/upstream"
)

func TestServiceError_Error(t *testing.T) {
	err := &ServiceError{
		Code:    "TEST_ERROR",
		Message: "Test error message",
	}

	if err.Error() != "Test error message" {
		t.Errorf("Expected 'Test error message', got '%s'", err.Error())
	}
}

func TestNewServiceError(t *testing.T) {
	err := NewServiceError("ERROR_CODE", "Error message")

	if err.Code != "ERROR_CODE" {
		t.Errorf("Expected code 'ERROR_CODE', got '%s'", err.Code)
	}
	if err.Details != nil {
		t.Errorf("Expected nil details, got %v", err.Details)
	}
}

func TestServiceError_JSON(t *testing.T) {
	err := NewServiceErrorWithDetails(CodeInvalidRequest, "bad", map[string]interface{}{"field": "valor"})

	data, jsonErr := json.Marshal(err)
	assert.NoError(t, jsonErr)
	assert.True(t, strings.Contains(string(data), `"code":"INVALID_REQUEST"`))
	assert.True(t, strings.Contains(string(data), `"field":"valor"`))

	data, _ = json.Marshal(NewServiceError("X", "y"))
	assert.False(t, strings.Contains(string(data), "details"))
}

func TestFetchError(t *testing.T) {
	wrapped := fmt.Errorf("%w: batimentos page 2: status 502", upstream.ErrUpstreamUnavailable)
	assert.Equal(t, CodeUpstreamUnavailable, fetchError(wrapped).Code)
	assert.Equal(t, CodeInternal, fetchError(errors.New("boom")).Code)
}
