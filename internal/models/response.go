package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// PageResponse is one upstream page of decoded telemetry records
type PageResponse[T any] struct {
	Data          []T `json:"dados"`
	Page          int `json:"pagina"`
	Size          int `json:"tamanho"`
	TotalPages    int `json:"total_paginas"`
	TotalElements int `json:"total_registros"`
	Dropped       int `json:"descartados"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
