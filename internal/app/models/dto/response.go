package dto

import "time"

// APIResponse is the envelope for non-resource payloads such as health checks.
// Resource endpoints answer with the resource itself.
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// HealthResponse reports liveness and the active store driver.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Driver string `json:"driver" example:"postgres"`
}
