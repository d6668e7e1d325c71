// Package dto provides Data Transfer Objects for the REST API.
//
// Every type carries both json and cbor tags so responses can be encoded in
// either format with the same field names.
package dto

// APIError represents a standardized error response.
type APIError struct {
	// Code is a machine-readable error code.
	Code string `json:"code" cbor:"code"`

	// Message is a human-readable error message.
	Message string `json:"message" cbor:"message"`

	// Details provides additional context about the error.
	Details map[string]string `json:"details,omitempty" cbor:"details,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Status is "ok" or "degraded".
	Status string `json:"status" cbor:"status"`

	// Version is the server version.
	Version string `json:"version" cbor:"version"`

	// Devices is the number of devices in the catalog.
	Devices int `json:"devices" cbor:"devices"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	// Ready indicates if the server is ready to accept requests.
	Ready bool `json:"ready" cbor:"ready"`

	// Checks lists individual readiness checks.
	Checks map[string]bool `json:"checks,omitempty" cbor:"checks,omitempty"`
}
