// Package server provides the local web surface for a TrailerForge session.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "github.com/maauso/trailerforge/internal/presenter"

// StateResponse is the HTTP response for the session state endpoint.
type StateResponse struct {
	// State is the raw pipeline state.
	State string `json:"state"`
	// ArtifactType is the media type of the staged artifact, if any.
	ArtifactType string `json:"artifact_type,omitempty"`
	// ArtifactSize is the size in bytes of the staged artifact, if any.
	ArtifactSize int `json:"artifact_size,omitempty"`
	// View is the rendered screen.
	View presenter.View `json:"view"`
}

// ExportResponse is the HTTP response after exporting a trailer.
type ExportResponse struct {
	// Location is the file path or URL the document was written to.
	Location string `json:"location"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
