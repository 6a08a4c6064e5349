package server

import (
	"github.com/tensorplex-labs/cci/internal/cci"
	"github.com/tensorplex-labs/cci/internal/dataset"
)

const (
	ComputeRoute = "/cci"
	HealthRoute  = "/health"

	cacheKeyPrefix = "cci:result:"
)

// ComputeRequest carries one session and optional overrides of the
// server's computation defaults.
type ComputeRequest struct {
	Sources    dataset.SourceFile `json:"sources"`
	Trials     []int              `json:"trials"`
	Level      string             `json:"level,omitempty"`
	Boundaries []int              `json:"boundaries,omitempty"`
	Strategy   string             `json:"strategy,omitempty"`
	Components int                `json:"components,omitempty"`
	// StrictBaseline overrides the server default when set.
	StrictBaseline *bool `json:"strict_baseline,omitempty"`
}

type ComputeResponse struct {
	Result cci.Result `json:"result"`
	Cached bool       `json:"cached"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// StdResponse represents the standardized response structure
type StdResponse[T any] struct {
	Body  T       `json:"body"`
	Error *string `json:"error,omitempty"`
}

// createResponse creates a StdResponse with the given body and error
func createResponse[T any](body T, err error) StdResponse[T] {
	if err != nil {
		errMsg := err.Error()
		return StdResponse[T]{Body: body, Error: &errMsg}
	}
	return StdResponse[T]{Body: body}
}
