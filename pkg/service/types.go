// Package service implements the model management operations exposed
// by the HTTP gateway and the CLI: listing models, asynchronous
// downloads with status tracking, and single-shot generation.
package service

import (
	"context"

	"github.com/jguan/ollama-model-manager/pkg/download"
)

// Model describes a model available in the local runtime.
type Model struct {
	Name              string `json:"name"`
	Size              int64  `json:"size"`
	ModifiedAt        string `json:"modified_at,omitempty"`
	Digest            string `json:"digest,omitempty"`
	Format            string `json:"format,omitempty"`
	Family            string `json:"family,omitempty"`
	ParameterSize     string `json:"parameter_size,omitempty"`
	QuantizationLevel string `json:"quantization_level,omitempty"`
}

// GenerateResult is the payload returned by a generation request.
type GenerateResult struct {
	Model         string `json:"model"`
	CreatedAt     string `json:"created_at,omitempty"`
	Response      string `json:"response"`
	Done          bool   `json:"done"`
	TotalDuration int64  `json:"total_duration,omitempty"`
	EvalCount     int    `json:"eval_count,omitempty"`
}

// Runtime is the collaborator model runtime. All substantive work is
// delegated to it; the service adds no algorithmic logic of its own.
type Runtime interface {
	ListModels(ctx context.Context) ([]Model, error)
	Pull(ctx context.Context, name string) error
	Generate(ctx context.Context, model, prompt string) (*GenerateResult, error)
	IsRunning(ctx context.Context) bool
}

// DownloadEvent is one recorded step of a download's lifecycle.
type DownloadEvent struct {
	Model     string          `json:"model"`
	Status    download.Status `json:"status"`
	Detail    string          `json:"detail,omitempty"`
	CreatedAt int64           `json:"created_at"`
}

// HistoryStore records download lifecycle events for operator
// inspection. It never feeds the status registry: registry state stays
// in memory only.
type HistoryStore interface {
	Append(ctx context.Context, ev DownloadEvent) error
	List(ctx context.Context, model string, limit int) ([]DownloadEvent, error)
}
