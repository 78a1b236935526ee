package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jguan/ollama-model-manager/pkg/download"
	"github.com/jguan/ollama-model-manager/pkg/infra/logger"
)

// ModelService fronts the collaborator runtime. Downloads run in the
// background and report into the registry; everything else is a
// synchronous pass-through.
type ModelService struct {
	runtime     Runtime
	registry    *download.Registry
	history     HistoryStore
	pullTimeout time.Duration
	logger      *slog.Logger
}

// NewModelService creates a ModelService. history may be nil to
// disable event recording; a zero pullTimeout leaves pulls unbounded
// by the service.
func NewModelService(runtime Runtime, registry *download.Registry, history HistoryStore, pullTimeout time.Duration, log *slog.Logger) *ModelService {
	if log == nil {
		log = logger.Default()
	}
	return &ModelService{
		runtime:     runtime,
		registry:    registry,
		history:     history,
		pullTimeout: pullTimeout,
		logger:      log,
	}
}

// List returns the models currently available in the runtime.
func (s *ModelService) List(ctx context.Context) ([]Model, error) {
	models, err := s.runtime.ListModels(ctx)
	if err != nil {
		return nil, WrapError(err, ErrCodeRuntimeUnavailable, "list models")
	}
	return models, nil
}

// Download accepts a download request for name, records it as pending,
// and starts the pull in the background. It returns the starting
// status immediately; pull errors are never surfaced to the submitter.
// Resubmitting a name whose pull is still in flight resets the tracked
// state to pending, and the racing tasks' terminal transitions are
// last-writer-wins.
func (s *ModelService) Download(ctx context.Context, name string) (download.Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return download.StatusUnknown, NewError(ErrCodeInvalidInput, "model name is required")
	}

	s.registry.Submit(name)
	s.recordEvent(ctx, name, download.StatusPending, "")
	s.logger.Info("model download started", "model", name)

	go s.runPull(name)

	return download.StatusPending, nil
}

// runPull performs the blocking pull and ends with exactly one
// terminal transition. It runs detached from the submitting request.
func (s *ModelService) runPull(name string) {
	ctx := context.Background()
	if s.pullTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.pullTimeout)
		defer cancel()
	}

	s.registry.Transition(name, download.StatusDownloading)
	s.recordEvent(ctx, name, download.StatusDownloading, "")

	if err := s.runtime.Pull(ctx, name); err != nil {
		s.registry.Transition(name, download.StatusFailed)
		s.recordEvent(context.Background(), name, download.StatusFailed, err.Error())
		s.logger.Error("model pull failed", "model", name, "error", err)
		return
	}

	s.registry.Transition(name, download.StatusCompleted)
	s.recordEvent(context.Background(), name, download.StatusCompleted, "")
	s.logger.Info("model pull completed", "model", name)
}

// DownloadStatus returns the tracked state for name. Names that were
// never submitted report StatusUnknown, not an error.
func (s *ModelService) DownloadStatus(name string) download.Status {
	return s.registry.Get(name)
}

// Generate proxies a single-shot generation request to the runtime.
// Failures are surfaced to the caller and are neither retried nor
// tracked.
func (s *ModelService) Generate(ctx context.Context, model, prompt string) (*GenerateResult, error) {
	if strings.TrimSpace(model) == "" {
		return nil, NewError(ErrCodeInvalidInput, "model name is required")
	}
	if prompt == "" {
		return nil, NewError(ErrCodeInvalidInput, "prompt is required")
	}

	result, err := s.runtime.Generate(ctx, model, prompt)
	if err != nil {
		return nil, WrapError(err, ErrCodeGenerationFailed, "generate with model "+model)
	}
	return result, nil
}

// History returns recorded download events, newest first. An empty
// model filter returns events for all models.
func (s *ModelService) History(ctx context.Context, model string, limit int) ([]DownloadEvent, error) {
	if s.history == nil {
		return nil, nil
	}
	events, err := s.history.List(ctx, model, limit)
	if err != nil {
		return nil, WrapError(err, ErrCodeInternal, "list download history")
	}
	return events, nil
}

// Healthy reports whether the runtime answers its liveness probe.
func (s *ModelService) Healthy(ctx context.Context) bool {
	return s.runtime.IsRunning(ctx)
}

func (s *ModelService) recordEvent(ctx context.Context, model string, status download.Status, detail string) {
	if s.history == nil {
		return
	}
	ev := DownloadEvent{
		Model:     model,
		Status:    status,
		Detail:    detail,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.history.Append(ctx, ev); err != nil {
		s.logger.Warn("record download event", "model", model, "status", status, "error", err)
	}
}
