package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jguan/ollama-model-manager/pkg/download"
	"github.com/jguan/ollama-model-manager/pkg/service"
)

// Service is the slice of the model service the gateway consumes.
type Service interface {
	List(ctx context.Context) ([]service.Model, error)
	Download(ctx context.Context, name string) (download.Status, error)
	DownloadStatus(name string) download.Status
	Generate(ctx context.Context, model, prompt string) (*service.GenerateResult, error)
	History(ctx context.Context, model string, limit int) ([]service.DownloadEvent, error)
	Healthy(ctx context.Context) bool
}

type handlers struct {
	svc Service
}

type downloadRequest struct {
	ModelName string `json:"model_name"`
}

type generateRequest struct {
	ModelName string `json:"model_name"`
	Prompt    string `json:"prompt"`
}

func (h *handlers) handleRoot(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Ollama model management API is running",
	})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if !h.svc.Healthy(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) handleListModels(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	models, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"models":  models,
	})
}

func (h *handlers) handleDownload(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body: "+err.Error())
		return
	}

	status, err := h.svc.Download(r.Context(), req.ModelName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Model %s download started in background", req.ModelName),
		"status":  status,
	})
}

// handleDownloadStatus reports the tracked state for a model. A name
// that was never submitted answers 200 with status "unknown", not 404.
func (h *handlers) handleDownloadStatus(w http.ResponseWriter, r *http.Request, params map[string]string) {
	status := h.svc.DownloadStatus(params["name"])
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (h *handlers) handleDownloadHistory(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	model := r.URL.Query().Get("model")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	events, err := h.svc.History(r.Context(), model, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"events":  events,
	})
}

func (h *handlers) handleGenerate(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body: "+err.Error())
		return
	}

	// The model name appears in both the URL and the body; reject
	// requests where they disagree.
	name := params["name"]
	if req.ModelName != "" && req.ModelName != name {
		writeJSONError(w, http.StatusBadRequest, ErrCodeInvalidRequest,
			"mismatch between URL model name and request body model name")
		return
	}

	result, err := h.svc.Generate(r.Context(), name, req.Prompt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"response": result,
	})
}
