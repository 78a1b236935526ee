package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/jguan/ollama-model-manager/pkg/service"
)

const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeRouteNotFound      = "ROUTE_NOT_FOUND"
	ErrCodeRuntimeUnavailable = "RUNTIME_UNAVAILABLE"
	ErrCodeGenerationFailed   = "GENERATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorInfo `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorResponse{
		Success: false,
		Error:   ErrorInfo{Code: code, Message: message},
	})
}

// writeServiceError maps a service error to its HTTP response.
func writeServiceError(w http.ResponseWriter, err error) {
	se, ok := service.AsServiceError(err)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	switch se.Code {
	case service.ErrCodeInvalidInput:
		writeJSONError(w, http.StatusBadRequest, ErrCodeInvalidRequest, se.Message)
	case service.ErrCodeRuntimeUnavailable:
		writeJSONError(w, http.StatusServiceUnavailable, ErrCodeRuntimeUnavailable, se.Error())
	case service.ErrCodeGenerationFailed:
		writeJSONError(w, http.StatusInternalServerError, ErrCodeGenerationFailed, se.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, se.Error())
	}
}
