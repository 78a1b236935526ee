package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jguan/ollama-model-manager/pkg/download"
	"github.com/jguan/ollama-model-manager/pkg/service"
)

// stubService provides canned answers for handler tests.
type stubService struct {
	models    []service.Model
	listErr   error
	statuses  map[string]download.Status
	submitted []string
	genResult *service.GenerateResult
	genErr    error
	events    []service.DownloadEvent
	healthy   bool
}

func newStubService() *stubService {
	return &stubService{
		statuses: make(map[string]download.Status),
		healthy:  true,
	}
}

func (s *stubService) List(ctx context.Context) ([]service.Model, error) {
	return s.models, s.listErr
}

func (s *stubService) Download(ctx context.Context, name string) (download.Status, error) {
	if strings.TrimSpace(name) == "" {
		return download.StatusUnknown, service.NewError(service.ErrCodeInvalidInput, "model name is required")
	}
	s.submitted = append(s.submitted, name)
	s.statuses[name] = download.StatusPending
	return download.StatusPending, nil
}

func (s *stubService) DownloadStatus(name string) download.Status {
	if st, ok := s.statuses[name]; ok {
		return st
	}
	return download.StatusUnknown
}

func (s *stubService) Generate(ctx context.Context, model, prompt string) (*service.GenerateResult, error) {
	return s.genResult, s.genErr
}

func (s *stubService) History(ctx context.Context, model string, limit int) ([]service.DownloadEvent, error) {
	return s.events, nil
}

func (s *stubService) Healthy(ctx context.Context) bool {
	return s.healthy
}

func newTestServer(svc Service) *Server {
	cfg := DefaultServerConfig()
	return NewServer(svc, cfg)
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(newStubService())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if !strings.Contains(body["message"].(string), "running") {
		t.Errorf("unexpected banner: %v", body["message"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	svc := newStubService()
	srv := newTestServer(svc)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}

	svc.healthy = false
	rec = doRequest(t, srv.Handler(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestListModels(t *testing.T) {
	svc := newStubService()
	svc.models = []service.Model{{Name: "llama3:latest", Size: 4700000000, Family: "llama"}}
	srv := newTestServer(svc)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/models", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("expected success true")
	}
	models := body["models"].([]any)
	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}
}

func TestListModelsRuntimeDown(t *testing.T) {
	svc := newStubService()
	svc.listErr = service.WrapError(context.DeadlineExceeded, service.ErrCodeRuntimeUnavailable, "list models")
	srv := newTestServer(svc)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/models", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errInfo := body["error"].(map[string]any)
	if errInfo["code"] != ErrCodeRuntimeUnavailable {
		t.Errorf("expected %s, got %v", ErrCodeRuntimeUnavailable, errInfo["code"])
	}
}

func TestDownloadEndpoint(t *testing.T) {
	svc := newStubService()
	srv := newTestServer(svc)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/models/download", `{"model_name": "llama3"}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "pending" {
		t.Errorf("expected pending status in response, got %v", body["status"])
	}
	if len(svc.submitted) != 1 || svc.submitted[0] != "llama3" {
		t.Errorf("expected llama3 submitted, got %v", svc.submitted)
	}
}

func TestDownloadEndpointBadBody(t *testing.T) {
	srv := newTestServer(newStubService())

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/models/download", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doRequest(t, srv.Handler(), http.MethodPost, "/models/download", `{"model_name": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", rec.Code)
	}
}

func TestDownloadStatusEndpoint(t *testing.T) {
	svc := newStubService()
	svc.statuses["llama3"] = download.StatusDownloading
	srv := newTestServer(svc)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/models/download/llama3/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "downloading" {
		t.Errorf("expected downloading, got %v", body["status"])
	}
}

func TestDownloadStatusUnknownModel(t *testing.T) {
	srv := newTestServer(newStubService())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/models/download/nonexistent-model/status", "")

	// Unknown names are not an error.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "unknown" {
		t.Errorf("expected unknown, got %v", body["status"])
	}
}

func TestGenerateEndpoint(t *testing.T) {
	svc := newStubService()
	svc.genResult = &service.GenerateResult{Model: "llama3", Response: "hello there", Done: true}
	srv := newTestServer(svc)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/models/llama3/generate",
		`{"model_name": "llama3", "prompt": "say hello"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	resp := body["response"].(map[string]any)
	if resp["response"] != "hello there" {
		t.Errorf("unexpected generation payload: %v", resp)
	}
}

func TestGenerateNameMismatch(t *testing.T) {
	srv := newTestServer(newStubService())

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/models/llama3/generate",
		`{"model_name": "mistral", "prompt": "say hello"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errInfo := body["error"].(map[string]any)
	if !strings.Contains(errInfo["message"].(string), "mismatch") {
		t.Errorf("expected mismatch message, got %v", errInfo["message"])
	}
}

func TestGenerateFailure(t *testing.T) {
	svc := newStubService()
	svc.genErr = service.WrapError(context.DeadlineExceeded, service.ErrCodeGenerationFailed, "generate with model llama3")
	srv := newTestServer(svc)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/models/llama3/generate",
		`{"model_name": "llama3", "prompt": "say hello"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestDownloadHistoryEndpoint(t *testing.T) {
	svc := newStubService()
	svc.events = []service.DownloadEvent{
		{Model: "llama3", Status: download.StatusCompleted, CreatedAt: 10},
	}
	srv := newTestServer(svc)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/models/downloads?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if len(body["events"].([]any)) != 1 {
		t.Errorf("expected 1 event, got %v", body["events"])
	}

	rec = doRequest(t, srv.Handler(), http.MethodGet, "/models/downloads?limit=nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestRouteNotFound(t *testing.T) {
	srv := newTestServer(newStubService())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errInfo := body["error"].(map[string]any)
	if errInfo["code"] != ErrCodeRouteNotFound {
		t.Errorf("expected %s, got %v", ErrCodeRouteNotFound, errInfo["code"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(newStubService())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-supplied")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-supplied" {
		t.Errorf("expected supplied request ID to be echoed, got %q", got)
	}
}

func TestMatchPath(t *testing.T) {
	params, ok := matchPath("/models/{name}/generate", "/models/llama3/generate")
	if !ok || params["name"] != "llama3" {
		t.Errorf("expected match with name=llama3, got ok=%v params=%v", ok, params)
	}

	if _, ok := matchPath("/models/{name}/generate", "/models/llama3/status"); ok {
		t.Error("expected no match for differing literal segment")
	}

	if _, ok := matchPath("/models", "/models/llama3"); ok {
		t.Error("expected no match for differing length")
	}
}
