package gateway

import (
	"net/http"
	"strings"
)

// handleOpenAPI serves a minimal OpenAPI 3 document generated from the
// route table.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, ErrCodeInvalidRequest, "method not allowed")
		return
	}

	paths := make(map[string]map[string]any)
	for _, route := range s.router.Routes() {
		path := route.Path
		if paths[path] == nil {
			paths[path] = make(map[string]any)
		}

		op := map[string]any{
			"summary": route.Summary,
			"responses": map[string]any{
				"200": map[string]any{"description": "Success"},
			},
		}

		if params := pathParams(route.Path); len(params) > 0 {
			var specs []map[string]any
			for _, p := range params {
				specs = append(specs, map[string]any{
					"name":     p,
					"in":       "path",
					"required": true,
					"schema":   map[string]any{"type": "string"},
				})
			}
			op["parameters"] = specs
		}

		paths[path][strings.ToLower(route.Method)] = op
	}

	doc := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "Ollama Model Management API",
			"description": "API for managing and interacting with models using a local Ollama runtime. Includes model listing, downloading, and generating responses.",
			"version":     "1.0.0",
		},
		"paths": paths,
	}

	writeJSON(w, http.StatusOK, doc)
}

func pathParams(pattern string) []string {
	var params []string
	for _, part := range strings.Split(strings.Trim(pattern, "/"), "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			params = append(params, part[1:len(part)-1])
		}
	}
	return params
}
