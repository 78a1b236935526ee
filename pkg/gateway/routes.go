package gateway

import (
	"net/http"
	"strings"
)

// HandlerFunc handles a matched route; params holds the values of the
// {name} segments in the route pattern.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, params map[string]string)

type Route struct {
	Method  string
	Path    string
	Summary string
	Handler HandlerFunc
}

type Router struct {
	routes []Route
}

func NewRouter(h *handlers) *Router {
	return &Router{routes: defaultRoutes(h)}
}

func (r *Router) Routes() []Route {
	return r.routes
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for _, route := range r.routes {
		if route.Method != req.Method {
			continue
		}

		params, ok := matchPath(route.Path, req.URL.Path)
		if !ok {
			continue
		}

		route.Handler(w, req, params)
		return
	}

	writeJSONError(w, http.StatusNotFound, ErrCodeRouteNotFound, "route not found: "+req.Method+" "+req.URL.Path)
}

func defaultRoutes(h *handlers) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/", Summary: "API liveness banner", Handler: h.handleRoot},
		{Method: http.MethodGet, Path: "/health", Summary: "Health check including runtime probe", Handler: h.handleHealth},
		{Method: http.MethodGet, Path: "/models", Summary: "List locally available models", Handler: h.handleListModels},
		{Method: http.MethodPost, Path: "/models/download", Summary: "Start a background model download", Handler: h.handleDownload},
		{Method: http.MethodGet, Path: "/models/download/{name}/status", Summary: "Poll a download's status", Handler: h.handleDownloadStatus},
		{Method: http.MethodGet, Path: "/models/downloads", Summary: "List recorded download events", Handler: h.handleDownloadHistory},
		{Method: http.MethodPost, Path: "/models/{name}/generate", Summary: "Generate a response with a model", Handler: h.handleGenerate},
	}
}

// matchPath matches a registered pattern against a request path,
// extracting {name} segments.
func matchPath(pattern, path string) (map[string]string, bool) {
	params := make(map[string]string)

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	for i := 0; i < len(patternParts); i++ {
		pp := patternParts[i]
		pt := pathParts[i]

		if strings.HasPrefix(pp, "{") && strings.HasSuffix(pp, "}") {
			if pt == "" {
				return nil, false
			}
			params[pp[1:len(pp)-1]] = pt
		} else if pp != pt {
			return nil, false
		}
	}

	return params, true
}
