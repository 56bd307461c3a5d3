package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getclever/docqa/internal/core/ports"
	"github.com/getclever/docqa/internal/observability/metrics"
)

type RouterOptions struct {
	Ask     ports.SessionQueryService
	Control ports.SessionControl
	Ingest  ports.DocumentIngestor
	Reader  ports.DocumentReader

	Metrics     *metrics.HTTPServerMetrics
	ServiceName string

	RateLimitRPS   float64
	RateLimitBurst int
}

type Router struct {
	ask     ports.SessionQueryService
	control ports.SessionControl
	ingest  ports.DocumentIngestor
	reader  ports.DocumentReader

	metrics *metrics.HTTPServerMetrics
	service string

	rateLimitRPS   float64
	rateLimitBurst int
}

func NewRouter(options RouterOptions) *Router {
	service := options.ServiceName
	if service == "" {
		service = "api"
	}
	return &Router{
		ask:            options.Ask,
		control:        options.Control,
		ingest:         options.Ingest,
		reader:         options.Reader,
		metrics:        options.Metrics,
		service:        service,
		rateLimitRPS:   options.RateLimitRPS,
		rateLimitBurst: options.RateLimitBurst,
	}
}

// Handler assembles the route table and middleware chain. The returned stop
// function releases the rate limiter's background eviction goroutine.
func (rt *Router) Handler() (http.Handler, func()) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/sessions/", rt.sessionRoutes)
	mux.HandleFunc("/v1/admin/reset-index", rt.resetIndex)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	stop := func() {}
	if rt.rateLimitRPS > 0 {
		limiter, stopLimiter := newRateLimiter(rt.rateLimitRPS, rt.rateLimitBurst, rt.metrics, rt.service)
		handler = limiter.middleware(handler)
		stop = stopLimiter
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return handler, stop
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// sessionRoutes dispatches /v1/sessions/{session_id}/query and
// /v1/sessions/{session_id}/clear.
func (rt *Router) sessionRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	sessionID, action, found := strings.Cut(rest, "/")
	if !found || strings.TrimSpace(sessionID) == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	switch action {
	case "query":
		rt.query(w, r, sessionID)
	case "clear":
		rt.clearSession(w, r, sessionID)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (rt *Router) query(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	start := time.Now()
	answer, err := rt.ask.Ask(r.Context(), sessionID, req.Query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordTurn(
			rt.service,
			string(answer.State),
			answer.MatchedRule,
			string(answer.Band),
			len(answer.Citations),
			time.Since(start),
		)
	}
	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) clearSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := rt.control.ClearSession(r.Context(), sessionID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (rt *Router) resetIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := rt.control.ResetIndex(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": publicErrorMessage(err, status)})
}
