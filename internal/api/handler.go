package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/blockflow/internal/catalog"
	"github.com/gyaneshwarpardhi/blockflow/internal/config"
	"github.com/gyaneshwarpardhi/blockflow/internal/editor"
	"github.com/gyaneshwarpardhi/blockflow/internal/event"
	"github.com/gyaneshwarpardhi/blockflow/internal/metrics"
	"github.com/gyaneshwarpardhi/blockflow/internal/rules"
)

// Deps are the collaborators the HTTP layer serves.
type Deps struct {
	Editors   *editor.Manager
	Catalog   *catalog.Loader
	Kinds     *catalog.Registry
	Validator *rules.Validator
	// Config is optional; without it rule reloads are unavailable.
	Config      *config.Loader
	CORSOrigins []string
	Logger      *slog.Logger
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	Deps
	upgrader websocket.Upgrader
}

// New creates an HTTP handler and registers all routes.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Kinds == nil {
		d.Kinds = catalog.NewRegistry()
	}
	if d.Validator == nil {
		d.Validator = rules.NewValidator(nil)
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h := &Handler{
		Deps: d,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(loggingMiddleware(d.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", h.getCatalog)
		r.Get("/rules", h.listRules)
		r.Post("/rules/reload", h.reloadRules)

		r.Route("/editors", func(r chi.Router) {
			r.Get("/", h.listEditors)
			r.Post("/", h.createEditor)
			r.Route("/{editorID}", func(r chi.Router) {
				r.Get("/", h.getEditor)
				r.Delete("/", h.closeEditor)
				r.Post("/events", h.dispatchEvent)
				r.Get("/ws", h.serveWS)
			})
		})
	})
	return r
}

// GET /v1/catalog: loaded block kinds and the load status.
func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"loaded": h.catalogLoaded(),
		"kinds":  h.Kinds.List(),
	}
	if h.Catalog != nil {
		if err := h.Catalog.Err(); err != nil {
			resp["error"] = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /v1/rules: forbidden connection pairs currently in force.
func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	set := h.Validator.Rules()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reject_unresolved": set.RejectUnresolved,
		"forbidden":         set.List(),
	})
}

// POST /v1/rules/reload: re-read the config file and swap the rule set.
func (h *Handler) reloadRules(w http.ResponseWriter, r *http.Request) {
	if h.Config == nil {
		writeError(w, http.StatusServiceUnavailable, "rule reload is not configured")
		return
	}
	if _, err := h.Config.Reload(); err != nil {
		metrics.RuleReloads.WithLabelValues("error").Inc()
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":    true,
		"rules_count": h.Validator.Rules().Len(),
	})
}

// GET /v1/editors
func (h *Handler) listEditors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"editors": h.Editors.IDs()})
}

// POST /v1/editors: open an editor.
func (h *Handler) createEditor(w http.ResponseWriter, r *http.Request) {
	e, err := h.Editors.Create()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": e.ID()})
}

// GET /v1/editors/{editorID}: snapshot of nodes, edges and views.
func (h *Handler) getEditor(w http.ResponseWriter, r *http.Request) {
	e, err := h.Editors.Get(chi.URLParam(r, "editorID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

// DELETE /v1/editors/{editorID}
func (h *Handler) closeEditor(w http.ResponseWriter, r *http.Request) {
	if err := h.Editors.Close(chi.URLParam(r, "editorID")); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /v1/editors/{editorID}/events: dispatch one gesture synchronously.
func (h *Handler) dispatchEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.Editors.Get(chi.URLParam(r, "editorID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	res, err := e.Dispatch(r.Context(), &ev)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 until the block catalog has loaded, or while an editor
// queue is more than 80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.Editors.MaxQueueUtilization()
	metrics.QueueUtilization.Set(util)
	if !h.catalogLoaded() {
		resp := map[string]interface{}{"status": "catalog not loaded"}
		if h.Catalog != nil && h.Catalog.Err() != nil {
			resp["error"] = h.Catalog.Err().Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"kinds":             h.Kinds.Len(),
		"editors":           h.Editors.Len(),
		"queue_utilization": util,
	})
}

func (h *Handler) catalogLoaded() bool {
	return h.Catalog != nil && h.Catalog.Loaded()
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, event.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrClosed):
		return http.StatusGone
	case errors.Is(err, editor.ErrQueueFull), errors.Is(err, editor.ErrTooManyEditors):
		return http.StatusTooManyRequests
	case errors.Is(err, editor.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
