// Package server exposes CRDB queries over a small JSON HTTP API.
//
// Routes:
//
//	GET /healthz          liveness
//	GET /v1/url           query URL for the given parameters
//	GET /v1/query         parsed table (JSON, or csv/tsv with ?output=)
//	GET /v1/experiments   experiments and row counts
//	GET /v1/quantities    known num/den codes (?filter=)
//
// Query parameters use the CRDB REST keys (num, den, energy_type, ...).
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/crdb/pkg/crdb"
	"github.com/matzehuels/crdb/pkg/errors"
	crdbio "github.com/matzehuels/crdb/pkg/io"
)

// Config holds server-specific configuration.
type Config struct {
	Addr string
}

// NewHTTPServer builds the API server around client.
func NewHTTPServer(cfg Config, client *crdb.Client, logger *log.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(client, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter returns the API routes.
func NewRouter(client *crdb.Client, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{client: client, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/url", h.URL)
		r.Get("/query", h.Query)
		r.Get("/experiments", h.Experiments)
		r.Get("/quantities", h.Quantities)
	})
	return r
}

// Handler serves the API routes.
type Handler struct {
	client *crdb.Client
	logger *log.Logger
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// URL returns the CRDB URL for the request parameters without fetching it.
func (h *Handler) URL(w http.ResponseWriter, r *http.Request) {
	p, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.client.URL(p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}

// Query fetches and parses a table.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	p, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	output := r.URL.Query().Get("output")
	if output == "" {
		output = crdbio.FormatJSON
	}
	contentType, ok := contentTypes[output]
	if !ok {
		h.writeError(w, r, errors.New(errors.ErrCodeInvalidParameter, "output must be json, csv or tsv, got %q", output))
		return
	}

	u, err := h.client.URL(p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	table, err := h.client.Query(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if err := crdbio.Write(table, u, output, w); err != nil {
		h.logger.Error("write response", "error", err)
	}
}

var contentTypes = map[string]string{
	crdbio.FormatJSON: "application/json",
	crdbio.FormatCSV:  "text/csv; charset=utf-8",
	crdbio.FormatTSV:  "text/tab-separated-values; charset=utf-8",
}

type experiment struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Experiments lists the experiments in a table with their row counts, in
// order of first appearance.
func (h *Handler) Experiments(w http.ResponseWriter, r *http.Request) {
	p, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	table, err := h.client.Query(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	masks := crdb.ExperimentMasks(table)
	names := crdb.Experiments(table)
	out := make([]experiment, len(names))
	for i, name := range names {
		out[i] = experiment{Name: name, Rows: masks[name].Count()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"experiments": out})
}

// Quantities lists the known num/den codes.
func (h *Handler) Quantities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"quantities": crdb.FilterQuantities(r.URL.Query().Get("filter")),
	})
}

type apiError struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	URL       string      `json:"url,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	body := apiError{
		Code:      errors.GetCode(err),
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
	}
	var coded *errors.Error
	if errors.As(err, &coded) {
		body.URL = coded.URL
	}
	if status >= http.StatusInternalServerError {
		h.logger.Warn("query failed", "error", err, "request_id", body.RequestID)
	}
	writeJSON(w, status, map[string]apiError{"error": body})
}

// StatusFor maps a coded error to an HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidParameter, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeQueryError:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeInternal, "":
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
