package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytscribe/internal/formatter"
	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/desertthunder/ytscribe/internal/tasks"
)

// maxBulkBodyBytes caps uploaded reference lists.
const maxBulkBodyBytes = 10 << 20

// APIHandler serves the resolution endpoints.
type APIHandler struct {
	engine tasks.ResolveEngine
	jobs   *JobStore
	logger *log.Logger
}

// NewAPIHandler creates an [APIHandler] backed by the given engine and job store.
func NewAPIHandler(engine tasks.ResolveEngine, jobs *JobStore, logger *log.Logger) *APIHandler {
	return &APIHandler{engine: engine, jobs: jobs, logger: logger}
}

// Register wires every endpoint into the router.
func (h *APIHandler) Register(router Router) {
	router.Handle("GET", "/health", http.HandlerFunc(h.Health))
	router.Handle("POST", "/youtube/details", http.HandlerFunc(h.Details))
	router.Handle("POST", "/youtube/details/bulk", http.HandlerFunc(h.DetailsBulk))
	router.Handle("POST", "/youtube/channel/export", http.HandlerFunc(h.ChannelExport))
	router.Handler(&JobsHandler{jobs: h.jobs})
}

// Health reports liveness.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Details resolves an explicit list of video URLs or IDs synchronously.
func (h *APIHandler) Details(w http.ResponseWriter, r *http.Request) {
	var req models.DetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.engine.Resolve(r.Context(), nil, req.Inputs())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DetailsBulk accepts an uploaded reference list (plain text, CSV, or a JSON
// array) and starts a background resolution job.
func (h *APIHandler) DetailsBulk(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBulkBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("reading upload: %w", err))
		return
	}

	refs := tasks.ParseBulkInput(string(body), r.Header.Get("Content-Type"))
	if len(refs) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: upload contains no references", shared.ErrEmptyInput))
		return
	}

	job := h.jobs.Launch(func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (any, error) {
		return h.engine.Resolve(ctx, progress, refs)
	})

	h.logger.Info("bulk job started", "job_id", job.ID(), "references", len(refs))
	writeJSON(w, http.StatusAccepted, job.Status())
}

// ChannelExport enumerates a channel's uploads and starts a background
// resolution job over them.
func (h *APIHandler) ChannelExport(w http.ResponseWriter, r *http.Request) {
	var req models.ChannelExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Channel) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: channel is required", shared.ErrEmptyInput))
		return
	}

	opts := tasks.ChannelOpts{
		IncludeTranscripts: req.IncludeTranscripts,
		MaxVideos:          req.MaxVideos,
	}
	job := h.jobs.Launch(func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (any, error) {
		return h.engine.ResolveChannel(ctx, progress, req.Channel, opts)
	})

	h.logger.Info("channel job started", "job_id", job.ID(), "channel", req.Channel)
	writeJSON(w, http.StatusAccepted, job.Status())
}

// JobsHandler serves job status, cancellation, and result download.
type JobsHandler struct {
	jobs *JobStore
}

// Routes returns the HTTP routes this handler serves.
func (h *JobsHandler) Routes() []string {
	return []string{"/jobs/"}
}

// ServeHTTP dispatches /jobs/{id}, /jobs/{id}/cancel, and /jobs/{id}/download.
func (h *JobsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/"), "/")
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	job, err := h.jobs.Get(parts[0])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, job.Status())
	case len(parts) == 2 && parts[1] == "cancel" && r.Method == http.MethodPost:
		h.cancel(w, job)
	case len(parts) == 2 && parts[1] == "download" && r.Method == http.MethodGet:
		h.download(w, r, job)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *JobsHandler) cancel(w http.ResponseWriter, job *Job) {
	if err := job.Cancel(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job.Status())
}

func (h *JobsHandler) download(w http.ResponseWriter, r *http.Request, job *Job) {
	result, err := job.Result()
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	switch format {
	case "json":
		writeJSON(w, http.StatusOK, result)
	case "csv":
		data := resolutionData(result)
		if data == nil {
			writeError(w, http.StatusConflict, fmt.Errorf("%w: job has no tabular result", shared.ErrJobNotComplete))
			return
		}
		csvData, err := formatter.ExportToCSV(data)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", job.ID()))
		w.WriteHeader(http.StatusOK)
		w.Write(csvData)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format))
	}
}

// resolutionData extracts the tabular portion of a job result.
func resolutionData(result any) *models.ResolutionResult {
	switch v := result.(type) {
	case *models.ResolutionResult:
		return v
	case *models.ChannelExport:
		return &v.Data
	default:
		return nil
	}
}

// kindFor maps whole-call sentinel errors onto the same taxonomy used for
// per-input errors, so clients can classify failed jobs and error responses.
func kindFor(err error) models.ErrorKind {
	if errors.Is(err, shared.ErrChannelNotFound) {
		return models.KindChannelNotFound
	}
	return ""
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrEmptyInput), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrChannelNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "encoding response failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": err.Error()}
	if kind := kindFor(err); kind != "" {
		body["kind"] = string(kind)
	}
	writeJSON(w, status, body)
}
