package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/maauso/trailerforge/internal/export"
	"github.com/maauso/trailerforge/internal/pipeline"
	"github.com/maauso/trailerforge/internal/presenter"
)

// DefaultMaxUploadBytes is the upload limit when none is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// multipartMemory is the part of a multipart body kept in memory before
// spilling to temporary files.
const multipartMemory = 1 << 20

// multipartOverhead is the room left for boundaries, part headers and other
// form fields on top of the file size limit.
const multipartOverhead = 64 << 10

// Exporter saves a completed session.
type Exporter interface {
	Export(ctx context.Context, snap pipeline.Snapshot) (string, error)
}

// Handlers contains the HTTP handlers for the web surface.
type Handlers struct {
	controller     *pipeline.Controller
	presenter      *presenter.Presenter
	exporter       Exporter
	logger         *slog.Logger
	maxUploadBytes int64
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithExporter enables POST /project/export.
func WithExporter(e Exporter) HandlerOption {
	return func(h *Handlers) {
		h.exporter = e
	}
}

// WithMaxUploadBytes limits the size of an uploaded artifact.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(controller *pipeline.Controller, p *presenter.Presenter, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		controller:     controller,
		presenter:      p,
		logger:         logger,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Page handles GET / requests by rendering the session screen.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	view := h.presenter.Render(h.controller.Snapshot())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.presenter.WriteHTML(w, view); err != nil {
		h.logger.Error("failed to render page",
			slog.String("error", err.Error()),
		)
	}
}

// State handles GET /state requests.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()
	writeJSON(w, http.StatusOK, StateResponse{
		State:        string(snap.State),
		ArtifactType: snap.ArtifactType,
		ArtifactSize: snap.ArtifactSize,
		View:         h.presenter.Render(snap),
	})
}

// SelectArtifact handles POST /artifact requests carrying a multipart "file" field.
// A form without a file is an empty selection and changes nothing.
func (h *Handlers) SelectArtifact(w http.ResponseWriter, r *http.Request) {
	bodyLimit := h.maxUploadBytes + multipartOverhead
	if r.ContentLength > bodyLimit {
		writeError(w, http.StatusRequestEntityTooLarge, "artifact exceeds the upload limit", "ARTIFACT_TOO_LARGE")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "artifact exceeds the upload limit", "ARTIFACT_TOO_LARGE")
			return
		}
		h.logger.Warn("failed to parse upload",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid multipart body", "INVALID_UPLOAD")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		redirectHome(w, r)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file field", "INVALID_UPLOAD")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "artifact exceeds the upload limit", "ARTIFACT_TOO_LARGE")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload",
			slog.String("artifact", header.Filename),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read artifact", "UPLOAD_READ_FAILED")
		return
	}

	h.controller.SelectArtifact(pipeline.NewArtifact(header.Filename, header.Header.Get("Content-Type"), content))
	redirectHome(w, r)
}

// ClearArtifact handles POST /artifact/clear requests.
func (h *Handlers) ClearArtifact(w http.ResponseWriter, r *http.Request) {
	h.controller.ClearArtifact()
	redirectHome(w, r)
}

// Generate handles POST /generate requests. The request to the generation
// service runs in the background and outlives this HTTP request.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	// Use context.WithoutCancel so the generation is not abandoned when the browser navigates away
	if err := h.controller.SubmitAsync(context.WithoutCancel(r.Context())); err != nil {
		if errors.Is(err, pipeline.ErrSubmitUnavailable) {
			writeError(w, http.StatusConflict, "select an artifact and wait for the current generation to finish", "SUBMIT_UNAVAILABLE")
			return
		}
		h.logger.Error("failed to start generation",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to start generation", "GENERATION_START_FAILED")
		return
	}
	redirectHome(w, r)
}

// NewProject handles POST /project/new requests.
func (h *Handlers) NewProject(w http.ResponseWriter, r *http.Request) {
	h.controller.StartNewProject()
	redirectHome(w, r)
}

// Export handles POST /project/export requests.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusNotImplemented, "export is not configured", "EXPORT_DISABLED")
		return
	}

	location, err := h.exporter.Export(r.Context(), h.controller.Snapshot())
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			writeError(w, http.StatusConflict, "no completed trailer to export", "NOTHING_TO_EXPORT")
			return
		}
		h.logger.Error("failed to export trailer",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to export trailer", "EXPORT_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, ExportResponse{Location: location})
}

// redirectHome sends the browser back to the session page after a form post.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
