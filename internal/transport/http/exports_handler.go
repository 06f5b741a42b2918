package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/exporter"
	"github.com/ferdiansakti/proyek-analisis-data/internal/files"
)

// ExportCatalog lists and resolves saved exports.
type ExportCatalog interface {
	FindExports() ([]files.FileInfo, error)
	Resolve(name string) (files.FileInfo, error)
}

// ExportsHandler serves the views saved by POST /export.
type ExportsHandler struct {
	catalog      ExportCatalog
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportsHandler creates a new exports handler
func NewExportsHandler(catalog ExportCatalog, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &ExportsHandler{
		catalog:      catalog,
		logger:       logger.With(slog.String("handler", "exports")),
		errorHandler: errorHandler,
	}
}

// RegisterRoutes adds the export listing routes to r.
func (h *ExportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/exports", h.ListExports)
	r.Get("/exports/{filename}", h.DownloadSaved)
}

// ListExports handles GET /api/v1/exports
func (h *ExportsHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	saved, err := h.catalog.FindExports()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list exports",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("list exports", err))
		return
	}

	resp := map[string]interface{}{
		"status": "success",
		"data":   saved,
		"count":  len(saved),
	}
	if latest, ok := files.GetLatestFile(saved); ok {
		resp["latest"] = latest.Name
	}
	render.JSON(w, r, resp)
}

// DownloadSaved handles GET /api/v1/exports/{filename}
func (h *ExportsHandler) DownloadSaved(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	file, err := h.catalog.Resolve(name)
	if errors.Is(err, files.ErrNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError(fmt.Sprintf("export %q", name)))
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("open export", err))
		return
	}

	h.logger.InfoContext(r.Context(), "serving saved export",
		slog.String("file", file.Name),
		slog.Int64("size", file.Size),
		slog.String("request_id", middleware.GetReqID(r.Context())))

	format, _ := exporter.ParseFormat(file.Format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	http.ServeFile(w, r, file.Path)
}
