package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/ferdiansakti/proyek-analisis-data/internal/dataprocessing"
	apierrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/exporter"
	appmw "github.com/ferdiansakti/proyek-analisis-data/internal/middleware"
	"github.com/ferdiansakti/proyek-analisis-data/internal/services"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// exportQuery holds the parameters of the export endpoints.
type exportQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=csv xlsx CSV XLSX"`
	Name   string `query:"name" validate:"omitempty,filename"`
}

// DashboardHandler serves the filtered view and its derivations with
// RFC 7807 error responses.
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *appmw.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *appmw.RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = appmw.NewRequestValidator(logger)
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes on a fresh router
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the dashboard routes on r
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/dataset", h.GetDataset)
		r.Get("/labels", h.GetLabels)

		r.Group(func(r chi.Router) {
			r.Use(h.SelectionCtx)
			r.Get("/view", h.GetView)
			r.Get("/aggregate", h.GetAggregate)
			r.Get("/trends", h.GetTrends)
			r.Get("/describe", h.GetDescribe)
			r.Get("/value-counts", h.GetValueCounts)
			r.Get("/distribution", h.GetDistribution)
			r.Get("/rfm", h.GetRFM)
			r.Get("/summary", h.GetSummary)
			r.Post("/export", h.SaveExport)
		})
	})

	// Downloads set their own content type.
	r.With(h.SelectionCtx).Get("/export", h.DownloadExport)
}

// SelectionCtx parses and validates the filter criteria shared by every
// derivation endpoint and stores them in the request context.
func (h *DashboardHandler) SelectionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		raw := selectionQuery{Start: q.Get(ParamStart), End: q.Get(ParamEnd)}
		limit, err := parseLimit(q)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		raw.Limit = limit
		if err := h.validator.ValidateStruct(raw); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		criteria, err := parseCriteria(q)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		ctx := withSelection(r.Context(), criteria)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDataset handles GET /api/v1/dataset
func (h *DashboardHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	overview, err := h.service.Dataset(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "dataset", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   overview,
		"count":  len(overview.Head),
	})
}

// GetLabels handles GET /api/v1/labels
func (h *DashboardHandler) GetLabels(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Labels(localeOf(r)),
	})
}

// GetView handles GET /api/v1/view
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	limit, _ := parseLimit(r.URL.Query())

	view, err := h.service.View(r.Context(), selectionFrom(r.Context()), limit)
	if err != nil {
		h.fail(w, r, "view", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
		"count":  view.Returned,
	})
}

// GetAggregate handles GET /api/v1/aggregate?by=&metrics=&ops=
func (h *DashboardHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	req, err := h.aggregateRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.service.Aggregate(r.Context(), selectionFrom(r.Context()), req, localeOf(r))
	if err != nil {
		h.fail(w, r, "aggregate", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   table,
		"count":  len(table.Rows),
	})
}

// GetTrends handles GET /api/v1/trends
func (h *DashboardHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.service.Trends(r.Context(), selectionFrom(r.Context()), localeOf(r))
	if err != nil {
		h.fail(w, r, "trends", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   trends,
	})
}

// GetDescribe handles GET /api/v1/describe?fields=
func (h *DashboardHandler) GetDescribe(w http.ResponseWriter, r *http.Request) {
	var fields []domain.Metric
	for _, name := range splitParam(r.URL.Query(), "fields") {
		m, err := domain.ParseMetric(name)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("fields", err.Error()))
			return
		}
		fields = append(fields, m)
	}

	summaries, err := h.service.Describe(r.Context(), selectionFrom(r.Context()), fields)
	if err != nil {
		h.fail(w, r, "describe", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}

// GetValueCounts handles GET /api/v1/value-counts?dimension=
func (h *DashboardHandler) GetValueCounts(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("dimension")
	if name == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dimension", "dimension is required"))
		return
	}
	dim, err := domain.ParseDimension(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dimension", err.Error()))
		return
	}

	counts, err := h.service.ValueCounts(r.Context(), selectionFrom(r.Context()), dim, localeOf(r))
	if err != nil {
		h.fail(w, r, "value_counts", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"dimension": dim,
		"data":      counts,
		"count":     len(counts),
	})
}

// GetDistribution handles GET /api/v1/distribution?field=&metric=
func (h *DashboardHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	field, err := domain.ParseBinField(defaultString(q.Get("field"), string(domain.BinTemp)))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("field", err.Error()))
		return
	}
	metric, err := domain.ParseMetric(defaultString(q.Get("metric"), string(domain.MetricTotal)))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("metric", err.Error()))
		return
	}

	boxes, err := h.service.Distribution(r.Context(), selectionFrom(r.Context()), field, metric, localeOf(r))
	if err != nil {
		h.fail(w, r, "distribution", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"field":  field,
		"metric": metric,
		"data":   boxes,
		"count":  len(boxes),
	})
}

// GetRFM handles GET /api/v1/rfm?group_by=
func (h *DashboardHandler) GetRFM(w http.ResponseWriter, r *http.Request) {
	groupBy := dataprocessing.DefaultRFMGroup
	if name := r.URL.Query().Get("group_by"); name != "" {
		dim, err := domain.ParseDimension(name)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("group_by", err.Error()))
			return
		}
		groupBy = dim
	}

	result, err := h.service.RFM(r.Context(), selectionFrom(r.Context()), groupBy, localeOf(r))
	if err != nil {
		h.fail(w, r, "rfm", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
		"count":  len(result.Groups),
	})
}

// GetSummary handles GET /api/v1/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), selectionFrom(r.Context()), localeOf(r))
	if err != nil {
		h.fail(w, r, "summary", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// DownloadExport handles GET /api/v1/export?format=csv|xlsx
func (h *DashboardHandler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	format, name, err := h.exportParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if name == "" {
		name = "bike-rentals"
	}

	// Buffer so that a failed export still gets a problem response.
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, selectionFrom(r.Context()), format, localeOf(r)); err != nil {
		h.fail(w, r, "export", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export download interrupted",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

// SaveExport handles POST /api/v1/export by writing the view under the
// export directory.
func (h *DashboardHandler) SaveExport(w http.ResponseWriter, r *http.Request) {
	format, name, err := h.exportParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	path, err := h.service.ExportFile(r.Context(), selectionFrom(r.Context()), format, name, localeOf(r))
	if err != nil {
		h.fail(w, r, "export", err)
		return
	}

	h.logger.InfoContext(r.Context(), "export saved",
		slog.String("file", filepath.Base(path)),
		slog.String("request_id", middleware.GetReqID(r.Context())))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"file":   filepath.Base(path),
		"format": format,
	})
}

func (h *DashboardHandler) exportParams(r *http.Request) (exporter.Format, string, error) {
	q := r.URL.Query()
	raw := exportQuery{Format: q.Get("format"), Name: q.Get("name")}
	if err := h.validator.ValidateStruct(raw); err != nil {
		return "", "", err
	}
	format, err := exporter.ParseFormat(raw.Format)
	if err != nil {
		return "", "", apierrors.ErrValidation("format", err.Error())
	}
	return format, raw.Name, nil
}

func (h *DashboardHandler) aggregateRequest(r *http.Request) (domain.AggregateRequest, error) {
	q := r.URL.Query()
	var req domain.AggregateRequest

	if by := q.Get("by"); by != "" {
		dim, err := domain.ParseDimension(by)
		if err != nil {
			return req, apierrors.ErrValidation("by", err.Error())
		}
		req.GroupBy = dim
	}

	metrics := splitParam(q, "metrics")
	if len(metrics) == 0 {
		metrics = []string{string(domain.MetricTotal)}
	}
	for _, name := range metrics {
		m, err := domain.ParseMetric(name)
		if err != nil {
			return req, apierrors.ErrValidation("metrics", err.Error())
		}
		req.Metrics = append(req.Metrics, m)
	}

	ops := splitParam(q, "ops")
	if len(ops) == 0 {
		ops = []string{string(domain.OpSum)}
	}
	for _, name := range ops {
		op, err := domain.ParseAggregateOp(name)
		if err != nil {
			return req, apierrors.ErrValidation("ops", err.Error())
		}
		req.Ops = append(req.Ops, op)
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return req, err
	}
	return req, nil
}

// fail maps service sentinels onto API errors and hands everything else
// to the error handler.
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.DebugContext(r.Context(), "request failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())))

	switch {
	case errors.Is(err, services.ErrInvalidLimit):
		err = apierrors.ErrValidation(ParamLimit, err.Error())
	case errors.Is(err, services.ErrUnsupportedFormat):
		err = apierrors.ErrValidation("format", err.Error())
	case errors.Is(err, services.ErrServiceUnavailable):
		err = apierrors.New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", err.Error())
	}
	h.errorHandler.HandleError(w, r, err)
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
