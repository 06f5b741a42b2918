package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ferdiansakti/proyek-analisis-data/internal/config"
	"github.com/ferdiansakti/proyek-analisis-data/internal/dataset"
	apierrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/exporter"
	"github.com/ferdiansakti/proyek-analisis-data/internal/files"
	"github.com/ferdiansakti/proyek-analisis-data/internal/infrastructure"
	customMiddleware "github.com/ferdiansakti/proyek-analisis-data/internal/middleware"
	"github.com/ferdiansakti/proyek-analisis-data/internal/services"
	handlers "github.com/ferdiansakti/proyek-analisis-data/internal/transport/http"
	"github.com/ferdiansakti/proyek-analisis-data/internal/validation"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts"
)

// AppName is reported in startup logs and telemetry.
const AppName = "bikepulse"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Loader        *dataset.Loader
	Dashboard     *services.DashboardService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
}

// NewApplication loads the configuration, initializes the global logger and
// builds the application.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(ctx, cfg, logger)
}

// New wires every component from cfg. The dataset is loaded eagerly: a
// missing or malformed file is returned as a DataUnavailable error and the
// server never starts.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths := cfg.GetPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	logger.InfoContext(ctx, "Application paths",
		slog.String("dataset", paths.DatasetFile),
		slog.String("export_dir", paths.ExportDir),
		slog.String("logs_dir", paths.LogsDir))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := app.initializeServices(ctx); err != nil {
		_ = otelProviders.Shutdown(context.Background())
		return nil, err
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices loads the dataset and builds the services over it.
// An unwritable export directory only disables exports.
func (a *Application) initializeServices(ctx context.Context) error {
	validator := validation.NewFileValidator(a.Logger)
	if err := validator.ValidateDatasetFile(a.Paths.DatasetFile); err != nil {
		return apierrors.NewDataUnavailableError(a.Paths.DatasetFile, err)
	}

	a.Loader = dataset.NewLoader(dataset.Options{
		Path:       a.Paths.DatasetFile,
		DateLayout: a.Config.Dataset.DateLayout,
		Sheet:      a.Config.Dataset.Sheet,
		Metrics:    a.Metrics,
	}, infrastructure.WithComponent(a.Logger, "dataset"))

	set, err := a.Loader.Load(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Dataset unavailable, refusing to start",
			slog.String("path", a.Paths.DatasetFile),
			slog.String("error", err.Error()))
		return err
	}
	a.Logger.InfoContext(ctx, "Dataset ready",
		slog.Int("records", set.Info.Rows),
		slog.Bool("hourly", set.Info.HasHour))

	var exp services.ViewExporter
	if err := validator.ValidateOutputDirectory(a.Paths.ExportDir); err != nil {
		a.Logger.WarnContext(ctx, "Exports disabled", slog.String("error", err.Error()))
	} else {
		exp = exporter.NewViewExporter(a.Paths, a.Logger)
	}

	a.Dashboard = services.NewDashboardService(a.Loader, exp, a.OTelProviders.Tracer, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(contracts.Version, a.Dashboard, a.Logger)
	return nil
}

// setupRouter configures the middleware chain and the API routes.
// Order: RequestID → RealIP → StripSlashes → OTel → Logger → Recoverer → headers → CORS → rate limit.
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}
	r.Use(customMiddleware.Compress(5))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		validator := customMiddleware.NewRequestValidator(a.Logger)
		dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, validator, a.Logger, errorHandler)
		dashboardHandler.RegisterRoutes(r)

		exportsHandler := handlers.NewExportsHandler(files.NewDiscovery(a.Paths.ExportDir), a.Logger, errorHandler)
		exportsHandler.RegisterRoutes(r)
	})

	r.Method(http.MethodGet, "/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler))

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves HTTP and watches the dataset file until ctx is cancelled or
// the process receives SIGINT/SIGTERM, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if a.Config.Dataset.Watch {
		g.Go(func() error {
			// A failed watch only loses staleness reporting.
			if err := a.Loader.Watch(gctx); err != nil {
				a.Logger.WarnContext(gctx, "Dataset watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}
