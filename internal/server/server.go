// Package server exposes the benchmark core over HTTP: submit a run, fetch
// a persisted run, browse recent runs.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/babelmark/babelmark/internal/benchmark"
	"github.com/babelmark/babelmark/internal/provider"
	"github.com/babelmark/babelmark/internal/report"
)

const shutdownGracePeriod = 10 * time.Second

// Runner executes one benchmarking invocation.
type Runner interface {
	Execute(ctx context.Context, req benchmark.TranslationRequest) (*benchmark.Run, error)
}

// RunReader reads persisted runs.
type RunReader interface {
	GetRun(ctx context.Context, runID string) (*benchmark.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]benchmark.RunListItem, error)
}

type Server struct {
	runner  Runner
	runs    RunReader
	app     *echo.Echo
	address string
	logger  *slog.Logger
}

// New constructs the HTTP server with routing and middleware wired.
func New(port int, runner Runner, runs RunReader, logger *slog.Logger) (*Server, error) {
	if runner == nil || runs == nil {
		return nil, errors.New("runner and run reader must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency: true,
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	}))

	srv := &Server{
		runner:  runner,
		runs:    runs,
		app:     e,
		address: fmt.Sprintf(":%d", port),
		logger:  logger,
	}
	srv.registerRoutes()

	return srv, nil
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/providers", s.handleProviders)
	api.POST("/run", s.handleRun)
	api.GET("/run/:id", s.handleGetRun)
	api.GET("/run/:id/report", s.handleRunReport)
	api.GET("/runs", s.handleListRuns)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.app.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("server listening", "address", s.address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	return s.app.Shutdown(shutdownCtx)
}

// Handler exposes the underlying HTTP handler for tests.
func (s *Server) Handler() http.Handler { return s.app }

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleProviders(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"types": provider.Types()})
}

func (s *Server) handleRun(c echo.Context) error {
	var req benchmark.TranslationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	run, err := s.runner.Execute(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, benchmark.ErrEmptyText),
			errors.Is(err, benchmark.ErrTextTooLong),
			errors.Is(err, benchmark.ErrNoProviders):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case run != nil:
			// Computed but not persisted: hand the data back with the caveat.
			s.logger.Error("run not persisted", "error", err)
			return c.JSON(http.StatusAccepted, run)
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, run)
}

func (s *Server) handleGetRun(c echo.Context) error {
	run, err := s.runs.GetRun(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, benchmark.ErrRunNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "run not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, run)
}

func (s *Server) handleRunReport(c echo.Context) error {
	run, err := s.runs.GetRun(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, benchmark.ErrRunNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "run not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTML(http.StatusOK, report.HTML(run))
}

func (s *Server) handleListRuns(c echo.Context) error {
	limit := intQueryParam(c, "limit", 50)
	offset := intQueryParam(c, "offset", 0)

	items, err := s.runs.ListRuns(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []benchmark.RunListItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
