package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"taskcal/core/cache"
	"taskcal/core/config"
	"taskcal/core/controller"
	"taskcal/core/database"
	appErrors "taskcal/core/errors"
	"taskcal/core/logger"
	"taskcal/core/metrics"
	"taskcal/core/queue"
	"taskcal/modules/auth"
	"taskcal/modules/calendar"
	"taskcal/modules/calendar/jobs"
	"taskcal/modules/event"
	"taskcal/modules/task"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

const defaultShutdownTimeout = 10 * time.Second

// Deps are the long-lived connections shared by the HTTP server and worker.
type Deps struct {
	Config *config.Config
	DB     *database.Database
	Cache  cache.Cache
}

// Bootstrap loads configuration and opens the database and Redis connections.
func Bootstrap() (*Deps, error) {
	cfg, err := config.Init()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &Deps{Config: cfg, DB: db, Cache: redisCache}, nil
}

func (d *Deps) Close() {
	if err := d.Cache.Close(); err != nil {
		logger.Warn("Server:Close:Redis", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		logger.Warn("Server:Close:Database", "error", err)
	}
}

// NewEcho builds the HTTP handler with every module registered.
func NewEcho(deps *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = controller.HTTPErrorHandler

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency.String()}
			if v.Error != nil {
				logger.Warn("HTTP:Request:Error", append(args, "error", v.Error.Error())...)
				return nil
			}
			logger.Info("HTTP:Request", args...)
			return nil
		},
	}))

	cfg := deps.Config
	if cfg.Server.MetricsEnabled {
		e.Use(metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}
	e.GET("/health", healthHandler(deps))

	authService, mw := auth.Init(e, deps.DB, deps.Cache, cfg)
	event.Init(e, deps.DB, authService, mw, cfg)
	task.Init(e, deps.DB, mw)
	calendar.Init(e, deps.DB, deps.Cache, mw, cfg)

	return e
}

func healthHandler(deps *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"database": "ok", "redis": "ok"}
		healthy := true
		if err := deps.DB.PingContext(ctx); err != nil {
			status["database"] = err.Error()
			healthy = false
		}
		if err := deps.Cache.Ping(ctx); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}

		if !healthy {
			return c.JSON(http.StatusServiceUnavailable, controller.NewErrorBody(appErrors.ErrInternalServer, "unhealthy", status))
		}
		return c.JSON(http.StatusOK, controller.NewSuccessResponse(status, "healthy"))
	}
}

// NewWorker builds the background worker with the calendar sync jobs.
// The returned client must be closed after the worker stops.
func NewWorker(deps *Deps) (*queue.Worker, *asynq.Client) {
	cfg := deps.Config
	client := queue.NewClient(cfg.Redis)
	worker := queue.NewWorker(cfg.Redis, cfg.Sync.WorkerConcurrency)

	m := calendar.New(deps.DB, deps.Cache, cfg)
	jobs.NewHandler(m.Sync, m.Repository, client, cfg.Sync.Interval).Register(worker, cfg.Sync.Schedule)
	return worker, client
}

// Run serves HTTP until ctx is cancelled. With withWorker the background
// worker runs in the same process.
func Run(ctx context.Context, withWorker bool) error {
	deps, err := Bootstrap()
	if err != nil {
		return err
	}
	defer deps.Close()

	cfg := deps.Config
	e := NewEcho(deps)

	if withWorker {
		worker, client := NewWorker(deps)
		if err := worker.Start(); err != nil {
			return err
		}
		defer func() {
			worker.Shutdown()
			_ = client.Close()
		}()
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", "addr", addr, "worker", withWorker)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Shutting down server")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// RunWorker processes background jobs until ctx is cancelled.
func RunWorker(ctx context.Context) error {
	deps, err := Bootstrap()
	if err != nil {
		return err
	}
	defer deps.Close()

	worker, client := NewWorker(deps)
	defer func() { _ = client.Close() }()

	if err := worker.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	worker.Shutdown()
	return nil
}
