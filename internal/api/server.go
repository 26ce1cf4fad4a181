package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/baystack/internal/store"
)

const shutdownTimeout = 15 * time.Second

// Option configures the server.
type Option func(*options)

type options struct {
	metrics bool
}

// WithMetrics toggles the /metrics endpoint.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metrics = enabled
	}
}

// New builds the echo instance with every route registered.
func New(svc Conductor, repo store.Repository, logger logr.Logger, opts ...Option) *echo.Echo {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		he := toHTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			log.FromContext(c.Request().Context()).Error(err, "request failed")
		}
		e.DefaultHTTPErrorHandler(he, c)
	}

	v1 := e.Group("/v1")
	v1.POST("/baymodels", createBayModelHandler(repo))
	v1.GET("/baymodels", listBayModelsHandler(repo))
	v1.GET("/baymodels/:uuid", getBayModelHandler(repo))
	v1.DELETE("/baymodels/:uuid", deleteBayModelHandler(repo))

	v1.POST("/bays", createBayHandler(svc))
	v1.GET("/bays", listBaysHandler(repo))
	v1.GET("/bays/:uuid", getBayHandler(repo))
	v1.PATCH("/bays/:uuid", scaleBayHandler(svc, repo))
	v1.DELETE("/bays/:uuid", deleteBayHandler(svc))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if o.metrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	}

	return e
}

// requestLogger attaches a request scoped logger to the request context
// and logs every response.
func requestLogger(logger logr.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			begin := time.Now()
			reqLogger := logger.WithValues("method", req.Method, "path", req.URL.Path)
			c.SetRequest(req.WithContext(log.IntoContext(req.Context(), reqLogger)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			reqLogger.V(1).Info("request served",
				"status", c.Response().Status, "duration", time.Since(begin))
			return nil
		}
	}
}

// Serve runs e on addr until ctx is cancelled, then shuts it down
// gracefully.
func Serve(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()
	log.FromContext(ctx).Info("api server listening", "address", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	graceful, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(graceful); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	return nil
}
