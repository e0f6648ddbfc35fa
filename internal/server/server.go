// Package server exposes the JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"studycloud/internal/config"
	"studycloud/internal/metrics"
	"studycloud/internal/service"
)

// Server wires the HTTP surface to the service layer.
type Server struct {
	echo          *echo.Echo
	cfg           config.ServerConfig
	logger        *zap.Logger
	metrics       *metrics.Metrics
	auth          *service.AuthService
	tasks         *service.TaskService
	users         *service.UserService
	stats         *service.StatsService
	notifications *service.NotificationService
}

func New(
	cfg config.ServerConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
	auth *service.AuthService,
	tasks *service.TaskService,
	users *service.UserService,
	stats *service.StatsService,
	notifications *service.NotificationService,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:          e,
		cfg:           cfg,
		logger:        logger,
		metrics:       m,
		auth:          auth,
		tasks:         tasks,
		users:         users,
		stats:         stats,
		notifications: notifications,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.logRequests())
	if m != nil {
		e.Use(s.countRequests())
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := s.echo.Group("/api")

	// Credential endpoints are throttled per remote IP so password
	// guessing stays slow.
	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(5),
			Burst:     10,
			ExpiresIn: 3 * time.Minute,
		}),
	})
	api.POST("/register", s.handleRegister, limiter)
	api.POST("/login", s.handleLogin, limiter)

	authed := api.Group("", s.requireAuth)
	authed.GET("/tasks", s.handleListTasks)
	authed.POST("/tasks", s.handleCreateTask)
	authed.GET("/tasks/:id", s.handleGetTask)
	authed.PUT("/tasks/:id", s.handleUpdateTask)
	authed.DELETE("/tasks/:id", s.handleDeleteTask)
	authed.POST("/tasks/:id/toggle", s.handleToggleTask)
	authed.GET("/profile", s.handleProfile)
	authed.GET("/stats", s.handleStats)
	authed.GET("/notifications", s.handleListNotifications)
	authed.POST("/notifications/:id/read", s.handleMarkNotificationRead)

	admin := authed.Group("/admin", s.requireAdmin)
	admin.GET("/users", s.handleAdminListUsers)
	admin.DELETE("/users/:id", s.handleAdminDeleteUser)
}

// logRequests emits one structured line per request. Errors are resolved
// into the response before the status is read; the later duplicate
// resolution in echo is a no-op once the response is committed.
func (s *Server) logRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

// countRequests feeds the request counter, labeled by route pattern
// rather than raw URI to keep metric cardinality bounded.
func (s *Server) countRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			s.metrics.HTTPRequests.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(c.Response().Status),
			).Inc()
			return err
		}
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// httpError translates service sentinels into transport status codes.
// Anything unrecognized bubbles up as a 500 without leaking details.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	default:
		return err
	}
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	addr := s.cfg.Addr()
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
