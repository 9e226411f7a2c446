// Package server wires the host process together: registry, display
// bridge, factory, dispatcher, and the HTTP boundary toward the UI.
package server

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apihttp "github.com/kiosk-sh/kiosk/internal/api/http"
	"github.com/kiosk-sh/kiosk/internal/api/middleware"
	"github.com/kiosk-sh/kiosk/internal/config"
	"github.com/kiosk-sh/kiosk/internal/dispatch"
	"github.com/kiosk-sh/kiosk/internal/logging"
	"github.com/kiosk-sh/kiosk/internal/monitoring"
	"github.com/kiosk-sh/kiosk/internal/window"
	"github.com/kiosk-sh/kiosk/internal/ws"
	"go.uber.org/zap"
)

// Version is the host version reported by the banner endpoint.
const Version = "0.3.0"

// bootTimeout bounds creation of the initial shell window.
const bootTimeout = 30 * time.Second

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	registry   *window.Registry
	bridge     *ws.Bridge
	factory    *window.Factory
	dispatcher *dispatch.Dispatcher
	logger     *logging.Logger

	bootOnce sync.Once
}

// Option adjusts server construction.
type Option func(*options)

type options struct {
	exiter dispatch.Exiter
}

// WithExiter replaces the process-exit primitive; tests use this to
// observe quit without dying.
func WithExiter(e dispatch.Exiter) Option {
	return func(o *options) { o.exiter = e }
}

// New creates a server instance from configuration.
func New(cfg *config.Config, logger *logging.Logger, opts ...Option) *Server {
	o := options{exiter: dispatch.ExitFunc(os.Exit)}
	for _, opt := range opts {
		opt(&o)
	}

	registry := window.NewRegistry()
	metrics := monitoring.New()

	bridge := ws.NewBridge(registry).
		WithLogger(logger).
		WithMetrics(metrics)

	defaults := window.Defaults{
		Title:  cfg.Window.DefaultTitle,
		Width:  cfg.Window.DefaultWidth,
		Height: cfg.Window.DefaultHeight,
	}
	factory := window.NewFactory(bridge, registry, defaults, cfg.UI.BaseDocument).
		WithLogger(logger).
		WithMetrics(metrics)

	dispatcher := dispatch.NewDispatcher(factory, bridge, o.exiter).
		WithLogger(logger).
		WithMetrics(metrics)

	s := &Server{
		registry:   registry,
		bridge:     bridge,
		factory:    factory,
		dispatcher: dispatcher,
		logger:     logger,
	}

	// The very first window opens the graphical shell. It can only be
	// built once a display layer is attached, so it rides the first
	// registration.
	bridge.OnRegister(s.bootShellWindow)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(dispatcher, factory, registry, bridge, logger, Version)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Host-process operations invoked by the hosted UI
	router.POST("/window", handlers.CreateWindow)
	router.POST("/message", handlers.SynchronousMessage)
	router.POST("/exec", handlers.ExecInvoke)
	router.POST("/capture", handlers.CaptureToClipboard)

	// Display layer attachment point
	router.GET("/display", bridge.HandleConnection)

	// Hosted UI assets; launch URLs resolve against this root
	router.Static("/ui", cfg.UI.DocumentRoot)

	s.router = router
	return s
}

// bootShellWindow creates the launch-time shell window, once per
// process no matter how often the display layer reconnects.
func (s *Server) bootShellWindow() {
	s.bootOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
		defer cancel()

		handle, err := s.factory.Create(ctx, []string{"shell"}, nil)
		if err != nil {
			s.logger.Error("failed to create initial shell window", zap.Error(err))
			return
		}
		s.registry.ReserveFixed("shell", handle.Label)
		s.logger.Info("shell window created", zap.String("label", handle.Label))
	})
}

// Router exposes the gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server on addr and blocks until it stops.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting kiosk host", zap.String("addr", addr))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
