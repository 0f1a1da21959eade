package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/drblury/routeweaver/controller"
	"github.com/drblury/routeweaver/docs"
	"github.com/drblury/routeweaver/info"
	"github.com/drblury/routeweaver/probe"
	"github.com/drblury/routeweaver/responder"
	"github.com/drblury/routeweaver/router"
)

const readHeaderTimeout = 10 * time.Second

// Option configures New.
type Option func(*settings)

type mount struct {
	pattern string
	handler http.Handler
}

type settings struct {
	config       Config
	registry     *docs.Registry
	logger       *slog.Logger
	responder    *responder.Responder
	groups       []router.Group
	mounts       []mount
	routerOpts   []router.Option
	liveness     []probe.Func
	readiness    []probe.Func
	infoProvider info.InfoProvider
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *settings) { s.config = cfg }
}

// WithRegistry shares a documentation registry, for example one that already
// holds named schemas.
func WithRegistry(reg *docs.Registry) Option {
	return func(s *settings) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithGroups registers route groups in the given order.
func WithGroups(groups ...router.Group) Option {
	return func(s *settings) { s.groups = append(s.groups, groups...) }
}

// WithMount mounts an extra handler below pattern, outside the documentation.
func WithMount(pattern string, handler http.Handler) Option {
	return func(s *settings) { s.mounts = append(s.mounts, mount{pattern: pattern, handler: handler}) }
}

// WithLogger sets the logger shared by the responder and the router.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithResponder sets the responder that renders forwarded errors.
func WithResponder(r *responder.Responder) Option {
	return func(s *settings) { s.responder = r }
}

// WithRouterOptions appends options for the application middleware chain.
func WithRouterOptions(opts ...router.Option) Option {
	return func(s *settings) { s.routerOpts = append(s.routerOpts, opts...) }
}

// WithLivenessChecks sets the checks behind /healthz.
func WithLivenessChecks(checks ...probe.Func) Option {
	return func(s *settings) { s.liveness = append(s.liveness, checks...) }
}

// WithReadinessChecks sets the checks behind /readyz.
func WithReadinessChecks(checks ...probe.Func) Option {
	return func(s *settings) { s.readiness = append(s.readiness, checks...) }
}

// WithInfoProvider sets the /version payload.
func WithInfoProvider(provider info.InfoProvider) Option {
	return func(s *settings) { s.infoProvider = provider }
}

// App is an assembled service: route groups, the error stage, the health
// and documentation endpoints and the middleware chain.
type App struct {
	config   Config
	registry *docs.Registry
	logger   *slog.Logger
	handler  http.Handler
}

// New assembles an App. Route declaration errors are returned, not panicked.
func New(opts ...Option) (*App, error) {
	s := &settings{
		config:   DefaultConfig(),
		registry: docs.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.responder == nil {
		s.responder = responder.NewResponder(responder.WithLogger(s.logger))
	}

	cfg := s.config
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}
	docInfo := docs.Info{
		Title:       cfg.Docs.Title,
		Version:     cfg.Docs.Version,
		Description: cfg.Docs.Description,
		Servers:     cfg.Docs.Servers,
	}

	mux := chi.NewRouter()
	mux.Use(controller.ErrorStage(s.responder.HandleErrors))

	for _, group := range s.groups {
		if err := router.Register(mux, s.registry, group); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}
	for _, m := range s.mounts {
		mux.Mount(m.pattern, m.handler)
	}

	provider := s.infoProvider
	if provider == nil {
		provider = func() any {
			return map[string]string{"title": docInfo.Title, "version": docInfo.Version, "environment": cfg.Environment}
		}
	}
	infoOpts := []info.InfoOption{
		info.WithInfoResponder(s.responder),
		info.WithLivenessChecks(s.liveness...),
		info.WithReadinessChecks(s.readiness...),
		info.WithInfoProvider(provider),
	}
	if !cfg.Production() {
		infoOpts = append(infoOpts,
			info.WithDocumentation(s.registry, docInfo),
			info.WithDocumentationPaths(cfg.Docs.SpecPath, cfg.Docs.UIPath),
			info.WithUIType(info.UIType(cfg.Docs.UI)),
		)
	}
	info.NewInfoHandler(infoOpts...).RegisterRoutes(mux)

	routerOpts := []router.Option{
		router.WithConfig(cfg.Router),
		router.WithLogger(s.logger),
	}
	if cfg.Docs.ValidateRequests {
		doc, err := s.registry.Document(docInfo)
		if err != nil {
			return nil, fmt.Errorf("app: build request validation document: %w", err)
		}
		routerOpts = append(routerOpts, router.WithOpenAPIDocument(doc))
	}
	routerOpts = append(routerOpts, s.routerOpts...)

	return &App{
		config:   cfg,
		registry: s.registry,
		logger:   s.logger,
		handler:  router.New(mux, routerOpts...),
	}, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Registry returns the documentation registry.
func (a *App) Registry() *docs.Registry { return a.registry }

// Config returns the configuration the app was built with.
func (a *App) Config() Config { return a.config }

// Run listens on addr, or the configured address when empty, and serves until
// ctx is cancelled.
func (a *App) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.config.Addr
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("app: listen on %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", ln.Addr().String(), "environment", a.config.Environment)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()
	a.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("app: serve: %w", err)
	}
	return nil
}
