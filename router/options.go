package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5/middleware"
)

// Middleware wraps an http.Handler to produce a new http.Handler.
type Middleware func(http.Handler) http.Handler

// Option configures the application middleware chain built by New.
type Option func(*options)

// stage names one built-in middleware. Stages run in declaration order.
type stage int

const (
	stageOpenAPI stage = iota
	stageCORS
	stageTimeout
	stageLogging
	stageRecover
)

type options struct {
	config   Config
	logger   *slog.Logger
	document *openapi3.T
	prepend  []Middleware
	append   []Middleware
	override []Middleware
	disabled map[stage]bool
}

func defaultOptions() *options {
	return &options{
		config:   Config{Timeout: 30 * time.Second},
		logger:   slog.Default(),
		disabled: make(map[stage]bool),
	}
}

func (o *options) middlewareChain() []Middleware {
	if len(o.override) > 0 {
		return slices.Clone(o.override)
	}

	builtin := o.builtinMiddlewares()
	chain := make([]Middleware, 0, len(o.prepend)+len(builtin)+len(o.append))
	chain = append(chain, o.prepend...)
	chain = append(chain, builtin...)
	return append(chain, o.append...)
}

// builtinMiddlewares returns the enabled stages that have something to do.
func (o *options) builtinMiddlewares() []Middleware {
	var chain []Middleware
	for s := stageOpenAPI; s <= stageRecover; s++ {
		if o.disabled[s] {
			continue
		}
		if mw := o.middlewareFor(s); mw != nil {
			chain = append(chain, mw)
		}
	}
	return chain
}

func (o *options) middlewareFor(s stage) Middleware {
	switch s {
	case stageOpenAPI:
		if o.document != nil {
			return oapiMiddleware(o.document)
		}
	case stageCORS:
		if len(o.config.CORS.Origins) > 0 {
			return corsMiddleware(o.config.CORS)
		}
	case stageTimeout:
		if o.config.Timeout > 0 {
			return timeoutMiddleware(o.config.Timeout)
		}
	case stageLogging:
		if o.logger != nil {
			return loggingMiddleware(o.logger, o.config.QuietdownRoutes, o.config.HideHeaders)
		}
	case stageRecover:
		return middleware.Recoverer
	}
	return nil
}

func disable(s stage) Option {
	return func(o *options) { o.disabled[s] = true }
}

// WithConfig replaces the chain configuration. Slices are copied.
func WithConfig(cfg Config) Option {
	cfg.QuietdownRoutes = cloneStrings(cfg.QuietdownRoutes)
	cfg.HideHeaders = cloneStrings(cfg.HideHeaders)
	cfg.CORS.Origins = cloneStrings(cfg.CORS.Origins)
	cfg.CORS.Methods = cloneStrings(cfg.CORS.Methods)
	cfg.CORS.Headers = cloneStrings(cfg.CORS.Headers)
	return func(o *options) {
		o.config = cfg
	}
}

// WithConfigMutator edits the configuration in place after earlier options.
func WithConfigMutator(mutator func(*Config)) Option {
	return func(o *options) {
		if mutator != nil {
			mutator(&o.config)
		}
	}
}

// WithLogger sets the request logger. A nil logger turns request logging off.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOpenAPIDocument validates requests matching an operation of doc before
// they reach the routes; other requests pass through. Most services leave
// this off and rely on controller schemas, which coerce string input instead
// of rejecting it.
func WithOpenAPIDocument(doc *openapi3.T) Option {
	return func(o *options) {
		o.document = doc
	}
}

// WithMiddlewares runs middlewares ahead of the built-in stages.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.prepend = append(o.prepend, middlewares...)
	}
}

// WithTrailingMiddlewares runs middlewares after the built-in stages.
func WithTrailingMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.append = append(o.append, middlewares...)
	}
}

// WithMiddlewareChain replaces the whole chain, built-in stages included.
func WithMiddlewareChain(middlewares ...Middleware) Option {
	chain := slices.Clone(middlewares)
	return func(o *options) {
		o.override = chain
	}
}

// WithoutOpenAPIValidation skips document validation even when a document
// is set.
func WithoutOpenAPIValidation() Option { return disable(stageOpenAPI) }

// WithoutCORSMiddleware skips CORS handling regardless of configuration.
func WithoutCORSMiddleware() Option { return disable(stageCORS) }

// WithoutTimeoutMiddleware skips the per-request timeout.
func WithoutTimeoutMiddleware() Option { return disable(stageTimeout) }

// WithoutLoggingMiddleware skips request logging.
func WithoutLoggingMiddleware() Option { return disable(stageLogging) }

// WithoutRecoverer lets handler panics propagate to the server.
func WithoutRecoverer() Option { return disable(stageRecover) }

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return slices.Clone(values)
}
