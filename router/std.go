package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5/middleware"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"
)

// New wraps handler, typically the chi router holding the route groups, in
// the configured middleware chain and mounts it at "/".
func New(handler http.Handler, opts ...Option) *http.ServeMux {
	if handler == nil {
		panic("router: handler cannot be nil")
	}

	settings := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/", Chain(handler, settings.middlewareChain()...))
	return mux
}

// Chain applies middlewares so the first one is outermost.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if mw := middlewares[i]; mw != nil {
			handler = mw(handler)
		}
	}
	return handler
}

func oapiMiddleware(doc *openapi3.T) Middleware {
	// Servers are cleared on a copy so any host matches; the caller's
	// document keeps them for publishing.
	validated := *doc
	validated.Servers = nil

	validatorOptions := &oapiMW.Options{
		Options: openapi3filter.Options{
			// Authentication is left to route middlewares.
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
	}
	validate := oapiMW.OapiRequestValidatorWithOptions(&validated, validatorOptions)
	operations, err := gorillamux.NewRouter(&validated)

	return func(next http.Handler) http.Handler {
		checked := validate(next)
		if err != nil {
			return checked
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Undocumented endpoints such as /healthz pass through.
			if _, _, findErr := operations.FindRoute(r); findErr != nil {
				next.ServeHTTP(w, r)
				return
			}
			checked.ServeHTTP(w, r)
		})
	}
}

func loggingMiddleware(logger *slog.Logger, quietdownRoutes []string, hideHeaders []string) Middleware {
	logger.Debug("logging middleware configured",
		slog.Any("quietdown_routes", quietdownRoutes),
		slog.Any("hide_headers", hideHeaders),
	)

	quiet := cloneStrings(quietdownRoutes)
	redacted := cloneStrings(hideHeaders)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(quiet, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			headers := r.Header.Clone()
			redactHeaders(headers, redacted)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", statusOf(ww)),
				slog.Duration("duration", time.Since(start)),
				slog.Any("header", headers),
			}
			if r.ContentLength > 0 {
				attrs = append(attrs, slog.Int64("content_length", r.ContentLength))
			}
			logger.Debug("request", attrs...)
		})
	}
}

func statusOf(ww middleware.WrapResponseWriter) int {
	if status := ww.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}

func corsMiddleware(cfg CORSConfig) Middleware {
	origins := cloneStrings(cfg.Origins)
	methods := strings.Join(cfg.Methods, ",")
	headers := strings.Join(cfg.Headers, ",")
	credentials := cfg.AllowCredentials

	return func(next http.Handler) http.Handler {
		if len(origins) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if allowedOrigin(origin, origins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if credentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "request timed out")
	}
}

func allowedOrigin(origin string, allowed []string) bool {
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

func redactHeaders(headers http.Header, hideHeaders []string) {
	for _, header := range hideHeaders {
		canonical := http.CanonicalHeaderKey(header)
		values, exists := headers[canonical]
		if !exists {
			continue
		}

		size := 0
		for _, value := range values {
			size += len(value)
		}
		headers[canonical] = []string{fmt.Sprintf("[REDACTED - %d bytes]", size)}
	}
}
