package router

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/drblury/routeweaver/docs"
)

const (
	defaultGroupName = "default"
	defaultBasePath  = "/"
)

var (
	ErrUnsupportedMethod = errors.New("router: unsupported method")
	ErrNilController     = errors.New("router: controller cannot be nil")
	ErrRelativePath      = errors.New("router: path must start with /")
)

var supportedMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodTrace,
}

var colonParam = regexp.MustCompile(`:(\w+)`)

// Route declares one endpoint. Controller is usually a *controller.Controller.
// Routes without Documentation are served but left out of the document.
type Route struct {
	Method        string
	Path          string
	Controller    http.Handler
	Middlewares   []Middleware
	Documentation *docs.Documentation
	Public        bool
}

// Group is a named set of routes. Name tags the documented operations.
//
// Middlewares are attached to the group's own routes and run before route
// middlewares when the request path is under BasePath. They do not run for
// requests that match none of the group's routes, even when the path is
// under BasePath; use chi's Use on the parent router for that.
type Group struct {
	Name        string
	BasePath    string
	Routes      []Route
	Middlewares []Middleware
}

// NewGroup binds g onto a fresh chi router.
func NewGroup(reg *docs.Registry, g Group) (chi.Router, error) {
	r := chi.NewRouter()
	if err := Register(r, reg, g); err != nil {
		return nil, err
	}
	return r, nil
}

// Register binds every route of g onto r in declaration order and publishes
// documented routes to reg. Nothing is bound when a declaration is invalid.
// A nil registry skips documentation.
func Register(r chi.Router, reg *docs.Registry, g Group) error {
	if g.Name == "" {
		g.Name = defaultGroupName
	}
	if g.BasePath == "" {
		g.BasePath = defaultBasePath
	}
	if !strings.HasPrefix(g.BasePath, "/") {
		return fmt.Errorf("%w: base path %q", ErrRelativePath, g.BasePath)
	}

	routes := make([]Route, len(g.Routes))
	for i, route := range g.Routes {
		route.Method = strings.ToUpper(route.Method)
		if err := checkRoute(route); err != nil {
			return fmt.Errorf("group %s: %w", g.Name, err)
		}
		routes[i] = route
	}

	groupMiddlewares := make([]func(http.Handler) http.Handler, 0, len(g.Middlewares))
	for _, mw := range g.Middlewares {
		if mw != nil {
			groupMiddlewares = append(groupMiddlewares, underBasePath(g.BasePath, mw))
		}
	}

	for _, route := range routes {
		if route.Documentation != nil && reg != nil {
			reg.RegisterPath(routeConfig(g.Name, route))
		}

		chain := slices.Clone(groupMiddlewares)
		for _, mw := range route.Middlewares {
			if mw != nil {
				chain = append(chain, mw)
			}
		}
		r.With(chain...).Method(route.Method, chiPath(route.Path), route.Controller)
	}
	return nil
}

func checkRoute(route Route) error {
	if !slices.Contains(supportedMethods, route.Method) {
		return fmt.Errorf("%w: %q %s", ErrUnsupportedMethod, route.Method, route.Path)
	}
	if !strings.HasPrefix(route.Path, "/") {
		return fmt.Errorf("%w: %q", ErrRelativePath, route.Path)
	}
	if route.Controller == nil {
		return fmt.Errorf("%w: %s %s", ErrNilController, route.Method, route.Path)
	}
	return nil
}

// chiPath rewrites :name parameters into chi's {name} form.
func chiPath(path string) string {
	return colonParam.ReplaceAllString(path, "{$1}")
}

// underBasePath runs mw only for requests whose route path is basePath or
// below it.
func underBasePath(basePath string, mw Middleware) Middleware {
	if basePath == defaultBasePath {
		return mw
	}
	base := strings.TrimSuffix(basePath, "/")

	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := requestPath(r)
			if path == base || strings.HasPrefix(path, base+"/") {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestPath prefers the path relative to the current chi mount point.
func requestPath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		return rctx.RoutePath
	}
	return r.URL.Path
}
