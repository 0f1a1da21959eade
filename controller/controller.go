package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/drblury/routeweaver/responder"
	"github.com/drblury/routeweaver/schema"
)

// HandlerFunc handles a request whose body, params and query have already
// been decoded and, when a schema is configured, validated. A returned error
// is forwarded to the error stage.
type HandlerFunc func(w http.ResponseWriter, req *Request) error

// ErrorHandler renders an error that was forwarded by a controller.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Request carries the decoded request data alongside the original request.
// Body is the decoded JSON body (an empty object when none was sent), Params
// the path parameters and Query the query string. After validation each part
// holds whatever the schema produced for it.
type Request struct {
	*http.Request
	Body   any
	Params any
	Query  any
}

// Param returns a path parameter from a map-shaped Params value.
func (r *Request) Param(name string) any {
	if params, ok := r.Params.(map[string]any); ok {
		return params[name]
	}
	return nil
}

// Option configures a Controller.
type Option func(*Controller)

// Controller validates requests against an optional schema before invoking
// its handler.
type Controller struct {
	schema       schema.Schema
	handler      HandlerFunc
	responder    *responder.Responder
	errorHandler ErrorHandler
	logger       *slog.Logger
}

var _ http.Handler = (*Controller)(nil)

// New wraps handler. It panics when handler is nil.
func New(handler HandlerFunc, opts ...Option) *Controller {
	if handler == nil {
		panic("controller: handler cannot be nil")
	}

	c := &Controller{handler: handler}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.responder == nil {
		c.responder = responder.NewResponder(responder.WithLogger(c.logger))
	}
	if c.errorHandler == nil {
		c.errorHandler = c.responder.HandleErrors
	}
	if c.logger == nil {
		c.logger = c.responder.Logger()
	}
	return c
}

// WithSchema validates every request against s before the handler runs.
func WithSchema(s schema.Schema) Option {
	return func(c *Controller) {
		c.schema = s
	}
}

// WithResponder sets the responder that writes validation failures and, when
// no error handler is configured, forwarded errors.
func WithResponder(r *responder.Responder) Option {
	return func(c *Controller) {
		if r != nil {
			c.responder = r
		}
	}
}

// WithErrorHandler sets the fallback used for forwarded errors when the
// request did not pass through an ErrorStage.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Controller) {
		c.errorHandler = h
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ServeHTTP implements http.Handler.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		c.forward(w, r, err)
		return
	}

	if c.schema != nil {
		if err := c.validate(req); err != nil {
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				c.responder.HandleValidationError(w, r, verr)
				return
			}
			c.forward(w, r, err)
			return
		}
	}

	if err := c.handler(w, req); err != nil {
		c.forward(w, r, err)
	}
}

func (c *Controller) validate(req *Request) error {
	req.Body = Normalize(req.Body)
	req.Params = Normalize(req.Params)
	req.Query = Normalize(req.Query)

	parsed, err := c.schema.Parse(map[string]any{
		"body":   req.Body,
		"params": req.Params,
		"query":  req.Query,
	})
	if err != nil {
		return err
	}

	parts, ok := parsed.(map[string]any)
	if !ok {
		return nil
	}
	if body, ok := parts["body"]; ok {
		req.Body = body
	}
	if params, ok := parts["params"]; ok {
		req.Params = params
	}
	if query, ok := parts["query"]; ok {
		req.Query = query
	}
	return nil
}

func (c *Controller) forward(w http.ResponseWriter, r *http.Request, err error) {
	if sink := sinkFrom(r.Context()); sink != nil {
		sink.record(err)
		return
	}
	c.logger.DebugContext(r.Context(), "forwarding controller error", "path", r.URL.Path, "error", err)
	c.errorHandler(w, r, err)
}

func decodeRequest(r *http.Request) (*Request, error) {
	req := &Request{
		Request: r,
		Body:    map[string]any{},
		Params:  pathParams(r),
		Query:   queryValues(r.URL.Query()),
	}

	if !responder.IsJSONRequest(r) {
		return req, nil
	}

	var body any
	ok, err := responder.DecodeBody(r, &body)
	if err != nil {
		return nil, err
	}
	if ok {
		req.Body = body
	}
	return req, nil
}

func pathParams(r *http.Request) map[string]any {
	params := map[string]any{}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return params
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "" || key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}

func queryValues(values url.Values) map[string]any {
	query := make(map[string]any, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			query[key] = vals[0]
		default:
			items := make([]any, len(vals))
			for i, v := range vals {
				items[i] = v
			}
			query[key] = items
		}
	}
	return query
}
