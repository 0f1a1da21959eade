package responder

import (
	"errors"
	"log/slog"
	"net/http"
)

const (
	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
	statusDocBaseURL   = "https://httpstatuses.io"
)

// ErrorClassifierFunc maps an error to the HTTP status used for its response.
// The boolean reports whether the classifier recognised the error; when no
// classifier does, the error is rendered as a 500.
type ErrorClassifierFunc func(err error) (status int, handled bool)

// ResponderOption configures a Responder.
type ResponderOption func(*Responder)

// StatusCoder is implemented by errors that know their HTTP status.
type StatusCoder interface {
	StatusCode() int
}

type statusMeta struct {
	typeURI  string
	title    string
	logLevel slog.Level
	logMsg   string
}

// StatusMetadata customises how a status code is titled and logged.
type StatusMetadata struct {
	TypeURI  string
	Title    string
	LogLevel slog.Level
	LogMsg   string
}

// Responder renders JSON payloads and is the central stage for errors that
// controllers forward. Error payloads follow RFC 9457 and carry a trace id
// that is also written to the log record.
type Responder struct {
	log            *slog.Logger
	statusMetadata map[int]statusMeta
	classifiers    []ErrorClassifierFunc
}

// NewResponder constructs a Responder that logs through slog.Default and
// classifies malformed request bodies and StatusCoder errors.
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{
		log:            slog.Default(),
		statusMetadata: defaultStatusMetadata(),
		classifiers:    []ErrorClassifierFunc{classifyKnownErrors},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger sets the logger used for error and encoding failures.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithErrorClassifier adds a classifier consulted before the built-in ones.
func WithErrorClassifier(classifier ErrorClassifierFunc) ResponderOption {
	return func(r *Responder) {
		if classifier != nil {
			r.classifiers = append([]ErrorClassifierFunc{classifier}, r.classifiers...)
		}
	}
}

// WithStatusMetadata overrides title, type URI and log settings for status.
func WithStatusMetadata(status int, meta StatusMetadata) ResponderOption {
	return func(r *Responder) {
		if r.statusMetadata == nil {
			r.statusMetadata = make(map[int]statusMeta)
		}
		r.statusMetadata[status] = normalizeStatusMeta(status, statusMeta{
			typeURI:  meta.TypeURI,
			title:    meta.Title,
			logLevel: meta.LogLevel,
			logMsg:   meta.LogMsg,
		})
	}
}

// Logger returns the responder's logger.
func (r *Responder) Logger() *slog.Logger {
	return r.logger()
}

func (r *Responder) logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

func (r *Responder) classifyError(err error) (int, bool) {
	for _, classify := range r.classifiers {
		if status, ok := classify(err); ok {
			return status, true
		}
	}
	return 0, false
}

func classifyKnownErrors(err error) (int, bool) {
	if errors.Is(err, ErrMalformedBody) {
		return http.StatusBadRequest, true
	}
	var coder StatusCoder
	if errors.As(err, &coder) {
		if status := coder.StatusCode(); status >= 400 && status <= 599 {
			return status, true
		}
	}
	return 0, false
}

func defaultStatusMetadata() map[int]statusMeta {
	return map[int]statusMeta{
		http.StatusInternalServerError: {title: http.StatusText(http.StatusInternalServerError), logLevel: slog.LevelError, logMsg: "Internal Server Error"},
		http.StatusBadRequest:          {title: http.StatusText(http.StatusBadRequest), logLevel: slog.LevelWarn, logMsg: "Bad Request"},
		http.StatusUnauthorized:        {title: http.StatusText(http.StatusUnauthorized), logLevel: slog.LevelWarn, logMsg: "Unauthorized"},
	}
}
