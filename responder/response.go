package responder

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/drblury/routeweaver/jsonutil"
)

// ProblemDetails is the RFC 9457 body used for forwarded errors.
type ProblemDetails struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// HandleAPIError renders err as a problem document with the given status.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	meta := r.statusMetaFor(status)
	problem := ProblemDetails{
		Type:      meta.typeURI,
		Title:     meta.title,
		Status:    status,
		Detail:    err.Error(),
		Instance:  requestInstance(req),
		TraceID:   traceIDFor(req),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	logger := r.logger().With("error", err.Error(), "traceId", problem.TraceID, "status", status)
	if len(logMsg) > 0 {
		logger = logger.With("logMessages", logMsg)
	}
	logger.Log(requestContext(req), meta.logLevel, meta.logMsg)

	r.respondWithJSON(w, status, problem, problemContentType)
}

// HandleInternalServerError reports err with a 500.
func (r *Responder) HandleInternalServerError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusInternalServerError, err, logMsg...)
}

// HandleBadRequestError reports err with a 400.
func (r *Responder) HandleBadRequestError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusBadRequest, err, logMsg...)
}

// HandleUnauthorizedError reports err with a 401.
func (r *Responder) HandleUnauthorizedError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusUnauthorized, err, logMsg...)
}

// HandleErrors classifies err and renders it. Unclassified errors become 500s.
// Its signature matches the error handler expected by controllers.
func (r *Responder) HandleErrors(w http.ResponseWriter, req *http.Request, err error) {
	if err == nil {
		return
	}
	if status, handled := r.classifyError(err); handled {
		r.HandleAPIError(w, req, status, err)
		return
	}
	r.HandleInternalServerError(w, req, err)
}

// HandleValidationError writes payload as a 400 JSON body without wrapping it
// in a problem document. payload is expected to marshal as {"errors":[...]}.
func (r *Responder) HandleValidationError(w http.ResponseWriter, req *http.Request, payload error) {
	if payload == nil {
		return
	}
	r.logger().Log(requestContext(req), slog.LevelDebug, "request validation failed",
		"path", requestInstance(req), "error", payload.Error())
	r.respondWithJSON(w, http.StatusBadRequest, payload, jsonContentType)
}

// RespondWithJSON writes v with the given status.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, _ *http.Request, status int, v any) {
	r.respondWithJSON(w, status, v, jsonContentType)
}

func (r *Responder) respondWithJSON(w http.ResponseWriter, status int, payload any, contentType string) {
	if w == nil {
		return
	}

	body, err := jsonutil.Marshal(payload)
	if err != nil {
		r.logger().Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if len(body) == 0 || body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger().Error("failed to write response", "error", err)
	}
}

func (r *Responder) statusMetaFor(status int) statusMeta {
	return normalizeStatusMeta(status, r.statusMetadata[status])
}

func normalizeStatusMeta(status int, meta statusMeta) statusMeta {
	if meta.logLevel == 0 {
		meta.logLevel = slog.LevelError
	}
	if meta.title == "" {
		meta.title = http.StatusText(status)
	}
	if meta.logMsg == "" {
		meta.logMsg = meta.title
	}
	if meta.typeURI == "" {
		meta.typeURI = fmt.Sprintf("%s/%d", statusDocBaseURL, status)
	}
	return meta
}
