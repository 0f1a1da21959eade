package responder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/drblury/routeweaver/jsonutil"
)

// ErrMalformedBody marks request bodies that could not be decoded. The
// responder renders it as a 400.
var ErrMalformedBody = errors.New("malformed request body")

// IsJSONRequest reports whether req declares a JSON body, either
// application/json or a +json media type.
func IsJSONRequest(req *http.Request) bool {
	if req == nil {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == jsonContentType || strings.HasSuffix(mediaType, "+json")
}

// DecodeBody decodes a JSON request body into v. An empty or whitespace-only
// body leaves v untouched and reports false; anything else that is not a
// complete JSON value wraps ErrMalformedBody.
func DecodeBody(req *http.Request, v any) (bool, error) {
	if req == nil || req.Body == nil || req.Body == http.NoBody {
		return false, nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := jsonutil.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return true, nil
}

// ReadRequestBody decodes the body into v and answers malformed or missing
// content with a 400. It reports whether the handler may continue.
func (r *Responder) ReadRequestBody(w http.ResponseWriter, req *http.Request, v any) bool {
	ok, err := DecodeBody(req, v)
	if err != nil {
		r.HandleBadRequestError(w, req, err, "failed to parse request body")
		return false
	}
	if !ok {
		r.HandleBadRequestError(w, req, errors.New("request body is required"))
		return false
	}
	return true
}

func requestInstance(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	return req.URL.RequestURI()
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
