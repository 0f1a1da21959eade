package schema

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema validates and coerces a decoded payload and describes itself as an
// OpenAPI schema.
//
// Parse returns the coerced value on success. When the payload does not match
// it returns a *ValidationError; any other error means the schema could not
// run at all.
type Schema interface {
	Parse(value any) (any, error)
	OpenAPI() *openapi3.SchemaRef
}

// Issue describes a single field that failed validation.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// ValidationError collects the issues reported while parsing a payload.
type ValidationError struct {
	Issues []Issue `json:"errors"`
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + e.Issues[0].String()
	}

	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("validation failed with %d issues: %s", len(e.Issues), strings.Join(parts, "; "))
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// prefixed returns a copy of e with every issue path nested under prefix.
func (e *ValidationError) prefixed(prefix string) []Issue {
	out := make([]Issue, len(e.Issues))
	for i, issue := range e.Issues {
		issue.Path = joinPath(prefix, issue.Path)
		out[i] = issue
	}
	return out
}

func joinPath(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ".")
}
