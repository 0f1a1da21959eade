package schema

import (
	"errors"

	"github.com/getkin/kin-openapi/openapi3"
)

// Request validates the combined request object. Each non-nil part is parsed
// against its own schema and issue paths are prefixed with "body", "params"
// or "query".
type Request struct {
	Body   Schema
	Params Schema
	Query  Schema
}

var _ Schema = Request{}

type requestPart struct {
	name   string
	schema Schema
}

func (r Request) parts() []requestPart {
	all := []requestPart{{"body", r.Body}, {"params", r.Params}, {"query", r.Query}}
	parts := all[:0]
	for _, part := range all {
		if part.schema != nil {
			parts = append(parts, part)
		}
	}
	return parts
}

// Parse expects a map with body, params and query keys. The result only
// contains keys for parts that have a schema and produced a value.
func (r Request) Parse(value any) (any, error) {
	input, _ := value.(map[string]any)

	out := make(map[string]any, 3)
	var issues []Issue
	for _, part := range r.parts() {
		parsed, err := part.schema.Parse(input[part.name])
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			issues = append(issues, verr.prefixed(part.name)...)
			continue
		}
		if parsed == nil && IsOptional(part.schema) {
			continue
		}
		out[part.name] = parsed
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return out, nil
}

// OpenAPI implements Schema.
func (r Request) OpenAPI() *openapi3.SchemaRef {
	s := openapi3.NewObjectSchema()
	s.Properties = make(openapi3.Schemas, 3)
	for _, part := range r.parts() {
		s.Properties[part.name] = part.schema.OpenAPI()
		if !IsOptional(part.schema) {
			s.Required = append(s.Required, part.name)
		}
	}
	return openapi3.NewSchemaRef("", s)
}
