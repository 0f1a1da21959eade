package docs

import (
	"maps"
	"slices"

	"github.com/drblury/routeweaver/schema"
)

// JSONMediaType is the content type used when a body or response only
// declares a schema.
const JSONMediaType = "application/json"

// Documentation describes a route for the generated document.
type Documentation struct {
	Description string
	Summary     string
	OperationID string
	Deprecated  bool
	Request     *RequestDoc
	Responses   map[int]Response
}

// RequestDoc documents the request. Query and Params are object schemas
// whose properties become query and path parameters.
type RequestDoc struct {
	Query  schema.Schema
	Params schema.Schema
	Body   *Body
}

// Body documents a request body. Content takes precedence; a bare Schema is
// published as application/json.
type Body struct {
	Description string
	Required    bool
	Content     Content
	Schema      schema.Schema
}

// Response documents a single status code. Content takes precedence; a bare
// Schema is published as application/json. A response with neither has no
// body.
type Response struct {
	Description string
	Content     Content
	Schema      schema.Schema
}

// Content maps media types to their schema.
type Content map[string]MediaType

// MediaType documents one representation of a body.
type MediaType struct {
	Schema  schema.Schema
	Example any
}

// SecurityRequirement maps a security scheme name to required scopes.
type SecurityRequirement map[string][]string

// RouteConfig is a normalised documentation entry, ready to be rendered.
// Method is lower-case and Path uses {name} parameters.
type RouteConfig struct {
	Method      string
	Path        string
	Tags        []string
	Summary     string
	Description string
	OperationID string
	Deprecated  bool
	Request     *RequestDoc
	Responses   map[int]Response
	Security    []SecurityRequirement
}

// MediaTypes returns the body content, wrapping a bare schema as JSON.
func (b Body) MediaTypes() Content {
	return mediaTypes(b.Content, b.Schema)
}

// MediaTypes returns the response content, wrapping a bare schema as JSON.
func (r Response) MediaTypes() Content {
	return mediaTypes(r.Content, r.Schema)
}

func mediaTypes(content Content, s schema.Schema) Content {
	if content != nil {
		return content
	}
	if s == nil {
		return nil
	}
	return Content{JSONMediaType: {Schema: s}}
}

func (c RouteConfig) clone() RouteConfig {
	c.Tags = slices.Clone(c.Tags)
	c.Responses = maps.Clone(c.Responses)
	if c.Request != nil {
		req := *c.Request
		if req.Body != nil {
			body := *req.Body
			req.Body = &body
		}
		c.Request = &req
	}
	if c.Security != nil {
		security := make([]SecurityRequirement, len(c.Security))
		for i, req := range c.Security {
			security[i] = maps.Clone(req)
		}
		c.Security = security
	}
	return c
}
