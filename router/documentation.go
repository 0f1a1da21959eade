package router

import (
	"cmp"
	"maps"
	"net/http"
	"strings"

	"github.com/drblury/routeweaver/docs"
	"github.com/drblury/routeweaver/schema"
)

var (
	unauthorizedSchema = schema.Object(schema.Properties{
		"error": schema.String(),
	})
	validationErrorSchema = schema.Object(schema.Properties{
		"errors": schema.Array(schema.Object(schema.Properties{
			"code":    schema.String(),
			"message": schema.String(),
			"path":    schema.String(),
		})),
	})
)

func routeConfig(group string, route Route) docs.RouteConfig {
	d := route.Documentation
	cfg := docs.RouteConfig{
		Method:      strings.ToLower(route.Method),
		Path:        chiPath(route.Path),
		Tags:        []string{group},
		Summary:     cmp.Or(d.Summary, d.Description),
		Description: d.Description,
		OperationID: d.OperationID,
		Deprecated:  d.Deprecated,
		Request:     requestDoc(d.Request),
		Responses:   responses(d.Responses, route.Public),
	}
	if !route.Public {
		cfg.Security = []docs.SecurityRequirement{{docs.BearerAuth: {}}}
	}
	return cfg
}

func requestDoc(req *docs.RequestDoc) *docs.RequestDoc {
	if req == nil {
		return nil
	}
	out := *req
	if req.Body != nil {
		body := *req.Body
		body.Content = body.MediaTypes()
		body.Schema = nil
		out.Body = &body
	}
	return &out
}

// responses fills in the 401, 400 and 500 entries a route does not declare.
// Public routes get no 401.
func responses(declared map[int]docs.Response, public bool) map[int]docs.Response {
	out := make(map[int]docs.Response, len(declared)+3)
	maps.Copy(out, declared)

	if _, ok := out[http.StatusUnauthorized]; !ok && !public {
		out[http.StatusUnauthorized] = docs.Response{
			Description: "Unauthorized",
			Schema:      unauthorizedSchema,
		}
	}
	if _, ok := out[http.StatusBadRequest]; !ok {
		out[http.StatusBadRequest] = docs.Response{
			Description: "Bad request",
			Schema:      validationErrorSchema,
		}
	}
	if _, ok := out[http.StatusInternalServerError]; !ok {
		out[http.StatusInternalServerError] = docs.Response{
			Description: "Internal server error",
		}
	}
	return out
}
