// Package routeweaver builds HTTP services from declarative route groups.
// A route names its method, path, controller and optional documentation;
// the same declaration binds the handler on a chi router and feeds the
// OpenAPI 3.1 document served next to it.
//
// # Packages
//
//   - schema: composable schemas that coerce and validate decoded input and
//     describe themselves as OpenAPI schemas.
//   - controller: wraps a handler with request decoding, schema validation
//     and error forwarding to a single ErrorStage.
//   - docs: the documentation registry that renders JSON and YAML documents.
//   - router: route groups, base-path scoped middlewares and the application
//     middleware chain (logging, CORS, timeouts, recovery, OpenAPI request
//     validation).
//   - info: status, health, version and documentation endpoints with a
//     selectable UI (Swagger UI, Scalar, Redoc, Stoplight Elements).
//   - probe: readiness checks for SQL databases, MongoDB, HTTP dependencies
//     and the generated document itself.
//   - responder: JSON rendering and RFC 9457 problem responses.
//   - jsonutil: sonic wrappers used for every encoded payload.
//   - app: configuration loading and server assembly with graceful shutdown.
//
// # Quick Start
//
//	users := router.Group{
//	    Name: "user",
//	    Routes: []router.Route{{
//	        Method: http.MethodGet,
//	        Path:   "/user/:id",
//	        Controller: controller.New(getUser, controller.WithSchema(schema.Request{
//	            Params: schema.Object(schema.Properties{"id": schema.Integer()}),
//	        })),
//	        Documentation: &docs.Documentation{Description: "Fetch a user"},
//	    }},
//	}
//
//	cfg, err := app.LoadConfig("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, err := app.New(app.WithConfig(cfg), app.WithGroups(users))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(a.Run(ctx, ""))
//
// Outside production the document is served at /swagger (and /swagger.yaml)
// and the UI at /api-docs.
package routeweaver
