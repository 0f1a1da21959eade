// Package info serves the OpenAPI document, its UI and the health endpoints.
//
// The document is rendered from a DocumentSource, normally the application's
// docs.Registry, on every request. It is served as JSON at the spec path
// (default /swagger), as YAML at the same path with a .yaml suffix and
// through a UI page (default /api-docs). Swagger UI is the default page;
// Scalar, Redoc and Stoplight Elements can be selected with WithUIType.
//
// ExampleInfoHandler_RegisterRoutes shows the full wiring.
package info
