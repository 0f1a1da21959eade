// Package docs collects route documentation and renders it as an OpenAPI
// 3.1 document.
//
// Routes are registered as RouteConfig values, usually by the router package
// while it wires a group. Named schemas registered with Register appear under
// components/schemas and are referenced from operations; schemas that are
// referenced but never registered are added to the components automatically.
// Every registry starts with the bearerAuth JWT security scheme.
//
// Rendering is deterministic: JSON output has sorted keys and YAML output
// follows the same order.
package docs
