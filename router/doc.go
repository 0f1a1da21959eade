// Package router binds route groups onto a chi router and wraps the result in
// the application middleware chain.
//
// Register and NewGroup take a Group of Route declarations. Each route is
// bound with its own middlewares after the group's, and routes carrying
// Documentation are published to a docs.Registry tagged with the group name.
// Paths may use either :name or {name} parameters.
//
// New wraps the assembled handler with optional OpenAPI request validation,
// CORS, a timeout and request logging. ExampleNew_customOptions shows how
// built-in and custom middlewares combine.
package router
