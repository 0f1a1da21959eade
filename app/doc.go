// Package app assembles route groups, the documentation registry, the health
// and documentation endpoints and the middleware chain into one http.Handler,
// and runs it with graceful shutdown.
//
// Configuration is read by LoadConfig from defaults, an optional config file,
// dotenv files and ROUTEWEAVER_* environment variables. When the environment
// is "production" the documentation endpoints are not registered.
package app
