// Package probe builds liveness and readiness checks for info.InfoHandler:
// plain ping functions, database/sql and MongoDB pings, HTTP dependencies and
// a check that the generated OpenAPI document is valid.
package probe
