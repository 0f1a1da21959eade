// Package controller wraps request handlers with schema validation.
//
// Before a handler runs, the controller decodes the JSON body, collects path
// parameters from the chi route context and flattens the query string. When a
// schema is configured the three parts are normalised with Normalize, parsed
// as {body, params, query} and replaced by the parsed values. Validation
// failures are answered immediately with
//
//	400 {"errors":[{"code":"...","message":"...","path":"body.age"}]}
//
// Every other failure, including errors returned by the handler, is forwarded
// unchanged to the ErrorStage installed further up the middleware chain, or to
// the controller's own error handler when there is none.
package controller
