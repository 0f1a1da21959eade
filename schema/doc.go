// Package schema provides the validation capability used by controllers and
// the documentation registry. A Schema parses decoded request data, coercing
// string-typed transport values into the declared types, and reports
// structured issues when the data does not match.
//
// Definitions are backed by kin-openapi, so the schema that validates a
// request is the same one rendered in the generated OpenAPI document:
//
//	createUser := schema.Object(schema.Properties{
//	    "name": schema.String(),
//	    "age":  schema.Number(),
//	})
//
//	validation := schema.Request{Body: createUser}
//
// Struct derives a schema from a Go type and validates `validate` tags with
// go-playground/validator after decoding.
package schema
