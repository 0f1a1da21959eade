package schema

import (
	"slices"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Properties maps object property names to their schemas.
type Properties map[string]Schema

// Definition is a Schema backed by a kin-openapi schema. The same value
// drives validation, coercion and documentation.
type Definition struct {
	schema   *openapi3.Schema
	optional bool
}

var _ Schema = (*Definition)(nil)

// Define wraps an existing kin-openapi schema.
func Define(s *openapi3.Schema) *Definition {
	if s == nil {
		s = openapi3.NewSchema()
	}
	return &Definition{schema: s}
}

// String describes a string value.
func String() *Definition { return Define(openapi3.NewStringSchema()) }

// Number describes a number. Numeric strings are coerced.
func Number() *Definition { return Define(openapi3.NewFloat64Schema()) }

// Integer describes an integer. Numeric strings are coerced.
func Integer() *Definition { return Define(openapi3.NewIntegerSchema()) }

// Boolean describes a boolean. Strings accepted by strconv.ParseBool are coerced.
func Boolean() *Definition { return Define(openapi3.NewBoolSchema()) }

// DateTime describes an ISO 8601 timestamp carried as a string.
func DateTime() *Definition {
	s := openapi3.NewStringSchema()
	s.Format = "date-time"
	s.Pattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`
	s.Example = "2023-01-01T00:00:00.000Z"
	return Define(s)
}

// Object describes an object with the given properties. Properties are
// required unless wrapped with Optional, and undeclared properties are
// dropped from the parsed value.
func Object(props Properties) *Definition {
	s := openapi3.NewObjectSchema()
	s.Properties = make(openapi3.Schemas, len(props))

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := props[name]
		if prop == nil {
			continue
		}
		s.Properties[name] = prop.OpenAPI()
		if !IsOptional(prop) {
			s.Required = append(s.Required, name)
		}
	}
	return Define(s)
}

// Array describes a list whose elements match item.
func Array(item Schema) *Definition {
	s := openapi3.NewArraySchema()
	if item != nil {
		s.Items = item.OpenAPI()
	}
	return Define(s)
}

// Paginated describes a page of items alongside its paging counters.
func Paginated(item Schema) *Definition {
	return Object(Properties{
		"data":  Array(item),
		"total": Number(),
		"limit": Number(),
		"page":  Number(),
		"pages": Number(),
	})
}

// Optional marks s as optional. Optional object properties are not listed as
// required and an absent optional value parses to nil.
func Optional(s Schema) Schema {
	if d, ok := s.(*Definition); ok {
		cp := d.clone()
		cp.optional = true
		return cp
	}
	return optional{Schema: s}
}

// IsOptional reports whether s was marked with Optional.
func IsOptional(s Schema) bool {
	o, ok := s.(interface{ IsOptional() bool })
	return ok && o.IsOptional()
}

type optional struct {
	Schema
}

func (optional) IsOptional() bool { return true }

func (o optional) Parse(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return o.Schema.Parse(value)
}

// IsOptional reports whether the definition was marked with Optional.
func (d *Definition) IsOptional() bool { return d.optional }

// Describe returns a copy carrying a description.
func (d *Definition) Describe(description string) *Definition {
	cp := d.clone()
	cp.schema.Description = description
	return cp
}

// Example returns a copy carrying an example value.
func (d *Definition) Example(example any) *Definition {
	cp := d.clone()
	cp.schema.Example = example
	return cp
}

// Nullable returns a copy that accepts null. The type is published in the
// OpenAPI 3.1 form, e.g. ["string", "null"].
func (d *Definition) Nullable() *Definition {
	cp := d.clone()
	var types openapi3.Types
	if cp.schema.Type != nil {
		types = slices.Clone(*cp.schema.Type)
	}
	if !slices.Contains(types, typeNull) {
		types = append(types, typeNull)
	}
	cp.schema.Type = &types
	return cp
}

// Default returns a copy whose value is filled in when the property is absent.
func (d *Definition) Default(value any) *Definition {
	cp := d.clone()
	cp.schema.Default = value
	return cp
}

// Schema exposes the underlying kin-openapi schema.
func (d *Definition) Schema() *openapi3.Schema { return d.schema }

// OpenAPI implements Schema.
func (d *Definition) OpenAPI() *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", d.schema)
}

// Parse implements Schema.
func (d *Definition) Parse(value any) (any, error) {
	if value == nil && d.optional {
		return nil, nil
	}

	coerced := coerce(value, d.schema)
	if err := validationSchema(d.schema).VisitJSON(coerced, openapi3.MultiErrors()); err != nil {
		issues, ok := issuesFrom(err)
		if !ok {
			return nil, err
		}
		return nil, &ValidationError{Issues: issues}
	}
	return coerced, nil
}

func (d *Definition) clone() *Definition {
	s := *d.schema
	return &Definition{schema: &s, optional: d.optional}
}
