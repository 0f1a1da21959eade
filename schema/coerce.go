package schema

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// coerce rewrites value so that string-typed transport data (path params,
// query strings) matches the declared types. Values that cannot be coerced
// are returned unchanged and left for validation to reject.
func coerce(value any, s *openapi3.Schema) any {
	if s == nil {
		return value
	}

	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return coerceString(v, s)
	case map[string]any:
		return coerceObject(v, s)
	case []any:
		return coerceArray(v, s)
	default:
		if hasType(s, openapi3.TypeArray) {
			return []any{coerce(v, itemSchema(s))}
		}
		return v
	}
}

func coerceString(v string, s *openapi3.Schema) any {
	switch {
	case hasType(s, openapi3.TypeString):
		return v
	case hasType(s, openapi3.TypeArray):
		return []any{coerce(v, itemSchema(s))}
	case hasType(s, openapi3.TypeNumber), hasType(s, openapi3.TypeInteger):
		if f, ok := parseNumber(v); ok {
			return f
		}
	case hasType(s, openapi3.TypeBoolean):
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return v
}

func coerceObject(m map[string]any, s *openapi3.Schema) any {
	if s.Type != nil && !hasType(s, openapi3.TypeObject) {
		return m
	}

	extra := s.AdditionalProperties
	strip := len(s.Properties) > 0 && extra.Has == nil && extra.Schema == nil

	out := make(map[string]any, len(m))
	for key, val := range m {
		if prop, ok := s.Properties[key]; ok {
			out[key] = coerce(val, refValue(prop))
			continue
		}
		if strip {
			continue
		}
		if extra.Schema != nil {
			out[key] = coerce(val, refValue(extra.Schema))
			continue
		}
		out[key] = val
	}

	for name, prop := range s.Properties {
		if _, present := out[name]; present {
			continue
		}
		if v := refValue(prop); v != nil && v.Default != nil {
			out[name] = v.Default
		}
	}
	return out
}

func coerceArray(items []any, s *openapi3.Schema) any {
	if !hasType(s, openapi3.TypeArray) {
		return items
	}
	item := itemSchema(s)
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = coerce(v, item)
	}
	return out
}

func parseNumber(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func hasType(s *openapi3.Schema, typ string) bool {
	return s != nil && s.Type != nil && slices.Contains(*s.Type, typ)
}

func itemSchema(s *openapi3.Schema) *openapi3.Schema {
	return refValue(s.Items)
}

func refValue(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}
