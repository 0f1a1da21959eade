package schema

import (
	"maps"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
)

const typeNull = "null"

// validationSchema returns s with every "null" type entry turned into the
// nullable flag, which is what VisitJSON checks. s itself is not modified;
// trees without a null type are returned unchanged.
func validationSchema(s *openapi3.Schema) *openapi3.Schema {
	if !containsNullType(s, map[*openapi3.Schema]bool{}) {
		return s
	}
	return withNullableFlag(s, map[*openapi3.Schema]*openapi3.Schema{})
}

func containsNullType(s *openapi3.Schema, seen map[*openapi3.Schema]bool) bool {
	if s == nil || seen[s] {
		return false
	}
	seen[s] = true
	if s.Type != nil && slices.Contains(*s.Type, typeNull) {
		return true
	}
	for _, ref := range subSchemas(s) {
		if containsNullType(refValue(ref), seen) {
			return true
		}
	}
	return false
}

func withNullableFlag(s *openapi3.Schema, done map[*openapi3.Schema]*openapi3.Schema) *openapi3.Schema {
	if s == nil {
		return nil
	}
	if out, ok := done[s]; ok {
		return out
	}
	cp := *s
	done[s] = &cp

	if cp.Type != nil && slices.Contains(*cp.Type, typeNull) {
		types := slices.DeleteFunc(slices.Clone(*cp.Type), func(t string) bool { return t == typeNull })
		cp.Type = &types
		cp.Nullable = true
	}

	convert := func(ref *openapi3.SchemaRef) *openapi3.SchemaRef {
		if ref == nil || ref.Value == nil {
			return ref
		}
		return &openapi3.SchemaRef{Ref: ref.Ref, Value: withNullableFlag(ref.Value, done)}
	}
	convertAll := func(refs openapi3.SchemaRefs) openapi3.SchemaRefs {
		if refs == nil {
			return nil
		}
		out := make(openapi3.SchemaRefs, len(refs))
		for i, ref := range refs {
			out[i] = convert(ref)
		}
		return out
	}

	if cp.Properties != nil {
		props := maps.Clone(cp.Properties)
		for name, ref := range props {
			props[name] = convert(ref)
		}
		cp.Properties = props
	}
	cp.Items = convert(cp.Items)
	cp.Not = convert(cp.Not)
	cp.AdditionalProperties.Schema = convert(cp.AdditionalProperties.Schema)
	cp.AllOf = convertAll(cp.AllOf)
	cp.AnyOf = convertAll(cp.AnyOf)
	cp.OneOf = convertAll(cp.OneOf)
	return &cp
}

func subSchemas(s *openapi3.Schema) []*openapi3.SchemaRef {
	refs := make([]*openapi3.SchemaRef, 0, len(s.Properties)+3)
	for _, ref := range s.Properties {
		refs = append(refs, ref)
	}
	refs = append(refs, s.Items, s.Not, s.AdditionalProperties.Schema)
	refs = append(refs, s.AllOf...)
	refs = append(refs, s.AnyOf...)
	return append(refs, s.OneOf...)
}
