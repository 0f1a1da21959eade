package schema

import "github.com/getkin/kin-openapi/openapi3"

const componentsPrefix = "#/components/schemas/"

// Named is a schema published under a component name.
type Named struct {
	name  string
	inner Schema
}

var _ Schema = (*Named)(nil)

// Ref publishes s under name. Documents reference it through
// #/components/schemas/<name>; validation is delegated to s.
func Ref(name string, s Schema) *Named {
	return &Named{name: name, inner: s}
}

// Name returns the component name.
func (n *Named) Name() string { return n.name }

// Unwrap returns the wrapped schema.
func (n *Named) Unwrap() Schema { return n.inner }

// IsOptional reports whether the wrapped schema is optional.
func (n *Named) IsOptional() bool { return IsOptional(n.inner) }

// Parse implements Schema.
func (n *Named) Parse(value any) (any, error) {
	return n.inner.Parse(value)
}

// OpenAPI implements Schema.
func (n *Named) OpenAPI() *openapi3.SchemaRef {
	return openapi3.NewSchemaRef(componentsPrefix+n.name, n.inner.OpenAPI().Value)
}
