package docs

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/drblury/routeweaver/jsonutil"
	"github.com/drblury/routeweaver/schema"
)

// OpenAPIVersion is the version written to generated documents.
const OpenAPIVersion = "3.1.0"

// BearerAuth is the name of the security scheme every registry starts with.
const BearerAuth = "bearerAuth"

const componentsPrefix = "#/components/schemas/"

var (
	ErrDuplicateOperation = errors.New("docs: duplicate operation")
	ErrUnsupportedMethod  = errors.New("docs: unsupported method")
	ErrInvalidParameters  = errors.New("docs: parameters must be an object schema")
)

var documentedMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// Info carries the document metadata.
type Info struct {
	Title       string
	Version     string
	Description string
	Servers     []string
}

// Registry accumulates documented routes, named schemas and security schemes.
// It is safe for concurrent use.
type Registry struct {
	mu              sync.RWMutex
	routes          []RouteConfig
	schemaNames     []string
	schemas         map[string]*schema.Named
	securityNames   []string
	securitySchemes map[string]*openapi3.SecurityScheme
}

// NewRegistry returns a registry with the bearer JWT security scheme
// registered.
func NewRegistry() *Registry {
	r := &Registry{
		schemas:         make(map[string]*schema.Named),
		securitySchemes: make(map[string]*openapi3.SecurityScheme),
	}
	r.RegisterSecurityScheme(BearerAuth, openapi3.NewJWTSecurityScheme())
	return r
}

// RegisterPath records a documented operation. The config is copied.
func (r *Registry) RegisterPath(cfg RouteConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, cfg.clone())
}

// Register publishes s under components/schemas and returns a schema that
// references it. Registering a name twice replaces the earlier schema.
func (r *Registry) Register(name string, s schema.Schema) *schema.Named {
	named := schema.Ref(name, s)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[name]; !ok {
		r.schemaNames = append(r.schemaNames, name)
	}
	r.schemas[name] = named
	return named
}

// RegisterSecurityScheme adds or replaces a security scheme.
func (r *Registry) RegisterSecurityScheme(name string, scheme *openapi3.SecurityScheme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.securitySchemes[name]; !ok {
		r.securityNames = append(r.securityNames, name)
	}
	r.securitySchemes[name] = scheme
}

// Routes returns a copy of the registered operations in registration order.
func (r *Registry) Routes() []RouteConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RouteConfig, len(r.routes))
	for i, route := range r.routes {
		out[i] = route.clone()
	}
	return out
}

// Document renders the registry as an OpenAPI document.
func (r *Registry) Document(info Info) (*openapi3.T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas:         make(openapi3.Schemas, len(r.schemas)),
			SecuritySchemes: make(openapi3.SecuritySchemes, len(r.securitySchemes)),
		},
	}
	for _, url := range info.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}
	for _, name := range r.securityNames {
		doc.Components.SecuritySchemes[name] = &openapi3.SecuritySchemeRef{Value: r.securitySchemes[name]}
	}

	components := newComponentSet(doc.Components.Schemas)
	for _, name := range r.schemaNames {
		components.add(name, r.schemas[name].Unwrap().OpenAPI())
	}

	var tags []string
	for _, route := range r.routes {
		method := strings.ToUpper(route.Method)
		if !slices.Contains(documentedMethods, method) {
			return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedMethod, method, route.Path)
		}

		op, err := buildOperation(route, components)
		if err != nil {
			return nil, fmt.Errorf("docs: %s %s: %w", method, route.Path, err)
		}

		item := doc.Paths.Value(route.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(route.Path, item)
		}
		if item.GetOperation(method) != nil {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateOperation, method, route.Path)
		}
		item.SetOperation(method, op)

		for _, tag := range route.Tags {
			if !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}
	for _, tag := range tags {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: tag})
	}

	return doc, nil
}

// JSON renders the document as JSON with sorted keys.
func (r *Registry) JSON(info Info) ([]byte, error) {
	doc, err := r.Document(info)
	if err != nil {
		return nil, err
	}
	return jsonutil.Marshal(doc)
}

// YAML renders the document as YAML, keeping the key order of the JSON form.
func (r *Registry) YAML(info Info) ([]byte, error) {
	raw, err := r.JSON(info)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("docs: convert to yaml: %w", err)
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// blockStyle drops the flow and quoting styles inherited from JSON. The
// encoder still quotes strings that would otherwise read as another type.
func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}

func buildOperation(route RouteConfig, components componentSet) (*openapi3.Operation, error) {
	op := &openapi3.Operation{
		Tags:        slices.Clone(route.Tags),
		Summary:     route.Summary,
		Description: route.Description,
		OperationID: route.OperationID,
		Deprecated:  route.Deprecated,
		Responses:   openapi3.NewResponsesWithCapacity(len(route.Responses)),
	}

	if req := route.Request; req != nil {
		if req.Params != nil {
			params, err := parameters(openapi3.ParameterInPath, req.Params, components)
			if err != nil {
				return nil, err
			}
			op.Parameters = append(op.Parameters, params...)
		}
		if req.Query != nil {
			params, err := parameters(openapi3.ParameterInQuery, req.Query, components)
			if err != nil {
				return nil, err
			}
			op.Parameters = append(op.Parameters, params...)
		}
		if req.Body != nil {
			op.RequestBody = &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
				Description: req.Body.Description,
				Required:    req.Body.Required,
				Content:     content(req.Body.MediaTypes(), components),
			}}
		}
	}

	codes := make([]int, 0, len(route.Responses))
	for code := range route.Responses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		resp := route.Responses[code]
		description := resp.Description
		if description == "" {
			description = http.StatusText(code)
		}
		op.Responses.Set(strconv.Itoa(code), &openapi3.ResponseRef{Value: &openapi3.Response{
			Description: &description,
			Content:     content(resp.MediaTypes(), components),
		}})
	}

	if route.Security != nil {
		security := make(openapi3.SecurityRequirements, 0, len(route.Security))
		for _, req := range route.Security {
			requirement := openapi3.NewSecurityRequirement()
			for name, scopes := range req {
				requirement[name] = slices.Clone(scopes)
			}
			security = append(security, requirement)
		}
		op.Security = &security
	}

	return op, nil
}

func parameters(in string, s schema.Schema, components componentSet) (openapi3.Parameters, error) {
	ref := s.OpenAPI()
	components.collect(ref)
	value := ref.Value
	if value == nil || !value.Type.Is(openapi3.TypeObject) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParameters, in)
	}

	names := make([]string, 0, len(value.Properties))
	for name := range value.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(openapi3.Parameters, 0, len(names))
	for _, name := range names {
		prop := value.Properties[name]
		param := &openapi3.Parameter{
			Name:     name,
			In:       in,
			Required: in == openapi3.ParameterInPath || slices.Contains(value.Required, name),
			Schema:   prop,
		}
		if prop.Value != nil {
			param.Description = prop.Value.Description
		}
		params = append(params, &openapi3.ParameterRef{Value: param})
	}
	return params, nil
}

func content(c Content, components componentSet) openapi3.Content {
	if c == nil {
		return nil
	}
	out := make(openapi3.Content, len(c))
	for mediaType, m := range c {
		mt := &openapi3.MediaType{Example: m.Example}
		if m.Schema != nil {
			mt.Schema = m.Schema.OpenAPI()
			components.collect(mt.Schema)
		}
		out[mediaType] = mt
	}
	return out
}

// componentSet fills components/schemas with every referenced named schema,
// so documents never carry dangling references.
type componentSet struct {
	schemas openapi3.Schemas
}

func newComponentSet(schemas openapi3.Schemas) componentSet {
	return componentSet{schemas: schemas}
}

func (c componentSet) add(name string, ref *openapi3.SchemaRef) {
	if _, ok := c.schemas[name]; ok {
		return
	}
	c.schemas[name] = openapi3.NewSchemaRef("", ref.Value)
	c.walk(ref.Value)
}

func (c componentSet) collect(ref *openapi3.SchemaRef) {
	if ref == nil {
		return
	}
	if name, ok := strings.CutPrefix(ref.Ref, componentsPrefix); ok {
		if _, seen := c.schemas[name]; !seen && ref.Value != nil {
			c.add(name, ref)
		}
		return
	}
	c.walk(ref.Value)
}

func (c componentSet) walk(s *openapi3.Schema) {
	if s == nil {
		return
	}
	for _, prop := range s.Properties {
		c.collect(prop)
	}
	c.collect(s.Items)
	c.collect(s.Not)
	c.collect(s.AdditionalProperties.Schema)
	for _, group := range []openapi3.SchemaRefs{s.AllOf, s.AnyOf, s.OneOf} {
		for _, ref := range group {
			c.collect(ref)
		}
	}
}
