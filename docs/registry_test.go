package docs

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/drblury/routeweaver/schema"
)

var testInfo = Info{Title: "Test API", Version: "1.2.3", Servers: []string{"http://localhost:8080"}}

func userRoute(reg *Registry) RouteConfig {
	user := reg.Register("User", schema.Object(schema.Properties{
		"name": schema.String(),
		"age":  schema.Optional(schema.Number()),
	}))
	return RouteConfig{
		Method:  "post",
		Path:    "/user/{id}",
		Tags:    []string{"user"},
		Summary: "Create user",
		Request: &RequestDoc{
			Params: schema.Object(schema.Properties{"id": schema.String().Describe("user id")}),
			Query:  schema.Object(schema.Properties{"dryRun": schema.Optional(schema.Boolean())}),
			Body:   &Body{Required: true, Schema: user},
		},
		Responses: map[int]Response{
			201: {Description: "Created", Schema: user},
			400: {},
		},
		Security: []SecurityRequirement{{BearerAuth: {}}},
	}
}

func TestDocumentRendersOperation(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPath(userRoute(reg))

	doc, err := reg.Document(testInfo)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if doc.OpenAPI != OpenAPIVersion {
		t.Fatalf("expected version %s, got %s", OpenAPIVersion, doc.OpenAPI)
	}
	if doc.Info.Title != "Test API" || doc.Info.Version != "1.2.3" {
		t.Fatalf("unexpected info %+v", doc.Info)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "http://localhost:8080" {
		t.Fatalf("unexpected servers %+v", doc.Servers)
	}

	item := doc.Paths.Value("/user/{id}")
	if item == nil || item.Post == nil {
		t.Fatal("expected POST /user/{id} to be documented")
	}
	op := item.Post
	if op.Summary != "Create user" {
		t.Fatalf("unexpected summary %q", op.Summary)
	}

	if len(op.Parameters) != 2 {
		t.Fatalf("expected two parameters, got %d", len(op.Parameters))
	}
	id := op.Parameters[0].Value
	if id.Name != "id" || id.In != "path" || !id.Required || id.Description != "user id" {
		t.Fatalf("unexpected path parameter %+v", id)
	}
	dryRun := op.Parameters[1].Value
	if dryRun.Name != "dryRun" || dryRun.In != "query" || dryRun.Required {
		t.Fatalf("unexpected query parameter %+v", dryRun)
	}

	body := op.RequestBody.Value
	if !body.Required {
		t.Fatal("expected request body to be required")
	}
	if got := body.Content.Get(JSONMediaType).Schema.Ref; got != "#/components/schemas/User" {
		t.Fatalf("expected body to reference User, got %q", got)
	}

	created := op.Responses.Value("201")
	if created == nil || *created.Value.Description != "Created" {
		t.Fatalf("unexpected 201 response %+v", created)
	}
	badRequest := op.Responses.Value("400")
	if badRequest == nil || *badRequest.Value.Description != "Bad Request" {
		t.Fatal("expected 400 description to default to the status text")
	}
	if badRequest.Value.Content != nil {
		t.Fatal("expected 400 without schema to have no content")
	}

	if op.Security == nil || len(*op.Security) != 1 {
		t.Fatalf("expected a single security requirement, got %+v", op.Security)
	}
	if _, ok := (*op.Security)[0][BearerAuth]; !ok {
		t.Fatal("expected bearerAuth requirement")
	}

	if _, ok := doc.Components.Schemas["User"]; !ok {
		t.Fatal("expected User component")
	}
	scheme := doc.Components.SecuritySchemes[BearerAuth]
	if scheme == nil || scheme.Value.Scheme != "bearer" || scheme.Value.BearerFormat != "JWT" {
		t.Fatalf("unexpected bearer scheme %+v", scheme)
	}
	if len(doc.Tags) != 1 || doc.Tags[0].Name != "user" {
		t.Fatalf("unexpected tags %+v", doc.Tags)
	}
}

func TestDocumentOmitsSecurityWhenUnset(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPath(RouteConfig{Method: "get", Path: "/hello", Responses: map[int]Response{200: {}}})

	doc, err := reg.Document(testInfo)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if doc.Paths.Value("/hello").Get.Security != nil {
		t.Fatal("expected public route to carry no security requirement")
	}
}

func TestDocumentCollectsUnregisteredReferences(t *testing.T) {
	address := schema.Ref("Address", schema.Object(schema.Properties{"city": schema.String()}))
	person := schema.Ref("Person", schema.Object(schema.Properties{"address": address}))

	reg := NewRegistry()
	reg.RegisterPath(RouteConfig{
		Method:    "get",
		Path:      "/person",
		Responses: map[int]Response{200: {Schema: schema.Array(person)}},
	})

	doc, err := reg.Document(testInfo)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	for _, name := range []string{"Person", "Address"} {
		if _, ok := doc.Components.Schemas[name]; !ok {
			t.Fatalf("expected %s to be collected into components", name)
		}
	}
}

func TestDocumentRejectsDuplicateOperations(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPath(RouteConfig{Method: "get", Path: "/a"})
	reg.RegisterPath(RouteConfig{Method: "get", Path: "/a"})

	if _, err := reg.Document(testInfo); !errors.Is(err, ErrDuplicateOperation) {
		t.Fatalf("expected ErrDuplicateOperation, got %v", err)
	}
}

func TestDocumentRejectsUnsupportedMethod(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPath(RouteConfig{Method: "connect", Path: "/a"})

	if _, err := reg.Document(testInfo); !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
}

func TestDocumentRejectsNonObjectParameters(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPath(RouteConfig{Method: "get", Path: "/a", Request: &RequestDoc{Query: schema.String()}})

	if _, err := reg.Document(testInfo); !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
}

func TestRegisterPathCopiesConfig(t *testing.T) {
	reg := NewRegistry()
	cfg := RouteConfig{Method: "get", Path: "/a", Tags: []string{"a"}, Responses: map[int]Response{200: {}}}
	reg.RegisterPath(cfg)

	cfg.Tags[0] = "mutated"
	cfg.Responses[500] = Response{}

	got := reg.Routes()[0]
	if diff := cmp.Diff([]string{"a"}, got.Tags); diff != "" {
		t.Fatalf("unexpected tags (-want +got):\n%s", diff)
	}
	if _, ok := got.Responses[500]; ok {
		t.Fatal("expected registered responses to be isolated from the caller")
	}
}

func TestJSONIsDeterministic(t *testing.T) {
	build := func() []byte {
		reg := NewRegistry()
		reg.RegisterPath(userRoute(reg))
		reg.RegisterPath(RouteConfig{Method: "get", Path: "/hello", Tags: []string{"hello"}, Responses: map[int]Response{200: {}}})
		raw, err := reg.JSON(testInfo)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		return raw
	}

	first, second := build(), build()
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical output for identical registrations")
	}

	var decoded map[string]any
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if decoded["openapi"] != OpenAPIVersion {
		t.Fatalf("unexpected openapi field %v", decoded["openapi"])
	}
}

func TestYAMLMatchesJSON(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPath(userRoute(reg))

	raw, err := reg.YAML(testInfo)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(string(raw), "openapi: 3.1.0") {
		t.Fatalf("expected openapi version in YAML output:\n%s", raw)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("expected valid YAML, got %v", err)
	}
	paths, ok := decoded["paths"].(map[string]any)
	if !ok {
		t.Fatalf("expected paths map, got %T", decoded["paths"])
	}
	if _, ok := paths["/user/{id}"]; !ok {
		t.Fatalf("expected /user/{id} in YAML paths, got %v", paths)
	}
}

func TestRegistryConcurrentRegistration(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.RegisterPath(RouteConfig{Method: "get", Path: "/r/" + string(rune('a'+i))})
			_, _ = reg.JSON(testInfo)
		}()
	}
	wg.Wait()

	if got := len(reg.Routes()); got != 16 {
		t.Fatalf("expected 16 routes, got %d", got)
	}
}
