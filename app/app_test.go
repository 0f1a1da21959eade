package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/drblury/routeweaver/controller"
	"github.com/drblury/routeweaver/docs"
	"github.com/drblury/routeweaver/router"
	"github.com/drblury/routeweaver/schema"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type notFoundError struct{}

func (notFoundError) Error() string   { return "user not found" }
func (notFoundError) StatusCode() int { return http.StatusNotFound }

func userGroup() router.Group {
	return router.Group{
		Name: "user",
		Routes: []router.Route{
			{
				Method: http.MethodPost,
				Path:   "/user",
				Controller: controller.New(func(w http.ResponseWriter, req *controller.Request) error {
					w.Header().Set("Content-Type", "application/json")
					return json.NewEncoder(w).Encode(req.Body)
				}, controller.WithSchema(schema.Request{
					Body: schema.Object(schema.Properties{"name": schema.String(), "age": schema.Number()}),
				})),
				Documentation: &docs.Documentation{Description: "Create user"},
			},
			{
				Method: http.MethodGet,
				Path:   "/user/:id",
				Controller: controller.New(func(w http.ResponseWriter, req *controller.Request) error {
					return notFoundError{}
				}),
			},
		},
	}
}

func newTestApp(t *testing.T, cfg Config, opts ...Option) *App {
	t.Helper()
	a, err := New(append([]Option{WithConfig(cfg), WithLogger(quietLogger), WithGroups(userGroup())}, opts...)...)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return a
}

func do(a http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	a.ServeHTTP(rr, req)
	return rr
}

func TestAppServesValidatedRoutes(t *testing.T) {
	a := newTestApp(t, DefaultConfig())

	rr := do(a, http.MethodPost, "/user", `{"name":"Al","age":"30"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"age":30,"name":"Al"}` {
		t.Fatalf("unexpected echo %s", got)
	}

	rr = do(a, http.MethodPost, "/user", `{"name":"Al","age":"not-a-number"}`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), `"path":"body.age"`) {
		t.Fatalf("expected 400 for body.age, got %d (%s)", rr.Code, rr.Body.String())
	}
}

func TestAppRendersForwardedErrorsCentrally(t *testing.T) {
	a := newTestApp(t, DefaultConfig())

	rr := do(a, http.MethodGet, "/user/7", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from the error stage, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/problem+json" {
		t.Fatalf("expected problem document, got %q", got)
	}
}

func TestAppServesDocumentationOutsideProduction(t *testing.T) {
	a := newTestApp(t, DefaultConfig())

	rr := do(a, http.MethodGet, "/swagger", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("expected JSON document, got %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/user"]; !ok {
		t.Fatalf("expected documented /user, got %v", paths)
	}
	if _, ok := paths["/user/{id}"]; ok {
		t.Fatal("undocumented route must not appear in the document")
	}

	for _, target := range []string{"/swagger.yaml", "/api-docs"} {
		if rr := do(a, http.MethodGet, target, ""); rr.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", target, rr.Code)
		}
	}
}

func TestAppHidesDocumentationInProduction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Environment = "production"
	a := newTestApp(t, cfg)

	for _, target := range []string{"/swagger", "/swagger.yaml", "/api-docs"} {
		if rr := do(a, http.MethodGet, target, ""); rr.Code != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404 in production, got %d", target, rr.Code)
		}
	}
	if rr := do(a, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected health endpoint in production, got %d", rr.Code)
	}
}

func TestAppReadinessChecks(t *testing.T) {
	sentinel := errors.New("db down")
	a := newTestApp(t, DefaultConfig(), WithReadinessChecks(func(context.Context) error { return sentinel }))

	if rr := do(a, http.MethodGet, "/readyz", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestAppRequestValidationAgainstDocument(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Docs.ValidateRequests = true
	reg := docs.NewRegistry()

	a, err := New(WithConfig(cfg), WithLogger(quietLogger), WithRegistry(reg), WithGroups(router.Group{
		Routes: []router.Route{{
			Method:     http.MethodGet,
			Path:       "/item/:id",
			Controller: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
			Documentation: &docs.Documentation{Request: &docs.RequestDoc{
				Params: schema.Object(schema.Properties{"id": schema.Integer()}),
			}},
			Public: true,
		}},
	}))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if rr := do(a, http.MethodGet, "/item/abc", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected document validation to reject the request, got %d", rr.Code)
	}
	if rr := do(a, http.MethodGet, "/item/5", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected valid request to pass, got %d", rr.Code)
	}
	if rr := do(a, http.MethodGet, "/status", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected undocumented endpoint to pass, got %d", rr.Code)
	}
}

func TestAppMountsExtraHandlers(t *testing.T) {
	a := newTestApp(t, DefaultConfig(), WithMount("/legacy", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))

	if rr := do(a, http.MethodGet, "/legacy/anything", ""); rr.Code != http.StatusAccepted {
		t.Fatalf("expected mounted handler, got %d", rr.Code)
	}
}

func TestNewReturnsRouteErrors(t *testing.T) {
	_, err := New(WithLogger(quietLogger), WithGroups(router.Group{
		Routes: []router.Route{{Method: http.MethodGet, Path: "/nil"}},
	}))
	if !errors.Is(err, router.ErrNilController) {
		t.Fatalf("expected ErrNilController, got %v", err)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	a := newTestApp(t, DefaultConfig())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/status")
	if err != nil {
		t.Fatalf("expected server to answer, got %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
