package router_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/drblury/routeweaver/docs"
	"github.com/drblury/routeweaver/router"
)

func ExampleNew_customOptions() {
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	})

	mux := router.New(
		apiHandler,
		router.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		router.WithConfig(router.Config{
			Timeout: 2 * time.Second,
			CORS: router.CORSConfig{
				Origins: []string{"https://example.com"},
				Methods: []string{http.MethodGet, http.MethodOptions},
				Headers: []string{"Content-Type"},
			},
			HideHeaders: []string{"Authorization"},
		}),
		router.WithMiddlewares(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Stage", "prepend")
				next.ServeHTTP(w, r)
			})
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	fmt.Println(rec.Header().Get("Access-Control-Allow-Origin"))
	fmt.Println(rec.Header().Get("X-Stage"))
	fmt.Println(strings.TrimSpace(rec.Body.String()))

	// Output:
	// https://example.com
	// prepend
	// hello
}

func ExampleRegister() {
	reg := docs.NewRegistry()
	r := chi.NewRouter()

	err := router.Register(r, reg, router.Group{
		Name: "user",
		Routes: []router.Route{
			{
				Method: http.MethodGet,
				Path:   "/user/:id",
				Controller: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					fmt.Fprint(w, "user ", chi.URLParam(req, "id"))
				}),
				Documentation: &docs.Documentation{Description: "Find a user"},
			},
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/42", nil))
	fmt.Println(rec.Body.String())

	route := reg.Routes()[0]
	fmt.Println(route.Method, route.Path, route.Tags)

	// Output:
	// user 42
	// get /user/{id} [user]
}
