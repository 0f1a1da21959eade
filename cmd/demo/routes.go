package main

import (
	"log/slog"
	"net/http"

	"github.com/drblury/routeweaver/app"
	"github.com/drblury/routeweaver/controller"
	"github.com/drblury/routeweaver/docs"
	"github.com/drblury/routeweaver/probe"
	"github.com/drblury/routeweaver/responder"
	"github.com/drblury/routeweaver/router"
	"github.com/drblury/routeweaver/schema"
)

// User is the payload accepted and returned by the user routes.
type User struct {
	Name string  `json:"name" validate:"required"`
	Age  float64 `json:"age" validate:"gte=0"`
}

type handlers struct {
	resp *responder.Responder
}

func (h handlers) hello(w http.ResponseWriter, req *controller.Request) error {
	h.resp.RespondWithJSON(w, req.Request, http.StatusOK, map[string]string{"hello": "world"})
	return nil
}

func (h handlers) createUser(w http.ResponseWriter, req *controller.Request) error {
	user, err := controller.Bind[User](req.Body)
	if err != nil {
		return err
	}
	h.resp.RespondWithJSON(w, req.Request, http.StatusCreated, user)
	return nil
}

func (h handlers) getUser(w http.ResponseWriter, req *controller.Request) error {
	h.resp.RespondWithJSON(w, req.Request, http.StatusOK, map[string]any{"id": req.Param("id")})
	return nil
}

func groups(reg *docs.Registry, resp *responder.Responder) []router.Group {
	h := handlers{resp: resp}
	hello := reg.Register("Hello", schema.Object(schema.Properties{"hello": schema.String()}))
	user := reg.Register("User", schema.Struct[User]())
	userParams := schema.Object(schema.Properties{"id": schema.Integer().Describe("User id")})

	return []router.Group{
		{
			Name: "hello",
			Routes: []router.Route{{
				Method:     http.MethodGet,
				Path:       "/hello",
				Controller: controller.New(h.hello, controller.WithResponder(resp)),
				Public:     true,
				Documentation: &docs.Documentation{
					Description: "Say hello",
					Responses:   map[int]docs.Response{http.StatusOK: {Schema: hello}},
				},
			}},
		},
		{
			Name: "user",
			Routes: []router.Route{
				{
					Method: http.MethodPost,
					Path:   "/user",
					Controller: controller.New(h.createUser,
						controller.WithResponder(resp),
						controller.WithSchema(schema.Request{Body: user}),
					),
					Documentation: &docs.Documentation{
						Description: "Create a user",
						Request:     &docs.RequestDoc{Body: &docs.Body{Required: true, Schema: user}},
						Responses:   map[int]docs.Response{http.StatusCreated: {Schema: user}},
					},
				},
				{
					Method: http.MethodGet,
					Path:   "/user/:id",
					Controller: controller.New(h.getUser,
						controller.WithResponder(resp),
						controller.WithSchema(schema.Request{Params: userParams}),
					),
					Documentation: &docs.Documentation{
						Description: "Fetch a user",
						Request:     &docs.RequestDoc{Params: userParams},
						Responses: map[int]docs.Response{http.StatusOK: {
							Schema: schema.Object(schema.Properties{"id": schema.Integer()}),
						}},
					},
				},
			},
		},
	}
}

func newApp(cfg app.Config, logger *slog.Logger) (*app.App, error) {
	reg := docs.NewRegistry()
	resp := responder.NewResponder(responder.WithLogger(logger))
	docInfo := docs.Info{
		Title:       cfg.Docs.Title,
		Version:     cfg.Docs.Version,
		Description: cfg.Docs.Description,
		Servers:     cfg.Docs.Servers,
	}

	return app.New(
		app.WithConfig(cfg),
		app.WithLogger(logger),
		app.WithRegistry(reg),
		app.WithResponder(resp),
		app.WithGroups(groups(reg, resp)...),
		app.WithReadinessChecks(probe.NewDocumentProbe(reg, docInfo)),
	)
}
