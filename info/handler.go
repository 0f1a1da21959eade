package info

import (
	"errors"
	"html/template"
	"time"

	"github.com/drblury/routeweaver/docs"
	"github.com/drblury/routeweaver/probe"
	"github.com/drblury/routeweaver/responder"
)

// InfoProvider returns the payload exposed by the version endpoint.
type InfoProvider func() any

// DocumentSource renders the OpenAPI document. *docs.Registry implements it.
type DocumentSource interface {
	JSON(info docs.Info) ([]byte, error)
	YAML(info docs.Info) ([]byte, error)
}

// InfoOption configures an InfoHandler.
type InfoOption func(*InfoHandler)

// TemplateData is passed to the documentation UI template.
type TemplateData struct {
	Title   string
	SpecURL string
}

const (
	defaultProbeTimeout = 2 * time.Second
	defaultSpecPath     = "/swagger"
	defaultUIPath       = "/api-docs"
)

var errDocumentationDisabled = errors.New("documentation is not configured")

// ProbeFunc is run by the liveness and readiness endpoints.
type ProbeFunc = probe.Func

// InfoHandler serves the documentation and health endpoints.
type InfoHandler struct {
	*responder.Responder
	baseURL         string
	specPath        string
	uiPath          string
	infoProvider    InfoProvider
	source          DocumentSource
	docInfo         docs.Info
	uiTemplate      *template.Template
	probeTimeout    time.Duration
	livenessChecks  []ProbeFunc
	readinessChecks []ProbeFunc
}

// NewInfoHandler returns a handler with Swagger UI, a two second probe
// timeout and documentation disabled until WithDocumentation is given.
func NewInfoHandler(opts ...InfoOption) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.NewResponder(),
		specPath:  defaultSpecPath,
		uiPath:    defaultUIPath,
		infoProvider: func() any {
			return map[string]string{}
		},
		uiTemplate:   templateSwaggerUI,
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithInfoResponder replaces the responder used for JSON and error output.
func WithInfoResponder(r *responder.Responder) InfoOption {
	return func(ih *InfoHandler) {
		if r != nil {
			ih.Responder = r
		}
	}
}

// WithBaseURL prefixes the document URL handed to the UI, for services
// running behind a path-rewriting proxy.
func WithBaseURL(baseURL string) InfoOption {
	return func(ih *InfoHandler) {
		ih.baseURL = baseURL
	}
}

// WithDocumentation enables the documentation endpoints. The document is
// rendered from source on every request.
func WithDocumentation(source DocumentSource, info docs.Info) InfoOption {
	return func(ih *InfoHandler) {
		ih.source = source
		ih.docInfo = info
	}
}

// WithDocumentationPaths overrides where the document and the UI are served.
// The YAML document is served at specPath + ".yaml".
func WithDocumentationPaths(specPath, uiPath string) InfoOption {
	return func(ih *InfoHandler) {
		if specPath != "" {
			ih.specPath = specPath
		}
		if uiPath != "" {
			ih.uiPath = uiPath
		}
	}
}

// WithInfoProvider sets the version payload source.
func WithInfoProvider(provider InfoProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.infoProvider = provider
		}
	}
}

// WithUITemplate replaces the UI page. The template receives TemplateData.
func WithUITemplate(tmpl *template.Template) InfoOption {
	return func(ih *InfoHandler) {
		if tmpl != nil {
			ih.uiTemplate = tmpl
		}
	}
}

// WithUIType selects one of the bundled UI pages.
func WithUIType(uiType UIType) InfoOption {
	return func(ih *InfoHandler) {
		ih.uiTemplate = uiTemplateFor(uiType)
	}
}

// WithProbeTimeout bounds each liveness or readiness run.
func WithProbeTimeout(timeout time.Duration) InfoOption {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks sets the checks run by GetHealthz.
func WithLivenessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks sets the checks run by GetReadyz.
func WithReadinessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.readinessChecks = filterProbes(checks)
	}
}

// SpecPath returns the path the JSON document is served at.
func (ih *InfoHandler) SpecPath() string { return ih.specPath }

// UIPath returns the path of the documentation UI.
func (ih *InfoHandler) UIPath() string { return ih.uiPath }

// DocumentationEnabled reports whether a document source is configured.
func (ih *InfoHandler) DocumentationEnabled() bool { return ih.source != nil }
