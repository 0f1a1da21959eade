package info

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes binds /status, /healthz, /readyz and /version, plus the
// documentation endpoints when documentation is enabled.
func (ih *InfoHandler) RegisterRoutes(r chi.Router) {
	r.Get("/status", ih.GetStatus)
	r.Get("/healthz", ih.GetHealthz)
	r.Get("/readyz", ih.GetReadyz)
	r.Get("/version", ih.GetVersion)

	if !ih.DocumentationEnabled() {
		return
	}
	r.Get(ih.specPath, ih.GetOpenAPIJSON)
	r.Get(ih.specPath+".yaml", ih.GetOpenAPIYAML)
	r.Get(ih.uiPath, ih.GetOpenAPIHTML)
}

// GetStatus reports that the process is serving requests.
func (ih *InfoHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ih.respondProbe(w, r, "HEALTHY")
}

// GetHealthz runs the liveness checks.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.livenessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, "ok")
}

// GetReadyz runs the readiness checks.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.readinessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, "ready")
}

// GetVersion writes the payload of the configured InfoProvider.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.infoProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetOpenAPIJSON renders the current document as JSON.
func (ih *InfoHandler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	ih.writeDocument(w, r, "application/json", ih.documentJSON)
}

// GetOpenAPIYAML renders the current document as YAML.
func (ih *InfoHandler) GetOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	ih.writeDocument(w, r, "application/yaml", ih.documentYAML)
}

// GetOpenAPIHTML renders the UI page pointing at the JSON document.
func (ih *InfoHandler) GetOpenAPIHTML(w http.ResponseWriter, r *http.Request) {
	data := TemplateData{
		Title:   ih.docInfo.Title,
		SpecURL: ih.baseURL + ih.specPath,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ih.uiTemplate.Execute(w, data); err != nil {
		ih.Logger().Error("failed to render documentation UI", "error", err)
	}
}

func (ih *InfoHandler) writeDocument(w http.ResponseWriter, r *http.Request, contentType string, render func() ([]byte, error)) {
	body, err := render()
	if err != nil {
		ih.HandleInternalServerError(w, r, err, "failed to render openapi document")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		ih.Logger().Error("failed to write openapi document", "error", err)
	}
}

func (ih *InfoHandler) documentJSON() ([]byte, error) {
	if ih.source == nil {
		return nil, errDocumentationDisabled
	}
	return ih.source.JSON(ih.docInfo)
}

func (ih *InfoHandler) documentYAML() ([]byte, error) {
	if ih.source == nil {
		return nil, errDocumentationDisabled
	}
	return ih.source.YAML(ih.docInfo)
}
