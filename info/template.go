package info

import "html/template"

// UIType names a bundled documentation UI.
type UIType string

const (
	UISwaggerUI UIType = "swagger"
	UIScalar    UIType = "scalar"
	UIRedoc     UIType = "redoc"
	UIStoplight UIType = "stoplight"
)

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`

const scalarPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <script id="api-reference" data-url="{{.SpecURL}}"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>
`

const redocPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <redoc spec-url="{{.SpecURL}}"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>
`

const stoplightPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
  <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
</head>
<body>
  <elements-api apiDescriptionUrl="{{.SpecURL}}" router="hash" layout="sidebar"></elements-api>
</body>
</html>
`

var (
	templateSwaggerUI = template.Must(template.New("openapi-swagger").Parse(swaggerUIPage))
	templateScalar    = template.Must(template.New("openapi-scalar").Parse(scalarPage))
	templateRedoc     = template.Must(template.New("openapi-redoc").Parse(redocPage))
	templateStoplight = template.Must(template.New("openapi-stoplight").Parse(stoplightPage))
)

func uiTemplateFor(uiType UIType) *template.Template {
	switch uiType {
	case UIScalar:
		return templateScalar
	case UIRedoc:
		return templateRedoc
	case UIStoplight:
		return templateStoplight
	default:
		return templateSwaggerUI
	}
}
