package schema

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// issuesFrom flattens kin-openapi schema errors into issues. It reports false
// when err contains anything other than schema errors.
func issuesFrom(err error) ([]Issue, bool) {
	var issues []Issue
	if !collectIssues(err, &issues) || len(issues) == 0 {
		return nil, false
	}
	return issues, true
}

func collectIssues(err error, out *[]Issue) bool {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			if !collectIssues(inner, out) {
				return false
			}
		}
		return true
	case *openapi3.SchemaError:
		code := e.SchemaField
		if code == "" {
			code = "invalid"
		}
		message := e.Reason
		if message == "" {
			message = e.Error()
		}
		*out = append(*out, Issue{
			Code:    code,
			Message: message,
			Path:    strings.Join(e.JSONPointer(), "."),
		})
		return true
	default:
		return false
	}
}
