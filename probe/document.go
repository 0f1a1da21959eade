package probe

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/routeweaver/docs"
)

// DocumentBuilder renders an OpenAPI document. *docs.Registry implements it.
type DocumentBuilder interface {
	Document(info docs.Info) (*openapi3.T, error)
}

// NewDocumentProbe fails while the generated document is invalid, for
// example when a documented path parameter has no parameter schema.
func NewDocumentProbe(builder DocumentBuilder, info docs.Info) Func {
	return func(ctx context.Context) error {
		if builder == nil {
			return fmt.Errorf("document probe: builder is nil")
		}
		doc, err := builder.Document(info)
		if err != nil {
			return fmt.Errorf("document probe: %w", err)
		}
		if err := doc.Validate(ctx); err != nil {
			return fmt.Errorf("document probe: invalid document: %w", err)
		}
		return nil
	}
}
