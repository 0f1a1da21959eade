package controller

import (
	"fmt"

	"github.com/drblury/routeweaver/schema"
)

// Bind converts a parsed request part into T. Values already of type T are
// returned as is; maps are decoded field by field using json tag names.
func Bind[T any](value any) (T, error) {
	if typed, ok := value.(T); ok {
		return typed, nil
	}

	var out T
	if err := schema.Decode(value, &out); err != nil {
		return out, fmt.Errorf("controller: bind %T: %w", out, err)
	}
	return out, nil
}
