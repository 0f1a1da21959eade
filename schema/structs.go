package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// StructSchema describes values of type T. The OpenAPI definition is
// generated from T's fields, validated payloads are decoded into T and then
// checked against its `validate` struct tags.
type StructSchema[T any] struct {
	definition *Definition
	validate   *validator.Validate
	isStruct   bool
}

// Struct builds a schema for T. It panics when T cannot be described, in the
// same way template.Must does for malformed templates.
func Struct[T any]() *StructSchema[T] {
	s, err := StructOf[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// StructOf builds a schema for T.
func StructOf[T any]() (*StructSchema[T], error) {
	var zero T
	ref, err := openapi3gen.NewSchemaRefForValue(&zero, nil)
	if err != nil {
		return nil, fmt.Errorf("schema: describe %T: %w", zero, err)
	}

	typ := reflect.TypeOf(zero)
	isStruct := typ != nil && typ.Kind() == reflect.Struct
	if isStruct && ref.Value != nil {
		ref.Value.Required = requiredFields(typ)
	}

	return &StructSchema[T]{
		definition: Define(ref.Value),
		validate:   newStructValidator(),
		isStruct:   isStruct,
	}, nil
}

// OpenAPI implements Schema.
func (s *StructSchema[T]) OpenAPI() *openapi3.SchemaRef {
	return s.definition.OpenAPI()
}

// Parse implements Schema. The parsed value has type T.
func (s *StructSchema[T]) Parse(value any) (any, error) {
	coerced, err := s.definition.Parse(value)
	if err != nil {
		return nil, err
	}

	var out T
	if err := Decode(coerced, &out); err != nil {
		return nil, &ValidationError{Issues: []Issue{{Code: "invalid_type", Message: err.Error()}}}
	}

	if !s.isStruct {
		return out, nil
	}
	if err := s.validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		return nil, &ValidationError{Issues: fieldIssues(fieldErrs)}
	}
	return out, nil
}

// Decode copies a parsed payload into out, converting loosely typed values
// the way query strings and JSON numbers require.
func Decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

func requiredFields(typ reflect.Type) []string {
	var required []string
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonFieldName(field)
		if name == "" {
			continue
		}
		for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
			if rule == "required" {
				required = append(required, name)
				break
			}
		}
	}
	return required
}

var indexPattern = regexp.MustCompile(`\[([^\]]+)\]`)

func fieldIssues(errs validator.ValidationErrors) []Issue {
	issues := make([]Issue, 0, len(errs))
	for _, fe := range errs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		issues = append(issues, Issue{
			Code:    fe.Tag(),
			Message: fmt.Sprintf("failed on the %q rule", rule),
			Path:    fieldPath(fe.Namespace()),
		})
	}
	return issues
}

// fieldPath turns "CreateUser.items[0].price" into "items.0.price".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return ""
	}
	return indexPattern.ReplaceAllString(rest, ".$1")
}
