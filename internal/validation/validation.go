// Package validation runs the struct-tag validator shared by plan requests,
// catalog records and configuration.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name: json first, then env.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "env"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// FieldError is one failed constraint.
type FieldError struct {
	Field string // wire name of the field
	Path  string // path below the validated value, e.g. ingredients[0].amount
	Tag   string
	Param string
}

func (fe FieldError) String() string {
	switch fe.Tag {
	case "required", "notblank":
		return fe.Path + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Path, fe.Param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Path, fe.Param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Path, fe.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Path, fe.Param)
	}
	return fmt.Sprintf("%s failed %s=%s", fe.Path, fe.Tag, fe.Param)
}

// Error lists every constraint a value failed.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.String()
	}
	return strings.Join(msgs, "; ")
}

// Failed reports whether the named field failed any constraint.
func (e *Error) Failed(field string) bool {
	for _, fe := range e.Fields {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Struct validates s against its `validate` tags. It returns nil or an
// *Error; s must be a struct or a pointer to one.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Path:  path,
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
