// Package validation wraps go-playground/validator with the rules used by the
// API's write models. The same engine backs Gin's request binding (via
// RegisterGin) and the explicit validation of patched documents (via
// Validate), so both paths report identical field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed rule on one field. Field uses the JSON
// name of the struct field.
type FieldError struct {
	Field   string `json:"field"   xml:"field"   example:"name"`
	Message string `json:"message" xml:"message" example:"You should provide a name value."`
}

var (
	once   sync.Once
	engine *validator.Validate
)

// Engine returns the shared validator, configured to read "binding" tags and
// report JSON field names.
func Engine() *validator.Validate {
	once.Do(func() {
		engine = validator.New()
		engine.SetTagName("binding")
		configure(engine)
	})
	return engine
}

// RegisterGin installs the custom rules and JSON field naming on Gin's
// default validator so ShouldBindJSON reports the same errors as Validate.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return configure(v)
}

func configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("notblank", notBlank)
}

var notBlank validator.Func = func(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return false
		}
		f = f.Elem()
	}
	if f.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(f.String()) != ""
}

// Validate checks s against its binding tags and returns the failed rules,
// or nil when s is valid.
func Validate(s any) []FieldError {
	err := Engine().Struct(s)
	if err == nil {
		return nil
	}
	return FromError(err)
}

// FromError converts a validator (or Gin binding) error into field errors.
// Errors that are not validation errors yield a single entry without a field.
func FromError(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("You should provide a %s value.", fe.Field())
	case "max":
		return fmt.Sprintf("The field %s must be a string with a maximum length of %s.", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("The field %s must be a string with a minimum length of %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The field %s is invalid (%s).", fe.Field(), fe.Tag())
	}
}
