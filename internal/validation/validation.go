// Package validation wraps go-playground/validator for document payloads.
package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/digiflydk/studio-sub001/internal/design"
)

type (
	// FieldError describes one failed rule. Field is the JSON path of the value.
	FieldError struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
		Param string `json:"param,omitempty"`
		Value any    `json:"value,omitempty"`
	}

	// Error is returned when a payload fails validation.
	Error struct {
		Fields []FieldError
	}

	// XValidator validates structs using their json names in error paths.
	XValidator struct {
		validate *validator.Validate
	}
)

// Default is shared by the services.
var Default = New() //nolint:gochecknoglobals

// New creates a validator with the custom rules registered.
func New() *XValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	_ = v.RegisterValidation("hexcolor_loose", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}

		_, err := design.HexToRgb(s)

		return err == nil
	})

	_ = v.RegisterValidation("sectionname", func(fl validator.FieldLevel) bool {
		return design.SectionNamePattern.MatchString(fl.Field().String())
	})

	return &XValidator{validate: v}
}

// Struct validates data and returns *Error on failure.
func (v *XValidator) Struct(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}

	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fieldPath(fe.Namespace()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}

	return out
}

// Decode unmarshals raw into dst and validates it. Type mismatches are
// reported as field errors like rule failures.
func (v *XValidator) Decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "$"
			}

			return &Error{Fields: []FieldError{{Field: field, Tag: "type", Param: typeErr.Type.String()}}}
		}

		return &Error{Fields: []FieldError{{Field: "$", Tag: "json", Param: err.Error()}}}
	}

	return v.Struct(dst)
}

// Error implements error.
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Tag))
	}

	return "validation failed: " + strings.Join(parts, ", ")
}

// Prefix returns a copy of e with every field path prefixed.
func (e *Error) Prefix(prefix string) *Error {
	out := &Error{Fields: make([]FieldError, len(e.Fields))}

	for i, f := range e.Fields {
		if f.Field == "$" {
			f.Field = prefix
		} else {
			f.Field = prefix + "." + f.Field
		}

		out.Fields[i] = f
	}

	return out
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}

	return ns
}
