// Package form turns untrusted submitted fields into validated values.
//
// Each parser decodes with gorilla/schema (type errors) and then checks
// constraints with validator (required, length, format). The result is either
// a value or a non-nil Errors map keyed by field name, never both.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// Errors maps a field name to a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(false, convertCheckbox)
	return d
}

// convertCheckbox accepts the values browsers and clients send for a boolean
// field. An invalid reflect.Value makes schema report a conversion error.
func convertCheckbox(value string) reflect.Value {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return reflect.ValueOf(true)
	case "", "off", "false", "0", "no":
		return reflect.ValueOf(false)
	}
	return reflect.Value{}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode fills dst from values and validates it. normalize runs between the
// two passes so trimming applies before "required" is checked.
func decode(dst any, values url.Values, normalize func()) Errors {
	errs := Errors{}

	if err := decoder.Decode(dst, values); err != nil {
		var multi schema.MultiError
		if !errors.As(err, &multi) {
			errs.Add("__all__", "could not read submitted data")
			return errs
		}
		for field := range multi {
			errs.Add(field, "enter a valid value")
		}
	}

	if normalize != nil {
		normalize()
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add("__all__", "could not validate submitted data")
			return errs
		}
		for _, fe := range verrs {
			errs.Add(fe.Field(), message(fe))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "datetime":
		return "enter a valid date (YYYY-MM-DD)"
	default:
		return "enter a valid value"
	}
}
