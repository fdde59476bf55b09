package validators

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const maxFormValueLen = 512

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeForm copies url-encoded form fields into dest by their `form` tags
// and validates the result. dest must be a pointer to a struct whose tagged
// fields are strings or ints. Strings are trimmed unless the tag carries the
// "raw" option. Blank int fields keep their current value so callers can
// preset defaults.
func DecodeForm(r *http.Request, dest any) error {
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return pkgerrors.New(pkgerrors.CodeInternal, "form destination must be a struct pointer")
	}
	rv = rv.Elem()
	rt := rv.Type()

	details := map[string]string{}
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, opts, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}
		raw := r.PostForm.Get(name)
		if raw == "" {
			raw = r.Form.Get(name)
		}

		target := rv.Field(i)
		switch target.Kind() {
		case reflect.String:
			if opts == "raw" {
				target.SetString(raw)
			} else {
				target.SetString(SanitizeString(raw, maxFormValueLen))
			}
		case reflect.Int, reflect.Int32, reflect.Int64:
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			value, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || target.OverflowInt(value) {
				details[name] = "must be a whole number"
				continue
			}
			target.SetInt(value)
		default:
			return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unsupported form field kind %s", target.Kind()))
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// FieldErrors extracts per-field messages from a validation error so a form
// can be re-rendered next to its inputs.
func FieldErrors(err error) map[string]string {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return nil
	}
	if details, ok := typed.Details().(map[string]string); ok {
		return details
	}
	return map[string]string{"form": typed.Message()}
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "eqfield":
		return "does not match"
	}
	return "is invalid"
}
