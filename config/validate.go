package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/broady/enumshare/i18n"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("bcp47", func(fl validator.FieldLevel) bool {
			return i18n.ValidateLocale(fl.Field().String()) == nil
		})
		validate = v
	})
	return validate
}

// Validate checks the configuration. Field errors are reported together,
// keyed by their file path such as export.app_locale.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}
	msg := FormatValidationErrors(err)
	where := "configuration"
	if c.File != "" {
		where = c.File
	}
	return errors.WithHint(errors.Newf("invalid %s: %s", where, msg), "see the configuration keys in the README")
}

// FormatValidationErrors renders validator errors as "field: message"
// pairs joined by "; ". Other errors are returned as is.
func FormatValidationErrors(err error) string {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err.Error()
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, fieldPath(ve)+": "+formatValidationError(ve))
	}
	return strings.Join(messages, "; ")
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "required_if":
		return "required when " + strings.Replace(ve.Param(), " ", " is ", 1)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "bcp47":
		return fmt.Sprintf("%q is not a valid locale code", ve.Value())
	case "hostname_port":
		return "must be host:port"
	case "unique":
		return "must not contain duplicates"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
