package validation

import (
	"path"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/streamhub/errors"
)

// MaxStreamKeyLength is the longest stream key accepted, in bytes.
const MaxStreamKeyLength = 256

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})

		mustRegister("streamkey", func(fl validator.FieldLevel) bool {
			return IsStreamKey(fl.Field().String())
		})
		mustRegister("singleline", func(fl validator.FieldLevel) bool {
			return !strings.ContainsAny(fl.Field().String(), "\r\n")
		})
		mustRegister("fieldname", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s != "" && !strings.ContainsAny(s, ":\r\n")
		})
		mustRegister("glob", func(fl validator.FieldLevel) bool {
			_, err := path.Match(fl.Field().String(), "")
			return err == nil
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

// IsStreamKey reports whether key can be used as a registry key.
func IsStreamKey(key string) bool {
	if key == "" || len(key) > MaxStreamKeyLength {
		return false
	}
	return strings.IndexFunc(key, unicode.IsControl) < 0
}

// Validate validates a struct using struct tags.
// Uses tags like `validate:"required,singleline,max=64"`.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed")
	}

	v := New()
	for _, e := range validationErrors {
		v.AddError(e.Field(), formatValidationError(e))
	}
	return v.Err()
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	case "streamkey":
		return "must be 1 to 256 bytes without control characters"
	case "singleline":
		return "must be a single line"
	case "fieldname":
		return "must be non-empty with no colon or line break"
	case "glob":
		return "must be a valid glob pattern"
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32) // lowercase
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
