package serverutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateRequest runs the struct's `validate` tags. The returned error is a
// validator.ValidationErrors that ErrorHandlerMiddleware turns into a 400.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

// ValidSlug reports whether s is a lowercase, dash separated slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func validationMessages(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "is required"
		case "slug":
			out[field] = "must be a lowercase slug"
		case "oneof":
			out[field] = fmt.Sprintf("must be one of: %s", fe.Param())
		case "min", "gte":
			out[field] = fmt.Sprintf("must be at least %s", fe.Param())
		case "max", "lte":
			out[field] = fmt.Sprintf("must be at most %s", fe.Param())
		default:
			out[field] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
	}
	return out
}
