package shared

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"sync"

	commErrors "acs-toolkit/internal/communication/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the `validate` tags of v and reports the first violation.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		reason := commErrors.InvalidValue
		if fe.Tag() == "required" || fe.Tag() == "min" {
			reason = commErrors.EmptyParameter
		}
		return &commErrors.ValidationError{Param: fe.Namespace(), Reason: reason}
	}
	return &commErrors.ValidationError{Reason: err.Error()}
}

// RequireNonEmpty rejects blank string parameters.
func RequireNonEmpty(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return commErrors.NewEmptyError(param)
	}
	return nil
}

// PathSegment validates value as a single URL path segment and escapes it.
// `.` and `..` are rejected since path joining would resolve them against the parent resource.
func PathSegment(param, value string) (string, error) {
	if err := RequireNonEmpty(param, value); err != nil {
		return "", err
	}
	if value == "." || value == ".." {
		return "", &commErrors.ValidationError{Param: param, Reason: commErrors.DotSegment}
	}
	return url.PathEscape(value), nil
}
