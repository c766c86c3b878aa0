package model

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var resumeDatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])(-(0[1-9]|[12]\d|3[01]))?$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func itemValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("resumedate", func(fl validator.FieldLevel) bool {
			return resumeDatePattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

type dateRanged interface {
	dateRange() (start, end string, present bool)
}

// ValidateItem checks field rules on an item shape, then its date range.
// The returned error is a *ValidationError naming the first failing field.
func ValidateItem(item any) error {
	if err := itemValidator().Struct(item); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return toValidationError(fieldErrs[0])
		}
		return &ValidationError{Message: err.Error()}
	}
	if ranged, ok := item.(dateRanged); ok {
		start, end, present := ranged.dateRange()
		if !present && start != "" && end != "" && compareDates(end, start) < 0 {
			return &ValidationError{Field: "endDate", Message: "must not be earlier than startDate"}
		}
	}
	return nil
}

// ValidateSectionTitle rejects blank section titles.
func ValidateSectionTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "sectionTitle", Message: "is required"}
	}
	return nil
}

func toValidationError(fe validator.FieldError) *ValidationError {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	switch fe.Tag() {
	case "nonblank", "required":
		return &ValidationError{Field: field, Message: "is required"}
	case "resumedate":
		return &ValidationError{Field: field, Message: "must be YYYY-MM or YYYY-MM-DD"}
	case "oneof":
		return &ValidationError{Field: field, Message: "must be one of " + fe.Param()}
	}
	return &ValidationError{Field: field, Message: "is invalid"}
}

// compareDates orders two validated dates. When either lacks a day only the
// month is compared, so 2020-05 and 2020-05-14 are equal.
func compareDates(a, b string) int {
	if len(a) != len(b) {
		a, b = a[:7], b[:7]
	}
	return strings.Compare(a, b)
}
