// Package validation wraps go-playground/validator with the rule set this API
// speaks: operation-scoped declarative tags on request types, custom checks
// for timezones, locales, countries, phone numbers, and date format tokens.
// All violations are collected and joined with ", " into one message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	dErrors "tenantadmin/pkg/domain-errors"
)

var (
	phonePattern      = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
	dateFormatPattern = regexp.MustCompile(`^[MDYmdy/\-.\s]+$`)
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || phonePattern.MatchString(s)
	})
	_ = v.RegisterValidation("timezone_name", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("dateformat", func(fl validator.FieldLevel) bool {
		return dateFormatPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		_, err := language.Parse(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		r, err := language.ParseRegion(fl.Field().String())
		return err == nil && r.IsCountry()
	})
	return v
}

// Validate validates a struct against its tags. Every violation becomes a
// message; messages are joined into a single validation_failed domain error so
// the caller can return all problems at once.
func Validate(req any) error {
	err := defaultValidator.Struct(req)
	if err == nil {
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, strings.Join(Messages(err), ", "))
}

// Messages converts a validator error into human-readable violation messages.
func Messages(err error) []string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return []string{"Invalid request body"}
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

func message(fe validator.FieldError) string {
	field := humanize(fe.Field())
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email format"
	case "oneof":
		return fmt.Sprintf("Invalid %s value", strings.ToLower(field))
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s cannot be empty", field)
	case "phone":
		return "Invalid phone number format"
	case "timezone_name":
		return "Invalid timezone"
	case "dateformat":
		return "Invalid date format"
	case "locale":
		return "Invalid language code"
	case "country":
		return "Invalid country code"
	default:
		return fmt.Sprintf("Invalid %s", strings.ToLower(field))
	}
}

// humanize turns a json field name into a message label:
// "contact_email" -> "Contact email", "subIndustry" -> "Sub industry".
func humanize(name string) string {
	if name == "" {
		return name
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	return strings.ToUpper(out[:1]) + out[1:]
}
