package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// PasswordSymbols is the set of symbols a strong password may contain
const PasswordSymbols = "@$!%^*?&"

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

var phoneNumberPattern = regexp.MustCompile(`^\d{11}$`)

// IsPhoneNumber reports whether value is exactly 11 ASCII digits
func IsPhoneNumber(value string) bool {
	return phoneNumberPattern.MatchString(value)
}

// IsStrongPassword reports whether value is at least 8 characters long, uses only
// letters, digits and PasswordSymbols, and contains at least one lowercase letter,
// one uppercase letter, one digit and one symbol.
func IsStrongPassword(value string) bool {
	if len(value) < MinPasswordLength {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range value {
		switch {
		case r > unicode.MaxASCII:
			return false
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

// New returns a validator with the phone11 and strongpassword rules registered.
// Field names in errors come from json tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name[:1]) + fld.Name[1:]
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs
	_ = v.RegisterValidation("phone11", func(fl validator.FieldLevel) bool {
		return IsPhoneNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return v
}

// Violation describes one failed constraint
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Violations converts validator errors into Violations, in field order.
// It returns nil when err carries no field errors.
func Violations(err error) []Violation {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil
	}

	violations := make([]Violation, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return violations
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "phone11":
		return fmt.Sprintf("invalid phone number format: %s must be exactly 11 digits", field)
	case "strongpassword":
		return fmt.Sprintf("%s must be at least %d characters with a lowercase letter, an uppercase letter, a digit and one of %s",
			field, MinPasswordLength, PasswordSymbols)
	default:
		return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
	}
}
