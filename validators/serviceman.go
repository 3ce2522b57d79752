package validators

import (
	"fmt"
	"strings"
)

// SignUpRequest is the sign-up input. Name becomes the serviceman's first name.
type SignUpRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	LastName    string `json:"lastName" validate:"required,min=2,max=50"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone11"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strongpassword"`
}

// SignInRequest is the sign-in input. Username is an email or an 11 digit phone number.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UsernameIsEmail reports whether the username should be matched against emails
func (r SignInRequest) UsernameIsEmail() bool {
	return strings.Contains(r.Username, "@")
}

// SchemaError is returned when request input fails its schema.
// It lists every violated constraint.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	switch len(e.Violations) {
	case 0:
		return "validation failed"
	case 1:
		return e.Violations[0].Message
	default:
		return fmt.Sprintf("%s (and %d more)", e.Violations[0].Message, len(e.Violations)-1)
	}
}

var schemaValidator = New()

// ValidateSignUp checks a sign-up request, returning nil or a *SchemaError
func ValidateSignUp(req SignUpRequest) error {
	return validateSchema(req)
}

// ValidateSignIn checks a sign-in request, returning nil or a *SchemaError
func ValidateSignIn(req SignInRequest) error {
	return validateSchema(req)
}

func validateSchema(req interface{}) error {
	err := schemaValidator.Struct(req)
	if err == nil {
		return nil
	}
	if violations := Violations(err); len(violations) > 0 {
		return &SchemaError{Violations: violations}
	}
	return err
}
