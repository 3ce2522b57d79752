package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormatViolation marks a value that does not have the required shape or length
	ErrFormatViolation = errors.New("format violation")
	// ErrRequiredFieldMissing marks a required field left empty
	ErrRequiredFieldMissing = errors.New("required field missing")
	// ErrUniquenessViolation marks a write that collides with an existing unique value
	ErrUniquenessViolation = errors.New("uniqueness violation")
	// ErrDependencyProvisioning marks a failure to create a record another record depends on
	ErrDependencyProvisioning = errors.New("error creating client for serviceman")
)

// FieldError is a single failed field rule
type FieldError struct {
	Field   string
	Rule    string
	Message string
	Kind    error
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// ValidationError groups every field rule a record failed
type ValidationError struct {
	Entity string
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(messages, "; "))
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}

// ProvisioningError reports that a dependent record could not be created.
// The underlying persistence error stays reachable through errors.Is/As.
type ProvisioningError struct {
	Dependency string
	Err        error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("error creating %s for serviceman: %v", e.Dependency, e.Err)
}

func (e *ProvisioningError) Unwrap() []error {
	return []error{ErrDependencyProvisioning, e.Err}
}

// UniquenessError reports a unique constraint collision on Field
type UniquenessError struct {
	Entity string
	Field  string
	Err    error
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

func (e *UniquenessError) Unwrap() []error {
	return []error{ErrUniquenessViolation, e.Err}
}
