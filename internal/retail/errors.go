package retail

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// CodeConstraintViolation indicates an insert broke a primary key, unique,
	// foreign key, check or not-null constraint.
	CodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"

	// CodeNotFound indicates a lookup returned nothing.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeValidation indicates input was rejected before touching storage.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeIDExhausted indicates identifier allocation gave up after its attempt budget.
	CodeIDExhausted ErrorCode = "ID_EXHAUSTED"
)

// ConstraintKind names the constraint that failed.
type ConstraintKind string

const (
	ConstraintPrimaryKey ConstraintKind = "primary_key"
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintOther      ConstraintKind = "other"
)

// Error is the typed error reported by stores and workflows.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed (e.g. "place order").
	Op string

	// Table is the affected table, when known.
	Table string

	// Constraint is set for CodeConstraintViolation.
	Constraint ConstraintKind

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Table != "" && e.Constraint != "":
		return fmt.Sprintf("%s: %s: %s (table=%s, constraint=%s)", e.Op, e.Code, msg, e.Table, e.Constraint)
	case e.Table != "":
		return fmt.Sprintf("%s: %s: %s (table=%s)", e.Op, e.Code, msg, e.Table)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a CodeNotFound error.
func NewNotFoundError(op, table, message string) *Error {
	return &Error{Code: CodeNotFound, Op: op, Table: table, Message: message}
}

// NewValidationError creates a CodeValidation error.
func NewValidationError(op, message string) *Error {
	return &Error{Code: CodeValidation, Op: op, Message: message}
}

// NewConstraintError creates a CodeConstraintViolation error wrapping the driver error.
func NewConstraintError(op, table string, kind ConstraintKind, err error) *Error {
	return &Error{Code: CodeConstraintViolation, Op: op, Table: table, Constraint: kind, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsNotFound reports whether err is a CodeNotFound error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsConstraint reports whether err is a CodeConstraintViolation error.
func IsConstraint(err error) bool {
	return CodeOf(err) == CodeConstraintViolation
}

// IsValidation reports whether err is a CodeValidation error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// IsKeyConflict reports whether err is a primary key or unique violation.
// Identifier allocation retries on these.
func IsKeyConflict(err error) bool {
	var re *Error
	if !errors.As(err, &re) || re.Code != CodeConstraintViolation {
		return false
	}
	return re.Constraint == ConstraintPrimaryKey || re.Constraint == ConstraintUnique
}
