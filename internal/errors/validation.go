package errors

import (
	stdErrors "errors"
	"fmt"
)

// ValidationError reports a required field that is empty after trimming.
type ValidationError struct {
	Field string
	Row   string // identifier or row label of the offending record
}

func (e *ValidationError) Error() string {
	if e.Row != "" {
		return fmt.Sprintf("required field %q is empty in %s", e.Field, e.Row)
	}
	return fmt.Sprintf("required field %q is empty", e.Field)
}

// NewValidationError creates a ValidationError for field in row
func NewValidationError(field, row string) *ValidationError {
	return &ValidationError{Field: field, Row: row}
}

// IsValidationError reports whether err is a ValidationError (even when wrapped).
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return stdErrors.As(err, &validationErr)
}

// EmptyFieldError reports a blank cell in an extracted lesson table.
type EmptyFieldError struct {
	Role string
	Row  string
}

func (e *EmptyFieldError) Error() string {
	if e.Row != "" {
		return fmt.Sprintf("%s shouldn't be empty in %s", e.Role, e.Row)
	}
	return fmt.Sprintf("%s shouldn't be empty", e.Role)
}

// NewEmptyFieldError creates an EmptyFieldError for role in row
func NewEmptyFieldError(role, row string) *EmptyFieldError {
	return &EmptyFieldError{Role: role, Row: row}
}

// IsEmptyFieldError reports whether err is an EmptyFieldError (even when wrapped).
func IsEmptyFieldError(err error) bool {
	var emptyErr *EmptyFieldError
	return stdErrors.As(err, &emptyErr)
}

// MissingColumnError reports a declared input column absent from the CSV header.
type MissingColumnError struct {
	Column string
	File   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q missing from %s", e.Column, e.File)
}

// NewMissingColumnError creates a MissingColumnError
func NewMissingColumnError(column, file string) *MissingColumnError {
	return &MissingColumnError{Column: column, File: file}
}

// IsMissingColumnError reports whether err is a MissingColumnError (even when wrapped).
func IsMissingColumnError(err error) bool {
	var columnErr *MissingColumnError
	return stdErrors.As(err, &columnErr)
}

// DuplicateIdentifierError reports an identifier seen twice in one batch.
type DuplicateIdentifierError struct {
	ID string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier %q", e.ID)
}

// NewDuplicateIdentifierError creates a DuplicateIdentifierError
func NewDuplicateIdentifierError(id string) *DuplicateIdentifierError {
	return &DuplicateIdentifierError{ID: id}
}

// IsDuplicateIdentifierError reports whether err is a DuplicateIdentifierError (even when wrapped).
func IsDuplicateIdentifierError(err error) bool {
	var dupErr *DuplicateIdentifierError
	return stdErrors.As(err, &dupErr)
}
