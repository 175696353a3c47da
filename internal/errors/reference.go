package errors

import (
	stdErrors "errors"
	"fmt"
)

// MalformedReferenceError represents an asset reference or identifier that
// doesn't follow the expected naming convention.
type MalformedReferenceError struct {
	Reference string
	Reason    string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("malformed reference %q: %s", e.Reference, e.Reason)
}

// NewMalformedReferenceError creates a new MalformedReferenceError
func NewMalformedReferenceError(reference, reason string) *MalformedReferenceError {
	return &MalformedReferenceError{Reference: reference, Reason: reason}
}

// IsMalformedReferenceError checks if error is a MalformedReferenceError
func IsMalformedReferenceError(err error) bool {
	var refErr *MalformedReferenceError
	return stdErrors.As(err, &refErr)
}

// UnknownChapterError is returned when no chapter slug matches a lesson link.
type UnknownChapterError struct {
	Source string
}

func (e *UnknownChapterError) Error() string {
	return fmt.Sprintf("no chapter matches %q", e.Source)
}

// NewUnknownChapterError creates a new UnknownChapterError
func NewUnknownChapterError(source string) *UnknownChapterError {
	return &UnknownChapterError{Source: source}
}

// IsUnknownChapterError checks if error is an UnknownChapterError
func IsUnknownChapterError(err error) bool {
	var chapterErr *UnknownChapterError
	return stdErrors.As(err, &chapterErr)
}

// MissingAudioError is returned when a lesson table row lacks an audio URL.
type MissingAudioError struct {
	Attribute string
	Row       string
}

func (e *MissingAudioError) Error() string {
	return fmt.Sprintf("%s shouldn't be empty in %s", e.Attribute, e.Row)
}

// NewMissingAudioError creates a new MissingAudioError
func NewMissingAudioError(attribute, row string) *MissingAudioError {
	return &MissingAudioError{Attribute: attribute, Row: row}
}

// IsMissingAudioError checks if error is a MissingAudioError
func IsMissingAudioError(err error) bool {
	var audioErr *MissingAudioError
	return stdErrors.As(err, &audioErr)
}
