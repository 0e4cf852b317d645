package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a BuildError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *BuildError {
	if err == nil {
		return nil
	}

	// If it's already a BuildError, keep its location and page but update the message
	var be *BuildError
	if errors.As(err, &be) {
		return &BuildError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Cause:    be,
			Context:  be.Context,
			Page:     be.Page,
			FilePath: be.FilePath,
			Line:     be.Line,
			Column:   be.Column,
		}
	}

	return &BuildError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapTemplate wraps an error as a template error for the given page
func WrapTemplate(err error, code, message, page string) *BuildError {
	wrapped := Wrap(err, ErrorTypeTemplate, code, message)
	if wrapped != nil {
		wrapped.Page = page
	}
	return wrapped
}

// WrapValidation wraps an error as a validation error
func WrapValidation(err error, code, message string) *BuildError {
	return Wrap(err, ErrorTypeValidation, code, message)
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *BuildError {
	return Wrap(err, ErrorTypeIO, code, message)
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, message string) *BuildError {
	return Wrap(err, ErrorTypeConfig, ErrCodeConfigInvalid, message)
}

// RootCause follows the Unwrap chain to the innermost error, which for
// template failures is the raw engine error.
func RootCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}
