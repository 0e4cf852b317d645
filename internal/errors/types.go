package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeTemplate   ErrorType = "template"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// BuildError is a structured error type with context.
type BuildError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	Page     string
	FilePath string
	Line     int
	Column   int
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Page != "" {
		parts = append(parts, "page:"+e.Page)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
			if e.Column > 0 {
				location += fmt.Sprintf(":%d", e.Column)
			}
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison. Two build errors match when their type and
// code are equal, so callers can compare against the sentinels below.
func (e *BuildError) Is(target error) bool {
	var t *BuildError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *BuildError) WithContext(key string, value interface{}) *BuildError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *BuildError) WithLocation(filePath string, line, column int) *BuildError {
	e.FilePath = filePath
	e.Line = line
	e.Column = column

	return e
}

// WithPage adds the page being built when the error occurred.
func (e *BuildError) WithPage(page string) *BuildError {
	e.Page = page

	return e
}

// Error creation functions

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *BuildError {
	return &BuildError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *BuildError {
	return &BuildError{
		Type:    ErrorTypeSecurity,
		Code:    code,
		Message: message,
	}
}

// NewTemplateError creates a template resolution, parse or render error.
func NewTemplateError(code, message string, cause error) *BuildError {
	return &BuildError{
		Type:    ErrorTypeTemplate,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *BuildError {
	return &BuildError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *BuildError {
	return &BuildError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *BuildError {
	return &BuildError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// TypeOf returns the type of the outermost BuildError in err's chain, or
// ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Type
	}

	return ErrorTypeInternal
}

// CodeOf returns the code of the outermost BuildError in err's chain.
func CodeOf(err error) string {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code
	}

	return ""
}

// Common error codes.
const (
	ErrCodeInvalidPath         = "ERR_INVALID_PATH"
	ErrCodePathTraversal       = "ERR_PATH_TRAVERSAL"
	ErrCodeSourceDirNotFound   = "ERR_SOURCE_DIR_NOT_FOUND"
	ErrCodeInvalidTemplateName = "ERR_INVALID_TEMPLATE_NAME"
	ErrCodeTemplateNotFound    = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeTemplateSyntax      = "ERR_TEMPLATE_SYNTAX"
	ErrCodeRenderFailed        = "ERR_RENDER_FAILED"
	ErrCodeReadFailed          = "ERR_READ_FAILED"
	ErrCodeWriteFailed         = "ERR_WRITE_FAILED"
	ErrCodeConfigInvalid       = "ERR_CONFIG_INVALID"
	ErrCodeBuildCanceled       = "ERR_BUILD_CANCELED"
	ErrCodeUnsupportedFormat   = "ERR_UNSUPPORTED_FORMAT"
)

// Sentinels for errors.Is comparisons. Only Type and Code take part in the
// comparison, so any error built with the same pair matches.
var (
	ErrSourceDirNotFound     = &BuildError{Type: ErrorTypeIO, Code: ErrCodeSourceDirNotFound}
	ErrTemplateNotFound      = &BuildError{Type: ErrorTypeTemplate, Code: ErrCodeTemplateNotFound}
	ErrTemplateSyntax        = &BuildError{Type: ErrorTypeTemplate, Code: ErrCodeTemplateSyntax}
	ErrRenderFailed          = &BuildError{Type: ErrorTypeTemplate, Code: ErrCodeRenderFailed}
	ErrInvalidTemplateName   = &BuildError{Type: ErrorTypeValidation, Code: ErrCodeInvalidTemplateName}
	ErrWriteFailed           = &BuildError{Type: ErrorTypeIO, Code: ErrCodeWriteFailed}
	ErrPathTraversalDetected = &BuildError{Type: ErrorTypeSecurity, Code: ErrCodePathTraversal}
	ErrConfigInvalid         = &BuildError{Type: ErrorTypeConfig, Code: ErrCodeConfigInvalid}
)

// Helper functions for common errors

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *BuildError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}

// ErrPathTraversal creates a path traversal security error.
func ErrPathTraversal(path string) *BuildError {
	return NewSecurityError(ErrCodePathTraversal, "path escapes search directory: "+path)
}

// SourceDirNotFound reports a missing template source directory. rel is the
// directory relative to the project root.
func SourceDirNotFound(rel string, cause error) *BuildError {
	return NewIOError(ErrCodeSourceDirNotFound, rel+" not found.", cause)
}

// TemplateNotFound reports a template name the loader could not resolve.
func TemplateNotFound(name string, cause error) *BuildError {
	return NewTemplateError(ErrCodeTemplateNotFound, "template not found: "+name, cause)
}

// InvalidTemplateName reports a template name that is absolute or climbs out
// of the search directory.
func InvalidTemplateName(name string) *BuildError {
	return NewValidationError(ErrCodeInvalidTemplateName, "invalid template name: "+name)
}

// WriteFailed reports an output file that could not be written.
func WriteFailed(path string, cause error) *BuildError {
	return NewIOError(ErrCodeWriteFailed, "failed to write "+path, cause).
		WithLocation(path, 0, 0)
}
