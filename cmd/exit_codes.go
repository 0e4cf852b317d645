package cmd

import (
	"errors"
	"os"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
)

// Exit codes for the pagebuild CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Every page built
	ExitGeneral  = 1 // General/unexpected error, including an interrupted build
	ExitUsage    = 2 // Invalid arguments, flags or configuration
	ExitIO       = 3 // Missing pages directory, unreadable template, failed write
	ExitTemplate = 4 // Template not found, syntax error or execution failure
)

// exitCodeFor returns the appropriate exit code for an error.
// Structured errors are classified by their type; other errors by the
// sentinels they wrap.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	var be *builderrors.BuildError
	if errors.As(err, &be) {
		switch be.Type {
		case builderrors.ErrorTypeTemplate:
			return ExitTemplate
		case builderrors.ErrorTypeIO, builderrors.ErrorTypeSecurity:
			return ExitIO
		case builderrors.ErrorTypeConfig:
			return ExitUsage
		case builderrors.ErrorTypeValidation:
			// Bad template names come from template text, bad paths from
			// configuration.
			if be.Code == builderrors.ErrCodeInvalidTemplateName {
				return ExitTemplate
			}
			return ExitUsage
		default:
			return ExitGeneral
		}
	}

	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
