package cmd

import (
	"fmt"
	"strings"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddFlagValidation adds validation for a specific flag. Invalid values are
// rejected while flags are parsed, before the command runs.
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateFormat checks format against the supported output formats,
// ignoring case.
func ValidateFormat(format string, supported []string) error {
	for _, s := range supported {
		if strings.EqualFold(format, s) {
			return nil
		}
	}
	return builderrors.NewValidationError(builderrors.ErrCodeUnsupportedFormat,
		fmt.Sprintf("unsupported format %q (supported: %s)", format, strings.Join(supported, ", ")))
}
