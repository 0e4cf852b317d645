package config

import (
	"fmt"
	"path/filepath"
	"strings"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/conneroisu/pagebuild/internal/logging"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Errors []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder
	for _, err := range vr.Errors {
		builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
		for _, suggestion := range err.Suggestions {
			builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
		}
	}
	return builder.String()
}

func (vr *ValidationResult) add(field string, value interface{}, message string, suggestions ...string) {
	vr.Errors = append(vr.Errors, ValidationError{
		Field:       field,
		Value:       value,
		Message:     message,
		Suggestions: suggestions,
	})
}

// Validate checks every setting and collects all problems rather than
// stopping at the first.
func Validate(config *Config) *ValidationResult {
	result := &ValidationResult{}

	validateLayoutConfig(&config.Layout, result)
	validateBuildConfig(&config.Build, result)
	validateLogConfig(&config.Log, result)

	return result
}

// validateConfig returns an ERR_CONFIG_INVALID error naming the first
// invalid field, with the full report in its context.
func validateConfig(config *Config) error {
	result := Validate(config)
	if !result.HasErrors() {
		return nil
	}

	first := result.Errors[0]
	return builderrors.NewConfigError(builderrors.ErrCodeConfigInvalid, first.Error()).
		WithContext("field", first.Field).
		WithContext("errors", len(result.Errors)).
		WithContext("report", result.String())
}

func validateLayoutConfig(config *LayoutConfig, result *ValidationResult) {
	if err := validatePath(config.WebDir); err != nil {
		result.add("layout.web_dir", config.WebDir, err.Error(),
			"Use a directory relative to the project root, such as \"web\"")
	}
	if err := validatePath(config.PagesDir); err != nil {
		result.add("layout.pages_dir", config.PagesDir, err.Error(),
			"Use a directory relative to layout.web_dir, such as \"pages\"")
	}
}

func validateBuildConfig(config *BuildConfig, result *ValidationResult) {
	switch {
	case strings.TrimSpace(config.Pattern) == "":
		result.add("build.pattern", config.Pattern, "pattern is empty", "The default pattern is \"*.html\"")
	case strings.ContainsAny(config.Pattern, `/\`):
		result.add("build.pattern", config.Pattern, "pattern must match file names, not paths")
	default:
		if _, err := filepath.Match(config.Pattern, ""); err != nil {
			result.add("build.pattern", config.Pattern, fmt.Sprintf("invalid glob pattern: %v", err))
		}
	}

	for _, ext := range config.Autoescape {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			result.add("build.autoescape", config.Autoescape, "empty extension in autoescape list")
			break
		}
	}
}

func validateLogConfig(config *LogConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		result.add("log.level", config.Level, err.Error())
	}
	switch config.Format {
	case "", "text", "json":
	default:
		result.add("log.format", config.Format, fmt.Sprintf("unknown log format %q", config.Format),
			"Valid formats: text, json")
	}
}

// validatePath validates a layout directory
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("path should be relative: %s", path)
	}

	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path contains traversal: %s", path)
		}
	}

	return nil
}
