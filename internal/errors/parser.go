// Package errors provides the structured error type used across pagebuild
// and helpers for turning Go template engine errors into located,
// human-readable diagnostics.
//
// Every failure in a build surfaces as a *BuildError carrying a type (io,
// template, config, ...) and a stable code. The command layer maps the type
// to an exit status; the parser extracts file and line information from the
// messages produced by text/template and html/template so the failing page
// can be reported precisely.
package errors

import (
	"regexp"
	"strconv"
	"strings"
)

// TemplateErrorKind classifies template engine failures.
type TemplateErrorKind int

const (
	TemplateErrorUnknown TemplateErrorKind = iota
	TemplateErrorSyntax
	TemplateErrorUndefinedFunction
	TemplateErrorMissingTemplate
	TemplateErrorExecution
	TemplateErrorEscaping
)

// String returns the string representation of the kind
func (k TemplateErrorKind) String() string {
	switch k {
	case TemplateErrorSyntax:
		return "syntax"
	case TemplateErrorUndefinedFunction:
		return "undefined function"
	case TemplateErrorMissingTemplate:
		return "missing template"
	case TemplateErrorExecution:
		return "execution"
	case TemplateErrorEscaping:
		return "escaping"
	default:
		return "unknown"
	}
}

// ParsedError represents a parsed template error with structured information
type ParsedError struct {
	Kind       TemplateErrorKind `json:"kind"`
	File       string            `json:"file"`
	Line       int               `json:"line"`
	Column     int               `json:"column"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	RawError   string            `json:"raw_error"`
}

// ErrorParser parses Go template engine errors into structured form
type ErrorParser struct {
	patterns []errorPattern
}

type errorPattern struct {
	regex      *regexp.Regexp
	kind       TemplateErrorKind
	suggestion string
}

// locationPattern matches the "template: name:line[:col]: msg" prefix that
// both text/template and html/template put on located errors.
var locationPattern = regexp.MustCompile(`^(?:html/)?template:\s*([^:\s]+):(\d+)(?::(\d+))?:\s*(.*)$`)

// NewErrorParser creates a new error parser
func NewErrorParser() *ErrorParser {
	return &ErrorParser{patterns: buildTemplatePatterns()}
}

func buildTemplatePatterns() []errorPattern {
	return []errorPattern{
		{
			regex:      regexp.MustCompile(`function "[^"]+" not defined`),
			kind:       TemplateErrorUndefinedFunction,
			suggestion: "Only the built-in functions and title, upper, lower, trim and default are available",
		},
		{
			regex:      regexp.MustCompile(`no such template|template: no template|template "[^"]+" not defined|is undefined|template not found`),
			kind:       TemplateErrorMissingTemplate,
			suggestion: "Template names are resolved relative to the web directory, e.g. {{template \"partials/nav.html\" .}}",
		},
		{
			regex:      regexp.MustCompile(`^executing |error calling|can't evaluate|wrong type|nil pointer`),
			kind:       TemplateErrorExecution,
			suggestion: "Pages are rendered with an empty context; guard optional values with {{with}} or the default function",
		},
		{
			regex:      regexp.MustCompile(`ends in a non-text context|in attribute name|in unquoted attr|branches end in different contexts|ambiguous context`),
			kind:       TemplateErrorEscaping,
			suggestion: "Check that tags and attribute quotes are balanced around template actions",
		},
		{
			regex:      regexp.MustCompile(`unexpected|unclosed|unterminated|missing value|bad character|illegal number|not a command|empty command|expected end`),
			kind:       TemplateErrorSyntax,
			suggestion: "Check the action delimiters {{ }} and that every if/range/with/block has a matching {{end}}",
		},
	}
}

// Parse parses a template engine error message. It returns nil for an empty
// message.
func (ep *ErrorParser) Parse(raw string) *ParsedError {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parsed := &ParsedError{
		Kind:     TemplateErrorUnknown,
		Message:  raw,
		RawError: raw,
	}

	if m := locationPattern.FindStringSubmatch(raw); m != nil {
		parsed.File = m[1]
		parsed.Line, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			parsed.Column, _ = strconv.Atoi(m[3])
		}
		parsed.Message = m[4]
	}

	for _, pattern := range ep.patterns {
		if pattern.regex.MatchString(parsed.Message) {
			parsed.Kind = pattern.kind
			parsed.Suggestion = pattern.suggestion
			break
		}
	}

	return parsed
}

// ParseTemplateError is a convenience wrapper around a default parser.
func ParseTemplateError(err error) *ParsedError {
	if err == nil {
		return nil
	}
	return defaultParser.Parse(err.Error())
}

var defaultParser = NewErrorParser()
