package errors

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// SuggestionContext provides context for generating suggestions
type SuggestionContext struct {
	SourceDir  string
	SearchDir  string
	ConfigPath string
}

// SuggestionsFor returns suggestions for the error's code. Errors that are
// not BuildErrors get none.
func SuggestionsFor(err error, ctx *SuggestionContext) []ErrorSuggestion {
	if ctx == nil {
		ctx = &SuggestionContext{SourceDir: "web/pages", SearchDir: "web"}
	}

	switch CodeOf(err) {
	case ErrCodeSourceDirNotFound:
		return []ErrorSuggestion{
			{
				Title:       "Run from the project root",
				Description: "Pages are read from " + ctx.SourceDir + " relative to the project root",
				Command:     "pagebuild --root /path/to/project",
			},
			{
				Title:   "Create the pages directory",
				Command: "mkdir -p " + ctx.SourceDir,
			},
		}
	case ErrCodeTemplateNotFound:
		return []ErrorSuggestion{
			{
				Title:       "Check the template name",
				Description: "Included templates are looked up relative to " + ctx.SearchDir,
				Example:     `{{template "partials/header.html" .}}`,
			},
		}
	case ErrCodeTemplateSyntax, ErrCodeRenderFailed:
		suggestions := []ErrorSuggestion{}
		if parsed := ParseTemplateError(RootCause(err)); parsed != nil && parsed.Suggestion != "" {
			suggestions = append(suggestions, ErrorSuggestion{
				Title:       "Fix the " + parsed.Kind.String() + " error",
				Description: parsed.Suggestion,
			})
		}
		return suggestions
	case ErrCodeWriteFailed:
		return []ErrorSuggestion{
			{
				Title:       "Check permissions",
				Description: "The output directory " + ctx.SearchDir + " must be writable",
				Command:     "ls -ld " + ctx.SearchDir,
			},
		}
	case ErrCodeConfigInvalid:
		if ctx.ConfigPath == "" {
			return nil
		}
		return []ErrorSuggestion{
			{
				Title:   "Review the configuration file",
				Command: "cat " + ctx.ConfigPath,
				Example: "layout:\n  web_dir: web\n  pages_dir: pages",
			},
		}
	}

	return nil
}
