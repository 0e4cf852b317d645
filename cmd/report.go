package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/conneroisu/pagebuild/internal/config"
	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/spf13/viper"
)

// printError writes err and any suggestions for fixing it to w. Invalid
// configuration also gets the full validation report.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	if report := validationReport(err); report != "" {
		fmt.Fprintf(w, "\nConfiguration problems:\n%s", report)
	}

	suggestions := builderrors.SuggestionsFor(err, suggestionContext())
	for _, s := range suggestions {
		fmt.Fprintf(w, "\nhint: %s\n", s.Title)
		if s.Description != "" {
			fmt.Fprintf(w, "  %s\n", s.Description)
		}
		if s.Command != "" {
			fmt.Fprintf(w, "  $ %s\n", s.Command)
		}
		if s.Example != "" {
			for _, line := range strings.Split(s.Example, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}

// validationReport returns the per-field report attached to a configuration
// validation error, if any.
func validationReport(err error) string {
	var be *builderrors.BuildError
	if !errors.As(err, &be) || be.Code != builderrors.ErrCodeConfigInvalid {
		return ""
	}
	report, _ := be.Context["report"].(string)
	return report
}

// suggestionContext describes the configured layout for suggestions. It
// reads Viper directly so it works even when the configuration is invalid.
func suggestionContext() *builderrors.SuggestionContext {
	webDir := viper.GetString("layout.web_dir")
	if webDir == "" {
		webDir = config.DefaultWebDir
	}
	pagesDir := viper.GetString("layout.pages_dir")
	if pagesDir == "" {
		pagesDir = config.DefaultPagesDir
	}

	return &builderrors.SuggestionContext{
		SourceDir:  filepath.ToSlash(filepath.Join(webDir, pagesDir)),
		SearchDir:  filepath.ToSlash(webDir),
		ConfigPath: viper.ConfigFileUsed(),
	}
}
