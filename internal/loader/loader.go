// Package loader resolves template names to template sources.
//
// Names are slash-separated and relative to a search directory, the way
// pages refer to each other in {{template "partials/nav.html" .}}. A loader
// never hands out a file outside its search directory.
package loader

import (
	"path"
	"strings"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
)

// Source is the raw text of one template together with where it came from.
type Source struct {
	Name    string // Template name as requested (e.g. "pages/index.html")
	Path    string // Resolved location, used in diagnostics
	Content string
}

// Loader defines the contract for resolving template names.
// Implementations may load from a directory on disk or any fs.FS.
type Loader interface {
	// Load returns the source for name.
	// Returns an error matching errors.ErrTemplateNotFound if name does not
	// resolve and errors.ErrInvalidTemplateName if name is malformed.
	Load(name string) (*Source, error)
}

// ValidateName checks that a template name is a clean, relative,
// slash-separated path that stays inside the search directory.
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, "\\\x00") {
		return builderrors.InvalidTemplateName(name)
	}
	if path.IsAbs(name) {
		return builderrors.InvalidTemplateName(name)
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return builderrors.InvalidTemplateName(name)
		}
	}
	return nil
}
