package loader

import (
	"errors"
	"io/fs"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
)

// FSLoader loads templates from an fs.FS, such as an embed.FS or
// fstest.MapFS. Implements Loader interface.
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader creates an FSLoader rooted at fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// Load reads name from the underlying filesystem.
func (l *FSLoader) Load(name string) (*Source, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, builderrors.InvalidTemplateName(name)
	}

	content, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, builderrors.TemplateNotFound(name, err)
		}
		return nil, builderrors.NewIOError(builderrors.ErrCodeReadFailed, "failed to read template "+name, err)
	}

	return &Source{Name: name, Path: name, Content: string(content)}, nil
}

// Compile-time interface check.
var _ Loader = (*FSLoader)(nil)
