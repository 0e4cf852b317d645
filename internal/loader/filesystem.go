package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
)

// FilesystemLoader loads templates from a directory on the filesystem.
// Implements Loader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given search directory.
// Fails with ERR_INVALID_PATH if the path is not a readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, builderrors.ErrInvalidPath("empty path")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, builderrors.WrapValidation(err, builderrors.ErrCodeInvalidPath, "invalid path: "+basePath)
	}

	// Resolve symlinks in base path for consistent containment checks
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, builderrors.WrapValidation(err, builderrors.ErrCodeInvalidPath, "invalid path: "+absPath)
	}
	if !info.IsDir() {
		return nil, builderrors.ErrInvalidPath("not a directory: " + absPath)
	}

	if _, err := os.ReadDir(absPath); err != nil {
		return nil, builderrors.WrapValidation(err, builderrors.ErrCodeInvalidPath, "cannot read directory: "+absPath)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// BasePath returns the absolute search directory.
func (f *FilesystemLoader) BasePath() string {
	return f.basePath
}

// Load reads {basePath}/{name}.
func (f *FilesystemLoader) Load(name string) (*Source, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	filePath := filepath.Join(f.basePath, filepath.FromSlash(name))

	resolved, err := f.verifyPathContainment(filePath)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(resolved) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, builderrors.TemplateNotFound(name, err)
		}
		return nil, builderrors.NewIOError(builderrors.ErrCodeReadFailed,
			fmt.Sprintf("failed to read template %s", name), err).WithLocation(filePath, 0, 0)
	}

	return &Source{Name: name, Path: filePath, Content: string(content)}, nil
}

// verifyPathContainment ensures the resolved file path is within basePath,
// following symlinks so a link cannot point outside the search directory.
func (f *FilesystemLoader) verifyPathContainment(filePath string) (string, error) {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return "", builderrors.ErrPathTraversal(filePath)
	}

	// If EvalSymlinks fails (missing file) keep the unresolved path; the read
	// fails with not-exist afterwards and the prefix check still applies.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return "", builderrors.ErrPathTraversal(filePath)
	}

	return absFilePath, nil
}

// Compile-time interface check.
var _ Loader = (*FilesystemLoader)(nil)
