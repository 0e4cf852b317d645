package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// outputPerm is the permission requested for new output files, before the
// umask is applied. Existing files keep their mode.
const outputPerm fs.FileMode = 0666

// writeOutput replaces path with data. In atomic mode the content goes to a
// temporary file in the same directory that is then renamed over path, so a
// reader never observes a half-written page.
func writeOutput(path string, data []byte, atomicReplace bool) error {
	if !atomicReplace {
		return os.WriteFile(path, data, outputPerm)
	}

	tmp, err := createTemp(path)
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name) // no-op once renamed

	if err := fillTemp(tmp, path, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return atomic.ReplaceFile(name, path)
}

// fillTemp gives tmp the mode of the file it will replace and writes data.
func fillTemp(tmp *os.File, path string, data []byte) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	return tmp.Sync()
}

// createTemp creates a hidden file next to path. It is opened with
// outputPerm so that a new output ends up with the same mode a direct write
// would give it.
func createTemp(path string) (*os.File, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	for attempt := 0; ; attempt++ {
		name := filepath.Join(dir, fmt.Sprintf(".%s.%d.tmp", base, time.Now().UnixNano()))
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, outputPerm)
		if errors.Is(err, fs.ErrExist) && attempt < 100 {
			continue
		}
		return f, err
	}
}
