package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/pagebuild/internal/config"
	"github.com/stretchr/testify/require"
)

// CreateTempProject creates a temporary project with an empty web/pages
// directory and returns its root.
func CreateTempProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	err := os.MkdirAll(filepath.Join(root, "web", "pages"), 0755)
	require.NoError(t, err)

	return root
}

// CreateEmptyProject creates a temporary project root without a web
// directory.
func CreateEmptyProject(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// WritePage writes a page template to web/pages/name.
func WritePage(t *testing.T, root, name, content string) string {
	t.Helper()
	return WriteTemplate(t, root, "pages/"+name, content)
}

// WriteTemplate writes a template to web/<name>, creating parent
// directories. name is slash separated.
func WriteTemplate(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, "web", filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadOutput returns the content of the rendered file web/name.
func ReadOutput(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "web", name))
	require.NoError(t, err)
	return string(data)
}

// OutputExists reports whether web/name exists.
func OutputExists(root, name string) bool {
	_, err := os.Stat(filepath.Join(root, "web", name))
	return err == nil
}

// CreateTestConfig returns the default configuration rooted at root.
func CreateTestConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Root = root
	return cfg
}

// SecurityTestCases provides common security test vectors
var SecurityTestCases = struct {
	PathTraversal   []string
	ScriptInjection []string
}{
	PathTraversal: []string{
		"../../../etc/passwd",
		"..\\..\\..\\windows\\system32\\config\\sam",
		"/./../../etc/passwd",
		"../../../../../etc/passwd",
		"pages/../../secret.html",
		"/etc/passwd",
	},
	ScriptInjection: []string{
		"<script>alert('xss')</script>",
		"<img src=x onerror=alert('xss')>",
		"<svg onload=alert('xss')>",
		"<iframe src=javascript:alert('xss')>",
		"<body onload=alert('xss')>",
		"<script src=//evil.com/malicious.js></script>",
	},
}

// AssertFilePermissions checks that files have the expected permissions
func AssertFilePermissions(t *testing.T, path string, expectedMode os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)

	actualMode := info.Mode()
	require.Equal(t, expectedMode, actualMode&os.FileMode(0777),
		"File %s has incorrect permissions: got %o, want %o",
		path, actualMode&os.FileMode(0777), expectedMode)
}
