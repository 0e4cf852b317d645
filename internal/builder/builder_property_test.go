//go:build property
// +build property

package builder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/conneroisu/pagebuild/internal/config"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// newPropertyProject writes one page per name and returns the project root.
func newPropertyProject(t *testing.T, names []string) string {
	root := t.TempDir()
	pages := filepath.Join(root, "web", "pages")
	if err := os.MkdirAll(pages, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		content := "<p>{{`" + name + " & <co>`}}</p>"
		if err := os.WriteFile(filepath.Join(pages, name+".html"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func propertyConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Root = root
	return cfg
}

func uniqueNames(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range names {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// TestBuildProperties validates the page-to-output mapping of a build
func TestBuildProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234) // For reproducible results
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// Property: every page produces exactly one output with the same name
	properties.Property("one output per page", prop.ForAll(
		func(raw []string) bool {
			names := uniqueNames(raw)
			root := newPropertyProject(t, names)

			result, err := New(propertyConfig(root), WithProgress(&bytes.Buffer{})).BuildAll(context.Background())
			if err != nil || len(result.Pages) != len(names) {
				return false
			}

			entries, err := os.ReadDir(filepath.Join(root, "web"))
			if err != nil {
				return false
			}
			outputs := 0
			for _, e := range entries {
				if !e.IsDir() {
					outputs++
				}
			}
			return outputs == len(names)
		},
		gen.SliceOf(gen.Identifier()),
	))

	// Property: progress lines are in lexicographic file name order
	properties.Property("progress is sorted", prop.ForAll(
		func(raw []string) bool {
			names := uniqueNames(raw)
			root := newPropertyProject(t, names)

			var progress bytes.Buffer
			if _, err := New(propertyConfig(root), WithProgress(&progress)).BuildAll(context.Background()); err != nil {
				return false
			}

			lines := strings.Split(strings.TrimSuffix(progress.String(), "\n"), "\n")
			if len(names) == 0 {
				return progress.Len() == 0
			}
			return len(lines) == len(names) && sort.StringsAreSorted(lines)
		},
		gen.SliceOf(gen.Identifier()),
	))

	// Property: a second build leaves every output byte-identical
	properties.Property("builds are idempotent", prop.ForAll(
		func(raw []string) bool {
			names := uniqueNames(raw)
			root := newPropertyProject(t, names)
			cfg := propertyConfig(root)

			snapshot := func() map[string]string {
				out := make(map[string]string)
				for _, n := range names {
					data, err := os.ReadFile(filepath.Join(root, "web", n+".html"))
					if err != nil {
						return nil
					}
					out[n] = string(data)
				}
				return out
			}

			if _, err := New(cfg, WithProgress(&bytes.Buffer{})).BuildAll(context.Background()); err != nil {
				return false
			}
			first := snapshot()
			if _, err := New(cfg, WithProgress(&bytes.Buffer{})).BuildAll(context.Background()); err != nil {
				return false
			}
			second := snapshot()

			if first == nil || second == nil || len(first) != len(second) {
				return false
			}
			for k, v := range first {
				if second[k] != v || strings.Contains(v, "<co>") {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
