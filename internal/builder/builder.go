// Package builder renders every page template of a project into its web
// directory.
//
// With the default layout each <root>/web/pages/<name>.html is rendered as
// template "pages/<name>.html", with <root>/web as the template search
// directory, and written to <root>/web/<name>.html. Pages are processed one
// at a time in lexicographic order and the first failure stops the build.
// Files written before the failure stay on disk.
package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/conneroisu/pagebuild/internal/config"
	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/conneroisu/pagebuild/internal/loader"
	"github.com/conneroisu/pagebuild/internal/logging"
	"github.com/conneroisu/pagebuild/internal/renderer"
)

// Page is one page template and the file it renders to.
type Page struct {
	Name     string `json:"name" yaml:"name"`         // File name, e.g. "index.html"
	Template string `json:"template" yaml:"template"` // Template name, e.g. "pages/index.html"
	Source   string `json:"source" yaml:"source"`     // Path of the template file
	Output   string `json:"output" yaml:"output"`     // Path of the rendered file
}

// BuiltPage records the outcome of building one page.
type BuiltPage struct {
	Page
	Bytes   int  `json:"bytes" yaml:"bytes"`
	Written bool `json:"written" yaml:"written"` // false in dry-run mode
}

// Result lists the pages a build processed, in build order. Duration is
// set whether or not the build succeeded.
type Result struct {
	Pages    []BuiltPage   `json:"pages" yaml:"pages"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Builder renders the pages of one project.
type Builder struct {
	config   *config.Config
	env      *renderer.Environment
	progress io.Writer
	logger   logging.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithProgress sets where the per-page progress lines go. Defaults to stdout.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) {
		if w != nil {
			b.progress = w
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger logging.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger.WithComponent("builder")
		}
	}
}

// WithEnvironment replaces the rendering environment built from the
// configuration.
func WithEnvironment(env *renderer.Environment) Option {
	return func(b *Builder) {
		b.env = env
	}
}

// New creates a Builder for cfg. Nothing is read from disk until Discover
// or BuildAll is called.
func New(cfg *config.Config, opts ...Option) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	b := &Builder{
		config:   cfg,
		progress: os.Stdout,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Discover returns the pages BuildAll would build, sorted by file name.
// Directories whose names match the pattern are skipped.
func (b *Builder) Discover() ([]Page, error) {
	pagesDir := b.config.PagesPath()

	info, err := os.Stat(pagesDir)
	if err != nil {
		return nil, builderrors.SourceDirNotFound(b.relPagesDir(), err)
	}
	if !info.IsDir() {
		return nil, builderrors.SourceDirNotFound(b.relPagesDir(), nil)
	}

	// ReadDir sorts entries by file name.
	entries, err := os.ReadDir(pagesDir)
	if err != nil {
		return nil, builderrors.WrapIO(err, builderrors.ErrCodeReadFailed, "failed to list "+b.relPagesDir())
	}

	var pages []Page
	for _, entry := range entries {
		matched, err := filepath.Match(b.config.Build.Pattern, entry.Name())
		if err != nil {
			return nil, builderrors.WrapConfig(err, "invalid build pattern "+b.config.Build.Pattern)
		}
		if !matched {
			continue
		}

		source := filepath.Join(pagesDir, entry.Name())
		if isDir(entry, source) {
			b.logger.Warn(context.Background(), nil, "Skipping directory matching page pattern",
				"path", source,
				"pattern", b.config.Build.Pattern,
			)
			continue
		}

		pages = append(pages, Page{
			Name:     entry.Name(),
			Template: path.Join(filepath.ToSlash(b.config.Layout.PagesDir), entry.Name()),
			Source:   source,
			Output:   filepath.Join(b.config.WebPath(), entry.Name()),
		})
	}

	return pages, nil
}

// BuildAll renders and writes every page. It stops at the first error and
// returns the pages completed before it alongside the error. Errors are
// returned, not logged; reporting them is up to the caller.
func (b *Builder) BuildAll(ctx context.Context) (*Result, error) {
	op := logging.StartOperation(b.logger, "build")
	start := time.Now()
	result := &Result{}

	fail := func(err error) (*Result, error) {
		result.Duration = time.Since(start)
		op.End(ctx, "pages", len(result.Pages), "error", err.Error())
		return result, err
	}

	pages, err := b.Discover()
	if err != nil {
		return fail(err)
	}

	env, err := b.environment()
	if err != nil {
		return fail(err)
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return fail(builderrors.NewInternalError(builderrors.ErrCodeBuildCanceled,
				"build canceled before "+page.Name, err))
		}

		built, err := b.buildPage(ctx, env, page)
		if err != nil {
			return fail(err)
		}
		result.Pages = append(result.Pages, built)
	}

	result.Duration = time.Since(start)
	op.End(ctx, "pages", len(result.Pages), "dry_run", b.config.Build.DryRun)
	return result, nil
}

func (b *Builder) buildPage(ctx context.Context, env *renderer.Environment, page Page) (BuiltPage, error) {
	built := BuiltPage{Page: page}

	html, err := env.Render(page.Template, renderer.Context{})
	if err != nil {
		return built, err
	}
	built.Bytes = len(html)

	display := b.displayPath(page.Name)
	if b.config.Build.DryRun {
		fmt.Fprintf(b.progress, "Would build %s\n", display)
		return built, nil
	}

	if err := writeOutput(page.Output, []byte(html), b.config.Build.Atomic); err != nil {
		return built, builderrors.WriteFailed(display, err).WithPage(page.Name)
	}
	built.Written = true

	b.logger.Debug(ctx, "Wrote page",
		"page", page.Name,
		"output", page.Output,
		"bytes", built.Bytes,
		"atomic", b.config.Build.Atomic,
	)
	fmt.Fprintf(b.progress, "Built %s\n", display)

	return built, nil
}

// environment returns the configured rendering environment, creating one
// that searches the web directory if none was supplied.
func (b *Builder) environment() (*renderer.Environment, error) {
	if b.env != nil {
		return b.env, nil
	}

	l, err := loader.NewFilesystemLoader(b.config.WebPath())
	if err != nil {
		return nil, err
	}

	var policy renderer.AutoescapePolicy = renderer.NeverAutoescape
	if len(b.config.Build.Autoescape) > 0 {
		policy = renderer.SelectAutoescape(b.config.Build.Autoescape...)
	}

	b.env = renderer.New(l,
		renderer.WithAutoescape(policy),
		renderer.WithLogger(b.logger),
	)
	return b.env, nil
}

// displayPath is the output path relative to the project root, as shown in
// progress lines.
func (b *Builder) displayPath(name string) string {
	return filepath.Join(b.config.Layout.WebDir, name)
}

func (b *Builder) relPagesDir() string {
	return filepath.ToSlash(filepath.Join(b.config.Layout.WebDir, b.config.Layout.PagesDir))
}

// isDir reports whether entry is a directory or a symlink to one.
func isDir(entry os.DirEntry, full string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}
