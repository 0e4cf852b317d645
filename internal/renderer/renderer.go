// Package renderer is the rendering environment pagebuild shares across all
// pages of a build: a template loader, an autoescape policy and a function
// map.
//
// Templates refer to one another by name with {{template "name" .}}. Names
// that are not defined by an already loaded template are resolved through
// the loader, so a page can pull in partials and layouts from anywhere under
// the search directory:
//
//	{{/* pages/about.html */}}
//	{{define "content"}}<h1>About</h1>{{end}}
//	{{template "layouts/base.html" .}}
//
//	{{/* layouts/base.html */}}
//	<main>{{block "content" .}}default{{end}}</main>
//
// Referenced templates are parsed before the templates that reference them,
// so a page's {{define}} replaces the {{block}} default of its layout.
//
// Templates whose name the autoescape policy accepts execute through
// html/template and get contextual escaping of every interpolated value;
// all others execute through text/template.
package renderer

import (
	"bytes"
	"context"
	"errors"
	htmltemplate "html/template"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/conneroisu/pagebuild/internal/loader"
	"github.com/conneroisu/pagebuild/internal/logging"
)

// Context is the data a template is executed with.
type Context map[string]any

// Environment holds the loader, escaping policy and functions used to render
// templates. It keeps no state between Render calls.
type Environment struct {
	loader     loader.Loader
	autoescape AutoescapePolicy
	funcs      map[string]any
	logger     logging.Logger
}

// Option configures an Environment.
type Option func(*Environment)

// WithAutoescape sets the policy deciding which templates are HTML-escaped.
func WithAutoescape(policy AutoescapePolicy) Option {
	return func(e *Environment) {
		if policy != nil {
			e.autoescape = policy
		}
	}
}

// WithFuncs adds functions to the environment, replacing defaults with the
// same name.
func WithFuncs(funcs map[string]any) Option {
	return func(e *Environment) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logging.Logger) Option {
	return func(e *Environment) {
		if logger != nil {
			e.logger = logger.WithComponent("renderer")
		}
	}
}

// New creates an Environment resolving template names through l. Without
// options, templates ending in .html, .htm or .xml are escaped and the
// default function map is installed.
func New(l loader.Loader, opts ...Option) *Environment {
	env := &Environment{
		loader:     l,
		autoescape: SelectAutoescape(),
		funcs:      DefaultFuncs(),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// Autoescapes reports whether the template called name is HTML-escaped.
func (e *Environment) Autoescapes(name string) bool {
	return e.autoescape(name)
}

// Render executes the template called name with ctx and returns the output.
// Nothing is returned on failure, so a caller never sees partial output.
func (e *Environment) Render(name string, ctx Context) (string, error) {
	if ctx == nil {
		ctx = Context{}
	}

	sources, err := e.resolve(name)
	if err != nil {
		return "", err
	}

	escape := e.autoescape(name)
	set := newTemplateSet(name, escape, e.funcs)

	paths := make(map[string]string, len(sources))
	for _, src := range sources {
		paths[src.Name] = src.Path
		if err := set.parse(src.Name, src.Content); err != nil {
			return "", locate(builderrors.NewTemplateError(builderrors.ErrCodeTemplateSyntax,
				"failed to parse "+src.Name, err), err, paths).WithPage(name)
		}
	}

	var buf bytes.Buffer
	if err := set.execute(&buf, name, ctx); err != nil {
		code := builderrors.ErrCodeRenderFailed
		var escErr *htmltemplate.Error
		if errors.As(err, &escErr) {
			code = builderrors.ErrCodeTemplateSyntax
		}
		return "", locate(builderrors.NewTemplateError(code,
			"failed to render "+name, err), err, paths).WithPage(name)
	}

	e.logger.Debug(context.Background(), "Rendered template",
		"template", name,
		"sources", len(sources),
		"autoescape", escape,
		"bytes", buf.Len(),
	)

	return buf.String(), nil
}

// locate copies the file and line reported by the template engine onto be,
// translating template names to the paths they were loaded from.
func locate(be *builderrors.BuildError, cause error, paths map[string]string) *builderrors.BuildError {
	parsed := builderrors.ParseTemplateError(cause)
	if parsed == nil || parsed.File == "" {
		return be
	}
	file := parsed.File
	if p, ok := paths[file]; ok {
		file = p
	}
	return be.WithLocation(file, parsed.Line, parsed.Column)
}
