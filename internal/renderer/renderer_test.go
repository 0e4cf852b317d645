package renderer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/conneroisu/pagebuild/internal/loader"
	"github.com/conneroisu/pagebuild/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newTestEnv(t *testing.T, files map[string]string, opts ...Option) *Environment {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return New(loader.NewFSLoader(fsys), opts...)
}

// textOf returns the text content of the first element called tag in doc.
func textOf(t *testing.T, doc, tag string) string {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == tag {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}

	node := find(root)
	require.NotNil(t, node, "no <%s> in %q", tag, doc)

	var sb strings.Builder
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func TestRenderPlain(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/index.html": "<h1>Home</h1>\n",
	})

	out, err := env.Render("pages/index.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Home</h1>\n", out)
}

func TestRenderAutoescape(t *testing.T) {
	files := map[string]string{
		"pages/index.html": "<p>{{.name}}</p>",
		"notes/index.txt":  "<p>{{.name}}</p>",
	}
	value := `<script>alert("x")</script> & more`

	t.Run("html templates are escaped", func(t *testing.T) {
		env := newTestEnv(t, files)

		out, err := env.Render("pages/index.html", Context{"name": value})
		require.NoError(t, err)

		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "&lt;script&gt;")
		assert.Equal(t, value, textOf(t, out, "p"), "escaped text must decode back to the value")
	})

	t.Run("other templates are not", func(t *testing.T) {
		env := newTestEnv(t, files)

		out, err := env.Render("notes/index.txt", Context{"name": value})
		require.NoError(t, err)
		assert.Equal(t, "<p>"+value+"</p>", out)
	})

	t.Run("policy can be replaced", func(t *testing.T) {
		env := newTestEnv(t, files, WithAutoescape(NeverAutoescape))

		out, err := env.Render("pages/index.html", Context{"name": value})
		require.NoError(t, err)
		assert.Contains(t, out, "<script>")
		assert.False(t, env.Autoescapes("pages/index.html"))
	})

	t.Run("nil policy keeps default", func(t *testing.T) {
		env := newTestEnv(t, files, WithAutoescape(nil))
		assert.True(t, env.Autoescapes("pages/index.html"))
	})
}

func TestRenderEmptyContext(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/index.html": "<p>[{{.missing}}]</p>",
	})

	out, err := env.Render("pages/index.html", Context{})
	require.NoError(t, err)
	assert.Equal(t, "<p>[]</p>", out)
}

func TestRenderIncludes(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/index.html":    `<body>{{template "partials/nav.html" .}}<main>home</main></body>`,
		"partials/nav.html":   `<nav>{{template "partials/links.html" .}}</nav>`,
		"partials/links.html": `<a href="/">Home</a>`,
	})

	out, err := env.Render("pages/index.html", nil)
	require.NoError(t, err)
	assert.Equal(t, `<body><nav><a href="/">Home</a></nav><main>home</main></body>`, out)
}

func TestRenderLayoutInheritance(t *testing.T) {
	files := map[string]string{
		"layouts/base.html": `<title>{{block "title" .}}Site{{end}}</title><main>{{block "content" .}}default{{end}}</main>`,
		"pages/about.html":  `{{define "content"}}<h1>About</h1>{{end}}{{template "layouts/base.html" .}}`,
		"pages/plain.html":  `{{template "layouts/base.html" .}}`,
	}

	t.Run("page overrides block", func(t *testing.T) {
		env := newTestEnv(t, files)

		out, err := env.Render("pages/about.html", nil)
		require.NoError(t, err)
		assert.Equal(t, `<title>Site</title><main><h1>About</h1></main>`, out)
	})

	t.Run("block default without override", func(t *testing.T) {
		env := newTestEnv(t, files)

		out, err := env.Render("pages/plain.html", nil)
		require.NoError(t, err)
		assert.Equal(t, `<title>Site</title><main>default</main>`, out)
	})

	t.Run("renders are independent", func(t *testing.T) {
		env := newTestEnv(t, files)

		_, err := env.Render("pages/about.html", nil)
		require.NoError(t, err)
		out, err := env.Render("pages/plain.html", nil)
		require.NoError(t, err)
		assert.Contains(t, out, "default")
	})
}

func TestRenderNameDefinedByLaterInclude(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/index.html":   `{{template "footer" .}}{{template "partials/defs.html" .}}`,
		"partials/defs.html": `{{define "footer"}}<footer>f</footer>{{end}}`,
	})

	out, err := env.Render("pages/index.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "<footer>f</footer>", out)
}

func TestRenderCyclicIncludes(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/index.html": `{{if .deep}}{{template "pages/other.html" .}}{{end}}top`,
		"pages/other.html": `{{if .never}}{{template "pages/index.html" .}}{{end}}other`,
	})

	out, err := env.Render("pages/index.html", Context{"deep": true})
	require.NoError(t, err)
	assert.Equal(t, "othertop", out)
}

func TestRenderErrors(t *testing.T) {
	files := map[string]string{
		"pages/missing-include.html": "<div>\n{{template \"partials/nope.html\" .}}</div>",
		"pages/bad-syntax.html":      "<p>ok</p>\n<p>{{.name</p>",
		"pages/bad-partial.html":     `{{template "partials/broken.html" .}}`,
		"partials/broken.html":       "{{if}}",
		"pages/bad-func.html":        `{{nope .name}}`,
		"pages/bad-exec.html":        `{{index .missing 3}}`,
		"pages/escape-name.html":     `{{template "../secret.html" .}}`,
	}

	tests := []struct {
		name     string
		template string
		sentinel error
		contains string
	}{
		{"missing root", "pages/absent.html", builderrors.ErrTemplateNotFound, "pages/absent.html"},
		{"missing include", "pages/missing-include.html", builderrors.ErrTemplateNotFound, "partials/nope.html"},
		{"syntax error", "pages/bad-syntax.html", builderrors.ErrTemplateSyntax, "pages/bad-syntax.html:2"},
		{"syntax error in include", "pages/bad-partial.html", builderrors.ErrTemplateSyntax, "partials/broken.html"},
		{"undefined function", "pages/bad-func.html", builderrors.ErrTemplateSyntax, "nope"},
		{"execution error", "pages/bad-exec.html", builderrors.ErrRenderFailed, "pages/bad-exec.html"},
		{"invalid root name", "../etc/passwd", builderrors.ErrInvalidTemplateName, "../etc/passwd"},
		{"include outside search dir", "pages/escape-name.html", builderrors.ErrInvalidTemplateName, "../secret.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, files)

			out, err := env.Render(tt.template, nil)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestRenderSyntaxErrorLocation(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/bad.html": "line one\nline two\n{{end}}",
	})

	_, err := env.Render("pages/bad.html", nil)
	require.Error(t, err)

	var be *builderrors.BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "pages/bad.html", be.FilePath)
	assert.Equal(t, 3, be.Line)
	assert.Equal(t, "pages/bad.html", be.Page)
}

func TestRenderFuncs(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/funcs.html": `{{"hello world" | title}}|{{"Shout" | upper}}|{{"QUIET" | lower}}|{{"  pad  " | trim}}|{{.user | default "anonymous"}}`,
		"pages/named.html": `{{.user | default "anonymous"}}`,
	})

	out, err := env.Render("pages/funcs.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello World|SHOUT|quiet|pad|anonymous", out)

	out, err = env.Render("pages/named.html", Context{"user": "ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada", out)

	custom := newTestEnv(t, map[string]string{"pages/custom.html": `{{shout "hi"}}|{{"x" | upper}}`},
		WithFuncs(map[string]any{
			"shout": func(s string) string { return strings.ToUpper(s) + "!" },
			"upper": func(s string) string { return "U(" + s + ")" },
		}))
	out, err = custom.Render("pages/custom.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "HI!|U(x)", out)
}

func TestRenderDeterministic(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/index.html":  `{{template "layouts/base.html" .}}`,
		"layouts/base.html": `<main>{{block "content" .}}x{{end}}</main>`,
	})

	first, err := env.Render("pages/index.html", nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := env.Render("pages/index.html", nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRenderRedefinitionOrderIsStable(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/index.html": `{{define "first"}}{{template "a.html" .}}{{end}}` +
			`{{define "second"}}{{template "b.html" .}}{{end}}[{{template "x" .}}]`,
		"a.html": `{{define "x"}}A{{end}}`,
		"b.html": `{{define "x"}}B{{end}}`,
	})

	outputs := make(map[string]int)
	for i := 0; i < 200; i++ {
		out, err := env.Render("pages/index.html", nil)
		require.NoError(t, err)
		outputs[out]++
	}

	assert.Equal(t, map[string]int{"[B]": 200}, outputs)
}

func TestRenderMissingTemplateErrorIsStable(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pages/index.html": `{{define "one"}}{{template "missing-a.html"}}{{end}}` +
			`{{define "two"}}{{template "missing-b.html"}}{{end}}{{template "one"}}{{template "two"}}`,
	})

	for i := 0; i < 50; i++ {
		_, err := env.Render("pages/index.html", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing-a.html")
	}
}

func TestRenderDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Output: &buf})
	env := newTestEnv(t, map[string]string{"pages/index.html": "hi"}, WithLogger(logger))

	_, err := env.Render("pages/index.html", nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Rendered template")
	assert.Contains(t, buf.String(), "component=renderer")
	assert.Contains(t, buf.String(), "template=pages/index.html")
}

func TestSelectAutoescape(t *testing.T) {
	tests := []struct {
		name     string
		exts     []string
		template string
		expected bool
	}{
		{"default html", nil, "pages/a.html", true},
		{"default htm", nil, "a.htm", true},
		{"default xml", nil, "feed.xml", true},
		{"default txt", nil, "notes.txt", false},
		{"case insensitive", nil, "INDEX.HTML", true},
		{"no extension", nil, "README", false},
		{"explicit list", []string{"html"}, "feed.xml", false},
		{"leading dot", []string{".svg"}, "icon.svg", true},
		{"mixed case list", []string{"HTML"}, "a.html", true},
		{"directory extension ignored", []string{"html"}, "dir.html/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectAutoescape(tt.exts...)(tt.template))
		})
	}
}
