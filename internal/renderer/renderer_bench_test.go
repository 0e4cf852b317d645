package renderer

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/conneroisu/pagebuild/internal/loader"
)

func benchEnv(partials int) *Environment {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`<html><body>{{block "content" .}}{{end}}</body></html>`)},
	}

	var page strings.Builder
	page.WriteString(`{{define "content"}}`)
	for i := 0; i < partials; i++ {
		name := fmt.Sprintf("partials/p%d.html", i)
		fsys[name] = &fstest.MapFile{Data: []byte(fmt.Sprintf(`<section>{{.title}} %d</section>`, i))}
		fmt.Fprintf(&page, `{{template %q .}}`, name)
	}
	page.WriteString(`{{end}}{{template "layouts/base.html" .}}`)
	fsys["pages/index.html"] = &fstest.MapFile{Data: []byte(page.String())}

	return New(loader.NewFSLoader(fsys))
}

func BenchmarkRender_SinglePage(b *testing.B) {
	env := benchEnv(0)
	ctx := Context{"title": "<bench>"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.Render("pages/index.html", ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender_ManyPartials(b *testing.B) {
	for _, n := range []int{5, 25, 100} {
		b.Run(fmt.Sprintf("partials=%d", n), func(b *testing.B) {
			env := benchEnv(n)
			ctx := Context{"title": "<bench>"}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := env.Render("pages/index.html", ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSelectAutoescape(b *testing.B) {
	policy := SelectAutoescape()
	names := []string{"pages/index.html", "feed.xml", "notes.txt", "README"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		policy(names[i%len(names)])
	}
}
