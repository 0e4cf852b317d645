package renderer

import (
	htmltemplate "html/template"
	"io"
	texttemplate "text/template"
)

// templateSet is the group of associated templates one Render call parses
// into. html/template and text/template share no interface, so each engine
// gets its own implementation.
type templateSet interface {
	parse(name, content string) error
	execute(w io.Writer, name string, data any) error
}

func newTemplateSet(root string, escape bool, funcs map[string]any) templateSet {
	if escape {
		return &htmlSet{root: htmltemplate.New(root).Funcs(htmltemplate.FuncMap(funcs))}
	}
	return &textSet{root: texttemplate.New(root).Funcs(texttemplate.FuncMap(funcs))}
}

type htmlSet struct {
	root *htmltemplate.Template
}

func (s *htmlSet) parse(name, content string) error {
	t := s.root
	if name != s.root.Name() {
		t = s.root.New(name)
	}
	_, err := t.Parse(content)
	return err
}

func (s *htmlSet) execute(w io.Writer, name string, data any) error {
	return s.root.ExecuteTemplate(w, name, data)
}

type textSet struct {
	root *texttemplate.Template
}

func (s *textSet) parse(name, content string) error {
	t := s.root
	if name != s.root.Name() {
		t = s.root.New(name)
	}
	_, err := t.Parse(content)
	return err
}

func (s *textSet) execute(w io.Writer, name string, data any) error {
	return s.root.ExecuteTemplate(w, name, data)
}
