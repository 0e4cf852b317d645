package renderer

import (
	"errors"
	"fmt"
	"sort"
	"text/template/parse"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/conneroisu/pagebuild/internal/loader"
)

// reference is a {{template "name"}} call found while resolving.
type reference struct {
	name     string
	location string // "template:line:col" of the call
	err      error  // loader error for name, if loading failed
}

// resolver walks the template graph starting at one root template.
type resolver struct {
	loader  loader.Loader
	visited map[string]bool
	defined map[string]bool
	ordered []*loader.Source
	missing []reference
}

// resolve loads name and every template it references, transitively, and
// returns the sources in parse order: referenced templates before the
// templates referencing them, the root last.
func (e *Environment) resolve(name string) ([]*loader.Source, error) {
	r := &resolver{
		loader:  e.loader,
		visited: make(map[string]bool),
		defined: make(map[string]bool),
	}

	src, err := e.loader.Load(name)
	if err != nil {
		return nil, attachPage(err, name)
	}

	if err := r.visit(src); err != nil {
		return nil, attachPage(err, name)
	}

	// A name that failed to load is fine if some loaded template defines it.
	for _, ref := range r.missing {
		if r.defined[ref.name] {
			continue
		}
		if builderrors.CodeOf(ref.err) == builderrors.ErrCodeTemplateNotFound {
			return nil, builderrors.NewTemplateError(builderrors.ErrCodeTemplateNotFound,
				fmt.Sprintf("template not found: %s (referenced at %s)", ref.name, ref.location),
				ref.err).WithPage(name)
		}
		return nil, builderrors.WrapTemplate(ref.err, builderrors.CodeOf(ref.err),
			fmt.Sprintf("cannot load %s (referenced at %s)", ref.name, ref.location), name)
	}

	return r.ordered, nil
}

func (r *resolver) visit(src *loader.Source) error {
	r.visited[src.Name] = true

	trees, err := parseTrees(src)
	if err != nil {
		be := builderrors.NewTemplateError(builderrors.ErrCodeTemplateSyntax, "failed to parse "+src.Name, err)
		if parsed := builderrors.ParseTemplateError(err); parsed != nil && parsed.Line > 0 {
			be.WithLocation(src.Path, parsed.Line, parsed.Column)
		}
		return be
	}

	for defName := range trees {
		r.defined[defName] = true
	}

	for _, tree := range sourceOrder(src.Name, trees) {
		for _, ref := range templateRefs(tree) {
			if r.defined[ref.name] || r.visited[ref.name] {
				continue
			}

			dep, err := r.loader.Load(ref.name)
			if err != nil {
				if isUnresolvable(err) {
					ref.err = err
					r.missing = append(r.missing, ref)
					continue
				}
				return err
			}

			if err := r.visit(dep); err != nil {
				return err
			}
		}
	}

	r.ordered = append(r.ordered, src)
	return nil
}

// attachPage records page on err unless it already names one.
func attachPage(err error, page string) error {
	var be *builderrors.BuildError
	if errors.As(err, &be) && be.Page == "" {
		be.WithPage(page)
	}
	return err
}

// isUnresolvable reports loader errors that only mean "no file by that name".
// The name may still be defined by another template.
func isUnresolvable(err error) bool {
	return errors.Is(err, builderrors.ErrTemplateNotFound) ||
		errors.Is(err, builderrors.ErrInvalidTemplateName)
}

// parseTrees parses src without checking function names and returns every
// tree it defines, keyed by template name. Function checks happen later in
// the real parse, once the function map is attached.
func parseTrees(src *loader.Source) (map[string]*parse.Tree, error) {
	trees := make(map[string]*parse.Tree)
	t := parse.New(src.Name)
	t.Mode = parse.SkipFuncCheck
	if _, err := t.Parse(src.Content, "", "", trees); err != nil {
		return nil, err
	}
	return trees, nil
}

// sourceOrder returns the tree called root first, then the trees it defines
// in the order they appear in the source. Which of two templates redefining
// the same name wins depends on parse order, so this order must be stable.
func sourceOrder(root string, trees map[string]*parse.Tree) []*parse.Tree {
	ordered := make([]*parse.Tree, 0, len(trees))
	for _, tree := range trees {
		ordered = append(ordered, tree)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if (a.Name == root) != (b.Name == root) {
			return a.Name == root
		}
		if pa, pb := treePos(a), treePos(b); pa != pb {
			return pa < pb
		}
		return a.Name < b.Name
	})
	return ordered
}

func treePos(tree *parse.Tree) parse.Pos {
	if tree.Root == nil {
		return 0
	}
	return tree.Root.Pos
}

// templateRefs lists the {{template}} calls in tree, in source order.
func templateRefs(tree *parse.Tree) []reference {
	var refs []reference
	var walk func(node parse.Node)
	walk = func(node parse.Node) {
		switch n := node.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}
			for _, child := range n.Nodes {
				walk(child)
			}
		case *parse.IfNode:
			walk(n.List)
			walk(n.ElseList)
		case *parse.RangeNode:
			walk(n.List)
			walk(n.ElseList)
		case *parse.WithNode:
			walk(n.List)
			walk(n.ElseList)
		case *parse.TemplateNode:
			location, _ := tree.ErrorContext(n)
			refs = append(refs, reference{name: n.Name, location: location})
		}
	}
	if tree != nil {
		walk(tree.Root)
	}
	return refs
}
