package lower

import (
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/names"
	"github.com/aripiprazole/saph/parser"
)

// Globals are the top-level definitions of one file. They are collected
// before any body is lowered, so declarations can refer to each other in any
// order.
type Globals struct {
	File  string
	kinds map[hir.DefinitionKind]map[string]*hir.Definition
	// decls is indexed like the declarations of the file.
	decls []*hir.Definition
	// ctors holds constructors by their qualified name, `Type.Ctor`.
	ctors map[string]*hir.Definition
	order []*hir.Definition
}

var _ names.Finder = (*Globals)(nil)

// Collect creates a definition for every top-level name of f. A signature
// and the binding with the same name share one definition.
func Collect(f parser.File) *Globals {
	g := &Globals{
		File: f.Name,
		kinds: map[hir.DefinitionKind]map[string]*hir.Definition{
			hir.FunctionKind:    {},
			hir.TypeKind:        {},
			hir.ConstructorKind: {},
			hir.TraitKind:       {},
		},
		decls: make([]*hir.Definition, len(f.Decls)),
		ctors: make(map[string]*hir.Definition),
	}
	for i, d := range f.Decls {
		switch d := d.(type) {
		case parser.Binding:
			g.decls[i] = g.define(hir.FunctionKind, d.Name)
		case parser.Signature:
			g.decls[i] = g.define(hir.FunctionKind, d.Name)
		case parser.DataDecl:
			g.decls[i] = g.define(hir.TypeKind, d.Name)
			for _, c := range d.Constructors {
				def := g.define(hir.ConstructorKind, c.Name)
				g.ctors[d.Name.Text()+"."+c.Name.Text()] = def
			}
		case parser.TraitDecl:
			g.decls[i] = g.define(hir.TraitKind, d.Name)
		}
	}
	return g
}

func (g *Globals) define(kind hir.DefinitionKind, name parser.Name) *hir.Definition {
	if def, ok := g.kinds[kind][name.Text()]; ok {
		return def
	}
	loc := hir.Location{File: g.File, Span: name.Span()}
	def := hir.NewDefinition(kind, hir.NewPath(loc, name.Text()), loc)
	g.kinds[kind][name.Text()] = def
	g.order = append(g.order, def)
	return def
}

// Definitions returns the collected definitions in source order.
func (g *Globals) Definitions() []*hir.Definition {
	return append([]*hir.Definition(nil), g.order...)
}

// Of returns the definition of the i-th declaration of the file.
func (g *Globals) Of(i int) (*hir.Definition, bool) {
	if i < 0 || i >= len(g.decls) || g.decls[i] == nil {
		return nil, false
	}
	return g.decls[i], true
}

func (g *Globals) find(kind hir.DefinitionKind, path hir.Path) (*hir.Definition, bool) {
	if def, ok := g.kinds[kind][path.String()]; ok {
		return def, true
	}
	if kind == hir.ConstructorKind {
		def, ok := g.ctors[path.String()]
		return def, ok
	}
	return nil, false
}

func (g *Globals) FindFunction(path hir.Path) (*hir.Definition, bool) {
	return g.find(hir.FunctionKind, path)
}

func (g *Globals) FindType(path hir.Path) (*hir.Definition, bool) {
	return g.find(hir.TypeKind, path)
}

func (g *Globals) FindConstructor(path hir.Path) (*hir.Definition, bool) {
	return g.find(hir.ConstructorKind, path)
}

func (g *Globals) FindTrait(path hir.Path) (*hir.Definition, bool) {
	return g.find(hir.TraitKind, path)
}
