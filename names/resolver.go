// Package names binds the identifiers of a file to definitions. It keeps
// the chain of lexical scopes while a file is being lowered and falls back
// to global queries for names no scope binds.
package names

import (
	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/hir"
)

// Finder answers global name queries. The database implements it for whole
// packages, and lowering wraps it with the declarations of the current file.
type Finder interface {
	FindFunction(path hir.Path) (*hir.Definition, bool)
	FindType(path hir.Path) (*hir.Definition, bool)
	FindConstructor(path hir.Path) (*hir.Definition, bool)
	FindTrait(path hir.Path) (*hir.Definition, bool)
}

// Find dispatches to the query of f for kind.
func Find(f Finder, path hir.Path, kind hir.DefinitionKind) (*hir.Definition, bool) {
	if f == nil {
		return nil, false
	}
	switch kind {
	case hir.FunctionKind:
		return f.FindFunction(path)
	case hir.TypeKind:
		return f.FindType(path)
	case hir.ConstructorKind:
		return f.FindConstructor(path)
	case hir.TraitKind:
		return f.FindTrait(path)
	}
	return nil, false
}

// Chain asks each finder in turn.
type Chain []Finder

func (c Chain) find(path hir.Path, kind hir.DefinitionKind) (*hir.Definition, bool) {
	for _, f := range c {
		if def, ok := Find(f, path, kind); ok {
			return def, true
		}
	}
	return nil, false
}

func (c Chain) FindFunction(path hir.Path) (*hir.Definition, bool) {
	return c.find(path, hir.FunctionKind)
}

func (c Chain) FindType(path hir.Path) (*hir.Definition, bool) {
	return c.find(path, hir.TypeKind)
}

func (c Chain) FindConstructor(path hir.Path) (*hir.Definition, bool) {
	return c.find(path, hir.ConstructorKind)
}

func (c Chain) FindTrait(path hir.Path) (*hir.Definition, bool) {
	return c.find(path, hir.TraitKind)
}

// Resolver owns the current scope chain of one file.
type Resolver struct {
	current *hir.Scope
	finder  Finder
	sink    diagnostic.Sink
}

func NewResolver(finder Finder, sink diagnostic.Sink) *Resolver {
	if sink == nil {
		sink = diagnostic.Discard
	}
	return &Resolver{
		current: hir.NewScope(hir.FileScope, nil),
		finder:  finder,
		sink:    sink,
	}
}

// Scope returns the current, still open, scope.
func (r *Resolver) Scope() *hir.Scope {
	return r.current
}

// Fork opens a child of the current scope and makes it current.
func (r *Resolver) Fork(kind hir.ScopeKind) *hir.Scope {
	r.current = hir.NewScope(kind, r.current)
	return r.current
}

// Pop closes the current scope, makes its parent current and returns the
// closed scope, sealed.
func (r *Resolver) Pop() *hir.Scope {
	s := r.current
	if s.Parent == nil {
		panic("names: pop of the file scope")
	}
	r.current = s.Parent
	return s.Seal()
}

// Define binds id as a local variable of the current scope.
func (r *Resolver) Define(id hir.Identifier) *hir.Definition {
	def := hir.NewDefinition(hir.VariableKind, hir.Path{Segments: []hir.Identifier{id}, Location: id.Location}, id.Location)
	r.current.Define(id.Name, def)
	return def
}

// Using records a use of def at loc.
func (r *Resolver) Using(def *hir.Definition, loc hir.Location, level hir.Level) hir.Reference {
	return hir.Reference{Definition: def, Location: loc, TypeLevel: level == hir.LevelType}
}

// InsertFreeVariable binds a free variable, or returns the binding made by
// an earlier occurrence of the same name in the same type. The binding
// lives in the outermost of the Pi and Sigma scopes enclosing the current
// one, so every occurrence in a signature shares it.
func (r *Resolver) InsertFreeVariable(path hir.Path) hir.Reference {
	name := path.Name()
	for s := r.current; s != nil; s = s.Parent {
		for _, def := range s.FreeVariables() {
			if def.Name() == name {
				return r.Using(def, path.Location, hir.LevelType)
			}
		}
	}
	target := r.current
	for s := r.current; s != nil && (s.Kind == hir.PiScope || s.Kind == hir.SigmaScope); s = s.Parent {
		target = s
	}
	def := hir.NewDefinition(hir.VariableKind, path, path.Location)
	target.InsertFree(name, def)
	return r.Using(def, path.Location, hir.LevelType)
}

// Lookup resolves path like Qualify but reports nothing when it fails.
func (r *Resolver) Lookup(path hir.Path, kind hir.DefinitionKind) (*hir.Definition, bool) {
	if id, ok := path.Single(); ok {
		for s := r.current; s != nil; s = s.Parent {
			if def, ok := s.Lookup(id.Name); ok {
				return def, true
			}
		}
	}
	return Find(r.finder, path, kind)
}

// Global resolves path against global definitions only, skipping the
// scope chain.
func (r *Resolver) Global(path hir.Path, kind hir.DefinitionKind) (*hir.Definition, bool) {
	return Find(r.finder, path, kind)
}

// Qualify resolves path, searching the scope chain innermost first and
// then the global definitions of kind. A name that cannot be found is
// reported and resolves to a fresh placeholder definition.
func (r *Resolver) Qualify(path hir.Path, kind hir.DefinitionKind) *hir.Definition {
	if def, ok := r.Lookup(path, kind); ok {
		return def
	}
	r.sink.Report(diagnostic.New(diagnostic.Unresolved, path.Location, "unresolved %s %s", kind, path))
	return hir.NewDefinition(hir.UnresolvedKind, path, path.Location)
}

// IsDoNotation reports whether the current scope is inside a do-notation
// block, without crossing a lambda.
func (r *Resolver) IsDoNotation() bool {
	for s := r.current; s != nil; s = s.Parent {
		switch s.Kind {
		case hir.DoNotationScope:
			return true
		case hir.LambdaScope:
			return false
		}
	}
	return false
}

func (r *Resolver) Report(d diagnostic.Diagnostic) {
	r.sink.Report(d)
}
