package lower

import (
	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/parser"
)

// declaration lowers the i-th top-level declaration of the file. A data
// declaration lowers to its inductive type alone; the constructors are
// nested in it.
func (l *lowerer) declaration(i int, d parser.Decl) []hir.Declaration {
	if bad, ok := d.(parser.Illegal); ok {
		l.illegal(bad)
		return nil
	}
	def, ok := l.globals.Of(i)
	if !ok {
		l.report(diagnostic.UnsupportedTerm, l.loc(d), "unsupported declaration")
		return nil
	}
	switch d := d.(type) {
	case parser.Binding:
		return []hir.Declaration{l.binding(def, d)}
	case parser.Signature:
		t, scope := l.declType(d.Type)
		return []hir.Declaration{hir.Signature{Def: def, Type: t, Scope: scope, Loc: l.loc(d)}}
	case parser.DataDecl:
		return []hir.Declaration{l.inductive(def, d)}
	case parser.TraitDecl:
		t, scope := l.declType(d.Type)
		return []hir.Declaration{hir.Trait{Def: def, Type: t, Scope: scope, Loc: l.loc(d)}}
	}
	return nil
}

// declType lowers the type of a declaration in a scope of its own, which
// collects the free variables of the type.
func (l *lowerer) declType(e parser.Expr) (hir.TypeRep, *hir.Scope) {
	l.r.Fork(hir.PiScope)
	t := l.typeExpr(e)
	return t, l.r.Pop()
}

// binding lowers `let f p1 p2 : T = v` to f = \p1 p2 -> (v : T). Without
// parameters the annotation stays on the binding.
func (l *lowerer) binding(def *hir.Definition, d parser.Binding) hir.Declaration {
	b := hir.Binding{Def: def, Loc: l.loc(d)}
	if len(d.Params) == 0 {
		if d.Type != nil {
			b.Type, b.Scope = l.declType(d.Type)
		}
		b.Value = l.expr(d.Value)
		return b
	}
	l.r.Fork(hir.LambdaScope)
	params := make([]hir.Parameter, len(d.Params))
	for i, p := range d.Params {
		params[i] = hir.Parameter{Binding: l.pattern(p), Loc: l.loc(p)}
	}
	value := l.expr(d.Value)
	if d.Type != nil {
		value = hir.Ann{Value: value, Type: l.typeExpr(d.Type), Loc: l.loc(d.Value)}
	}
	scope := l.r.Pop()
	b.Value = hir.Lam{Parameters: params, Value: value, Scope: scope, Loc: b.Loc}
	return b
}

func (l *lowerer) inductive(def *hir.Definition, d parser.DataDecl) hir.Declaration {
	loc := l.loc(d)
	ind := hir.Inductive{Def: def, Loc: loc}
	if d.Type != nil {
		ind.Type, ind.Scope = l.declType(d.Type)
	} else {
		ind.Type = hir.Upgrade(hir.Type{Builtin: hir.Builtin{Kind: hir.Universe}, Loc: l.loc(d.Name)})
	}
	for _, c := range d.Constructors {
		path := hir.NewPath(l.loc(c.Name), d.Name.Text(), c.Name.Text())
		cdef, ok := l.globals.FindConstructor(path)
		if !ok {
			continue
		}
		ctor := hir.Constructor{Def: cdef, Inductive: def, Loc: l.loc(c)}
		if c.Type != nil {
			ctor.Type, ctor.Scope = l.declType(c.Type)
		} else {
			nameLoc := l.loc(c.Name)
			ctor.Type = hir.Upgrade(hir.PathExpr{Reference: l.r.Using(def, nameLoc, hir.LevelType)})
		}
		ind.Constructors = append(ind.Constructors, ctor)
	}
	return ind
}
