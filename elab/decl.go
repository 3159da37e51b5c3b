package elab

import (
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/thir"
)

// Elaborated is a declaration after elaboration. Term and Type are closed
// and hold no solved metas; metas left unsolved appear as Meta terms.
type Elaborated struct {
	Def  *hir.Definition
	Term thir.Term
	Type thir.Term
}

// Declaration elaborates d. A binding is checked against signature when
// one is given, and inferred otherwise. Errors go to the sink and the
// failed part becomes a hole, so Declaration always produces a result.
func (e *Elaborator) Declaration(d hir.Declaration, signature hir.TypeRep) Elaborated {
	def := d.Definition()
	defer e.tracef("declaration", "def", def)()
	var (
		ctx  thir.Context
		term thir.Term
		typ  thir.Value
		err  error
	)
	switch d := d.(type) {
	case hir.Binding:
		if signature.IsZero() {
			signature = d.Type
		}
		if signature.IsZero() {
			term, typ, err = e.Infer(ctx, d.Value)
			break
		}
		var sig thir.Term
		if sig, err = e.Check(ctx, signature.Downgrade(), thir.VUniverse{}); err != nil {
			break
		}
		typ = e.eval(ctx, sig)
		term, err = e.Check(ctx, d.Value, typ)
	case hir.Signature:
		typ = thir.VUniverse{}
		term, err = e.Check(ctx, d.Type.Downgrade(), typ)
	case hir.Inductive:
		term, typ, err = e.opaque(ctx, def, d.Type, d.Loc)
	case hir.Constructor:
		term, typ, err = e.opaque(ctx, def, d.Type, d.Loc)
	case hir.Trait:
		term, typ, err = e.opaque(ctx, def, d.Type, d.Loc)
	}
	if err != nil {
		e.report(err, d.Location())
		term = e.freshMeta(ctx)
		if typ == nil {
			typ = e.eval(ctx, e.freshMeta(ctx))
		}
	}
	return Elaborated{
		Def:  def,
		Term: thir.Normalize(e.metas, thir.Env{}, term),
		Type: thir.Quote(e.metas, 0, typ),
	}
}

// opaque elaborates a definition that stands for itself, like a type or a
// constructor, whose only content is its type.
func (e *Elaborator) opaque(ctx thir.Context, def *hir.Definition, rep hir.TypeRep, loc hir.Location) (thir.Term, thir.Value, error) {
	self := thir.ReferenceOf(def, loc)
	if rep.IsZero() {
		return self, thir.VUniverse{}, nil
	}
	t, err := e.Check(ctx, rep.Downgrade(), thir.VUniverse{})
	if err != nil {
		return self, nil, err
	}
	return self, e.eval(ctx, t), nil
}

// TypeOf elaborates a type in the empty context.
func (e *Elaborator) TypeOf(rep hir.TypeRep) (thir.Term, error) {
	if rep.IsZero() {
		return thir.Universe{}, nil
	}
	t, err := e.Check(thir.Context{}, rep.Downgrade(), thir.VUniverse{})
	if err != nil {
		return nil, err
	}
	return thir.Normalize(e.metas, thir.Env{}, t), nil
}
