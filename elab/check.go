package elab

import (
	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/thir"
)

// Check elaborates expr against the expected type. A type mismatch is
// reported to the sink and does not fail the check.
func (e *Elaborator) Check(ctx thir.Context, expr hir.Expr, expected thir.Value) (thir.Term, error) {
	defer e.tracef("check", "expr", describe(expr), "at", expr.Location())()
	expected = thir.Force(e.metas, expected)
	if lam, ok := expr.(hir.Lam); ok {
		return e.checkLam(ctx, hir.Curry(lam), lam.Loc, expected)
	}
	if pi, ok := expected.(thir.VPi); ok && pi.Implicit {
		return e.etaImplicit(ctx, pi, func(ctx thir.Context, codomain thir.Value) (thir.Term, error) {
			return e.Check(ctx, expr, codomain)
		})
	}
	if _, ok := expr.(hir.Hole); ok {
		return e.freshMeta(ctx), nil
	}
	t, typ, err := e.Infer(ctx, expr)
	if err != nil {
		return nil, err
	}
	t, typ = e.insert(ctx, t, typ)
	e.unify(ctx, expr.Location(), expected, typ)
	return t, nil
}

// etaImplicit checks against {x : A} -> B by binding an implicit x that no
// source name refers to, and checking against B under it.
func (e *Elaborator) etaImplicit(ctx thir.Context, pi thir.VPi, body func(thir.Context, thir.Value) (thir.Term, error)) (thir.Term, error) {
	inner := ctx.InsertNewBinder(nil, pi.Name, pi.Domain)
	t, err := body(inner, pi.Codomain.Apply(e.metas, thir.NewVar(ctx.Level())))
	if err != nil {
		return nil, err
	}
	return thir.Lam{Name: pi.Name, Implicit: true, Body: t}, nil
}

// checkLam checks a lambda one parameter at a time, each against the next
// Pi of the expected type.
func (e *Elaborator) checkLam(ctx thir.Context, c hir.Curried, loc hir.Location, expected thir.Value) (thir.Term, error) {
	expected = thir.Force(e.metas, expected)
	lam, ok := c.(hir.CurriedLam)
	if !ok {
		return e.Check(ctx, c.(hir.CurriedExpr).Body, expected)
	}
	switch pi := expected.(type) {
	case thir.VPi:
		if pi.Implicit && !lam.Parameter.Implicit {
			return e.etaImplicit(ctx, pi, func(ctx thir.Context, codomain thir.Value) (thir.Term, error) {
				return e.checkLam(ctx, c, loc, codomain)
			})
		}
		def, name, err := binder(lam.Parameter)
		if err != nil {
			return nil, err
		}
		if !lam.Parameter.Type.IsZero() {
			if _, hole := lam.Parameter.Type.Downgrade().(hir.Hole); !hole {
				ann, err := e.Check(ctx, lam.Parameter.Type.Downgrade(), thir.VUniverse{})
				if err != nil {
					return nil, err
				}
				e.unify(ctx, lam.Parameter.Location(), pi.Domain, e.eval(ctx, ann))
			}
		}
		inner := ctx.InsertNewBinder(def, name, pi.Domain)
		body, err := e.checkLam(inner, lam.Rest, loc, pi.Codomain.Apply(e.metas, thir.NewVar(ctx.Level())))
		if err != nil {
			return nil, err
		}
		return thir.Lam{Name: name, Implicit: pi.Implicit, Body: body}, nil
	case thir.Flexible:
		t, typ, err := e.inferLam(ctx, c)
		if err != nil {
			return nil, err
		}
		e.unify(ctx, loc, expected, typ)
		return t, nil
	}
	return nil, errorf(diagnostic.ExpectedFunctionType, loc,
		"expected %s, found a function", e.show(ctx, expected))
}
