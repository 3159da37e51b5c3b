package elab

import (
	"github.com/pkg/errors"

	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/thir"
)

// Infer elaborates expr and synthesizes its type.
func (e *Elaborator) Infer(ctx thir.Context, expr hir.Expr) (thir.Term, thir.Value, error) {
	defer e.tracef("infer", "expr", describe(expr), "at", expr.Location())()
	switch x := expr.(type) {
	case hir.PathExpr:
		return e.inferReference(ctx, x.Reference)
	case hir.Literal:
		return thir.LiteralOf(x), literalType(x), nil
	case hir.Type:
		if x.Builtin.Kind == hir.Universe {
			return thir.Universe{}, thir.VUniverse{}, nil
		}
		return thir.BuiltinOf(x.Builtin, x.Loc), thir.VUniverse{}, nil
	case hir.Ann:
		ann, err := e.Check(ctx, x.Type.Downgrade(), thir.VUniverse{})
		if err != nil {
			return nil, nil, err
		}
		typ := e.eval(ctx, ann)
		t, err := e.Check(ctx, x.Value, typ)
		if err != nil {
			return nil, nil, err
		}
		return t, typ, nil
	case hir.Lam:
		return e.inferLam(ctx, hir.Curry(x))
	case hir.Pi:
		return e.inferPi(ctx, x)
	case hir.Hole:
		return e.freshMeta(ctx), e.eval(ctx, e.freshMeta(ctx)), nil
	case hir.Call:
		return e.inferCall(ctx, x)
	}
	return nil, nil, unsupported(expr)
}

func literalType(lit hir.Literal) thir.Value {
	b := hir.Builtin{Kind: hir.BoolType}
	switch lit.Kind {
	case hir.IntLiteral:
		b = hir.Builtin{Kind: hir.IntType, Signed: true, Bits: 32}
	case hir.StringLiteral:
		b = hir.Builtin{Kind: hir.StringType}
	}
	return thir.VConst{Const: thir.BuiltinOf(b, lit.Loc)}
}

func (e *Elaborator) inferReference(ctx thir.Context, ref hir.Reference) (thir.Term, thir.Value, error) {
	def := ref.Definition
	if lvl, typ, ok := ctx.Lookup(def); ok {
		return thir.Var{Level: lvl}, typ, nil
	}
	switch def.Kind {
	case hir.VariableKind:
		// A variable not bound by the context is a free type variable.
		id, ok := e.free[def]
		if !ok {
			id = e.metas.Fresh(0)
			e.free[def] = id
		}
		return thir.Meta{ID: id}, thir.VUniverse{}, nil
	case hir.UnresolvedKind:
		// Already reported while lowering.
		return e.freshMeta(ctx), e.eval(ctx, e.freshMeta(ctx)), nil
	}
	if e.db == nil {
		return nil, nil, errorf(diagnostic.Unresolved, ref.Location, "no type known for %s", def.Path)
	}
	typ, err := e.db.ReferenceType(def)
	if err != nil {
		var eerr *Error
		switch {
		case errors.As(err, &eerr):
			return nil, nil, eerr
		case errors.Is(err, ErrCycle):
			return nil, nil, errorf(diagnostic.CyclicReference, ref.Location, "type of %s depends on itself", def.Path)
		}
		return nil, nil, errorf(diagnostic.UnsupportedTerm, ref.Location, "%v", err)
	}
	return thir.ReferenceOf(def, ref.Location), thir.Eval(e.metas, thir.Env{}, typ), nil
}

// inferLam gives every parameter without an annotation a meta for its
// type.
func (e *Elaborator) inferLam(ctx thir.Context, c hir.Curried) (thir.Term, thir.Value, error) {
	lam, ok := c.(hir.CurriedLam)
	if !ok {
		return e.Infer(ctx, c.(hir.CurriedExpr).Body)
	}
	def, name, err := binder(lam.Parameter)
	if err != nil {
		return nil, nil, err
	}
	domain, err := e.parameterType(ctx, lam.Parameter)
	if err != nil {
		return nil, nil, err
	}
	dom := e.eval(ctx, domain)
	inner := ctx.InsertNewBinder(def, name, dom)
	body, typ, err := e.inferLam(inner, lam.Rest)
	if err != nil {
		return nil, nil, err
	}
	body, typ = e.insert(inner, body, typ)
	implicit := lam.Parameter.Implicit
	pi := thir.VPi{
		Name:     name,
		Implicit: implicit,
		Domain:   dom,
		Codomain: thir.Closure{Env: ctx.Env(), Body: thir.Quote(e.metas, inner.Level(), typ)},
	}
	return thir.Lam{Name: name, Implicit: implicit, Body: body}, pi, nil
}

func (e *Elaborator) parameterType(ctx thir.Context, p hir.Parameter) (thir.Term, error) {
	if p.Type.IsZero() {
		return e.freshMeta(ctx), nil
	}
	return e.Check(ctx, p.Type.Downgrade(), thir.VUniverse{})
}

func (e *Elaborator) inferPi(ctx thir.Context, pi hir.Pi) (thir.Term, thir.Value, error) {
	type param struct {
		name     string
		implicit bool
		domain   thir.Term
	}
	params := make([]param, 0, len(pi.Parameters))
	inner := ctx
	for _, p := range pi.Parameters {
		def, name, err := binder(p)
		if err != nil {
			return nil, nil, err
		}
		domain, err := e.parameterType(inner, p)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, param{name: name, implicit: p.Implicit, domain: domain})
		inner = inner.InsertNewBinder(def, name, e.eval(inner, domain))
	}
	t, err := e.Check(inner, pi.Value.Downgrade(), thir.VUniverse{})
	if err != nil {
		return nil, nil, err
	}
	for i := len(params) - 1; i >= 0; i-- {
		p := params[i]
		t = thir.Pi{Name: p.name, Implicit: p.implicit, Domain: p.domain, Codomain: t}
	}
	return t, thir.VUniverse{}, nil
}

func (e *Elaborator) inferCall(ctx thir.Context, call hir.Call) (thir.Term, thir.Value, error) {
	if call.DoNotation != nil {
		return nil, nil, errorf(diagnostic.UnsupportedTerm, call.DoNotation.Loc, "cannot elaborate do-notation yet")
	}
	var (
		f   thir.Term
		typ thir.Value
		err error
	)
	switch call.Callee.Kind {
	case hir.CalleeReference:
		f, typ, err = e.inferReference(ctx, call.Callee.Reference)
	case hir.CalleeExpr:
		f, typ, err = e.Infer(ctx, call.Callee.Expr)
	default:
		return nil, nil, unsupported(call)
	}
	if err != nil {
		return nil, nil, err
	}
	for _, arg := range call.Arguments {
		f, typ = e.insert(ctx, f, typ)
		pi, err := e.function(ctx, typ, arg.Location())
		if err != nil {
			return nil, nil, err
		}
		a, err := e.Check(ctx, arg, pi.Domain)
		if err != nil {
			return nil, nil, err
		}
		f = thir.App{Callee: f, Argument: a}
		typ = pi.Codomain.Apply(e.metas, e.eval(ctx, a))
	}
	return f, typ, nil
}

// function views typ as an explicit Pi. A meta is refined to a Pi of fresh
// metas.
func (e *Elaborator) function(ctx thir.Context, typ thir.Value, loc hir.Location) (thir.VPi, error) {
	switch t := thir.Force(e.metas, typ).(type) {
	case thir.VPi:
		if !t.Implicit {
			return t, nil
		}
	case thir.Flexible:
		dom := e.eval(ctx, e.freshMeta(ctx))
		inner := ctx.InsertNewBinder(nil, "x", dom)
		pi := thir.VPi{Name: "x", Domain: dom, Codomain: thir.Closure{Env: ctx.Env(), Body: e.freshMeta(inner)}}
		if err := thir.Unify(e.metas, ctx.Level(), t, pi); err != nil {
			return thir.VPi{}, errorf(diagnostic.ExpectedFunctionType, loc, "cannot apply a value of type %s", e.show(ctx, t))
		}
		return pi, nil
	}
	return thir.VPi{}, errorf(diagnostic.ExpectedFunctionType, loc,
		"expected a function, found a value of type %s", e.show(ctx, typ))
}
