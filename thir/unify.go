package thir

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMismatch   = errors.New("values do not match")
	ErrOccurs     = errors.New("meta occurs in its own solution")
	ErrEscape     = errors.New("variable escapes the scope of a meta")
	ErrNonPattern = errors.New("meta is not applied to distinct variables")
)

// UnifyError is a failed unification, with both sides read back at the
// level they were compared at.
type UnifyError struct {
	Reason      error
	Left, Right Term
	Level       Level
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("%v: %s and %s", e.Reason, Show(e.Left, nil), Show(e.Right, nil))
}

func (e *UnifyError) Unwrap() error {
	return e.Reason
}

// Unify makes a and b equal by solving metas, in a context of size lvl.
// Metas solved before a failure stay solved.
func Unify(m *Metas, lvl Level, a, b Value) error {
	u := unifier{m: m}
	return u.unify(lvl, a, b)
}

type unifier struct {
	m *Metas
}

func (u unifier) fail(reason error, lvl Level, a, b Value) error {
	return &UnifyError{Reason: reason, Left: Quote(u.m, lvl, a), Right: Quote(u.m, lvl, b), Level: lvl}
}

func (u unifier) unify(lvl Level, a, b Value) error {
	a, b = Force(u.m, a), Force(u.m, b)
	switch x := a.(type) {
	case VUniverse:
		if _, ok := b.(VUniverse); ok {
			return nil
		}
	case VPi:
		if y, ok := b.(VPi); ok {
			if x.Implicit != y.Implicit {
				return u.fail(ErrMismatch, lvl, a, b)
			}
			if err := u.unify(lvl, x.Domain, y.Domain); err != nil {
				return err
			}
			v := NewVar(lvl)
			return u.unify(lvl+1, x.Codomain.Apply(u.m, v), y.Codomain.Apply(u.m, v))
		}
	case VLam:
		v := NewVar(lvl)
		if y, ok := b.(VLam); ok {
			return u.unify(lvl+1, x.Body.Apply(u.m, v), y.Body.Apply(u.m, v))
		}
		if _, ok := b.(Flexible); !ok {
			return u.unify(lvl+1, x.Body.Apply(u.m, v), Apply(u.m, b, v, x.Implicit))
		}
	case Rigid:
		if y, ok := b.(Rigid); ok && x.Level == y.Level {
			return u.spines(lvl, x.Spine, y.Spine, a, b)
		}
	case VConst:
		if y, ok := b.(VConst); ok && x.Const.Equal(y.Const) {
			return u.spines(lvl, x.Spine, y.Spine, a, b)
		}
	case Flexible:
		if y, ok := b.(Flexible); ok && x.Meta == y.Meta {
			return u.spines(lvl, x.Spine, y.Spine, a, b)
		}
		err := u.solve(lvl, x, b)
		if y, ok := b.(Flexible); ok && err != nil {
			if u.solve(lvl, y, a) == nil {
				return nil
			}
		}
		return err
	}
	switch y := b.(type) {
	case VLam:
		v := NewVar(lvl)
		return u.unify(lvl+1, Apply(u.m, a, v, y.Implicit), y.Body.Apply(u.m, v))
	case Flexible:
		return u.solve(lvl, y, a)
	}
	return u.fail(ErrMismatch, lvl, a, b)
}

func (u unifier) spines(lvl Level, x, y Spine, a, b Value) error {
	if len(x) != len(y) {
		return u.fail(ErrMismatch, lvl, a, b)
	}
	for i := range x {
		if x[i].Implicit != y[i].Implicit {
			return u.fail(ErrMismatch, lvl, a, b)
		}
		if err := u.unify(lvl, x[i].Value, y[i].Value); err != nil {
			return err
		}
	}
	return nil
}

// renaming maps the variables of the context a meta is used in to the
// parameters of its solution.
type renaming struct {
	dom, cod Level
	ren      map[Level]Level
}

func (r renaming) lift() renaming {
	ren := make(map[Level]Level, len(r.ren)+1)
	for k, v := range r.ren {
		ren[k] = v
	}
	ren[r.dom] = r.cod
	return renaming{dom: r.dom + 1, cod: r.cod + 1, ren: ren}
}

// solve solves ?m spine = rhs. The spine must be distinct bound variables,
// rhs may only mention those variables, and ?m may not occur in rhs.
func (u unifier) solve(lvl Level, flex Flexible, rhs Value) error {
	lhs := Value(flex)
	if _, ok := u.m.Level(flex.Meta); !ok {
		return u.fail(ErrForeignMeta, lvl, lhs, rhs)
	}
	r := renaming{dom: lvl, ren: make(map[Level]Level, len(flex.Spine))}
	for _, a := range flex.Spine {
		v, ok := Force(u.m, a.Value).(Rigid)
		if !ok || len(v.Spine) != 0 {
			return u.fail(ErrNonPattern, lvl, lhs, rhs)
		}
		if _, dup := r.ren[v.Level]; dup {
			return u.fail(ErrNonPattern, lvl, lhs, rhs)
		}
		r.ren[v.Level] = r.cod
		r.cod++
	}
	body, err := u.rename(flex.Meta, r, rhs)
	if err != nil {
		return u.fail(err, lvl, lhs, rhs)
	}
	for i := len(flex.Spine) - 1; i >= 0; i-- {
		body = Lam{Name: fmt.Sprintf("x%d", i), Implicit: flex.Spine[i].Implicit, Body: body}
	}
	if err := u.m.Solve(flex.Meta, Eval(u.m, Env{}, body)); err != nil {
		return u.fail(err, lvl, lhs, rhs)
	}
	return nil
}

func (u unifier) rename(meta MetaID, r renaming, v Value) (Term, error) {
	renameSpine := func(head Term, spine Spine) (Term, error) {
		for _, a := range spine {
			arg, err := u.rename(meta, r, a.Value)
			if err != nil {
				return nil, err
			}
			head = App{Callee: head, Argument: arg, Implicit: a.Implicit}
		}
		return head, nil
	}
	switch v := Force(u.m, v).(type) {
	case VUniverse:
		return Universe{}, nil
	case VConst:
		return renameSpine(v.Const, v.Spine)
	case Flexible:
		if v.Meta == meta {
			return nil, ErrOccurs
		}
		return renameSpine(Meta{ID: v.Meta}, v.Spine)
	case Rigid:
		to, ok := r.ren[v.Level]
		if !ok {
			return nil, ErrEscape
		}
		return renameSpine(Var{Level: to}, v.Spine)
	case VLam:
		body, err := u.rename(meta, r.lift(), v.Body.Apply(u.m, NewVar(r.dom)))
		if err != nil {
			return nil, err
		}
		return Lam{Name: v.Name, Implicit: v.Implicit, Body: body}, nil
	case VPi:
		dom, err := u.rename(meta, r, v.Domain)
		if err != nil {
			return nil, err
		}
		cod, err := u.rename(meta, r.lift(), v.Codomain.Apply(u.m, NewVar(r.dom)))
		if err != nil {
			return nil, err
		}
		return Pi{Name: v.Name, Implicit: v.Implicit, Domain: dom, Codomain: cod}, nil
	}
	panic("unreachable")
}
