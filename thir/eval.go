package thir

// Eval computes the value of t in env. Binders are not entered: the bodies
// of lambdas and the codomains of Pis become closures.
func Eval(m *Metas, env Env, t Term) Value {
	switch t := t.(type) {
	case Universe:
		return VUniverse{}
	case Var:
		if v, ok := env.At(t.Level); ok {
			return v
		}
		return NewVar(t.Level)
	case Const:
		return VConst{Const: t}
	case Lam:
		return VLam{Name: t.Name, Implicit: t.Implicit, Body: Closure{Env: env, Body: t.Body}}
	case Pi:
		return VPi{
			Name:     t.Name,
			Implicit: t.Implicit,
			Domain:   Eval(m, env, t.Domain),
			Codomain: Closure{Env: env, Body: t.Codomain},
		}
	case App:
		return Apply(m, Eval(m, env, t.Callee), Eval(m, env, t.Argument), t.Implicit)
	case Meta:
		return metaValue(m, t.ID)
	case InsertedMeta:
		v := metaValue(m, t.ID)
		values := env.Values()
		for i, bound := range t.Bound {
			if bound && i < len(values) {
				v = Apply(m, v, values[i], false)
			}
		}
		return v
	}
	panic("unreachable")
}

func metaValue(m *Metas, id MetaID) Value {
	if v, ok := m.Lookup(id); ok {
		return v
	}
	return Flexible{Meta: id}
}

// Apply applies f to arg. Applications of neutral values extend their
// spine. Applying anything that is not a function is ill-typed and gives f
// back unchanged.
func Apply(m *Metas, f, arg Value, implicit bool) Value {
	a := Arg{Value: arg, Implicit: implicit}
	switch f := f.(type) {
	case Located:
		return Apply(m, f.Value, arg, implicit)
	case VLam:
		return f.Body.Apply(m, arg)
	case Flexible:
		return Flexible{Meta: f.Meta, Spine: f.Spine.With(a)}
	case Rigid:
		return Rigid{Level: f.Level, Spine: f.Spine.With(a)}
	case VConst:
		return VConst{Const: f.Const, Spine: f.Spine.With(a)}
	}
	return f
}

func ApplySpine(m *Metas, f Value, spine Spine) Value {
	for _, a := range spine {
		f = Apply(m, f, a.Value, a.Implicit)
	}
	return f
}

// Force unfolds solved metas at the head of v and drops locations, until
// the head is something unification can look at.
func Force(m *Metas, v Value) Value {
	for {
		switch x := v.(type) {
		case Located:
			v = x.Value
		case Flexible:
			sol, ok := m.Lookup(x.Meta)
			if !ok {
				return x
			}
			v = ApplySpine(m, sol, x.Spine)
		default:
			return v
		}
	}
}

// Quote reads v back into a term in a context of size lvl, going under
// binders with fresh variables.
func Quote(m *Metas, lvl Level, v Value) Term {
	switch v := Force(m, v).(type) {
	case VUniverse:
		return Universe{}
	case VConst:
		return quoteSpine(m, lvl, v.Const, v.Spine)
	case Flexible:
		return quoteSpine(m, lvl, Meta{ID: v.Meta}, v.Spine)
	case Rigid:
		return quoteSpine(m, lvl, Var{Level: v.Level}, v.Spine)
	case VLam:
		return Lam{
			Name:     v.Name,
			Implicit: v.Implicit,
			Body:     Quote(m, lvl+1, v.Body.Apply(m, NewVar(lvl))),
		}
	case VPi:
		return Pi{
			Name:     v.Name,
			Implicit: v.Implicit,
			Domain:   Quote(m, lvl, v.Domain),
			Codomain: Quote(m, lvl+1, v.Codomain.Apply(m, NewVar(lvl))),
		}
	}
	panic("unreachable")
}

func quoteSpine(m *Metas, lvl Level, head Term, spine Spine) Term {
	for _, a := range spine {
		head = App{Callee: head, Argument: Quote(m, lvl, a.Value), Implicit: a.Implicit}
	}
	return head
}

// Normalize evaluates t in env and reads the result back, which also
// substitutes every solved meta.
func Normalize(m *Metas, env Env, t Term) Term {
	return Quote(m, Level(env.Len()), Eval(m, env, t))
}
