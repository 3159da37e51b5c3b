package thir_test

import (
	"testing"

	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/thir"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

var int32Type = thir.BuiltinOf(hir.Builtin{Kind: hir.IntType, Signed: true, Bits: 32}, hir.Location{})

// A term that would blow up if it were ever evaluated.
type bomb struct{ thir.Universe }

func TestClosureIsLazy(t *testing.T) {
	m := thir.NewMetas()
	pi := thir.Pi{Name: "x", Domain: thir.Universe{}, Codomain: bomb{}}
	v, ok := thir.Eval(m, thir.Env{}, pi).(thir.VPi)
	if !ok {
		t.Fatalf("want VPi, got %#v", v)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected applying the codomain to evaluate it")
		}
	}()
	v.Codomain.Apply(m, thir.VUniverse{})
}

func TestEvalBeta(t *testing.T) {
	m := thir.NewMetas()
	id := thir.Lam{Name: "x", Body: thir.Var{Level: 0}}
	app := thir.App{Callee: id, Argument: int32Type}
	got := thir.Normalize(m, thir.Env{}, app)
	if diff := pretty.Diff(got, thir.Term(int32Type)); len(diff) > 0 {
		t.Error(diff)
	}
}

func TestQuoteUnderBinder(t *testing.T) {
	m := thir.NewMetas()
	// \x -> \y -> x
	k := thir.Lam{Name: "x", Body: thir.Lam{Name: "y", Body: thir.Var{Level: 0}}}
	got := thir.Normalize(m, thir.Env{}, k)
	if diff := pretty.Diff(got, thir.Term(k)); len(diff) > 0 {
		t.Error(diff)
	}
	if s := thir.Show(got, nil); s != `\x -> \y -> x` {
		t.Errorf("got %s", s)
	}
}

func TestEnvLevels(t *testing.T) {
	env := thir.Env{}.Extend(thir.NewVar(0)).Extend(thir.VUniverse{})
	if env.Len() != 2 {
		t.Fatalf("len %d", env.Len())
	}
	if v, _ := env.At(1); v != (thir.VUniverse{}) {
		t.Errorf("level 1 = %#v", v)
	}
	if _, ok := env.At(2); ok {
		t.Error("level 2 should be out of range")
	}
	shorter := env.Values()
	if len(shorter) != 2 {
		t.Errorf("values %v", shorter)
	}
}

func TestMetaSolvedOnce(t *testing.T) {
	m := thir.NewMetas()
	id := m.Fresh(0)
	if _, ok := m.Lookup(id); ok {
		t.Fatal("fresh meta is solved")
	}
	if err := m.Solve(id, thir.VUniverse{}); err != nil {
		t.Fatal(err)
	}
	err := m.Solve(id, thir.VConst{Const: int32Type})
	if !errors.Is(err, thir.ErrMetaAlreadySolved) {
		t.Fatalf("second solve: %v", err)
	}
	if v, _ := m.Lookup(id); v != (thir.VUniverse{}) {
		t.Errorf("solution changed to %#v", v)
	}
}

func TestForeignMeta(t *testing.T) {
	a, b := thir.NewMetas(), thir.NewMetas()
	id := a.Fresh(0)
	if err := b.Solve(id, thir.VUniverse{}); !errors.Is(err, thir.ErrForeignMeta) {
		t.Fatalf("got %v", err)
	}
	if err := thir.Unify(b, 0, thir.Flexible{Meta: id}, thir.VUniverse{}); err == nil {
		t.Fatal("unified a foreign meta")
	}
	if _, ok := a.Lookup(id); ok {
		t.Error("foreign arena solved the meta")
	}
}

func TestUnifySolvesPattern(t *testing.T) {
	m := thir.NewMetas()
	// ?A x =?= Int32 -> x, in a context with one variable x.
	id := m.Fresh(1)
	lhs := thir.Eval(m, thir.Env{}.Extend(thir.NewVar(0)), thir.InsertedMeta{ID: id, Bound: []bool{true}})
	rhs := thir.VPi{Domain: thir.VConst{Const: int32Type}, Codomain: thir.Closure{Body: thir.Var{Level: 0}}}
	rhs.Codomain.Env = thir.Env{}.Extend(thir.NewVar(0))
	if err := thir.Unify(m, 1, lhs, rhs); err != nil {
		t.Fatal(err)
	}
	sol, ok := m.Lookup(id)
	if !ok {
		t.Fatal("meta unsolved")
	}
	got := thir.Show(thir.Quote(m, 0, sol), nil)
	if want := `\x0 -> Int32 -> x0`; got != want {
		t.Errorf("solution %s, want %s", got, want)
	}
}

func TestUnifyOccurs(t *testing.T) {
	m := thir.NewMetas()
	id := m.Fresh(0)
	flex := thir.Flexible{Meta: id}
	rhs := thir.VPi{Domain: flex, Codomain: thir.Closure{Body: thir.Universe{}}}
	err := thir.Unify(m, 0, flex, rhs)
	if !errors.Is(err, thir.ErrOccurs) {
		t.Fatalf("got %v", err)
	}
}

func TestUnifyEscape(t *testing.T) {
	m := thir.NewMetas()
	id := m.Fresh(0)
	err := thir.Unify(m, 1, thir.Flexible{Meta: id}, thir.NewVar(0))
	if !errors.Is(err, thir.ErrEscape) {
		t.Fatalf("got %v", err)
	}
}

func TestUnifyMismatch(t *testing.T) {
	m := thir.NewMetas()
	explicit := thir.VPi{Domain: thir.VUniverse{}, Codomain: thir.Closure{Body: thir.Universe{}}}
	implicit := explicit
	implicit.Implicit = true
	tests := []struct {
		name string
		a, b thir.Value
	}{
		{"universe const", thir.VUniverse{}, thir.VConst{Const: int32Type}},
		{"implicitness", explicit, implicit},
		{"rigid", thir.NewVar(0), thir.NewVar(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uerr *thir.UnifyError
			if err := thir.Unify(m, 2, tt.a, tt.b); !errors.As(err, &uerr) {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestUnifyEta(t *testing.T) {
	m := thir.NewMetas()
	f := thir.NewVar(0)
	// \x -> f x =?= f
	eta := thir.VLam{Name: "x", Body: thir.Closure{
		Env:  thir.Env{}.Extend(f),
		Body: thir.App{Callee: thir.Var{Level: 0}, Argument: thir.Var{Level: 1}},
	}}
	if err := thir.Unify(m, 1, eta, f); err != nil {
		t.Fatal(err)
	}
}

func TestShow(t *testing.T) {
	m := thir.NewMetas()
	a := m.Fresh(0)
	tests := []struct {
		term thir.Term
		want string
	}{
		{thir.Pi{Name: "x", Domain: thir.Meta{ID: a}, Codomain: thir.Meta{ID: a}}, "(x : ?A) -> ?A"},
		{thir.Pi{Name: "A", Implicit: true, Domain: thir.Universe{}, Codomain: thir.Pi{Domain: thir.Var{Level: 0}, Codomain: thir.Var{Level: 1}}}, "{A : Type} -> A -> $1"},
		{thir.App{Callee: thir.Meta{ID: a}, Argument: thir.App{Callee: int32Type, Argument: thir.Universe{}}}, "?A (Int32 Type)"},
		{thir.App{Callee: thir.Meta{ID: a}, Argument: thir.Universe{}, Implicit: true}, "?A {Type}"},
	}
	for _, tt := range tests {
		if got := thir.Show(tt.term, nil); got != tt.want {
			t.Errorf("got %s, want %s", got, tt.want)
		}
	}
}

func TestContext(t *testing.T) {
	x := hir.NewDefinition(hir.VariableKind, hir.NewPath(hir.Location{}, "x"), hir.Location{})
	var ctx thir.Context
	inner := ctx.InsertNewBinder(x, "x", thir.VUniverse{})
	if _, _, ok := ctx.Lookup(x); ok {
		t.Error("extending changed the outer context")
	}
	lvl, typ, ok := inner.Lookup(x)
	if !ok || lvl != 0 || typ != (thir.VUniverse{}) {
		t.Errorf("lookup: %v %v %v", lvl, typ, ok)
	}
	withValue := inner.CreateNewValue(nil, "y", thir.VUniverse{}, thir.VUniverse{})
	if diff := pretty.Diff(withValue.Bound(), []bool{true, false}); len(diff) > 0 {
		t.Error(diff)
	}
	if diff := pretty.Diff(withValue.Names(), []string{"x", "y"}); len(diff) > 0 {
		t.Error(diff)
	}
}
