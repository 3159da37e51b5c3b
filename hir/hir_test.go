package hir_test

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/lexer"
)

func loc(offset int) hir.Location {
	return hir.Location{
		File: "test.sol",
		Span: lexer.Span{
			Start: lexer.Pos{Offset: offset, Line: 1, Column: offset + 1},
			End:   lexer.Pos{Offset: offset + 1, Line: 1, Column: offset + 2},
		},
	}
}

func variable(name string, offset int) (*hir.Definition, hir.BindingPattern) {
	def := hir.NewDefinition(hir.VariableKind, hir.NewPath(loc(offset), name), loc(offset))
	return def, hir.BindingPattern{Name: hir.Identifier{Name: name, Location: loc(offset)}, Definition: def}
}

func TestUpgradeDowngrade(t *testing.T) {
	x, xb := variable("x", 1)
	exprs := []hir.Expr{
		hir.Empty{Loc: loc(0)},
		hir.IntLit(42, loc(0)),
		hir.Type{Builtin: hir.Builtin{Kind: hir.Universe}, Loc: loc(0)},
		hir.PathExpr{Reference: hir.Reference{Definition: x, Location: loc(2)}},
		hir.Lam{
			Parameters: []hir.Parameter{{Binding: xb, Loc: loc(1)}},
			Value:      hir.PathExpr{Reference: hir.Reference{Definition: x, Location: loc(2)}},
			Loc:        loc(0),
		},
		hir.Hole{Loc: loc(3)},
	}
	for _, e := range exprs {
		got := hir.Upgrade(e).Downgrade()
		if diff := pretty.Diff(e, got); len(diff) > 0 {
			t.Errorf("round trip of %T changed it:\n%s", e, diff)
		}
	}
	if !hir.Upgrade(nil).IsZero() {
		t.Error("upgrading nil should give an empty type")
	}
}

func TestScopeSeal(t *testing.T) {
	file := hir.NewScope(hir.FileScope, nil)
	lam := hir.NewScope(hir.LambdaScope, file)
	x, _ := variable("x", 0)
	lam.Define("x", x)
	if got, ok := lam.Lookup("x"); !ok || got != x {
		t.Fatalf("Lookup(x) = %v, %v", got, ok)
	}
	if _, ok := file.Lookup("x"); ok {
		t.Error("parent scope sees a child binding")
	}
	if lam.Depth() != 1 {
		t.Errorf("depth = %d, want 1", lam.Depth())
	}
	lam.Seal()
	defer func() {
		if recover() == nil {
			t.Error("defining in a sealed scope did not panic")
		}
	}()
	lam.Define("y", x)
}

func TestCurry(t *testing.T) {
	x, xb := variable("x", 1)
	_, yb := variable("y", 5)
	body := hir.PathExpr{Reference: hir.Reference{Definition: x, Location: loc(9)}}
	lam := hir.Lam{
		Parameters: []hir.Parameter{{Binding: xb}},
		Value: hir.Lam{
			Parameters: []hir.Parameter{{Binding: yb}},
			Value:      body,
		},
	}
	params, got := hir.Parameters(hir.Curry(lam))
	if len(params) != 2 {
		t.Fatalf("got %d parameters, want 2", len(params))
	}
	if names := hir.ParameterNames(params); len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("names = %v, want [x y]", names)
	}
	if got != hir.Expr(body) {
		t.Errorf("body = %# v", pretty.Formatter(got))
	}
}

func TestParameterNamesHidesUnnamed(t *testing.T) {
	_, xb := variable("x", 0)
	_, hidden := variable("_0", 4)
	params := []hir.Parameter{
		{Binding: xb},
		{Binding: hidden, Unnamed: true},
	}
	if names := hir.ParameterNames(params); len(names) != 1 || names[0] != "x" {
		t.Errorf("names = %v, want [x]", names)
	}
}

func TestReferences(t *testing.T) {
	x, xb := variable("x", 1)
	f := hir.NewDefinition(hir.FunctionKind, hir.NewPath(loc(0), "f"), loc(0))
	ref := func(d *hir.Definition) hir.Expr {
		return hir.PathExpr{Reference: hir.Reference{Definition: d}}
	}
	e := hir.Lam{
		Parameters: []hir.Parameter{{Binding: xb}},
		Value: hir.Call{
			Callee:    hir.Callee{Kind: hir.CalleeReference, Reference: hir.Reference{Definition: f}},
			Arguments: []hir.Expr{ref(x), ref(x), ref(f)},
		},
	}
	got := hir.References(e)
	if len(got) != 2 || got[0] != f || got[1] != x {
		t.Errorf("References = %v, want [f x]", got)
	}
}

func TestWalkStops(t *testing.T) {
	e := hir.Call{
		Callee:    hir.Callee{Kind: hir.CalleeExpr, Expr: hir.Hole{}},
		Arguments: []hir.Expr{hir.Hole{}, hir.Hole{}},
	}
	holes := 0
	hir.Walk(e, func(n hir.Node, rec hir.Rec) bool {
		if _, ok := n.(hir.Hole); ok {
			holes++
			return holes == 2
		}
		return rec(n)
	})
	if holes != 2 {
		t.Errorf("visited %d holes, want the walk to stop at 2", holes)
	}
}
