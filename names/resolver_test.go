package names_test

import (
	"math/rand"
	"testing"

	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/lexer"
	"github.com/aripiprazole/saph/names"
)

type globals map[string]*hir.Definition

func (g globals) find(kind hir.DefinitionKind, path hir.Path) (*hir.Definition, bool) {
	def, ok := g[path.String()]
	if !ok || def.Kind != kind {
		return nil, false
	}
	return def, true
}

func (g globals) FindFunction(p hir.Path) (*hir.Definition, bool) {
	return g.find(hir.FunctionKind, p)
}
func (g globals) FindType(p hir.Path) (*hir.Definition, bool) { return g.find(hir.TypeKind, p) }
func (g globals) FindConstructor(p hir.Path) (*hir.Definition, bool) {
	return g.find(hir.ConstructorKind, p)
}
func (g globals) FindTrait(p hir.Path) (*hir.Definition, bool) { return g.find(hir.TraitKind, p) }

func at(offset, length int) hir.Location {
	return hir.Location{File: "test.sol", Span: lexer.Span{
		Start: lexer.Pos{Offset: offset, Line: 1, Column: offset + 1},
		End:   lexer.Pos{Offset: offset + length, Line: 1, Column: offset + length + 1},
	}}
}

func ident(name string, offset int) hir.Identifier {
	return hir.Identifier{Name: name, Location: at(offset, len(name))}
}

func TestForkPopBalance(t *testing.T) {
	r := names.NewResolver(nil, nil)
	kinds := []hir.ScopeKind{hir.LambdaScope, hir.PiScope, hir.SigmaScope, hir.DoNotationScope, hir.BlockScope, hir.CaseScope}
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		before := r.Scope()
		var stack []*hir.Scope
		for i := 0; i < 1+rng.Intn(8); i++ {
			stack = append(stack, r.Scope())
			r.Fork(kinds[rng.Intn(len(kinds))])
		}
		for len(stack) > 0 {
			want := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			popped := r.Pop()
			if !popped.Sealed() {
				t.Fatal("popped scope is still open")
			}
			if r.Scope() != want {
				t.Fatalf("trial %d: current scope after pop is not the scope before the fork", trial)
			}
		}
		if r.Scope() != before {
			t.Fatalf("trial %d: unbalanced scopes", trial)
		}
	}
}

func TestLocalShadowsGlobal(t *testing.T) {
	global := hir.NewDefinition(hir.FunctionKind, hir.NewPath(at(0, 1), "x"), at(0, 1))
	r := names.NewResolver(globals{"x": global}, nil)

	if got := r.Qualify(hir.NewPath(at(10, 1), "x"), hir.FunctionKind); got != global {
		t.Fatalf("Qualify(x) = %v, want the global", got)
	}
	r.Fork(hir.LambdaScope)
	local := r.Define(ident("x", 3))
	if got := r.Qualify(hir.NewPath(at(10, 1), "x"), hir.FunctionKind); got != local {
		t.Errorf("Qualify(x) = %v, want the local binding", got)
	}
	r.Pop()
	if got := r.Qualify(hir.NewPath(at(10, 1), "x"), hir.FunctionKind); got != global {
		t.Errorf("Qualify(x) after pop = %v, want the global", got)
	}
}

func TestUnresolved(t *testing.T) {
	var sink diagnostic.Collector
	r := names.NewResolver(globals{}, &sink)
	path := hir.NewPath(at(4, 3), "foo")
	def := r.Qualify(path, hir.FunctionKind)
	if def == nil || def.Kind != hir.UnresolvedKind {
		t.Fatalf("Qualify(foo) = %v, want an unresolved placeholder", def)
	}
	diags := sink.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Kind != diagnostic.Unresolved || diags[0].Location != path.Location {
		t.Errorf("got %v, want an unresolved diagnostic at %v", diags[0], path.Location)
	}
	if _, ok := r.Lookup(path, hir.FunctionKind); ok {
		t.Error("Lookup found an unresolved name")
	}
	if sink.Len() != 1 {
		t.Error("Lookup reported a diagnostic")
	}
}

func TestFreeVariablesShared(t *testing.T) {
	r := names.NewResolver(nil, nil)
	outer := r.Fork(hir.PiScope)
	r.Fork(hir.PiScope)
	a1 := r.InsertFreeVariable(hir.NewPath(at(1, 1), "a"))
	r.Pop()
	a2 := r.InsertFreeVariable(hir.NewPath(at(7, 1), "a"))
	if a1.Definition != a2.Definition {
		t.Errorf("two occurrences of ^a got %v and %v", a1.Definition, a2.Definition)
	}
	if !a1.TypeLevel || a1.Location != at(1, 1) || a2.Location != at(7, 1) {
		t.Errorf("references = %+v, %+v", a1, a2)
	}
	if free := outer.FreeVariables(); len(free) != 1 || free[0] != a1.Definition {
		t.Errorf("outer pi scope holds %v", free)
	}
	r.Pop()
}

func TestIsDoNotation(t *testing.T) {
	r := names.NewResolver(nil, nil)
	if r.IsDoNotation() {
		t.Error("file scope is do-notation")
	}
	r.Fork(hir.DoNotationScope)
	r.Fork(hir.BlockScope)
	if !r.IsDoNotation() {
		t.Error("block inside do-notation is not do-notation")
	}
	r.Fork(hir.LambdaScope)
	if r.IsDoNotation() {
		t.Error("lambda inside do-notation is do-notation")
	}
}
