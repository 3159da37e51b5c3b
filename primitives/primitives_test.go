package primitives_test

import (
	"sync"
	"testing"

	"github.com/kr/pretty"

	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/primitives"
)

func TestInitialize(t *testing.T) {
	bag := primitives.NewBag()
	bag.Initialize()
	before := bag.Names()
	bag.Initialize()
	want := []string{
		"Bool", "Int", "Int16", "Int32", "Int64", "Int8", "Nat", "String",
		"UInt16", "UInt32", "UInt64", "UInt8", "Unit",
	}
	if diff := pretty.Diff(before, want); len(diff) > 0 {
		t.Errorf("names differ from expected:\n%s", diff)
	}
	if diff := pretty.Diff(bag.Names(), before); len(diff) > 0 {
		t.Errorf("second Initialize changed the bag:\n%s", diff)
	}
}

func TestIntAlias(t *testing.T) {
	bag := primitives.Default()
	i, ok := bag.LookupDefinition("Int")
	if !ok {
		t.Fatal("Int is not registered")
	}
	i32, _ := bag.LookupDefinition("Int32")
	if i != i32 {
		t.Errorf("Int = %v, Int32 = %v, want the same definition", i, i32)
	}
	rep, _ := bag.LookupTypeRep("Int")
	ty, ok := rep.Downgrade().(hir.Type)
	if !ok || ty.Builtin != (hir.Builtin{Kind: hir.IntType, Signed: true, Bits: 32}) {
		t.Errorf("Int is represented by %# v", pretty.Formatter(rep))
	}
}

func TestRegisterFirstWins(t *testing.T) {
	bag := primitives.NewBag()
	first := hir.Upgrade(hir.Type{Builtin: hir.Builtin{Kind: hir.BoolType}})
	second := hir.Upgrade(hir.Type{Builtin: hir.Builtin{Kind: hir.StringType}})

	a := bag.Register("Flag", first)
	b := bag.Register("Flag", second)
	if a != b {
		t.Fatalf("got two definitions %v and %v", a, b)
	}
	if def, _ := bag.LookupDefinition("Flag"); def != a {
		t.Errorf("LookupDefinition = %v, want %v", def, a)
	}
	rep, _ := bag.LookupTypeRep("Flag")
	if diff := pretty.Diff(rep, first); len(diff) > 0 {
		t.Errorf("re-registration replaced the representation:\n%s", diff)
	}
	if got, ok := bag.TypeRepOf(a); !ok || got != rep {
		t.Errorf("TypeRepOf = %v, %v", got, ok)
	}
}

func TestRegisterConcurrent(t *testing.T) {
	bag := primitives.NewBag()
	rep := hir.Upgrade(hir.Type{Builtin: hir.Builtin{Kind: hir.NatType}})
	defs := make([]*hir.Definition, 32)
	var wg sync.WaitGroup
	for i := range defs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defs[i] = bag.Register("Shared", rep)
		}(i)
	}
	wg.Wait()
	for _, d := range defs {
		if d != defs[0] {
			t.Fatalf("concurrent registration produced %v and %v", defs[0], d)
		}
	}
	if _, ok := bag.LookupDefinition("Missing"); ok {
		t.Error("found a primitive that was never registered")
	}
}
