// Package primitives holds the types every Sol program can name without
// declaring them.
package primitives

import (
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/aripiprazole/saph/hir"
)

// File is the pseudo file name primitive definitions are located in.
const File = "<builtin>"

type entry struct {
	def *hir.Definition
	rep hir.TypeRep
}

// Bag maps primitive type names to their definitions. A name is bound to
// one definition for the lifetime of the bag, and the first registration of
// a name wins. A Bag is safe for concurrent use.
type Bag struct {
	once    sync.Once
	entries sync.Map // string -> *entry
	byDef   sync.Map // *hir.Definition -> *entry
}

func NewBag() *Bag {
	return &Bag{}
}

var defaultBag = NewBag()

// Default returns the process-wide bag, initialized.
func Default() *Bag {
	defaultBag.Initialize()
	return defaultBag
}

func builtin(name string, b hir.Builtin) (string, hir.TypeRep) {
	return name, hir.Upgrade(hir.Type{Builtin: b, Loc: hir.Location{File: File}})
}

func integer(signed bool, bits int) (string, hir.TypeRep) {
	b := hir.Builtin{Kind: hir.IntType, Signed: signed, Bits: bits}
	return builtin(b.String(), b)
}

// Initialize registers the built-in set. Only the first call does anything.
func (b *Bag) Initialize() {
	b.once.Do(func() {
		b.Register(builtin("String", hir.Builtin{Kind: hir.StringType}))
		b.Register(builtin("Unit", hir.Builtin{Kind: hir.UnitType}))
		b.Register(builtin("Bool", hir.Builtin{Kind: hir.BoolType}))
		b.Register(builtin("Nat", hir.Builtin{Kind: hir.NatType}))
		for _, bits := range []int{8, 16, 32, 64} {
			b.Register(integer(true, bits))
			b.Register(integer(false, bits))
		}
		b.alias("Int", "Int32")
	})
}

// Register binds name to rep and returns its definition. If name is already
// bound, the existing definition is returned and rep is ignored.
func (b *Bag) Register(name string, rep hir.TypeRep) *hir.Definition {
	if e, ok := b.entries.Load(name); ok {
		return e.(*entry).def
	}
	loc := hir.Location{File: File}
	e := &entry{def: hir.NewDefinition(hir.TypeKind, hir.NewPath(loc, name), loc), rep: rep}
	actual, loaded := b.entries.LoadOrStore(name, e)
	if !loaded {
		b.byDef.Store(e.def, e)
	}
	return actual.(*entry).def
}

func (b *Bag) alias(name, target string) {
	e, ok := b.entries.Load(target)
	if !ok {
		panic(fmt.Sprintf("primitives: alias %s of unknown primitive %s", name, target))
	}
	b.entries.LoadOrStore(name, e)
}

func (b *Bag) LookupTypeRep(name string) (hir.TypeRep, bool) {
	e, ok := b.entries.Load(name)
	if !ok {
		return hir.TypeRep{}, false
	}
	return e.(*entry).rep, true
}

func (b *Bag) LookupDefinition(name string) (*hir.Definition, bool) {
	e, ok := b.entries.Load(name)
	if !ok {
		return nil, false
	}
	return e.(*entry).def, true
}

// TypeRepOf returns the representation registered for def, if def is a
// primitive.
func (b *Bag) TypeRepOf(def *hir.Definition) (hir.TypeRep, bool) {
	e, ok := b.byDef.Load(def)
	if !ok {
		return hir.TypeRep{}, false
	}
	return e.(*entry).rep, true
}

// Names returns every registered name, sorted.
func (b *Bag) Names() []string {
	var names []string
	b.entries.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	slices.Sort(names)
	return names
}
