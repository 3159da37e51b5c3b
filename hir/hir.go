// Package hir is the name-resolved intermediate representation of Sol
// programs. Every node carries the Location it was lowered from, and every
// name use is a Reference to a Definition.
package hir

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/aripiprazole/saph/lexer"
)

type Location struct {
	File string
	Span lexer.Span
}

func (l Location) IsZero() bool {
	return l.File == "" && l.Span.IsZero()
}

// Add returns the smallest location covering l and other. Both must be in
// the same file.
func (l Location) Add(other Location) Location {
	if l.IsZero() {
		return other
	}
	if other.IsZero() {
		return l
	}
	return Location{File: l.File, Span: l.Span.Add(other.Span)}
}

func (l Location) String() string {
	if l.File == "" {
		return l.Span.String()
	}
	return fmt.Sprintf("%s:%s", l.File, l.Span)
}

type Identifier struct {
	Name     string
	Location Location
}

func (id Identifier) String() string {
	return id.Name
}

// Path is a dotted name, like `Nat.Succ`.
type Path struct {
	Segments []Identifier
	Location Location
}

// NewPath builds a path whose segments all share loc.
func NewPath(loc Location, names ...string) Path {
	p := Path{Location: loc}
	for _, n := range names {
		p.Segments = append(p.Segments, Identifier{Name: n, Location: loc})
	}
	return p
}

func (p Path) Single() (Identifier, bool) {
	if len(p.Segments) != 1 {
		return Identifier{}, false
	}
	return p.Segments[0], true
}

// Name returns the last segment.
func (p Path) Name() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1].Name
}

// Prefix returns every segment but the last, joined with dots.
func (p Path) Prefix() string {
	if len(p.Segments) < 2 {
		return ""
	}
	names := make([]string, len(p.Segments)-1)
	for i, s := range p.Segments[:len(p.Segments)-1] {
		names[i] = s.Name
	}
	return strings.Join(names, ".")
}

func (p Path) String() string {
	names := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		names[i] = s.Name
	}
	return strings.Join(names, ".")
}

type DefinitionKind int

const (
	FunctionKind DefinitionKind = iota
	TypeKind
	ConstructorKind
	TraitKind
	// VariableKind is a local binder: a parameter, a pattern binding or a
	// free variable.
	VariableKind
	// UnresolvedKind marks the placeholder created for a name that could
	// not be found.
	UnresolvedKind
)

var definitionKindNames = [...]string{
	FunctionKind:    "function",
	TypeKind:        "type",
	ConstructorKind: "constructor",
	TraitKind:       "trait",
	VariableKind:    "variable",
	UnresolvedKind:  "unresolved",
}

func (k DefinitionKind) String() string {
	if k >= 0 && int(k) < len(definitionKindNames) {
		return definitionKindNames[k]
	}
	return fmt.Sprintf("DefinitionKind(%d)", int(k))
}

var lastDefinitionID atomic.Uint64

// Definition is a named entity. Definitions are compared by pointer; the ID
// only exists for printing and ordering.
type Definition struct {
	ID       uint64
	Kind     DefinitionKind
	Path     Path
	Location Location
}

func NewDefinition(kind DefinitionKind, path Path, loc Location) *Definition {
	return &Definition{
		ID:       lastDefinitionID.Add(1),
		Kind:     kind,
		Path:     path,
		Location: loc,
	}
}

func (d *Definition) Name() string {
	return d.Path.Name()
}

func (d *Definition) String() string {
	return fmt.Sprintf("%s#%d", d.Path, d.ID)
}

// Reference is one use of a Definition.
type Reference struct {
	Definition *Definition
	Location   Location
	TypeLevel  bool
}

func (r Reference) String() string {
	return r.Definition.String()
}
