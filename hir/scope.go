package hir

import "fmt"

type ScopeKind int

const (
	FileScope ScopeKind = iota
	LambdaScope
	PiScope
	SigmaScope
	DoNotationScope
	BlockScope
	CaseScope
)

var scopeKindNames = [...]string{
	FileScope:       "file",
	LambdaScope:     "lambda",
	PiScope:         "pi",
	SigmaScope:      "sigma",
	DoNotationScope: "do-notation",
	BlockScope:      "block",
	CaseScope:       "case",
}

func (k ScopeKind) String() string {
	if k >= 0 && int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return fmt.Sprintf("ScopeKind(%d)", int(k))
}

// Scope is one lexical frame. While it is the resolver's current scope it
// can grow; once popped it is sealed and shared by the HIR nodes that
// captured it.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope
	defs   map[string]*Definition
	order  []*Definition
	free   []*Definition
	sealed bool
}

func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent, defs: make(map[string]*Definition)}
}

func (s *Scope) mustBeOpen() {
	if s.sealed {
		panic(fmt.Sprintf("hir: %s scope is sealed", s.Kind))
	}
}

// Define binds name in s, shadowing any earlier binding of the same name.
func (s *Scope) Define(name string, def *Definition) {
	s.mustBeOpen()
	s.defs[name] = def
	s.order = append(s.order, def)
}

// InsertFree binds name as a free variable of s.
func (s *Scope) InsertFree(name string, def *Definition) {
	s.Define(name, def)
	s.free = append(s.free, def)
}

// Lookup searches s only, not its parents.
func (s *Scope) Lookup(name string) (*Definition, bool) {
	def, ok := s.defs[name]
	return def, ok
}

// Definitions returns the names bound in s in binding order.
func (s *Scope) Definitions() []*Definition {
	return append([]*Definition(nil), s.order...)
}

func (s *Scope) FreeVariables() []*Definition {
	return append([]*Definition(nil), s.free...)
}

// Seal makes s immutable and returns it.
func (s *Scope) Seal() *Scope {
	s.sealed = true
	return s
}

func (s *Scope) Sealed() bool {
	return s.sealed
}

func (s *Scope) Depth() int {
	depth := 0
	for p := s.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}
