// Package thir is the typed core of Sol: checked terms, their semantic
// values, and the evaluation, quotation and unification that move between
// the two.
package thir

import (
	"fmt"

	"github.com/aripiprazole/saph/hir"
)

// Level counts binders from the outside in. The outermost bound variable of
// a context has level 0.
type Level int

type Term interface {
	termNode()
}

var (
	_ Term = Universe{}
	_ Term = Var{}
	_ Term = Const{}
	_ Term = Lam{}
	_ Term = Pi{}
	_ Term = App{}
	_ Term = Meta{}
	_ Term = InsertedMeta{}
)

// Universe is the type of types, `Type`.
type Universe struct{}

type Var struct {
	Level Level
}

type ConstKind int

const (
	LiteralConst ConstKind = iota
	BuiltinConst
	ReferenceConst
)

// Const is a literal, a builtin type, or a reference to a global
// definition. Consts compare equal regardless of their locations.
type Const struct {
	Kind      ConstKind
	Literal   hir.Literal
	Builtin   hir.Builtin
	Reference *hir.Definition
	Loc       hir.Location
}

func LiteralOf(lit hir.Literal) Const {
	return Const{Kind: LiteralConst, Literal: lit, Loc: lit.Loc}
}

func BuiltinOf(b hir.Builtin, loc hir.Location) Const {
	return Const{Kind: BuiltinConst, Builtin: b, Loc: loc}
}

func ReferenceOf(def *hir.Definition, loc hir.Location) Const {
	return Const{Kind: ReferenceConst, Reference: def, Loc: loc}
}

func (c Const) Equal(other Const) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case LiteralConst:
		return c.Literal.Equal(other.Literal)
	case BuiltinConst:
		return c.Builtin == other.Builtin
	}
	return c.Reference == other.Reference
}

func (c Const) String() string {
	switch c.Kind {
	case LiteralConst:
		switch c.Literal.Kind {
		case hir.IntLiteral:
			return fmt.Sprint(c.Literal.Int)
		case hir.StringLiteral:
			return fmt.Sprintf("%q", c.Literal.String)
		}
		return fmt.Sprint(c.Literal.Bool)
	case BuiltinConst:
		return c.Builtin.String()
	}
	if c.Reference == nil {
		return "<nil>"
	}
	return c.Reference.Path.String()
}

// Lam binds Name over Body. An empty Name is an anonymous binder.
type Lam struct {
	Name     string
	Implicit bool
	Body     Term
}

type Pi struct {
	Name     string
	Implicit bool
	Domain   Term
	Codomain Term
}

type App struct {
	Callee   Term
	Argument Term
	Implicit bool
}

type Meta struct {
	ID MetaID
}

// InsertedMeta is a meta applied to every bound variable of the context it
// was created in. Bound has one entry per context entry; only binders are
// passed, not let-bound values.
type InsertedMeta struct {
	ID    MetaID
	Bound []bool
}

func (Universe) termNode()     {}
func (Var) termNode()          {}
func (Const) termNode()        {}
func (Lam) termNode()          {}
func (Pi) termNode()           {}
func (App) termNode()          {}
func (Meta) termNode()         {}
func (InsertedMeta) termNode() {}
