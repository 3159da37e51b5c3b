package hir

import "fmt"

type Node interface {
	Location() Location
}

type Expr interface {
	Node
	exprNode()
}

var (
	_ Expr = Empty{}
	_ Expr = Error{}
	_ Expr = PathExpr{}
	_ Expr = Literal{}
	_ Expr = Type{}
	_ Expr = Ann{}
	_ Expr = Lam{}
	_ Expr = Call{}
	_ Expr = Match{}
	_ Expr = Pi{}
	_ Expr = Sigma{}
	_ Expr = Hole{}
	_ Expr = Block{}
)

// Empty is an expression with no content, such as a missing else branch.
type Empty struct {
	Loc Location
}

// Error replaces an expression that could not be lowered. A diagnostic has
// already been reported for it.
type Error struct {
	Loc     Location
	Message string
}

type PathExpr struct {
	Reference Reference
}

type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
)

type Literal struct {
	Kind   LiteralKind
	Int    int64
	String string
	Bool   bool
	Loc    Location
}

func IntLit(v int64, loc Location) Literal {
	return Literal{Kind: IntLiteral, Int: v, Loc: loc}
}

func StringLit(v string, loc Location) Literal {
	return Literal{Kind: StringLiteral, String: v, Loc: loc}
}

func BoolLit(v bool, loc Location) Literal {
	return Literal{Kind: BoolLiteral, Bool: v, Loc: loc}
}

// Equal compares the values of two literals, ignoring their locations.
func (l Literal) Equal(other Literal) bool {
	return l.Kind == other.Kind && l.Int == other.Int && l.String == other.String && l.Bool == other.Bool
}

type BuiltinKind int

const (
	Universe BuiltinKind = iota
	UnitType
	StringType
	BoolType
	NatType
	IntType
)

// Builtin is a type the compiler knows about. Signed and Bits only apply to
// IntType.
type Builtin struct {
	Kind   BuiltinKind
	Signed bool
	Bits   int
}

func (b Builtin) String() string {
	switch b.Kind {
	case Universe:
		return "Type"
	case UnitType:
		return "Unit"
	case StringType:
		return "String"
	case BoolType:
		return "Bool"
	case NatType:
		return "Nat"
	case IntType:
		if b.Signed {
			return fmt.Sprintf("Int%d", b.Bits)
		}
		return fmt.Sprintf("UInt%d", b.Bits)
	}
	return fmt.Sprintf("Builtin(%d)", int(b.Kind))
}

// Type is a builtin type used as an expression.
type Type struct {
	Builtin Builtin
	Loc     Location
}

// Ann is `value : type`.
type Ann struct {
	Value Expr
	Type  TypeRep
	Loc   Location
}

// Lam binds Parameters over Value. Scope holds the parameter bindings.
type Lam struct {
	Parameters []Parameter
	Value      Expr
	Scope      *Scope
	Loc        Location
}

type CallKind int

const (
	PrefixCall CallKind = iota
	InfixCall
)

type CalleeKind int

const (
	CalleeReference CalleeKind = iota
	CalleeExpr
	CalleeArray
	CalleeTuple
	// CalleePure is the callee of a lowered `return e`.
	CalleePure
	// CalleeUnit is the callee of a bare `return`.
	CalleeUnit
)

// Callee is what a Call applies. Reference is set for CalleeReference and
// Expr for CalleeExpr; the other kinds build a value from the arguments.
type Callee struct {
	Kind      CalleeKind
	Reference Reference
	Expr      Expr
}

// DoNotation is a block attached to a call.
type DoNotation struct {
	Stmts []Stmt
	Scope *Scope
	Loc   Location
}

type Call struct {
	Kind       CallKind
	Callee     Callee
	Arguments  []Expr
	DoNotation *DoNotation
	Loc        Location
}

type MatchKind int

const (
	PatternMatch MatchKind = iota
	// IfMatch is a match lowered from if-then-else.
	IfMatch
)

type Clause struct {
	Pattern Pattern
	Value   Expr
	Scope   *Scope
	Loc     Location
}

type Match struct {
	Kind      MatchKind
	Scrutinee Expr
	Clauses   []Clause
	Loc       Location
}

type Pi struct {
	Parameters []Parameter
	Value      TypeRep
	Scope      *Scope
	Loc        Location
}

type Sigma struct {
	Parameters []Parameter
	Value      TypeRep
	Scope      *Scope
	Loc        Location
}

type Hole struct {
	Loc Location
}

type Block struct {
	Stmts []Stmt
	Scope *Scope
	Loc   Location
}

func (Empty) exprNode()    {}
func (Error) exprNode()    {}
func (PathExpr) exprNode() {}
func (Literal) exprNode()  {}
func (Type) exprNode()     {}
func (Ann) exprNode()      {}
func (Lam) exprNode()      {}
func (Call) exprNode()     {}
func (Match) exprNode()    {}
func (Pi) exprNode()       {}
func (Sigma) exprNode()    {}
func (Hole) exprNode()     {}
func (Block) exprNode()    {}

func (e Empty) Location() Location    { return e.Loc }
func (e Error) Location() Location    { return e.Loc }
func (e PathExpr) Location() Location { return e.Reference.Location }
func (e Literal) Location() Location  { return e.Loc }
func (e Type) Location() Location     { return e.Loc }
func (e Ann) Location() Location      { return e.Loc }
func (e Lam) Location() Location      { return e.Loc }
func (e Call) Location() Location     { return e.Loc }
func (e Match) Location() Location    { return e.Loc }
func (e Pi) Location() Location       { return e.Loc }
func (e Sigma) Location() Location    { return e.Loc }
func (e Hole) Location() Location     { return e.Loc }
func (e Block) Location() Location    { return e.Loc }

// TypeRep is an expression in type position. Wrapping keeps the two roles
// apart while sharing one representation.
type TypeRep struct {
	Expr Expr
}

func Upgrade(e Expr) TypeRep {
	return TypeRep{Expr: e}
}

func (t TypeRep) Downgrade() Expr {
	return t.Expr
}

func (t TypeRep) IsZero() bool {
	return t.Expr == nil
}

func (t TypeRep) Location() Location {
	if t.Expr == nil {
		return Location{}
	}
	return t.Expr.Location()
}

// Parameter is a binder of a Lam, Pi or Sigma. An Unnamed parameter was
// written as a bare type, and its binder must never be shown to users.
type Parameter struct {
	Binding  Pattern
	Type     TypeRep
	Implicit bool
	Unnamed  bool
	Loc      Location
}

func (p Parameter) Location() Location {
	return p.Loc
}

// Definition returns the definition p binds, if it binds exactly one name.
func (p Parameter) Definition() (*Definition, bool) {
	if b, ok := p.Binding.(BindingPattern); ok {
		return b.Definition, true
	}
	return nil, false
}
