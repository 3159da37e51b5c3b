package hir

type Pattern interface {
	Node
	patternNode()
}

var (
	_ Pattern = EmptyPattern{}
	_ Pattern = LiteralPattern{}
	_ Pattern = Wildcard{}
	_ Pattern = RestPattern{}
	_ Pattern = ConstructorPattern{}
	_ Pattern = BindingPattern{}
)

type EmptyPattern struct {
	Loc Location
}

type LiteralPattern struct {
	Literal Literal
}

type Wildcard struct {
	Loc Location
}

type RestPattern struct {
	Loc Location
}

type ConstructorPattern struct {
	Reference Reference
	Arguments []Pattern
	Loc       Location
}

// BindingPattern introduces a new variable.
type BindingPattern struct {
	Name       Identifier
	Definition *Definition
}

func (EmptyPattern) patternNode()       {}
func (LiteralPattern) patternNode()     {}
func (Wildcard) patternNode()           {}
func (RestPattern) patternNode()        {}
func (ConstructorPattern) patternNode() {}
func (BindingPattern) patternNode()     {}

func (p EmptyPattern) Location() Location       { return p.Loc }
func (p LiteralPattern) Location() Location     { return p.Literal.Loc }
func (p Wildcard) Location() Location           { return p.Loc }
func (p RestPattern) Location() Location        { return p.Loc }
func (p ConstructorPattern) Location() Location { return p.Loc }
func (p BindingPattern) Location() Location     { return p.Name.Location }

type Stmt interface {
	Node
	stmtNode()
}

var (
	_ Stmt = EmptyStmt{}
	_ Stmt = LetStmt{}
	_ Stmt = AskStmt{}
	_ Stmt = ExprStmt{}
)

type EmptyStmt struct {
	Loc Location
}

// LetStmt is `let pattern = value`.
type LetStmt struct {
	Pattern Pattern
	Value   Expr
	Loc     Location
}

// AskStmt is `pattern <- value` inside do-notation.
type AskStmt struct {
	Pattern Pattern
	Value   Expr
	Loc     Location
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Expr Expr
}

func (EmptyStmt) stmtNode() {}
func (LetStmt) stmtNode()   {}
func (AskStmt) stmtNode()   {}
func (ExprStmt) stmtNode()  {}

func (s EmptyStmt) Location() Location { return s.Loc }
func (s LetStmt) Location() Location   { return s.Loc }
func (s AskStmt) Location() Location   { return s.Loc }
func (s ExprStmt) Location() Location  { return s.Expr.Location() }
