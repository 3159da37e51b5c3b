package parser

import (
	"fmt"
	"strings"

	"github.com/aripiprazole/saph/lexer"
)

type Node interface {
	LeadingTrivia() []lexer.Token
	Span() lexer.Span
	ASTString(depth int) string
}

// Each syntactic category is a closed set of node types. The marker
// methods keep nodes of one category from being used in another.

type Decl interface {
	Node
	declNode()
}

type Expr interface {
	Node
	exprNode()
}

type Pattern interface {
	Node
	patternNode()
}

type Stmt interface {
	Node
	stmtNode()
}

var (
	_ Decl = Binding{}
	_ Decl = Signature{}
	_ Decl = DataDecl{}
	_ Decl = TraitDecl{}
	_ Decl = Illegal{}

	_ Expr = Path{}
	_ Expr = FreeVar{}
	_ Expr = Literal{}
	_ Expr = Universe{}
	_ Expr = Hole{}
	_ Expr = Lambda{}
	_ Expr = Arrow{}
	_ Expr = ParamList{}
	_ Expr = Ann{}
	_ Expr = App{}
	_ Expr = BinaryExpr{}
	_ Expr = If{}
	_ Expr = Match{}
	_ Expr = Return{}
	_ Expr = Array{}
	_ Expr = Tuple{}
	_ Expr = Paren{}
	_ Expr = Unit{}
	_ Expr = Do{}
	_ Expr = Block{}
	_ Expr = Illegal{}

	_ Pattern = PatternPath{}
	_ Pattern = Literal{}
	_ Pattern = Hole{}
	_ Pattern = Rest{}
	_ Pattern = Illegal{}

	_ Stmt = LetStmt{}
	_ Stmt = AskStmt{}
	_ Stmt = ExprStmt{}
	_ Stmt = Illegal{}
)

func spanOf(n any) lexer.Span {
	if n == nil {
		return lexer.Span{}
	}
	switch n := n.(type) {
	case lexer.Token:
		return n.Span
	case Node:
		return n.Span()
	case []Node:
		if len(n) > 0 {
			return spanOf(n[0]).Add(spanOf(n[len(n)-1]))
		}
	}
	return lexer.Span{}
}

func leadingTriviaOf(n Node) []lexer.Token {
	if n == nil {
		return nil
	}
	return n.LeadingTrivia()
}

func nodes[T Node](xs []T) []Node {
	ns := make([]Node, len(xs))
	for i, x := range xs {
		ns[i] = x
	}
	return ns
}

func indent(depth int) string {
	return fmt.Sprintf("%*s", depth*2, "")
}

type field struct {
	name  string
	value any
}

func printNodeSlice(depth int, ns []Node) string {
	if len(ns) == 0 {
		return "[]"
	}
	s := fmt.Sprintf("[\n%s", indent(depth+1))
	for _, n := range ns {
		s += fmt.Sprintf("%s\n%s", n.ASTString(depth+1), indent(depth+1))
	}
	s += "]"
	return s
}

// printNode renders name followed by one indented line per field. Absent
// fields (nil nodes, zero tokens) are left out.
func printNode(depth int, name string, fields ...field) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, f := range fields {
		var v string
		switch x := f.value.(type) {
		case nil:
			continue
		case lexer.Token:
			if x.Span.IsZero() {
				continue
			}
			v = x.String()
		case []Node:
			v = printNodeSlice(depth+1, x)
		case Node:
			v = x.ASTString(depth + 1)
		default:
			v = fmt.Sprint(x)
		}
		fmt.Fprintf(&sb, "\n%s%s: %s", indent(depth+1), f.name, v)
	}
	return sb.String()
}

func PrintAST(root Node) {
	fmt.Println(root.ASTString(0))
}

// File is the syntax tree of one source file.
type File struct {
	Name           string
	Decls          []Decl
	trailingTrivia []lexer.Token
}

func (f File) ASTString(depth int) string {
	return fmt.Sprintf("%sFile %q\n%sDecls: %s\n%sTrailingTrivia: %v",
		indent(depth), f.Name, indent(depth+1),
		printNodeSlice(depth+1, nodes(f.Decls)), indent(depth+1),
		f.trailingTrivia)
}

func (f File) LeadingTrivia() []lexer.Token {
	if len(f.Decls) > 0 {
		return f.Decls[0].LeadingTrivia()
	}
	return nil
}

func (f File) Span() lexer.Span {
	return spanOf(nodes(f.Decls))
}

func (f File) TrailingTrivia() []lexer.Token {
	return f.trailingTrivia
}

// Illegal stands in for a node that failed to parse. It belongs to every
// category so recovery can happen anywhere.
type Illegal struct {
	leadingTrivia []lexer.Token
	span          lexer.Span
	Node          Node
	Msg           string
}

func (Illegal) declNode()    {}
func (Illegal) exprNode()    {}
func (Illegal) patternNode() {}
func (Illegal) stmtNode()    {}

func (i Illegal) ASTString(depth int) string {
	return printNode(depth, "Illegal",
		field{"span", i.span},
		field{"Node", i.Node},
		field{"Msg", fmt.Sprintf("%q", i.Msg)})
}

func (i Illegal) LeadingTrivia() []lexer.Token {
	if len(i.leadingTrivia) > 0 {
		return i.leadingTrivia
	}
	return leadingTriviaOf(i.Node)
}

func (i Illegal) Span() lexer.Span {
	return i.span.Add(spanOf(i.Node))
}

// Name is a declared name, either an identifier or a parenthesized operator.
type Name struct {
	LeftParen  lexer.Token
	Tok        lexer.Token
	RightParen lexer.Token
}

func (n Name) Text() string {
	return n.Tok.Text()
}

func (n Name) ASTString(depth int) string {
	return n.Tok.String()
}

func (n Name) LeadingTrivia() []lexer.Token {
	if n.LeftParen.Type == lexer.LeftParen {
		return n.LeftParen.LeadingTrivia
	}
	return n.Tok.LeadingTrivia
}

func (n Name) Span() lexer.Span {
	return n.LeftParen.Span.Add(n.Tok.Span).Add(n.RightParen.Span)
}

// Binding is `let name params (: type)? = value`.
type Binding struct {
	Let    lexer.Token
	Name   Name
	Params []Pattern
	Colon  lexer.Token
	Type   Expr
	Equals lexer.Token
	Value  Expr
}

func (Binding) declNode() {}

func (b Binding) ASTString(depth int) string {
	return printNode(depth, "Binding",
		field{"Name", b.Name},
		field{"Params", nodes(b.Params)},
		field{"Type", exprOrNil(b.Type)},
		field{"Value", exprOrNil(b.Value)})
}

func (b Binding) LeadingTrivia() []lexer.Token {
	return b.Let.LeadingTrivia
}

func (b Binding) Span() lexer.Span {
	return b.Let.Span.Add(b.Name.Span()).Add(spanOf(b.Value)).Add(spanOf(b.Type))
}

// Signature is `name : type` or `let name : type`.
type Signature struct {
	Let   lexer.Token
	Name  Name
	Colon lexer.Token
	Type  Expr
}

func (Signature) declNode() {}

func (s Signature) ASTString(depth int) string {
	return printNode(depth, "Signature",
		field{"Name", s.Name},
		field{"Type", exprOrNil(s.Type)})
}

func (s Signature) LeadingTrivia() []lexer.Token {
	if s.Let.Type == lexer.Let {
		return s.Let.LeadingTrivia
	}
	return s.Name.LeadingTrivia()
}

func (s Signature) Span() lexer.Span {
	return s.Let.Span.Add(s.Name.Span()).Add(spanOf(s.Type))
}

type ConstructorDecl struct {
	Name  Name
	Colon lexer.Token
	Type  Expr
}

func (c ConstructorDecl) ASTString(depth int) string {
	return printNode(depth, "ConstructorDecl",
		field{"Name", c.Name},
		field{"Type", exprOrNil(c.Type)})
}

func (c ConstructorDecl) LeadingTrivia() []lexer.Token {
	return c.Name.LeadingTrivia()
}

func (c ConstructorDecl) Span() lexer.Span {
	return c.Name.Span().Add(spanOf(c.Type))
}

// DataDecl is `data Name (: type)? { C : T, ... }`.
type DataDecl struct {
	Data         lexer.Token
	Name         Name
	Colon        lexer.Token
	Type         Expr
	LeftBrace    lexer.Token
	Constructors []ConstructorDecl
	RightBrace   lexer.Token
}

func (DataDecl) declNode() {}

func (d DataDecl) ASTString(depth int) string {
	return printNode(depth, "DataDecl",
		field{"Name", d.Name},
		field{"Type", exprOrNil(d.Type)},
		field{"Constructors", nodes(d.Constructors)})
}

func (d DataDecl) LeadingTrivia() []lexer.Token {
	return d.Data.LeadingTrivia
}

func (d DataDecl) Span() lexer.Span {
	return d.Data.Span.Add(d.Name.Span()).Add(spanOf(d.Type)).Add(d.RightBrace.Span)
}

// TraitDecl is `trait Name : type`.
type TraitDecl struct {
	Trait lexer.Token
	Name  Name
	Colon lexer.Token
	Type  Expr
}

func (TraitDecl) declNode() {}

func (t TraitDecl) ASTString(depth int) string {
	return printNode(depth, "TraitDecl",
		field{"Name", t.Name},
		field{"Type", exprOrNil(t.Type)})
}

func (t TraitDecl) LeadingTrivia() []lexer.Token {
	return t.Trait.LeadingTrivia
}

func (t TraitDecl) Span() lexer.Span {
	return t.Trait.Span.Add(t.Name.Span()).Add(spanOf(t.Type))
}

func exprOrNil(e Expr) Node {
	if e == nil {
		return nil
	}
	return e
}

// Path is a dotted sequence of identifiers, `a.b.c`. An operator in
// parentheses, `(+)`, is a single-segment path.
type Path struct {
	Segments []lexer.Token
}

func (Path) exprNode() {}

func (p Path) Names() []string {
	names := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		names[i] = s.Text()
	}
	return names
}

func (p Path) String() string {
	return strings.Join(p.Names(), ".")
}

func (p Path) ASTString(depth int) string {
	return fmt.Sprintf("Path %q", p.String())
}

func (p Path) LeadingTrivia() []lexer.Token {
	if len(p.Segments) == 0 {
		return nil
	}
	return p.Segments[0].LeadingTrivia
}

func (p Path) Span() lexer.Span {
	if len(p.Segments) == 0 {
		return lexer.Span{}
	}
	return p.Segments[0].Span.Add(p.Segments[len(p.Segments)-1].Span)
}

// FreeVar is `^name`.
type FreeVar struct {
	Tok lexer.Token
}

func (FreeVar) exprNode() {}

func (f FreeVar) Name() string {
	return strings.TrimPrefix(f.Tok.Data, "^")
}

func (f FreeVar) ASTString(depth int) string { return f.Tok.String() }
func (f FreeVar) LeadingTrivia() []lexer.Token { return f.Tok.LeadingTrivia }
func (f FreeVar) Span() lexer.Span { return f.Tok.Span }

// Literal is a number, string, or boolean token.
type Literal struct {
	Tok lexer.Token
}

func (Literal) exprNode()    {}
func (Literal) patternNode() {}

func (l Literal) ASTString(depth int) string { return "Literal " + l.Tok.String() }
func (l Literal) LeadingTrivia() []lexer.Token { return l.Tok.LeadingTrivia }
func (l Literal) Span() lexer.Span { return l.Tok.Span }

// Universe is the `Type` keyword.
type Universe struct {
	Tok lexer.Token
}

func (Universe) exprNode() {}

func (u Universe) ASTString(depth int) string { return "Universe" }
func (u Universe) LeadingTrivia() []lexer.Token { return u.Tok.LeadingTrivia }
func (u Universe) Span() lexer.Span { return u.Tok.Span }

// Hole is `_`. In pattern position it is a wildcard.
type Hole struct {
	Tok lexer.Token
}

func (Hole) exprNode()    {}
func (Hole) patternNode() {}

func (h Hole) ASTString(depth int) string { return "Hole" }
func (h Hole) LeadingTrivia() []lexer.Token { return h.Tok.LeadingTrivia }
func (h Hole) Span() lexer.Span { return h.Tok.Span }

// Rest is the `..` pattern.
type Rest struct {
	Tok lexer.Token
}

func (Rest) patternNode() {}

func (r Rest) ASTString(depth int) string { return "Rest" }
func (r Rest) LeadingTrivia() []lexer.Token { return r.Tok.LeadingTrivia }
func (r Rest) Span() lexer.Span { return r.Tok.Span }

// PatternPath is a binding (`x`) or a constructor pattern (`Succ n`). Which
// one it is gets decided during name resolution.
type PatternPath struct {
	Path Path
	Args []Pattern
}

func (PatternPath) patternNode() {}

func (p PatternPath) ASTString(depth int) string {
	if len(p.Args) == 0 {
		return p.Path.ASTString(depth)
	}
	return printNode(depth, "PatternPath",
		field{"Path", p.Path},
		field{"Args", nodes(p.Args)})
}

func (p PatternPath) LeadingTrivia() []lexer.Token {
	return p.Path.LeadingTrivia()
}

func (p PatternPath) Span() lexer.Span {
	return p.Path.Span().Add(spanOf(nodes(p.Args)))
}

// Lambda is `\p1 p2 -> body`.
type Lambda struct {
	Backslash lexer.Token
	Params    []Pattern
	Arrow     lexer.Token
	Body      Expr
}

func (Lambda) exprNode() {}

func (l Lambda) ASTString(depth int) string {
	return printNode(depth, "Lambda",
		field{"Params", nodes(l.Params)},
		field{"Body", exprOrNil(l.Body)})
}

func (l Lambda) LeadingTrivia() []lexer.Token {
	return l.Backslash.LeadingTrivia
}

func (l Lambda) Span() lexer.Span {
	return l.Backslash.Span.Add(spanOf(l.Body))
}

// Param is one `pattern : type` entry of a parameter list. Type is nil when
// only the pattern was given.
type Param struct {
	Pattern Pattern
	Colon   lexer.Token
	Type    Expr
}

func (p Param) ASTString(depth int) string {
	return printNode(depth, "Param",
		field{"Pattern", p.Pattern},
		field{"Type", exprOrNil(p.Type)})
}

func (p Param) LeadingTrivia() []lexer.Token {
	return leadingTriviaOf(p.Pattern)
}

func (p Param) Span() lexer.Span {
	return spanOf(p.Pattern).Add(spanOf(p.Type))
}

// ParamList is the domain of a dependent arrow: `(x : A)` for explicit,
// `{x : A}` for implicit, and `[x : A]` for sigma parameters. It only
// appears on the left of an Arrow.
type ParamList struct {
	Open   lexer.Token
	Params []Param
	Close  lexer.Token
}

func (ParamList) exprNode() {}

func (p ParamList) Implicit() bool {
	return p.Open.Type == lexer.LeftBrace
}

func (p ParamList) Sigma() bool {
	return p.Open.Type == lexer.LeftBracket
}

func (p ParamList) ASTString(depth int) string {
	return printNode(depth, "ParamList",
		field{"Open", p.Open},
		field{"Params", nodes(p.Params)})
}

func (p ParamList) LeadingTrivia() []lexer.Token {
	return p.Open.LeadingTrivia
}

func (p ParamList) Span() lexer.Span {
	return p.Open.Span.Add(p.Close.Span)
}

// Arrow is a pi or sigma type, `domain -> codomain`. A domain that is not a
// ParamList is an unnamed parameter.
type Arrow struct {
	Domain   Expr
	Arrow    lexer.Token
	Codomain Expr
}

func (Arrow) exprNode() {}

func (a Arrow) ASTString(depth int) string {
	return printNode(depth, "Arrow",
		field{"Domain", exprOrNil(a.Domain)},
		field{"Codomain", exprOrNil(a.Codomain)})
}

func (a Arrow) LeadingTrivia() []lexer.Token {
	return leadingTriviaOf(a.Domain)
}

func (a Arrow) Span() lexer.Span {
	return spanOf(a.Domain).Add(spanOf(a.Codomain))
}

// Ann is `value : type`.
type Ann struct {
	Value Expr
	Colon lexer.Token
	Type  Expr
}

func (Ann) exprNode() {}

func (a Ann) ASTString(depth int) string {
	return printNode(depth, "Ann",
		field{"Value", exprOrNil(a.Value)},
		field{"Type", exprOrNil(a.Type)})
}

func (a Ann) LeadingTrivia() []lexer.Token {
	return leadingTriviaOf(a.Value)
}

func (a Ann) Span() lexer.Span {
	return spanOf(a.Value).Add(spanOf(a.Type))
}

// App is application by juxtaposition, followed by any trailing blocks.
type App struct {
	Callee Expr
	Args   []Expr
	Blocks []Block
}

func (App) exprNode() {}

func (a App) ASTString(depth int) string {
	return printNode(depth, "App",
		field{"Callee", exprOrNil(a.Callee)},
		field{"Args", nodes(a.Args)},
		field{"Blocks", nodes(a.Blocks)})
}

func (a App) LeadingTrivia() []lexer.Token {
	return leadingTriviaOf(a.Callee)
}

func (a App) Span() lexer.Span {
	return spanOf(a.Callee).Add(spanOf(nodes(a.Args))).Add(spanOf(nodes(a.Blocks)))
}

type BinaryExpr struct {
	Left  Expr
	Op    lexer.Token
	Right Expr
}

func (BinaryExpr) exprNode() {}

func (be BinaryExpr) ASTString(depth int) string {
	return printNode(depth, "BinaryExpr",
		field{"Left", exprOrNil(be.Left)},
		field{"Op", be.Op},
		field{"Right", exprOrNil(be.Right)})
}

func (be BinaryExpr) Span() lexer.Span {
	return spanOf(be.Left).Add(spanOf(be.Right))
}

func (be BinaryExpr) LeadingTrivia() []lexer.Token {
	return leadingTriviaOf(be.Left)
}

// If is `if cond then a else b`.
type If struct {
	If   lexer.Token
	Cond Expr
	Then lexer.Token
	Yes  Expr
	Else lexer.Token
	No   Expr
}

func (If) exprNode() {}

func (i If) ASTString(depth int) string {
	return printNode(depth, "If",
		field{"Cond", exprOrNil(i.Cond)},
		field{"Then", exprOrNil(i.Yes)},
		field{"Else", exprOrNil(i.No)})
}

func (i If) LeadingTrivia() []lexer.Token {
	return i.If.LeadingTrivia
}

func (i If) Span() lexer.Span {
	return i.If.Span.Add(spanOf(i.No)).Add(spanOf(i.Yes))
}

// MatchArm is `| pattern => body`.
type MatchArm struct {
	Bar      lexer.Token
	Pattern  Pattern
	FatArrow lexer.Token
	Body     Expr
}

func (m MatchArm) ASTString(depth int) string {
	return printNode(depth, "MatchArm",
		field{"Pattern", m.Pattern},
		field{"Body", exprOrNil(m.Body)})
}

func (m MatchArm) LeadingTrivia() []lexer.Token {
	if m.Bar.Type == lexer.Or {
		return m.Bar.LeadingTrivia
	}
	return leadingTriviaOf(m.Pattern)
}

func (m MatchArm) Span() lexer.Span {
	return m.Bar.Span.Add(spanOf(m.Pattern)).Add(spanOf(m.Body))
}

type Match struct {
	Match      lexer.Token
	Scrutinee  Expr
	LeftBrace  lexer.Token
	Arms       []MatchArm
	RightBrace lexer.Token
}

func (Match) exprNode() {}

func (m Match) ASTString(depth int) string {
	return printNode(depth, "Match",
		field{"Scrutinee", exprOrNil(m.Scrutinee)},
		field{"Arms", nodes(m.Arms)})
}

func (m Match) LeadingTrivia() []lexer.Token {
	return m.Match.LeadingTrivia
}

func (m Match) Span() lexer.Span {
	return m.Match.Span.Add(m.RightBrace.Span)
}

// Return is `return value?`.
type Return struct {
	Return lexer.Token
	Value  Expr
}

func (Return) exprNode() {}

func (r Return) ASTString(depth int) string {
	return printNode(depth, "Return", field{"Value", exprOrNil(r.Value)})
}

func (r Return) LeadingTrivia() []lexer.Token {
	return r.Return.LeadingTrivia
}

func (r Return) Span() lexer.Span {
	return r.Return.Span.Add(spanOf(r.Value))
}

type Array struct {
	LeftBracket  lexer.Token
	Elems        []Expr
	RightBracket lexer.Token
}

func (Array) exprNode() {}

func (a Array) ASTString(depth int) string {
	return printNode(depth, "Array", field{"Elems", nodes(a.Elems)})
}

func (a Array) LeadingTrivia() []lexer.Token {
	return a.LeftBracket.LeadingTrivia
}

func (a Array) Span() lexer.Span {
	return a.LeftBracket.Span.Add(a.RightBracket.Span)
}

// Tuple has at least two elements.
type Tuple struct {
	LeftParen  lexer.Token
	Elems      []Expr
	RightParen lexer.Token
}

func (Tuple) exprNode() {}

func (t Tuple) ASTString(depth int) string {
	return printNode(depth, "Tuple", field{"Elems", nodes(t.Elems)})
}

func (t Tuple) LeadingTrivia() []lexer.Token {
	return t.LeftParen.LeadingTrivia
}

func (t Tuple) Span() lexer.Span {
	return t.LeftParen.Span.Add(t.RightParen.Span)
}

type Paren struct {
	LeftParen  lexer.Token
	X          Expr
	RightParen lexer.Token
}

func (Paren) exprNode() {}

func (p Paren) ASTString(depth int) string {
	return printNode(depth, "Paren", field{"X", exprOrNil(p.X)})
}

func (p Paren) LeadingTrivia() []lexer.Token {
	return p.LeftParen.LeadingTrivia
}

func (p Paren) Span() lexer.Span {
	return p.LeftParen.Span.Add(p.RightParen.Span)
}

// Unit is `()`.
type Unit struct {
	LeftParen  lexer.Token
	RightParen lexer.Token
}

func (Unit) exprNode() {}

func (u Unit) ASTString(depth int) string { return "Unit" }
func (u Unit) LeadingTrivia() []lexer.Token { return u.LeftParen.LeadingTrivia }
func (u Unit) Span() lexer.Span { return u.LeftParen.Span.Add(u.RightParen.Span) }

// Do is `do { stmts }`.
type Do struct {
	Do    lexer.Token
	Block Block
}

func (Do) exprNode() {}

func (d Do) ASTString(depth int) string {
	return printNode(depth, "Do", field{"Block", d.Block})
}

func (d Do) LeadingTrivia() []lexer.Token {
	return d.Do.LeadingTrivia
}

func (d Do) Span() lexer.Span {
	return d.Do.Span.Add(d.Block.Span())
}

type Block struct {
	LeftBrace  lexer.Token
	Stmts      []Stmt
	RightBrace lexer.Token
}

func (Block) exprNode() {}

func (b Block) ASTString(depth int) string {
	return printNode(depth, "Block", field{"Stmts", nodes(b.Stmts)})
}

func (b Block) LeadingTrivia() []lexer.Token {
	return b.LeftBrace.LeadingTrivia
}

func (b Block) Span() lexer.Span {
	return b.LeftBrace.Span.Add(b.RightBrace.Span)
}

// LetStmt is `let pattern = value` inside a block.
type LetStmt struct {
	Let     lexer.Token
	Pattern Pattern
	Equals  lexer.Token
	Value   Expr
}

func (LetStmt) stmtNode() {}

func (s LetStmt) ASTString(depth int) string {
	return printNode(depth, "LetStmt",
		field{"Pattern", s.Pattern},
		field{"Value", exprOrNil(s.Value)})
}

func (s LetStmt) LeadingTrivia() []lexer.Token {
	return s.Let.LeadingTrivia
}

func (s LetStmt) Span() lexer.Span {
	return s.Let.Span.Add(spanOf(s.Value))
}

// AskStmt is `pattern <- value`.
type AskStmt struct {
	Pattern   Pattern
	LeftArrow lexer.Token
	Value     Expr
}

func (AskStmt) stmtNode() {}

func (s AskStmt) ASTString(depth int) string {
	return printNode(depth, "AskStmt",
		field{"Pattern", s.Pattern},
		field{"Value", exprOrNil(s.Value)})
}

func (s AskStmt) LeadingTrivia() []lexer.Token {
	return leadingTriviaOf(s.Pattern)
}

func (s AskStmt) Span() lexer.Span {
	return spanOf(s.Pattern).Add(spanOf(s.Value))
}

type ExprStmt struct {
	X Expr
}

func (ExprStmt) stmtNode() {}

func (s ExprStmt) ASTString(depth int) string { return printNode(depth, "ExprStmt", field{"X", exprOrNil(s.X)}) }
func (s ExprStmt) LeadingTrivia() []lexer.Token { return leadingTriviaOf(s.X) }
func (s ExprStmt) Span() lexer.Span { return spanOf(s.X) }
