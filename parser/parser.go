package parser

import (
	"fmt"
	"io/fs"

	"github.com/aripiprazole/saph/lexer"
)

const debug = false

type parser struct {
	l        *lexer.Lexer
	tok      lexer.Token
	buf      []lexer.Token
	indent   int
	noBlocks bool
}

func (p *parser) trace(msg string) func() {
	if debug {
		fmt.Printf("%*s%s\n", p.indent*2, "", msg)
		p.indent++
		return func() {
			p.indent--
		}
	}
	return func() {}
}

// ParseFile parses filename from fsys. The returned File is complete even
// when the source has syntax errors; those show up as Illegal nodes.
func ParseFile(fsys fs.FS, filename string) (File, error) {
	l, err := lexer.NewLexer(fsys, filename)
	if err != nil {
		return File{}, err
	}
	f := (&parser{l: l}).parseFile()
	f.Name = filename
	return f, l.Err()
}

// Parse parses src as the file name.
func Parse(name, src string) File {
	f := (&parser{l: lexer.FromString(src)}).parseFile()
	f.Name = name
	return f
}

func (p *parser) next() {
	if len(p.buf) > 0 {
		p.tok = p.buf[0]
		p.buf = p.buf[1:]
		return
	}
	p.tok = p.l.Next()
}

func (p *parser) peek() lexer.Token {
	if len(p.buf) == 0 {
		p.buf = append(p.buf, p.l.Next())
	}
	return p.buf[0]
}

func (p *parser) peek2() lexer.Token {
	p.peek()
	if len(p.buf) < 2 {
		p.buf = append(p.buf, p.l.Next())
	}
	return p.buf[1]
}

func (p *parser) expect(ttyp lexer.TokenType) (lexer.Token, bool) {
	if p.tok.Type != ttyp {
		return lexer.Token{}, false
	}
	tok := p.tok
	p.next()
	return tok, true
}

func isTerminator(ttyp lexer.TokenType) bool {
	return ttyp == lexer.LineTerminator || ttyp == lexer.Semicolon
}

func (p *parser) skipTerminators() {
	for isTerminator(p.tok.Type) {
		p.next()
	}
}

// skipLine advances to the next statement terminator, or to a closing brace
// when inside a block.
func (p *parser) skipLine(inBlock bool) {
	for !isTerminator(p.tok.Type) && p.tok.Type != lexer.EOF {
		if inBlock && p.tok.Type == lexer.RightBrace {
			return
		}
		p.next()
	}
}

// allowBlocks sets whether an application may take trailing blocks and
// returns a function restoring the previous setting.
func (p *parser) allowBlocks(allowed bool) func() {
	old := p.noBlocks
	p.noBlocks = !allowed
	return func() {
		p.noBlocks = old
	}
}

func (p *parser) parseFile() (f File) {
	defer p.trace("parseFile")()
	p.next()
	for {
		p.skipTerminators()
		if p.tok.Type == lexer.EOF {
			break
		}
		f.Decls = append(f.Decls, p.parseDecl())
		if !isTerminator(p.tok.Type) && p.tok.Type != lexer.EOF {
			start := p.tok
			p.skipLine(false)
			f.Decls = append(f.Decls, Illegal{leadingTrivia: start.LeadingTrivia, span: start.Span, Msg: "expected end of declaration"})
		}
	}
	f.trailingTrivia = p.tok.LeadingTrivia
	return f
}

func (p *parser) illegalDecl(start lexer.Token, node Node, msg string) Decl {
	p.skipLine(false)
	return Illegal{leadingTrivia: start.LeadingTrivia, span: start.Span, Node: node, Msg: msg}
}

func (p *parser) parseDecl() Decl {
	defer p.trace("parseDecl")()
	switch p.tok.Type {
	case lexer.Let:
		return p.parseLet()
	case lexer.Data:
		return p.parseData()
	case lexer.Trait:
		return p.parseTrait()
	case lexer.Ident:
		if p.peek().Type == lexer.Colon {
			sig := Signature{Name: Name{Tok: p.tok}}
			p.next()
			sig.Colon = p.tok
			p.next()
			sig.Type = p.parseArrow()
			return sig
		}
	}
	return p.illegalDecl(p.tok, nil, "expected declaration")
}

func isOperator(tok lexer.Token) bool {
	return tok.IsBinaryOp() || tok.Type == lexer.Or || tok.Type == lexer.Tilde || tok.Type == lexer.Not
}

func (p *parser) parseName() (Name, bool) {
	switch {
	case p.tok.Type == lexer.Ident:
		n := Name{Tok: p.tok}
		p.next()
		return n, true
	case p.tok.Type == lexer.LeftParen && isOperator(p.peek()) && p.peek2().Type == lexer.RightParen:
		n := Name{LeftParen: p.tok}
		p.next()
		n.Tok = p.tok
		p.next()
		n.RightParen = p.tok
		p.next()
		return n, true
	}
	return Name{}, false
}

// Let = "let" Name Pattern* (":" Type)? ("=" Expr)?
func (p *parser) parseLet() Decl {
	defer p.trace("parseLet")()
	b := Binding{Let: p.tok}
	p.next()
	name, ok := p.parseName()
	if !ok {
		return p.illegalDecl(b.Let, nil, "expected name after let")
	}
	b.Name = name
	for startsPattern(p.tok) {
		b.Params = append(b.Params, p.parseAtomicPattern())
	}
	if p.tok.Type == lexer.Colon {
		b.Colon = p.tok
		p.next()
		b.Type = p.parseArrow()
	}
	if p.tok.Type == lexer.Equals {
		b.Equals = p.tok
		p.next()
		b.Value = p.parseExpr()
		return b
	}
	if b.Type != nil && len(b.Params) == 0 {
		return Signature{Let: b.Let, Name: b.Name, Colon: b.Colon, Type: b.Type}
	}
	return p.illegalDecl(b.Let, b, "expected = in let declaration")
}

// Data = "data" Name (":" Type)? "{" (Name ":" Type ("," | LineTerminator))* "}"
func (p *parser) parseData() Decl {
	defer p.trace("parseData")()
	d := DataDecl{Data: p.tok}
	p.next()
	name, ok := p.parseName()
	if !ok {
		return p.illegalDecl(d.Data, nil, "expected name after data")
	}
	d.Name = name
	if p.tok.Type == lexer.Colon {
		d.Colon = p.tok
		p.next()
		restore := p.allowBlocks(false)
		d.Type = p.parseArrow()
		restore()
	}
	if p.tok.Type != lexer.LeftBrace {
		return d
	}
	d.LeftBrace = p.tok
	p.next()
	for {
		p.skipTerminators()
		if p.tok.Type == lexer.RightBrace || p.tok.Type == lexer.EOF {
			break
		}
		var c ConstructorDecl
		if c.Name, ok = p.parseName(); !ok {
			return p.illegalDecl(d.Data, d, "expected constructor name")
		}
		if c.Colon, ok = p.expect(lexer.Colon); ok {
			c.Type = p.parseArrow()
		}
		d.Constructors = append(d.Constructors, c)
		if p.tok.Type == lexer.Comma {
			p.next()
		} else if !isTerminator(p.tok.Type) {
			break
		}
	}
	if d.RightBrace, ok = p.expect(lexer.RightBrace); !ok {
		return p.illegalDecl(d.Data, d, "expected } after constructors")
	}
	return d
}

// Trait = "trait" Name ":" Type
func (p *parser) parseTrait() Decl {
	defer p.trace("parseTrait")()
	t := TraitDecl{Trait: p.tok}
	p.next()
	name, ok := p.parseName()
	if !ok {
		return p.illegalDecl(t.Trait, nil, "expected name after trait")
	}
	t.Name = name
	if t.Colon, ok = p.expect(lexer.Colon); !ok {
		return p.illegalDecl(t.Trait, t, "expected : after trait name")
	}
	t.Type = p.parseArrow()
	return t
}

func startsPattern(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.Ident, lexer.Number, lexer.String, lexer.True, lexer.False, lexer.LeftParen, lexer.DotDot:
		return true
	}
	return false
}

func startsExpr(tok lexer.Token) bool {
	if tok.BeginsPrimary() {
		return true
	}
	switch tok.Type {
	case lexer.Backslash, lexer.LeftBrace, lexer.If, lexer.Match, lexer.Return, lexer.Do:
		return true
	}
	return false
}

func (p *parser) parsePath() Path {
	path := Path{Segments: []lexer.Token{p.tok}}
	p.next()
	for p.tok.Type == lexer.Period && p.peek().Type == lexer.Ident {
		p.next()
		path.Segments = append(path.Segments, p.tok)
		p.next()
	}
	return path
}

func (p *parser) parseAtomicPattern() Pattern {
	defer p.trace("parseAtomicPattern")()
	switch tok := p.tok; tok.Type {
	case lexer.Ident:
		if tok.Data == "_" {
			p.next()
			return Hole{Tok: tok}
		}
		return PatternPath{Path: p.parsePath()}
	case lexer.Number, lexer.String, lexer.True, lexer.False:
		p.next()
		return Literal{Tok: tok}
	case lexer.DotDot:
		p.next()
		return Rest{Tok: tok}
	case lexer.LeftParen:
		p.next()
		pat := p.parsePattern()
		if _, ok := p.expect(lexer.RightParen); !ok {
			return Illegal{leadingTrivia: tok.LeadingTrivia, span: tok.Span, Node: pat, Msg: "expected ) after pattern"}
		}
		return pat
	}
	tok := p.tok
	if tok.Type != lexer.EOF {
		p.next()
	}
	return Illegal{leadingTrivia: tok.LeadingTrivia, span: tok.Span, Msg: "expected pattern"}
}

// Pattern = Path AtomicPattern* | AtomicPattern
func (p *parser) parsePattern() Pattern {
	defer p.trace("parsePattern")()
	if p.tok.Type != lexer.Ident || p.tok.Data == "_" {
		return p.parseAtomicPattern()
	}
	pat := PatternPath{Path: p.parsePath()}
	for startsPattern(p.tok) {
		pat.Args = append(pat.Args, p.parseAtomicPattern())
	}
	return pat
}

// Expr = Arrow (":" Arrow)?
func (p *parser) parseExpr() Expr {
	defer p.trace("parseExpr")()
	x := p.parseArrow()
	if p.tok.Type == lexer.Colon {
		ann := Ann{Value: x, Colon: p.tok}
		p.next()
		ann.Type = p.parseArrow()
		return ann
	}
	return x
}

// Arrow = Binary ("->" Arrow)?
func (p *parser) parseArrow() Expr {
	defer p.trace("parseArrow")()
	lhs := p.parseBinary(lexer.MinPrec)
	if p.tok.Type != lexer.RightArrow {
		return lhs
	}
	arrow := Arrow{Domain: toDomain(lhs), Arrow: p.tok}
	p.next()
	arrow.Codomain = p.parseArrow()
	return arrow
}

// toDomain reinterprets the left side of an arrow. Parenthesized, braced
// and bracketed annotations become parameter lists; anything else is the
// type of an unnamed parameter.
func toDomain(lhs Expr) Expr {
	allAnn := func(xs []Expr) bool {
		for _, x := range xs {
			if _, ok := x.(Ann); !ok {
				return false
			}
		}
		return len(xs) > 0
	}
	switch x := lhs.(type) {
	case Paren:
		if ann, ok := x.X.(Ann); ok {
			return ParamList{Open: x.LeftParen, Params: []Param{annToParam(ann)}, Close: x.RightParen}
		}
	case Tuple:
		if allAnn(x.Elems) {
			return ParamList{Open: x.LeftParen, Params: exprsToParams(x.Elems), Close: x.RightParen}
		}
	case Array:
		return ParamList{Open: x.LeftBracket, Params: exprsToParams(x.Elems), Close: x.RightBracket}
	case Block:
		elems := make([]Expr, 0, len(x.Stmts))
		for _, s := range x.Stmts {
			es, ok := s.(ExprStmt)
			if !ok {
				return lhs
			}
			elems = append(elems, es.X)
		}
		return ParamList{Open: x.LeftBrace, Params: exprsToParams(elems), Close: x.RightBrace}
	}
	return lhs
}

func annToParam(ann Ann) Param {
	return Param{Pattern: exprToPattern(ann.Value), Colon: ann.Colon, Type: ann.Type}
}

func exprsToParams(xs []Expr) []Param {
	params := make([]Param, len(xs))
	for i, x := range xs {
		if ann, ok := x.(Ann); ok {
			params[i] = annToParam(ann)
		} else {
			params[i] = Param{Pattern: exprToPattern(x)}
		}
	}
	return params
}

// exprToPattern reinterprets an expression parsed before it was known to be
// a pattern, as in `x <- e` or `(x : A) -> B`.
func exprToPattern(e Expr) Pattern {
	switch x := e.(type) {
	case Path:
		return PatternPath{Path: x}
	case Hole:
		return x
	case Literal:
		return x
	case Paren:
		return exprToPattern(x.X)
	case App:
		if path, ok := x.Callee.(Path); ok && len(x.Blocks) == 0 {
			pat := PatternPath{Path: path}
			for _, arg := range x.Args {
				pat.Args = append(pat.Args, exprToPattern(arg))
			}
			return pat
		}
	case Illegal:
		return x
	}
	return Illegal{Node: e, Msg: "expected pattern"}
}

func (p *parser) parseBinary(prec1 int) Expr {
	defer p.trace("parseBinary")()
	x := p.parseApp()
	for {
		op := p.tok
		oprec := op.Prec()
		if !op.IsBinaryOp() || oprec < prec1 {
			return x
		}
		p.next()
		next := oprec + 1
		if op.IsRightAssoc() {
			next = oprec
		}
		y := p.parseBinary(next)
		x = BinaryExpr{Left: x, Op: op, Right: y}
	}
}

// App = Primary Primary* Block*
func (p *parser) parseApp() Expr {
	defer p.trace("parseApp")()
	app := App{Callee: p.parsePrimary()}
	for p.tok.BeginsPrimary() {
		app.Args = append(app.Args, p.parsePrimary())
	}
	for !p.noBlocks && p.tok.Type == lexer.LeftBrace {
		app.Blocks = append(app.Blocks, p.parseBlock())
	}
	if len(app.Args) == 0 && len(app.Blocks) == 0 {
		return app.Callee
	}
	return app
}

func (p *parser) parsePrimary() Expr {
	defer p.trace("parsePrimary")()
	switch tok := p.tok; tok.Type {
	case lexer.Ident:
		if tok.Data == "_" {
			p.next()
			return Hole{Tok: tok}
		}
		return p.parsePath()
	case lexer.FreeVariable:
		p.next()
		return FreeVar{Tok: tok}
	case lexer.Number, lexer.String, lexer.True, lexer.False:
		p.next()
		return Literal{Tok: tok}
	case lexer.Universe:
		p.next()
		return Universe{Tok: tok}
	case lexer.LeftParen:
		return p.parseParen()
	case lexer.LeftBracket:
		return p.parseArray()
	case lexer.LeftBrace:
		return p.parseBlock()
	case lexer.Backslash:
		return p.parseLambda()
	case lexer.If:
		return p.parseIf()
	case lexer.Match:
		return p.parseMatch()
	case lexer.Return:
		return p.parseReturn()
	case lexer.Do:
		return p.parseDo()
	}
	tok := p.tok
	switch tok.Type {
	case lexer.EOF, lexer.LineTerminator, lexer.Semicolon, lexer.Comma, lexer.RightParen, lexer.RightBrace, lexer.RightBracket:
	default:
		p.next()
	}
	return Illegal{leadingTrivia: tok.LeadingTrivia, span: tok.Span, Msg: "expected expression"}
}

// parseList parses comma separated expressions up to the closing token.
// Line breaks between elements are ignored.
func (p *parser) parseList(close lexer.TokenType) []Expr {
	restore := p.allowBlocks(true)
	defer restore()
	var elems []Expr
	for {
		p.skipTerminators()
		if p.tok.Type == close || p.tok.Type == lexer.EOF {
			return elems
		}
		elems = append(elems, p.parseExpr())
		p.skipTerminators()
		if p.tok.Type != lexer.Comma {
			return elems
		}
		p.next()
	}
}

func (p *parser) parseParen() Expr {
	defer p.trace("parseParen")()
	lparen := p.tok
	if isOperator(p.peek()) && p.peek2().Type == lexer.RightParen {
		p.next()
		op := p.tok
		p.next()
		p.next()
		return Path{Segments: []lexer.Token{op}}
	}
	p.next()
	elems := p.parseList(lexer.RightParen)
	rparen, ok := p.expect(lexer.RightParen)
	switch {
	case !ok:
		return Illegal{leadingTrivia: lparen.LeadingTrivia, span: lparen.Span, Node: Tuple{LeftParen: lparen, Elems: elems}, Msg: "expected )"}
	case len(elems) == 0:
		return Unit{LeftParen: lparen, RightParen: rparen}
	case len(elems) == 1:
		return Paren{LeftParen: lparen, X: elems[0], RightParen: rparen}
	}
	return Tuple{LeftParen: lparen, Elems: elems, RightParen: rparen}
}

func (p *parser) parseArray() Expr {
	defer p.trace("parseArray")()
	arr := Array{LeftBracket: p.tok}
	p.next()
	arr.Elems = p.parseList(lexer.RightBracket)
	var ok bool
	if arr.RightBracket, ok = p.expect(lexer.RightBracket); !ok {
		return Illegal{leadingTrivia: arr.LeftBracket.LeadingTrivia, span: arr.LeftBracket.Span, Node: arr, Msg: "expected ]"}
	}
	return arr
}

// Block = "{" (Stmt (";" | LineTerminator))* "}"
func (p *parser) parseBlock() Block {
	defer p.trace("parseBlock")()
	restore := p.allowBlocks(true)
	defer restore()
	block := Block{LeftBrace: p.tok}
	p.next()
	for {
		p.skipTerminators()
		if p.tok.Type == lexer.RightBrace || p.tok.Type == lexer.EOF {
			break
		}
		block.Stmts = append(block.Stmts, p.parseStmt())
		if !isTerminator(p.tok.Type) && p.tok.Type != lexer.RightBrace {
			start := p.tok
			p.skipLine(true)
			block.Stmts = append(block.Stmts, Illegal{leadingTrivia: start.LeadingTrivia, span: start.Span, Msg: "expected end of statement"})
		}
	}
	if p.tok.Type == lexer.RightBrace {
		block.RightBrace = p.tok
		p.next()
	} else {
		block.Stmts = append(block.Stmts, Illegal{leadingTrivia: p.tok.LeadingTrivia, span: p.tok.Span, Msg: "expected }"})
	}
	return block
}

func (p *parser) parseStmt() Stmt {
	defer p.trace("parseStmt")()
	if p.tok.Type == lexer.Let {
		s := LetStmt{Let: p.tok}
		p.next()
		s.Pattern = p.parsePattern()
		var ok bool
		if s.Equals, ok = p.expect(lexer.Equals); !ok {
			return Illegal{leadingTrivia: s.Let.LeadingTrivia, span: s.Let.Span, Node: s, Msg: "expected = in let statement"}
		}
		s.Value = p.parseExpr()
		return s
	}
	x := p.parseExpr()
	if p.tok.Type == lexer.LeftArrow {
		s := AskStmt{Pattern: exprToPattern(x), LeftArrow: p.tok}
		p.next()
		s.Value = p.parseExpr()
		return s
	}
	return ExprStmt{X: x}
}

// Lambda = "\" AtomicPattern* "->" Expr
func (p *parser) parseLambda() Expr {
	defer p.trace("parseLambda")()
	lam := Lambda{Backslash: p.tok}
	p.next()
	for startsPattern(p.tok) {
		lam.Params = append(lam.Params, p.parseAtomicPattern())
	}
	var ok bool
	if lam.Arrow, ok = p.expect(lexer.RightArrow); !ok {
		return Illegal{leadingTrivia: lam.Backslash.LeadingTrivia, span: lam.Backslash.Span, Node: lam, Msg: "expected -> after lambda parameters"}
	}
	lam.Body = p.parseExpr()
	return lam
}

// If = "if" Expr "then" Expr "else" Expr
func (p *parser) parseIf() Expr {
	defer p.trace("parseIf")()
	n := If{If: p.tok}
	p.next()
	restore := p.allowBlocks(false)
	n.Cond = p.parseExpr()
	restore()
	var ok bool
	if n.Then, ok = p.expect(lexer.Then); !ok {
		return Illegal{leadingTrivia: n.If.LeadingTrivia, span: n.If.Span, Node: n, Msg: "expected then"}
	}
	n.Yes = p.parseExpr()
	if n.Else, ok = p.expect(lexer.Else); !ok {
		return Illegal{leadingTrivia: n.If.LeadingTrivia, span: n.If.Span, Node: n, Msg: "expected else"}
	}
	n.No = p.parseExpr()
	return n
}

// Match = "match" Expr "{" ("|"? Pattern "=>" Expr)* "}"
func (p *parser) parseMatch() Expr {
	defer p.trace("parseMatch")()
	m := Match{Match: p.tok}
	p.next()
	restore := p.allowBlocks(false)
	m.Scrutinee = p.parseExpr()
	restore()
	var ok bool
	if m.LeftBrace, ok = p.expect(lexer.LeftBrace); !ok {
		return Illegal{leadingTrivia: m.Match.LeadingTrivia, span: m.Match.Span, Node: m, Msg: "expected { after match scrutinee"}
	}
	restore = p.allowBlocks(true)
	defer restore()
	for {
		p.skipTerminators()
		if p.tok.Type == lexer.RightBrace || p.tok.Type == lexer.EOF {
			break
		}
		var arm MatchArm
		arm.Bar, _ = p.expect(lexer.Or)
		arm.Pattern = p.parsePattern()
		if arm.FatArrow, ok = p.expect(lexer.FatArrow); !ok {
			return Illegal{leadingTrivia: m.Match.LeadingTrivia, span: m.Match.Span, Node: m, Msg: "expected => in match arm"}
		}
		arm.Body = p.parseExpr()
		m.Arms = append(m.Arms, arm)
	}
	if m.RightBrace, ok = p.expect(lexer.RightBrace); !ok {
		return Illegal{leadingTrivia: m.Match.LeadingTrivia, span: m.Match.Span, Node: m, Msg: "expected } after match arms"}
	}
	return m
}

func (p *parser) parseReturn() Expr {
	defer p.trace("parseReturn")()
	r := Return{Return: p.tok}
	p.next()
	if startsExpr(p.tok) {
		r.Value = p.parseExpr()
	}
	return r
}

func (p *parser) parseDo() Expr {
	defer p.trace("parseDo")()
	d := Do{Do: p.tok}
	p.next()
	if p.tok.Type != lexer.LeftBrace {
		return Illegal{leadingTrivia: d.Do.LeadingTrivia, span: d.Do.Span, Msg: "expected { after do"}
	}
	d.Block = p.parseBlock()
	return d
}
