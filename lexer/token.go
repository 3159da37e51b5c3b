package lexer

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type TokenType int

const (
	EOF TokenType = iota
	LineTerminator
	Plus
	Minus
	Times
	Divide
	Remainder
	And
	Or
	Caret
	Tilde
	Backslash
	LessThan
	GreaterThan

	Equals
	Colon
	Not
	Comma
	Period
	Semicolon
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	DollarSign
	QuestionMark

	LogicalAnd
	LogicalOr
	LeftShift
	RightShift
	LogicalEquals
	FatArrow
	NotEquals
	LessThanEquals
	GreaterThanEquals
	Exponentiation
	DotDot
	LeftArrow
	RightArrow

	Let
	Data
	Trait
	If
	Then
	Else
	Match
	Return
	Do
	Universe
	True
	False

	Ident
	FreeVariable
	Number
	Whitespace
	SingleLineComment
	String
	Illegal
)

var tokenNames = [...]string{
	EOF:               "EOF",
	LineTerminator:    "LineTerminator",
	Plus:              "+",
	Minus:             "-",
	Times:             "*",
	Divide:            "/",
	Remainder:         "%",
	And:               "&",
	Or:                "|",
	Caret:             "^",
	Tilde:             "~",
	Backslash:         "\\",
	LessThan:          "<",
	GreaterThan:       ">",
	Equals:            "=",
	Colon:             ":",
	Not:               "!",
	Comma:             ",",
	Period:            ".",
	Semicolon:         ";",
	LeftParen:         "(",
	RightParen:        ")",
	LeftBrace:         "{",
	RightBrace:        "}",
	LeftBracket:       "[",
	RightBracket:      "]",
	DollarSign:        "$",
	QuestionMark:      "?",
	LogicalAnd:        "&&",
	LogicalOr:         "||",
	LeftShift:         "<<",
	RightShift:        ">>",
	LogicalEquals:     "==",
	FatArrow:          "=>",
	NotEquals:         "!=",
	LessThanEquals:    "<=",
	GreaterThanEquals: ">=",
	Exponentiation:    "**",
	DotDot:            "..",
	LeftArrow:         "<-",
	RightArrow:        "->",
	Let:               "let",
	Data:              "data",
	Trait:             "trait",
	If:                "if",
	Then:              "then",
	Else:              "else",
	Match:             "match",
	Return:            "return",
	Do:                "do",
	Universe:          "Type",
	True:              "true",
	False:             "false",
	Ident:             "Ident",
	FreeVariable:      "FreeVariable",
	Number:            "Number",
	Whitespace:        "Whitespace",
	SingleLineComment: "SingleLineComment",
	String:            "String",
	Illegal:           "Illegal",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var SingleCharTokens = map[rune]TokenType{
	'+':  Plus,
	'%':  Remainder,
	'^':  Caret,
	'~':  Tilde,
	'\\': Backslash,
	',':  Comma,
	';':  Semicolon,
	'?':  QuestionMark,
	'(':  LeftParen,
	')':  RightParen,
	'{':  LeftBrace,
	'}':  RightBrace,
	'[':  LeftBracket,
	']':  RightBracket,
	'/':  Divide,
	'-':  Minus,
	'*':  Times,
	'&':  And,
	'|':  Or,
	'<':  LessThan,
	'>':  GreaterThan,
	'=':  Equals,
	'!':  Not,
	':':  Colon,
	'.':  Period,
	'$':  DollarSign,
	eof:  EOF,
}

var DoubleCharTokens = map[[2]rune]TokenType{
	{'-', '>'}: RightArrow,
	{'*', '*'}: Exponentiation,
	{'&', '&'}: LogicalAnd,
	{'|', '|'}: LogicalOr,
	{'<', '='}: LessThanEquals,
	{'<', '<'}: LeftShift,
	{'<', '-'}: LeftArrow,
	{'>', '='}: GreaterThanEquals,
	{'>', '>'}: RightShift,
	{'=', '='}: LogicalEquals,
	{'=', '>'}: FatArrow,
	{'!', '='}: NotEquals,
	{'.', '.'}: DotDot,
}

var Keywords = map[string]TokenType{
	"let":    Let,
	"data":   Data,
	"trait":  Trait,
	"if":     If,
	"then":   Then,
	"else":   Else,
	"match":  Match,
	"return": Return,
	"do":     Do,
	"Type":   Universe,
	"true":   True,
	"false":  False,
}

// Pos is a position in a source file. Offset counts runes from the start
// of the file, Line and Column are 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) Min(other Pos) Pos {
	if p.Column == 0 {
		return other
	}
	if other.Column == 0 {
		return p
	}
	if p.Offset < other.Offset {
		return p
	}
	return other
}

func (p Pos) Max(other Pos) Pos {
	if p.Column == 0 {
		return other
	}
	if other.Column == 0 {
		return p
	}
	if p.Offset > other.Offset {
		return p
	}
	return other
}

type Span struct {
	Start Pos
	End   Pos
}

func (span Span) Add(other Span) Span {
	return Span{span.Start.Min(other.Start), span.End.Max(other.End)}
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s.Start.Column == 0 && s.End.Column == 0
}

// Contains reports whether other lies inside s.
func (s Span) Contains(other Span) bool {
	return s.Start.Offset <= other.Start.Offset && other.End.Offset <= s.End.Offset
}

func (s Span) String() string {
	if s.Start == s.End {
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

type Token struct {
	LeadingTrivia []Token
	Type          TokenType
	Span          Span
	Data          string
}

func (t Token) String() string {
	if t.Data == "" {
		return fmt.Sprintf("%s:%s", t.Span, t.Type)
	}
	return fmt.Sprintf("%s:%s %q", t.Span, t.Type, t.Data)
}

func (b Token) Eq(a Token) bool {
	return a.Type == b.Type && a.Data == b.Data
}

func (a Token) ExactEq(b Token) bool {
	return a.Type == b.Type && a.Span == b.Span && a.Data == b.Data && slices.EqualFunc(a.LeadingTrivia, b.LeadingTrivia, Token.ExactEq)
}

// Text returns the source text of the token. Operators and keywords carry no
// data, so their spelling comes from the token table.
func (t Token) Text() string {
	if t.Data != "" {
		return t.Data
	}
	return t.Type.String()
}

func (t Token) IsBinaryOp() bool {
	switch t.Type {
	case Plus, Minus, Times, Divide, Remainder, LeftShift, RightShift, And, Caret, LogicalAnd, LogicalOr, LogicalEquals, NotEquals, LessThan, LessThanEquals, GreaterThan, GreaterThanEquals, Exponentiation, DotDot:
		return true
	}
	return false
}

const MinPrec = 1

func (t Token) Prec() int {
	switch t.Type {
	case Exponentiation:
		return 8
	case Times, Divide, Remainder, And, LeftShift, RightShift:
		return 7
	case Plus, Minus, Caret:
		return 6
	case LogicalEquals, NotEquals, LessThan, GreaterThan, LessThanEquals, GreaterThanEquals:
		return 5
	case LogicalAnd:
		return 4
	case LogicalOr:
		return 3
	case DotDot:
		return 2
	}
	return 0
}

func (t Token) IsRightAssoc() bool {
	return t.Type == Exponentiation
}

// BeginsPrimary reports whether t can start an application argument.
func (t Token) BeginsPrimary() bool {
	switch t.Type {
	case LeftParen, LeftBracket, Ident, FreeVariable, Number, String, True, False, Universe:
		return true
	}
	return false
}

func (a Token) OnDifferentLines(b Token) bool {
	return a.Span.End.Line != b.Span.Start.Line
}

func (t Token) IsBeforeSemicolon() bool {
	switch t.Type {
	case RightParen, RightBrace, RightBracket, Ident, FreeVariable, Number, String, True, False, Universe, Return:
		return true
	}
	return false
}

func (t Token) IsAfterSemicolon() bool {
	switch t.Type {
	case LeftParen, LeftBracket, Ident, FreeVariable, Number, String, True, False, Universe, Let, Data, Trait, Backslash, If, Match, Return, Do:
		return true
	}
	return false
}
