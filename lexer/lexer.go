package lexer

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/smasher164/xid"
)

// Extension is the file extension of Sol source files.
const Extension = ".sol"

type Lexer struct {
	prev        Token
	emittedSemi bool
	ch          rune
	pos         int
	i           int // position in buffer
	err         error
	buf         []rune
	rdr         io.RuneReader
	lines       []int
}

const eof = -1

func (l *Lexer) lexWS() Token {
	startPos := l.pos
	for unicode.IsSpace(l.ch) {
		l.next()
	}
	return Token{Type: Whitespace, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
}

func isLetter(ch rune) bool {
	return ch == '_' || xid.Start(ch)
}

func (l *Lexer) lexIdentOrKeyword() Token {
	startPos := l.pos
	l.next()
	for xid.Continue(l.ch) || l.ch == '\'' {
		l.next()
	}
	ident := l.bufString()
	if ttyp, ok := Keywords[ident]; ok {
		return Token{Type: ttyp, Span: l.spanOf(startPos, l.pos-1)}
	}
	return Token{Type: Ident, Span: l.spanOf(startPos, l.pos-1), Data: ident}
}

// ^name introduces an implicitly bound variable in type position.
func (l *Lexer) lexFreeVariable() Token {
	startPos := l.pos
	l.next()
	for xid.Continue(l.ch) || l.ch == '\'' {
		l.next()
	}
	return Token{Type: FreeVariable, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
}

func isDecimal(ch rune) bool { return '0' <= ch && ch <= '9' }
func isHex(ch rune) bool {
	return '0' <= ch && ch <= '9' || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
func isValidDigit(base int, ch rune) bool {
	switch base {
	case 2, 8, 10:
		return ch >= '0' && ch < rune('0'+base)
	default:
		return isHex(ch)
	}
}

func (l *Lexer) lexDigits(err *Token, _allowed bool, base int) (digitCount int) {
	setErr := func(pos int, msg string) {
		if err.Type != Illegal {
			*err = Token{Type: Illegal, Span: l.spanOf(pos, pos), Data: msg}
		}
	}
	for {
		if l.ch == '_' {
			if _allowed {
				_allowed = !_allowed
			} else {
				setErr(l.pos, "'_' must separate successive digits")
			}
		} else if isHex(l.ch) {
			_allowed = true
			digitCount++
			if !isValidDigit(base, l.ch) {
				setErr(l.pos, fmt.Sprintf("%q is not a valid digit in base %d", l.ch, base))
			}
		} else {
			if !_allowed {
				setErr(l.pos-1, "'_' must separate successive digits")
			}
			return digitCount
		}
		l.next()
	}
}

// Only integers exist in Sol, so a '.' after the digits ends the literal.
func (l *Lexer) lexNumber() Token {
	var (
		startPos = l.pos
		base     = 10
		tok      Token
		_allowed = false
	)
	if l.ch == '0' {
		l.next()
		_allowed = true
		switch l.ch {
		case 'x':
			l.next()
			base = 16
		case 'o':
			l.next()
			base = 8
		case 'b':
			l.next()
			base = 2
		}
	}
	if count := l.lexDigits(&tok, _allowed, base); count == 0 && base != 10 && tok.Type != Illegal {
		tok = Token{Type: Illegal, Span: l.spanOf(startPos, l.pos-1), Data: "no digits in number"}
	}
	if tok.Type == Illegal {
		return tok
	}
	return Token{Type: Number, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
}

func (l *Lexer) lexLineComment() Token {
	startPos := l.pos
	l.until('\n')
	return Token{Type: SingleLineComment, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
}

func (l *Lexer) lexEscape() string {
	var n int
	var base, max uint32
	switch l.ch {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '"', '0':
		l.next()
		return ""
	case 'x':
		l.next()
		n, base, max = 2, 16, 255
	case 'u':
		l.next()
		n, base, max = 4, 16, unicode.MaxRune
	case 'U':
		l.next()
		n, base, max = 8, 16, unicode.MaxRune
	default:
		if l.ch == eof {
			return "escape sequence not terminated"
		}
		l.next()
		return "unknown escape sequence"
	}

	var x uint32
	for n > 0 {
		d, err := strconv.ParseInt(string(l.ch), int(base), 8)
		if err != nil {
			if l.ch == eof {
				return "escape sequence not terminated"
			}
			msg := fmt.Sprintf("illegal character %#U in escape sequence", l.ch)
			l.next()
			return msg
		}
		x = x*base + uint32(d)
		l.next()
		n--
	}

	if x > max || 0xD800 <= x && x < 0xE000 {
		return "escape sequence is invalid Unicode code point"
	}

	return ""
}

func (l *Lexer) lexString() Token {
	startPos := l.pos
	l.next()
	var tok Token
	for {
		switch l.ch {
		case eof, '\n':
			return Token{Type: Illegal, Span: l.spanOf(startPos, l.pos-1), Data: "unterminated string"}
		case '"':
			l.next()
			if tok.Type == Illegal {
				return tok
			}
			return Token{Type: String, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
		case '\\':
			l.next()
			begPos := l.pos
			if msg := l.lexEscape(); msg != "" && tok.Type != Illegal {
				tok = Token{Type: Illegal, Span: l.spanOf(begPos, l.pos-1), Data: msg}
			}
		default:
			l.next()
		}
	}
}

func (l *Lexer) next() {
	if l.ch == eof {
		return
	}
	l.i++
	l.pos++
	if l.i < len(l.buf) {
		l.ch = l.buf[l.i]
	} else {
		r, _, err := l.rdr.ReadRune()
		if err != nil {
			l.ch = eof
			if err != io.EOF {
				l.err = err
			}
		} else {
			l.ch = r
		}
		l.buf = append(l.buf, l.ch)
	}
	// a line starts on the rune after the newline
	if l.ch == '\n' && l.lines[len(l.lines)-1] < l.pos+1 {
		l.lines = append(l.lines, l.pos+1)
	}
}

func (l *Lexer) backup() {
	if l.i > 0 {
		l.i--
		l.pos--
		l.ch = l.buf[l.i]
	}
}

func (l *Lexer) peek() rune {
	l.next()
	ch := l.ch
	l.backup()
	return ch
}

func (l *Lexer) until(r rune) {
	for l.ch != r && l.ch != eof {
		l.next()
	}
}

func (l *Lexer) bufString() string {
	return string(l.buf[:l.i])
}

func (l *Lexer) lineIndex(offset int) int {
	line, found := sort.Find(len(l.lines), func(i int) int {
		v := l.lines[i]
		if offset == v {
			return 0
		}
		if offset < v {
			return -1
		}
		return 1
	})
	if found {
		return line
	}
	return line - 1
}

func (l *Lexer) posOf(offset int) Pos {
	line := l.lineIndex(offset)
	return Pos{Offset: offset, Line: line + 1, Column: offset - l.lines[line] + 1}
}

func (l *Lexer) spanOf(off1, off2 int) Span {
	start := l.posOf(off1)
	var end Pos
	if off1 >= off2 {
		end = start
	} else {
		end = l.posOf(off2)
	}
	return Span{Start: start, End: end}
}

func (l *Lexer) resetPos() {
	l.buf = l.buf[l.i:]
	l.i = 0
	l.ch = l.buf[l.i]
}

// Err returns the first read error other than io.EOF.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) NextToken() Token {
	defer l.resetPos()
	startPos := l.pos
	switch {
	case unicode.IsSpace(l.ch):
		return l.lexWS()
	case isLetter(l.ch):
		return l.lexIdentOrKeyword()
	case l.ch == '^' && isLetter(l.peek()):
		return l.lexFreeVariable()
	case isDecimal(l.ch):
		return l.lexNumber()
	case l.ch == '#':
		return l.lexLineComment()
	case l.ch == '"':
		return l.lexString()
	}
	if ttyp, ok := DoubleCharTokens[[2]rune{l.ch, l.peek()}]; ok {
		l.next()
		l.next()
		return Token{Type: ttyp, Span: l.spanOf(startPos, l.pos-1)}
	}
	if ttyp, ok := SingleCharTokens[l.ch]; ok {
		l.next()
		return Token{Type: ttyp, Span: l.spanOf(startPos, startPos)}
	}
	ch := l.ch
	l.next()
	return Token{Type: Illegal, Span: l.spanOf(startPos, startPos), Data: fmt.Sprintf("unexpected character %q", ch)}
}

// Next returns the next significant token. Whitespace and comments are
// attached to it as leading trivia, and a LineTerminator is inserted
// between two tokens on different lines when the first can end a
// statement and the second can begin one.
func (l *Lexer) Next() Token {
	if l.emittedSemi {
		l.emittedSemi = false
		return l.prev
	}
	var t Token
	var trivia []Token
	for t = l.NextToken(); t.Type == Whitespace || t.Type == SingleLineComment; t = l.NextToken() {
		trivia = append(trivia, t)
	}
	t.LeadingTrivia = trivia
	if l.prev.Span.End.Line != 0 && l.prev.OnDifferentLines(t) && l.prev.IsBeforeSemicolon() && t.IsAfterSemicolon() {
		l.prev = t
		l.emittedSemi = true
		return Token{Type: LineTerminator, Span: Span{Start: t.Span.Start, End: t.Span.Start}}
	}
	l.prev = t
	return t
}

// New returns a lexer reading runes from r.
func New(r io.RuneReader) *Lexer {
	l := &Lexer{
		rdr:   r,
		i:     -1,
		pos:   -1,
		lines: []int{0},
	}
	l.next()
	return l
}

// FromString returns a lexer over src.
func FromString(src string) *Lexer {
	return New(strings.NewReader(src))
}

func NewLexer(fsys fs.FS, filename string) (*Lexer, error) {
	if filepath.Ext(filename) != Extension {
		return nil, fmt.Errorf("invalid file extension %q, expected %q", filepath.Ext(filename), Extension)
	}
	data, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return nil, err
	}
	return FromString(string(data)), nil
}
