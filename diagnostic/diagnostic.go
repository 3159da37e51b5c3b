// Package diagnostic carries the problems found while lowering and
// elaborating source files to whoever displays them.
package diagnostic

import (
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/aripiprazole/saph/hir"
)

type Kind int

const (
	SyntaxError Kind = iota
	Unresolved
	ReturnOutsideDoNotation
	FreeVariableOutsideType
	MultipleDoNotation
	UnsupportedTerm
	TypeMismatch
	ExpectedFunctionType
	CyclicReference
)

var kindNames = [...]string{
	SyntaxError:             "syntax error",
	Unresolved:              "unresolved name",
	ReturnOutsideDoNotation: "return outside do-notation",
	FreeVariableOutsideType: "free variable outside a type",
	MultipleDoNotation:      "multiple do-notation blocks",
	UnsupportedTerm:         "unsupported term",
	TypeMismatch:            "type mismatch",
	ExpectedFunctionType:    "expected a function type",
	CyclicReference:         "cyclic reference",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Location hir.Location
	Message  string
}

func New(kind Kind, loc hir.Location, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

func Warn(kind Kind, loc hir.Location, format string, args ...any) Diagnostic {
	d := New(kind, loc, format, args...)
	d.Severity = Warning
	return d
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// Sink receives diagnostics. Reporting never fails.
type Sink interface {
	Report(Diagnostic)
}

type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops everything reported to it.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Collector is a Sink that keeps what it receives. It is safe for
// concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns everything reported so far, ordered by file and
// position.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	diags := slices.Clone(c.diags)
	c.mu.Unlock()
	slices.SortStableFunc(diags, func(a, b Diagnostic) bool {
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		return a.Location.Span.Start.Offset < b.Location.Span.Start.Offset
	})
	return diags
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// Errors counts the diagnostics with Error severity.
func (c *Collector) Errors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// Filter returns the diagnostics of the given kind.
func (c *Collector) Filter(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
