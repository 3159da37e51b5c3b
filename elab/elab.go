// Package elab type checks HIR into THIR terms. Checking and inference
// are bidirectional: Check pushes an expected type into an expression,
// Infer synthesizes one, and the two meet in unification.
package elab

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/thir"
)

// ErrCycle is returned by a Database when the type of a definition depends
// on itself.
var ErrCycle = errors.New("cyclic reference")

// Database answers questions about other definitions.
type Database interface {
	// ReferenceType returns the type of a global definition as a closed
	// term.
	ReferenceType(def *hir.Definition) (thir.Term, error)
}

// Error is an elaboration failure at a location.
type Error struct {
	Kind     diagnostic.Kind
	Location hir.Location
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

func (e *Error) Diagnostic() diagnostic.Diagnostic {
	return diagnostic.New(e.Kind, e.Location, "%s", e.Message)
}

func errorf(kind diagnostic.Kind, loc hir.Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

type Options struct {
	Sink   diagnostic.Sink
	Logger *slog.Logger
	// Trace logs every check and infer step at debug level.
	Trace bool
}

// Elaborator elaborates the declarations of one definition. Its metas are
// private to it, so it must not be shared between goroutines.
type Elaborator struct {
	db    Database
	metas *thir.Metas
	sink  diagnostic.Sink
	log   *slog.Logger
	trace bool
	depth int

	// Free type variables of the declaration, like ^a, each stand for a
	// single meta.
	free map[*hir.Definition]thir.MetaID
}

func New(db Database, opts Options) *Elaborator {
	e := &Elaborator{
		db:    db,
		metas: thir.NewMetas(),
		sink:  opts.Sink,
		log:   opts.Logger,
		trace: opts.Trace,
		free:  make(map[*hir.Definition]thir.MetaID),
	}
	if e.sink == nil {
		e.sink = diagnostic.Discard
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

func (e *Elaborator) Metas() *thir.Metas {
	return e.metas
}

func (e *Elaborator) tracef(msg string, args ...any) func() {
	if !e.trace {
		return func() {}
	}
	e.log.Debug(strings.Repeat(". ", e.depth)+msg, args...)
	e.depth++
	return func() { e.depth-- }
}

func (e *Elaborator) report(err error, loc hir.Location) {
	var eerr *Error
	if errors.As(err, &eerr) {
		e.sink.Report(eerr.Diagnostic())
		return
	}
	e.sink.Report(diagnostic.New(diagnostic.UnsupportedTerm, loc, "%v", err))
}

// freshMeta creates a meta applied to the binders of ctx.
func (e *Elaborator) freshMeta(ctx thir.Context) thir.Term {
	return thir.InsertedMeta{ID: e.metas.Fresh(ctx.Level()), Bound: ctx.Bound()}
}

func (e *Elaborator) eval(ctx thir.Context, t thir.Term) thir.Value {
	return thir.Eval(e.metas, ctx.Env(), t)
}

func (e *Elaborator) show(ctx thir.Context, v thir.Value) string {
	return thir.Show(thir.Quote(e.metas, ctx.Level(), v), ctx.Names())
}

// unify reports a type mismatch instead of failing, so that elaboration
// carries on with the expected type.
func (e *Elaborator) unify(ctx thir.Context, loc hir.Location, expected, actual thir.Value) bool {
	if err := thir.Unify(e.metas, ctx.Level(), expected, actual); err != nil {
		e.log.Debug("unify failed", "at", loc, "err", err)
		e.sink.Report(diagnostic.New(diagnostic.TypeMismatch, loc,
			"expected %s, found %s", e.show(ctx, expected), e.show(ctx, actual)))
		return false
	}
	return true
}

// insert applies t to fresh metas for each leading implicit parameter of
// its type.
func (e *Elaborator) insert(ctx thir.Context, t thir.Term, typ thir.Value) (thir.Term, thir.Value) {
	for {
		pi, ok := thir.Force(e.metas, typ).(thir.VPi)
		if !ok || !pi.Implicit {
			return t, typ
		}
		m := e.freshMeta(ctx)
		t = thir.App{Callee: t, Argument: m, Implicit: true}
		typ = pi.Codomain.Apply(e.metas, e.eval(ctx, m))
	}
}

// binder returns what a lambda or Pi parameter binds. Parameters that
// destructure are not supported.
func binder(p hir.Parameter) (*hir.Definition, string, error) {
	switch b := p.Binding.(type) {
	case hir.BindingPattern:
		if p.Unnamed {
			return b.Definition, "", nil
		}
		return b.Definition, b.Name.Name, nil
	case hir.Wildcard:
		return nil, "", nil
	}
	return nil, "", errorf(diagnostic.UnsupportedTerm, p.Location(), "unsupported parameter pattern")
}

func describe(expr hir.Expr) string {
	switch x := expr.(type) {
	case hir.Empty:
		return "empty expression"
	case hir.Error:
		return "erroneous expression"
	case hir.Match:
		if x.Kind == hir.IfMatch {
			return "if expression"
		}
		return "match expression"
	case hir.Sigma:
		return "sigma type"
	case hir.Block:
		return "block"
	case hir.Call:
		return "call"
	}
	return fmt.Sprintf("%T", expr)
}

func unsupported(expr hir.Expr) *Error {
	return errorf(diagnostic.UnsupportedTerm, expr.Location(), "cannot elaborate %s yet", describe(expr))
}
