package elab_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/elab"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/lower"
	"github.com/aripiprazole/saph/parser"
	"github.com/aripiprazole/saph/primitives"
	"github.com/aripiprazole/saph/thir"
)

// fileDB answers reference types from the declarations of a single file.
type fileDB struct {
	file hir.File
}

func (db fileDB) ReferenceType(def *hir.Definition) (thir.Term, error) {
	e := elab.New(db, elab.Options{})
	if sig, ok := db.file.SignatureOf(def); ok {
		return e.TypeOf(sig.Type)
	}
	for _, d := range db.file.Declarations {
		switch d := d.(type) {
		case hir.Binding:
			if d.Def == def {
				return e.Declaration(d, hir.TypeRep{}).Type, nil
			}
		case hir.Inductive:
			if d.Def == def {
				return e.TypeOf(d.Type)
			}
			for _, c := range d.Constructors {
				if c.Def == def {
					return e.TypeOf(c.Type)
				}
			}
		}
	}
	return nil, errors.Errorf("no declaration for %s", def)
}

type cycleDB struct{}

func (cycleDB) ReferenceType(def *hir.Definition) (thir.Term, error) {
	return nil, errors.Wrap(elab.ErrCycle, def.String())
}

func lowerSource(t *testing.T, src string) hir.File {
	t.Helper()
	var sink diagnostic.Collector
	f := lower.File(parser.Parse("test.sol", src), nil, nil, primitives.Default(), &sink)
	if diags := sink.Diagnostics(); len(diags) > 0 {
		t.Fatalf("lowering failed:\n%s", pretty.Sprint(diags))
	}
	return f
}

func elaborate(t *testing.T, db elab.Database, f hir.File, name string) (elab.Elaborated, *diagnostic.Collector) {
	t.Helper()
	var sink diagnostic.Collector
	for _, d := range f.Lookup(name) {
		b, ok := d.(hir.Binding)
		if !ok {
			continue
		}
		var sig hir.TypeRep
		if s, ok := f.SignatureOf(b.Def); ok {
			sig = s.Type
		}
		return elab.New(db, elab.Options{Sink: &sink}).Declaration(b, sig), &sink
	}
	t.Fatalf("no binding named %s", name)
	return elab.Elaborated{}, nil
}

func run(t *testing.T, src, name string) (elab.Elaborated, *diagnostic.Collector) {
	t.Helper()
	f := lowerSource(t, src)
	return elaborate(t, fileDB{f}, f, name)
}

func noDiagnostics(t *testing.T, sink *diagnostic.Collector) {
	t.Helper()
	if diags := sink.Diagnostics(); len(diags) > 0 {
		t.Fatalf("unexpected diagnostics:\n%s", pretty.Sprint(diags))
	}
}

func TestIdentity(t *testing.T) {
	got, sink := run(t, `let id = \x -> x`, "id")
	noDiagnostics(t, sink)
	if s := thir.Show(got.Type, nil); s != "(x : ?A) -> ?A" {
		t.Errorf("type = %s", s)
	}
	want := thir.Term(thir.Lam{Name: "x", Body: thir.Var{Level: 0}})
	if diff := pretty.Diff(got.Term, want); len(diff) > 0 {
		t.Errorf("term: %s", strings.Join(diff, "\n"))
	}
}

func TestImplicitEta(t *testing.T) {
	src := `
id2 : {A : Type} -> A -> A
let id2 = \x -> x
id3 : {B : Type} -> B -> B
let id3 = id2
`
	tests := []struct {
		name     string
		wantTerm string
	}{
		{"id2", `\{A} -> \x -> x`},
		{"id3", `\{B} -> id2 {B}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sink := run(t, src, tt.name)
			noDiagnostics(t, sink)
			if s := thir.Show(got.Term, nil); s != tt.wantTerm {
				t.Errorf("term = %s, want %s", s, tt.wantTerm)
			}
			lam, ok := got.Term.(thir.Lam)
			if !ok || !lam.Implicit {
				t.Errorf("term is not an implicit lambda: %# v", pretty.Formatter(got.Term))
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{`let n = 42`, "Int32"},
		{`let n = "hi"`, "String"},
		{`let n = true`, "Bool"},
		{`let n = Int`, "Type"},
		{`let n = Type`, "Type"},
	}
	for _, tt := range tests {
		got, sink := run(t, tt.src, "n")
		noDiagnostics(t, sink)
		if s := thir.Show(got.Type, nil); s != tt.want {
			t.Errorf("%s: type = %s, want %s", tt.src, s, tt.want)
		}
	}
}

func TestTypeMismatch(t *testing.T) {
	got, sink := run(t, `let s : Int = "hello"`, "s")
	diags := sink.Filter(diagnostic.TypeMismatch)
	if len(diags) != 1 {
		t.Fatalf("got %s", pretty.Sprint(sink.Diagnostics()))
	}
	if msg := diags[0].Message; msg != "expected Int32, found String" {
		t.Errorf("message = %q", msg)
	}
	if s := thir.Show(got.Type, nil); s != "Int32" {
		t.Errorf("elaboration should keep the expected type, got %s", s)
	}
}

func TestUnsupported(t *testing.T) {
	got, sink := run(t, `let f = if true then 1 else 2`, "f")
	if diags := sink.Filter(diagnostic.UnsupportedTerm); len(diags) != 1 {
		t.Fatalf("got %s", pretty.Sprint(sink.Diagnostics()))
	}
	if _, ok := got.Term.(thir.Meta); !ok {
		t.Errorf("failed declaration should be a hole, got %# v", pretty.Formatter(got.Term))
	}
}

func TestLambdaAgainstNonFunction(t *testing.T) {
	_, sink := run(t, `let f : Int = \x -> x`, "f")
	if diags := sink.Filter(diagnostic.ExpectedFunctionType); len(diags) != 1 {
		t.Fatalf("got %s", pretty.Sprint(sink.Diagnostics()))
	}
}

func TestCall(t *testing.T) {
	src := `
id2 : {A : Type} -> A -> A
let id2 = \x -> x
let n = id2 1
`
	got, sink := run(t, src, "n")
	noDiagnostics(t, sink)
	if s := thir.Show(got.Type, nil); s != "Int32" {
		t.Errorf("type = %s", s)
	}
	if s := thir.Show(got.Term, nil); s != "id2 {Int32} 1" {
		t.Errorf("term = %s", s)
	}
}

func TestApplyNonFunction(t *testing.T) {
	_, sink := run(t, "let n = 1\nlet m = n 2", "m")
	if diags := sink.Filter(diagnostic.ExpectedFunctionType); len(diags) != 1 {
		t.Fatalf("got %s", pretty.Sprint(sink.Diagnostics()))
	}
}

func TestFreeTypeVariables(t *testing.T) {
	src := `
k : ^a -> ^a
let k = \x -> x
`
	got, sink := run(t, src, "k")
	noDiagnostics(t, sink)
	if s := thir.Show(got.Type, nil); s != "?A -> ?A" {
		t.Errorf("type = %s", s)
	}
}

func TestCyclicReference(t *testing.T) {
	f := lowerSource(t, "let a = b\nlet b = a")
	_, sink := elaborate(t, cycleDB{}, f, "a")
	diags := sink.Filter(diagnostic.CyclicReference)
	if len(diags) != 1 {
		t.Fatalf("got %s", pretty.Sprint(sink.Diagnostics()))
	}
}

func TestMetasStayInTheirDeclaration(t *testing.T) {
	f := lowerSource(t, `let id = \x -> x`)
	decl := f.Lookup("id")[0]
	a := elab.New(nil, elab.Options{})
	b := elab.New(nil, elab.Options{})
	ra := a.Declaration(decl, hir.TypeRep{})
	b.Declaration(decl, hir.TypeRep{})
	pi := ra.Type.(thir.Pi)
	id := pi.Domain.(thir.Meta).ID
	if err := b.Metas().Solve(id, thir.VUniverse{}); !errors.Is(err, thir.ErrForeignMeta) {
		t.Errorf("solved another declaration's meta: %v", err)
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := lowerSource(t, `let id = \x -> x`)
	elab.New(nil, elab.Options{Logger: logger, Trace: true}).Declaration(f.Lookup("id")[0], hir.TypeRep{})
	for _, want := range []string{"declaration", "infer"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("trace is missing %q:\n%s", want, buf.String())
		}
	}
}
