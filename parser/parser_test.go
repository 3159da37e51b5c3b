package parser_test

import (
	"testing"
	"testing/fstest"

	"github.com/aripiprazole/saph/lexer"
	"github.com/aripiprazole/saph/parser"
)

func parse(t *testing.T, src string) []parser.Decl {
	t.Helper()
	f := parser.Parse("test.sol", src)
	for _, d := range f.Decls {
		if _, ok := d.(parser.Illegal); ok {
			t.Fatalf("unexpected syntax error in %q:\n%s", src, d.ASTString(0))
		}
	}
	return f.Decls
}

func single[T parser.Decl](t *testing.T, src string) T {
	t.Helper()
	decls := parse(t, src)
	if len(decls) != 1 {
		t.Fatalf("got %d declarations, want 1", len(decls))
	}
	d, ok := decls[0].(T)
	if !ok {
		t.Fatalf("got %T, want %T:\n%s", decls[0], d, decls[0].ASTString(0))
	}
	return d
}

func as[T any](t *testing.T, n parser.Node) T {
	t.Helper()
	x, ok := n.(T)
	if !ok {
		var want T
		t.Fatalf("got %T, want %T:\n%s", n, want, n.ASTString(0))
	}
	return x
}

func TestLambdaBinding(t *testing.T) {
	b := single[parser.Binding](t, `let id = \x -> x`)
	if b.Name.Text() != "id" {
		t.Errorf("name = %q, want id", b.Name.Text())
	}
	lam := as[parser.Lambda](t, b.Value)
	if len(lam.Params) != 1 {
		t.Fatalf("got %d params, want 1", len(lam.Params))
	}
	if got := as[parser.PatternPath](t, lam.Params[0]).Path.String(); got != "x" {
		t.Errorf("param = %q, want x", got)
	}
	if got := as[parser.Path](t, lam.Body).String(); got != "x" {
		t.Errorf("body = %q, want x", got)
	}
}

func TestFunctionParams(t *testing.T) {
	b := single[parser.Binding](t, `let const x _ = x`)
	if len(b.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(b.Params))
	}
	as[parser.Hole](t, b.Params[1])
}

func TestImplicitSignature(t *testing.T) {
	sig := single[parser.Signature](t, `id2 : {A : Type} -> A -> A`)
	arrow := as[parser.Arrow](t, sig.Type)
	params := as[parser.ParamList](t, arrow.Domain)
	if !params.Implicit() || params.Sigma() {
		t.Errorf("got implicit=%v sigma=%v, want an implicit pi", params.Implicit(), params.Sigma())
	}
	if len(params.Params) != 1 {
		t.Fatalf("got %d params, want 1", len(params.Params))
	}
	as[parser.Universe](t, params.Params[0].Type)
	rest := as[parser.Arrow](t, arrow.Codomain)
	as[parser.Path](t, rest.Domain)
}

func TestNamedAndSigmaDomains(t *testing.T) {
	pi := single[parser.Binding](t, `let r = (x : Int, y : Int) -> Int`)
	params := as[parser.ParamList](t, as[parser.Arrow](t, pi.Value).Domain)
	if params.Implicit() || params.Sigma() || len(params.Params) != 2 {
		t.Errorf("got %s, want two explicit params", params.ASTString(0))
	}

	sigma := single[parser.Binding](t, `let p = [x : Int] -> Int`)
	params = as[parser.ParamList](t, as[parser.Arrow](t, sigma.Value).Domain)
	if !params.Sigma() {
		t.Errorf("got %s, want a sigma domain", params.ASTString(0))
	}

	unnamed := single[parser.Binding](t, `let u = Int -> Int`)
	as[parser.Path](t, as[parser.Arrow](t, unnamed.Value).Domain)
}

func TestOperatorSignature(t *testing.T) {
	sig := single[parser.Signature](t, `let (+) : Int -> Int -> Int`)
	if sig.Name.Tok.Type != lexer.Plus {
		t.Errorf("name = %v, want +", sig.Name.Tok)
	}
}

func TestIf(t *testing.T) {
	b := single[parser.Binding](t, `let f = if true then 1 else 2`)
	n := as[parser.If](t, b.Value)
	if as[parser.Literal](t, n.Cond).Tok.Type != lexer.True {
		t.Errorf("cond = %s, want true", n.Cond.ASTString(0))
	}
	if as[parser.Literal](t, n.Yes).Tok.Data != "1" || as[parser.Literal](t, n.No).Tok.Data != "2" {
		t.Errorf("got %s", n.ASTString(0))
	}
}

func TestMatch(t *testing.T) {
	b := single[parser.Binding](t, "let g = match n {\n  | Zero => 0\n  | Succ _ => 1\n}")
	m := as[parser.Match](t, b.Value)
	if len(m.Arms) != 2 {
		t.Fatalf("got %d arms, want 2", len(m.Arms))
	}
	succ := as[parser.PatternPath](t, m.Arms[1].Pattern)
	if succ.Path.String() != "Succ" || len(succ.Args) != 1 {
		t.Fatalf("got %s", succ.ASTString(0))
	}
	as[parser.Hole](t, succ.Args[0])
}

func TestTrailingBlock(t *testing.T) {
	b := single[parser.Binding](t, `let h = run x { y <- ask; return y }`)
	app := as[parser.App](t, b.Value)
	if len(app.Args) != 1 || len(app.Blocks) != 1 {
		t.Fatalf("got %d args and %d blocks, want 1 and 1", len(app.Args), len(app.Blocks))
	}
	stmts := app.Blocks[0].Stmts
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	ask := as[parser.AskStmt](t, stmts[0])
	as[parser.PatternPath](t, ask.Pattern)
	as[parser.Return](t, as[parser.ExprStmt](t, stmts[1]).X)
}

func TestDoBlockLines(t *testing.T) {
	b := single[parser.Binding](t, "let m = do {\n  let a = 1\n  b <- get a\n  return b\n}")
	d := as[parser.Do](t, b.Value)
	if len(d.Block.Stmts) != 3 {
		t.Fatalf("got %d statements, want 3:\n%s", len(d.Block.Stmts), d.ASTString(0))
	}
	as[parser.LetStmt](t, d.Block.Stmts[0])
	as[parser.AskStmt](t, d.Block.Stmts[1])
}

func TestData(t *testing.T) {
	d := single[parser.DataDecl](t, "data Nat2 : Type {\n  Zero : Nat2\n  Succ : Nat2 -> Nat2\n}")
	if len(d.Constructors) != 2 {
		t.Fatalf("got %d constructors, want 2", len(d.Constructors))
	}
	if d.Constructors[1].Name.Text() != "Succ" {
		t.Errorf("got %q, want Succ", d.Constructors[1].Name.Text())
	}
	as[parser.Universe](t, d.Type)
}

func TestTrait(t *testing.T) {
	tr := single[parser.TraitDecl](t, `trait Show : Type -> Type`)
	as[parser.Arrow](t, tr.Type)
}

func TestPrecedence(t *testing.T) {
	b := single[parser.Binding](t, `let a = 1 + 2 * 3`)
	sum := as[parser.BinaryExpr](t, b.Value)
	if sum.Op.Type != lexer.Plus {
		t.Fatalf("top operator = %v, want +", sum.Op)
	}
	as[parser.BinaryExpr](t, sum.Right)
}

func TestAnnotation(t *testing.T) {
	b := single[parser.Binding](t, `let a = (1 : Int)`)
	ann := as[parser.Ann](t, as[parser.Paren](t, b.Value).X)
	as[parser.Path](t, ann.Type)
}

func TestRecovery(t *testing.T) {
	f := parser.Parse("test.sol", "let = 1\nlet x = 2")
	if len(f.Decls) != 2 {
		t.Fatalf("got %d declarations, want 2", len(f.Decls))
	}
	as[parser.Illegal](t, f.Decls[0])
	if b := as[parser.Binding](t, f.Decls[1]); b.Name.Text() != "x" {
		t.Errorf("got %q, want x", b.Name.Text())
	}
}

func TestParseDir(t *testing.T) {
	fsys := fstest.MapFS{
		"pkg/a.sol":    &fstest.MapFile{Data: []byte("let a = 1")},
		"pkg/b.sol":    &fstest.MapFile{Data: []byte("let b = a")},
		"pkg/notes.md": &fstest.MapFile{Data: []byte("# notes")},
	}
	files, err := parser.ParseDir(fsys, "pkg")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0].Name != "pkg/a.sol" || files[1].Name != "pkg/b.sol" {
		t.Fatalf("got %v", files)
	}
	if _, err := parser.ParseDir(fstest.MapFS{"x/a.md": &fstest.MapFile{}}, "x"); err == nil {
		t.Error("expected an error for a directory without source files")
	}
}
