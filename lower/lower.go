// Package lower turns syntax trees into HIR. Every name goes through a
// names.Resolver, and built-in type names fall back to the primitive
// registry. Lowering never stops at a malformed node: it reports a
// diagnostic and puts a placeholder in its place.
package lower

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/lexer"
	"github.com/aripiprazole/saph/names"
	"github.com/aripiprazole/saph/parser"
	"github.com/aripiprazole/saph/primitives"
)

type lowerer struct {
	file    string
	globals *Globals
	r       *names.Resolver
	prims   *primitives.Bag
	sink    diagnostic.Sink
}

// File lowers f. The definitions of its top-level names come from globals,
// which must have been collected from f, or nil to collect them here. Every
// other global name is looked up in finder.
func File(f parser.File, globals *Globals, finder names.Finder, prims *primitives.Bag, sink diagnostic.Sink) hir.File {
	if sink == nil {
		sink = diagnostic.Discard
	}
	if prims == nil {
		prims = primitives.Default()
	}
	prims.Initialize()
	if globals == nil {
		globals = Collect(f)
	}
	l := &lowerer{
		file:    f.Name,
		globals: globals,
		r:       names.NewResolver(names.Chain{globals, finder}, sink),
		prims:   prims,
		sink:    sink,
	}
	out := hir.File{Name: f.Name}
	for i, d := range f.Decls {
		out.Declarations = append(out.Declarations, l.declaration(i, d)...)
	}
	out.Scope = l.r.Scope().Seal()
	return out
}

func (l *lowerer) loc(n parser.Node) hir.Location {
	return hir.Location{File: l.file, Span: n.Span()}
}

func (l *lowerer) tokLoc(tok lexer.Token) hir.Location {
	return hir.Location{File: l.file, Span: tok.Span}
}

func (l *lowerer) report(kind diagnostic.Kind, loc hir.Location, format string, args ...any) {
	l.sink.Report(diagnostic.New(kind, loc, format, args...))
}

func (l *lowerer) path(p parser.Path) hir.Path {
	segments := lo.Map(p.Segments, func(tok lexer.Token, _ int) hir.Identifier {
		return hir.Identifier{Name: tok.Text(), Location: l.tokLoc(tok)}
	})
	return hir.Path{Segments: segments, Location: l.loc(p)}
}

func (l *lowerer) illegal(n parser.Illegal) hir.Error {
	loc := l.loc(n)
	l.report(diagnostic.SyntaxError, loc, "%s", n.Msg)
	return hir.Error{Loc: loc, Message: n.Msg}
}

func (l *lowerer) expr(e parser.Expr) hir.Expr {
	return l.lower(e, hir.LevelExpr)
}

func (l *lowerer) typeExpr(e parser.Expr) hir.TypeRep {
	return hir.Upgrade(l.lower(e, hir.LevelType))
}

func (l *lowerer) lower(e parser.Expr, level hir.Level) hir.Expr {
	switch e := e.(type) {
	case nil:
		return hir.Empty{}
	case parser.Illegal:
		return l.illegal(e)
	case parser.Ann:
		return l.annExpr(e, level)
	case parser.BinaryExpr:
		return l.binaryExpr(e, level)
	case parser.Lambda:
		return l.lamExpr(e, level)
	case parser.App:
		if level == hir.LevelType && len(e.Blocks) == 0 {
			return l.typeAppExpr(e).Downgrade()
		}
		return l.appExpr(e, level)
	case parser.Arrow:
		if params, ok := e.Domain.(parser.ParamList); ok && params.Sigma() {
			return l.sigmaExpr(e, params).Downgrade()
		}
		return l.piExpr(e).Downgrade()
	case parser.ParamList:
		loc := l.loc(e)
		l.report(diagnostic.SyntaxError, loc, "parameter list without an arrow")
		return hir.Error{Loc: loc, Message: "parameter list without an arrow"}
	case parser.Match:
		return l.matchExpr(e, level)
	case parser.If:
		return l.ifExpr(e, level)
	case parser.Array:
		return l.arrayExpr(e, level)
	case parser.Tuple:
		return l.tupleExpr(e, level)
	case parser.Return:
		return l.returnExpr(e, level)
	case parser.Block:
		return l.block(e, hir.BlockScope, level)
	case parser.Do:
		return l.block(e.Block, hir.DoNotationScope, level)
	}
	return l.primary(e, level)
}

func (l *lowerer) annExpr(e parser.Ann, level hir.Level) hir.Expr {
	return hir.Ann{
		Value: l.lower(e.Value, level),
		Type:  l.typeExpr(e.Type),
		Loc:   l.loc(e),
	}
}

// binaryExpr lowers `a op b` to an infix call of the function named op.
func (l *lowerer) binaryExpr(e parser.BinaryExpr, level hir.Level) hir.Expr {
	lhs := l.lower(e.Left, level)
	rhs := l.lower(e.Right, level)
	opLoc := l.tokLoc(e.Op)
	op := hir.NewPath(opLoc, e.Op.Text())
	def := l.r.Qualify(op, hir.FunctionKind)
	return hir.Call{
		Kind:      hir.InfixCall,
		Callee:    hir.Callee{Kind: hir.CalleeReference, Reference: l.r.Using(def, opLoc, level)},
		Arguments: []hir.Expr{lhs, rhs},
		Loc:       l.loc(e),
	}
}

func (l *lowerer) lamExpr(e parser.Lambda, level hir.Level) hir.Expr {
	l.r.Fork(hir.LambdaScope)
	params := lo.Map(e.Params, func(p parser.Pattern, _ int) hir.Parameter {
		return hir.Parameter{Binding: l.pattern(p), Loc: l.loc(p)}
	})
	value := l.lower(e.Body, level)
	scope := l.r.Pop()
	return hir.Lam{Parameters: params, Value: value, Scope: scope, Loc: l.loc(e)}
}

// appExpr lowers a term-level application. Trailing blocks become the
// do-notation of the call; only the last one is kept.
func (l *lowerer) appExpr(e parser.App, level hir.Level) hir.Expr {
	call := hir.Call{
		Kind:   hir.PrefixCall,
		Callee: hir.Callee{Kind: hir.CalleeExpr, Expr: l.lower(e.Callee, level)},
		Arguments: lo.Map(e.Args, func(arg parser.Expr, _ int) hir.Expr {
			return l.lower(arg, level)
		}),
		Loc: l.loc(e),
	}
	for i, b := range e.Blocks {
		if i < len(e.Blocks)-1 {
			l.sink.Report(diagnostic.Warn(diagnostic.MultipleDoNotation, l.loc(b),
				"only the last block of an application is used as do-notation"))
		}
		// Earlier blocks are still lowered so their names get reported.
		do := l.doNotation(b, level)
		call.DoNotation = &do
	}
	return call
}

func (l *lowerer) typeAppExpr(e parser.App) hir.TypeRep {
	callee := l.typeExpr(e.Callee)
	args := lo.Map(e.Args, func(arg parser.Expr, _ int) hir.TypeRep {
		return l.typeExpr(arg)
	})
	return hir.Upgrade(hir.Call{
		Kind:      hir.PrefixCall,
		Callee:    hir.Callee{Kind: hir.CalleeExpr, Expr: callee.Downgrade()},
		Arguments: lo.Map(args, func(t hir.TypeRep, _ int) hir.Expr { return t.Downgrade() }),
		Loc:       l.loc(e),
	})
}

// domain lowers the left side of an arrow to its parameters. Must be called
// with the binder scope open.
func (l *lowerer) domain(d parser.Expr) []hir.Parameter {
	if params, ok := d.(parser.ParamList); ok {
		return lo.Map(params.Params, func(p parser.Param, _ int) hir.Parameter {
			return l.parameter(p, params.Implicit())
		})
	}
	t := l.typeExpr(d)
	loc := l.loc(d)
	return []hir.Parameter{{
		Binding: hir.Wildcard{Loc: loc},
		Type:    t,
		Unnamed: true,
		Loc:     loc,
	}}
}

func (l *lowerer) piExpr(e parser.Arrow) hir.TypeRep {
	l.r.Fork(hir.PiScope)
	params := l.domain(e.Domain)
	value := l.typeExpr(e.Codomain)
	scope := l.r.Pop()
	return hir.Upgrade(hir.Pi{Parameters: params, Value: value, Scope: scope, Loc: l.loc(e)})
}

func (l *lowerer) sigmaExpr(e parser.Arrow, params parser.ParamList) hir.TypeRep {
	l.r.Fork(hir.SigmaScope)
	ps := l.domain(params)
	value := l.typeExpr(e.Codomain)
	scope := l.r.Pop()
	return hir.Upgrade(hir.Sigma{Parameters: ps, Value: value, Scope: scope, Loc: l.loc(e)})
}

// parameter lowers one binder of a pi or sigma type. The type is lowered
// before the binding is defined, so a parameter cannot refer to itself. A
// binder written without a type gets a hole.
func (l *lowerer) parameter(p parser.Param, implicit bool) hir.Parameter {
	var t hir.TypeRep
	if p.Type != nil {
		t = l.typeExpr(p.Type)
	} else {
		t = hir.Upgrade(hir.Hole{Loc: l.loc(p.Pattern)})
	}
	return hir.Parameter{
		Binding:  l.pattern(p.Pattern),
		Type:     t,
		Implicit: implicit,
		Loc:      l.loc(p),
	}
}

func (l *lowerer) matchExpr(e parser.Match, level hir.Level) hir.Expr {
	scrutinee := l.lower(e.Scrutinee, level)
	clauses := lo.Map(e.Arms, func(arm parser.MatchArm, _ int) hir.Clause {
		l.r.Fork(hir.CaseScope)
		pattern := l.pattern(arm.Pattern)
		value := l.lower(arm.Body, level)
		return hir.Clause{Pattern: pattern, Value: value, Scope: l.r.Pop(), Loc: l.loc(arm)}
	})
	return hir.Match{Kind: hir.PatternMatch, Scrutinee: scrutinee, Clauses: clauses, Loc: l.loc(e)}
}

// ifExpr lowers `if c then t else e` to a match on c whose clauses are
// always `true => t` followed by `false => e`.
func (l *lowerer) ifExpr(e parser.If, level hir.Level) hir.Expr {
	loc := l.loc(e)
	scrutinee := l.lower(e.Cond, level)
	then := l.lower(e.Yes, level)
	var otherwise hir.Expr = hir.Empty{Loc: loc}
	if e.No != nil {
		otherwise = l.lower(e.No, level)
	}
	return hir.Match{
		Kind:      hir.IfMatch,
		Scrutinee: scrutinee,
		Clauses: []hir.Clause{
			{Pattern: hir.LiteralPattern{Literal: hir.BoolLit(true, loc)}, Value: then, Loc: then.Location()},
			{Pattern: hir.LiteralPattern{Literal: hir.BoolLit(false, loc)}, Value: otherwise, Loc: otherwise.Location()},
		},
		Loc: loc,
	}
}

func (l *lowerer) items(xs []parser.Expr, level hir.Level) []hir.Expr {
	return lo.Map(xs, func(x parser.Expr, _ int) hir.Expr { return l.lower(x, level) })
}

func (l *lowerer) arrayExpr(e parser.Array, level hir.Level) hir.Expr {
	return hir.Call{
		Kind:      hir.PrefixCall,
		Callee:    hir.Callee{Kind: hir.CalleeArray},
		Arguments: l.items(e.Elems, level),
		Loc:       l.loc(e),
	}
}

func (l *lowerer) tupleExpr(e parser.Tuple, level hir.Level) hir.Expr {
	return hir.Call{
		Kind:      hir.PrefixCall,
		Callee:    hir.Callee{Kind: hir.CalleeTuple},
		Arguments: l.items(e.Elems, level),
		Loc:       l.loc(e),
	}
}

func unit(loc hir.Location) hir.Expr {
	return hir.Call{Kind: hir.PrefixCall, Callee: hir.Callee{Kind: hir.CalleeUnit}, Loc: loc}
}

// returnExpr lowers `return e` to `pure e`, and a bare `return` to
// `pure ()`. Outside do-notation it is reported but lowered all the same.
func (l *lowerer) returnExpr(e parser.Return, level hir.Level) hir.Expr {
	loc := l.loc(e)
	if !l.r.IsDoNotation() {
		l.report(diagnostic.ReturnOutsideDoNotation, loc, "return is only allowed inside do-notation")
	}
	value := unit(loc)
	if e.Value != nil {
		value = l.lower(e.Value, level)
	}
	return hir.Call{
		Kind:      hir.PrefixCall,
		Callee:    hir.Callee{Kind: hir.CalleePure},
		Arguments: []hir.Expr{value},
		Loc:       loc,
	}
}

func (l *lowerer) primary(e parser.Expr, level hir.Level) hir.Expr {
	switch e := e.(type) {
	case parser.Path:
		return l.pathExpr(l.path(e), level)
	case parser.FreeVar:
		loc := l.loc(e)
		if level == hir.LevelExpr {
			l.report(diagnostic.FreeVariableOutsideType, loc, "free variable ^%s can only be used in a type", e.Name())
		}
		return hir.PathExpr{Reference: l.r.InsertFreeVariable(hir.NewPath(loc, e.Name()))}
	case parser.Literal:
		return l.literal(e)
	case parser.Universe:
		return hir.Type{Builtin: hir.Builtin{Kind: hir.Universe}, Loc: l.loc(e)}
	case parser.Hole:
		return hir.Hole{Loc: l.loc(e)}
	case parser.Paren:
		return l.lower(e.X, level)
	case parser.Unit:
		if level == hir.LevelType {
			return l.builtin("Unit", l.loc(e))
		}
		return unit(l.loc(e))
	}
	loc := l.loc(e)
	l.report(diagnostic.UnsupportedTerm, loc, "unsupported expression")
	return hir.Error{Loc: loc, Message: "unsupported expression"}
}

var (
	exprKinds = []hir.DefinitionKind{hir.FunctionKind, hir.ConstructorKind, hir.TypeKind, hir.TraitKind}
	typeKinds = []hir.DefinitionKind{hir.TypeKind, hir.TraitKind, hir.FunctionKind, hir.ConstructorKind}
)

// pathExpr resolves a name used as a term or a type. A name nothing
// declares may still be a primitive type.
func (l *lowerer) pathExpr(path hir.Path, level hir.Level) hir.Expr {
	kinds := exprKinds
	if level == hir.LevelType {
		kinds = typeKinds
	}
	for _, kind := range kinds {
		if def, ok := l.r.Lookup(path, kind); ok {
			return hir.PathExpr{Reference: l.r.Using(def, path.Location, level)}
		}
	}
	if _, ok := path.Single(); ok {
		if e, ok := l.builtin(path.Name(), path.Location).(hir.Type); ok {
			return e
		}
	}
	def := l.r.Qualify(path, kinds[0])
	return hir.PathExpr{Reference: l.r.Using(def, path.Location, level)}
}

// builtin returns the primitive named name, located at loc, or nil.
func (l *lowerer) builtin(name string, loc hir.Location) hir.Expr {
	rep, ok := l.prims.LookupTypeRep(name)
	if !ok {
		return nil
	}
	if t, ok := rep.Downgrade().(hir.Type); ok {
		t.Loc = loc
		return t
	}
	return rep.Downgrade()
}

func (l *lowerer) literal(e parser.Literal) hir.Expr {
	lit, ok := l.literalValue(e)
	if !ok {
		return hir.Error{Loc: lit.Loc, Message: "invalid literal"}
	}
	return lit
}

func (l *lowerer) literalValue(e parser.Literal) (hir.Literal, bool) {
	loc := l.loc(e)
	switch e.Tok.Type {
	case lexer.True:
		return hir.BoolLit(true, loc), true
	case lexer.False:
		return hir.BoolLit(false, loc), true
	case lexer.String:
		s, err := strconv.Unquote(e.Tok.Data)
		if err != nil {
			s = strings.Trim(e.Tok.Data, `"`)
		}
		return hir.StringLit(s, loc), true
	case lexer.Number:
		n, err := strconv.ParseInt(e.Tok.Data, 0, 64)
		if err != nil {
			l.report(diagnostic.SyntaxError, loc, "integer literal %s out of range", e.Tok.Data)
			return hir.Literal{Loc: loc}, false
		}
		return hir.IntLit(n, loc), true
	}
	l.report(diagnostic.SyntaxError, loc, "invalid literal %s", e.Tok)
	return hir.Literal{Loc: loc}, false
}

// pattern lowers p and defines the names it binds in the current scope. A
// bare name is a constructor pattern when a constructor with that name
// exists, and a new binding otherwise.
func (l *lowerer) pattern(p parser.Pattern) hir.Pattern {
	switch p := p.(type) {
	case parser.Hole:
		return hir.Wildcard{Loc: l.loc(p)}
	case parser.Rest:
		return hir.RestPattern{Loc: l.loc(p)}
	case parser.Literal:
		lit, ok := l.literalValue(p)
		if !ok {
			return hir.EmptyPattern{Loc: lit.Loc}
		}
		return hir.LiteralPattern{Literal: lit}
	case parser.PatternPath:
		path := l.path(p.Path)
		if id, ok := path.Single(); ok && len(p.Args) == 0 {
			if def, ok := l.r.Global(path, hir.ConstructorKind); ok {
				return hir.ConstructorPattern{Reference: l.r.Using(def, path.Location, hir.LevelExpr), Loc: l.loc(p)}
			}
			return hir.BindingPattern{Name: id, Definition: l.r.Define(id)}
		}
		def := l.r.Qualify(path, hir.ConstructorKind)
		return hir.ConstructorPattern{
			Reference: l.r.Using(def, path.Location, hir.LevelExpr),
			Arguments: lo.Map(p.Args, func(arg parser.Pattern, _ int) hir.Pattern { return l.pattern(arg) }),
			Loc:       l.loc(p),
		}
	case parser.Illegal:
		return hir.EmptyPattern{Loc: l.illegal(p).Loc}
	}
	loc := l.loc(p)
	l.report(diagnostic.UnsupportedTerm, loc, "unsupported pattern")
	return hir.EmptyPattern{Loc: loc}
}

func (l *lowerer) stmts(stmts []parser.Stmt, level hir.Level) []hir.Stmt {
	return lo.Map(stmts, func(s parser.Stmt, _ int) hir.Stmt { return l.stmt(s, level) })
}

// block lowers a braced block in a scope of its own.
func (l *lowerer) block(b parser.Block, kind hir.ScopeKind, level hir.Level) hir.Expr {
	l.r.Fork(kind)
	stmts := l.stmts(b.Stmts, level)
	return hir.Block{Stmts: stmts, Scope: l.r.Pop(), Loc: l.loc(b)}
}

func (l *lowerer) doNotation(b parser.Block, level hir.Level) hir.DoNotation {
	l.r.Fork(hir.DoNotationScope)
	stmts := l.stmts(b.Stmts, level)
	return hir.DoNotation{Stmts: stmts, Scope: l.r.Pop(), Loc: l.loc(b)}
}

// stmt lowers one statement. The value of a let or ask is lowered before
// its pattern, so the names it binds are only visible to later statements.
func (l *lowerer) stmt(s parser.Stmt, level hir.Level) hir.Stmt {
	switch s := s.(type) {
	case parser.LetStmt:
		value := l.lower(s.Value, level)
		return hir.LetStmt{Pattern: l.pattern(s.Pattern), Value: value, Loc: l.loc(s)}
	case parser.AskStmt:
		value := l.lower(s.Value, level)
		return hir.AskStmt{Pattern: l.pattern(s.Pattern), Value: value, Loc: l.loc(s)}
	case parser.ExprStmt:
		return hir.ExprStmt{Expr: l.lower(s.X, level)}
	case parser.Illegal:
		return hir.EmptyStmt{Loc: l.illegal(s).Loc}
	}
	loc := l.loc(s)
	l.report(diagnostic.UnsupportedTerm, loc, "unsupported statement")
	return hir.EmptyStmt{Loc: loc}
}
