package hir

import "github.com/hashicorp/go-set/v3"

// Rec continues the walk into a child node. It reports whether the walk
// should stop.
type Rec func(Node) (quit bool)

// Func is called for every node. It decides whether to descend by calling
// rec on n, and returns true to stop the whole walk.
type Func func(n Node, rec Rec) (quit bool)

// Walk calls f on n. Children are only visited when f calls rec.
func Walk(n Node, f Func) {
	f(n, func(x Node) bool { return walk1(x, f) })
}

// Inspect calls f on n and its descendants, depth first. When f returns
// false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	Walk(n, func(n Node, rec Rec) bool {
		if !f(n) {
			return false
		}
		return rec(n)
	})
}

func walk1(n Node, f Func) bool {
	rec := func(x Node) bool { return walk1(x, f) }
	visit := func(xs ...Node) bool {
		for _, x := range xs {
			if x == nil {
				continue
			}
			if f(x, rec) {
				return true
			}
		}
		return false
	}
	switch n := n.(type) {
	case File:
		for _, d := range n.Declarations {
			if visit(d) {
				return true
			}
		}
	case Binding:
		return visit(typeNode(n.Type), n.Value)
	case Signature:
		return visit(typeNode(n.Type))
	case Inductive:
		if visit(typeNode(n.Type)) {
			return true
		}
		for _, c := range n.Constructors {
			if visit(c) {
				return true
			}
		}
	case Constructor:
		return visit(typeNode(n.Type))
	case Trait:
		return visit(typeNode(n.Type))
	case Ann:
		return visit(n.Value, typeNode(n.Type))
	case Lam:
		for _, p := range n.Parameters {
			if visit(p) {
				return true
			}
		}
		return visit(n.Value)
	case Pi:
		return walkBinder(n.Parameters, n.Value, visit)
	case Sigma:
		return walkBinder(n.Parameters, n.Value, visit)
	case Parameter:
		return visit(n.Binding, typeNode(n.Type))
	case Call:
		if n.Callee.Kind == CalleeExpr && visit(n.Callee.Expr) {
			return true
		}
		for _, a := range n.Arguments {
			if visit(a) {
				return true
			}
		}
		if n.DoNotation != nil {
			return visit(*n.DoNotation)
		}
	case DoNotation:
		return walkStmts(n.Stmts, visit)
	case Block:
		return walkStmts(n.Stmts, visit)
	case Match:
		if visit(n.Scrutinee) {
			return true
		}
		for _, c := range n.Clauses {
			if visit(c) {
				return true
			}
		}
	case Clause:
		return visit(n.Pattern, n.Value)
	case LiteralPattern:
		return visit(n.Literal)
	case ConstructorPattern:
		for _, a := range n.Arguments {
			if visit(a) {
				return true
			}
		}
	case LetStmt:
		return visit(n.Pattern, n.Value)
	case AskStmt:
		return visit(n.Pattern, n.Value)
	case ExprStmt:
		return visit(n.Expr)
	}
	return false
}

func walkBinder(params []Parameter, value TypeRep, visit func(...Node) bool) bool {
	for _, p := range params {
		if visit(p) {
			return true
		}
	}
	return visit(typeNode(value))
}

func walkStmts(stmts []Stmt, visit func(...Node) bool) bool {
	for _, s := range stmts {
		if visit(s) {
			return true
		}
	}
	return false
}

// typeNode unwraps t, returning a nil Node when t is empty so that the walk
// can skip it.
func typeNode(t TypeRep) Node {
	if t.Expr == nil {
		return nil
	}
	return t.Expr
}

func (d DoNotation) Location() Location { return d.Loc }
func (c Clause) Location() Location     { return c.Loc }

// References returns the distinct definitions used under n, in the order
// they are first seen.
func References(n Node) []*Definition {
	seen := set.New[*Definition](0)
	var defs []*Definition
	Inspect(n, func(n Node) bool {
		var def *Definition
		switch n := n.(type) {
		case PathExpr:
			def = n.Reference.Definition
		case ConstructorPattern:
			def = n.Reference.Definition
		case Call:
			if n.Callee.Kind == CalleeReference {
				def = n.Callee.Reference.Definition
			}
		}
		if def != nil && seen.Insert(def) {
			defs = append(defs, def)
		}
		return true
	})
	return defs
}

// ParameterNames lists the names bound by params that users may see.
// Unnamed parameters never appear.
func ParameterNames(params []Parameter) []string {
	var names []string
	for _, p := range params {
		if p.Unnamed {
			continue
		}
		if b, ok := p.Binding.(BindingPattern); ok {
			names = append(names, b.Name.Name)
		}
	}
	return names
}
