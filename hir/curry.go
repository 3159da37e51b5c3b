package hir

// Curried is a lambda viewed as a chain of single-parameter lambdas. It
// shares the parameters of the Lam it was built from and is never stored.
type Curried interface {
	curried()
}

type CurriedLam struct {
	Parameter Parameter
	Rest      Curried
}

type CurriedExpr struct {
	Body Expr
}

func (CurriedLam) curried()  {}
func (CurriedExpr) curried() {}

// Curry flattens lam, including lambdas directly nested in its body.
func Curry(lam Lam) Curried {
	return curry(lam.Parameters, lam.Value)
}

func curry(params []Parameter, body Expr) Curried {
	if len(params) == 0 {
		if inner, ok := body.(Lam); ok {
			return curry(inner.Parameters, inner.Value)
		}
		return CurriedExpr{Body: body}
	}
	return CurriedLam{Parameter: params[0], Rest: curry(params[1:], body)}
}

// Parameters returns the parameters of c in order, and the innermost body.
func Parameters(c Curried) ([]Parameter, Expr) {
	var params []Parameter
	for {
		switch n := c.(type) {
		case CurriedLam:
			params = append(params, n.Parameter)
			c = n.Rest
		case CurriedExpr:
			return params, n.Body
		default:
			return params, nil
		}
	}
}
