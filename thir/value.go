package thir

import "github.com/aripiprazole/saph/hir"

type Value interface {
	valueNode()
}

var (
	_ Value = VUniverse{}
	_ Value = VConst{}
	_ Value = Flexible{}
	_ Value = Rigid{}
	_ Value = VPi{}
	_ Value = VLam{}
	_ Value = Located{}
)

type Arg struct {
	Value    Value
	Implicit bool
}

// Spine is the arguments of a stuck application, first argument first.
type Spine []Arg

// With returns s extended with arg. s itself is never modified, since
// spines are shared between values.
func (s Spine) With(arg Arg) Spine {
	out := make(Spine, len(s), len(s)+1)
	copy(out, s)
	return append(out, arg)
}

type VUniverse struct{}

// VConst is a constant, possibly applied to arguments.
type VConst struct {
	Const Const
	Spine Spine
}

// Flexible is an application of a meta that has not been solved.
type Flexible struct {
	Meta  MetaID
	Spine Spine
}

// Rigid is an application of a bound variable.
type Rigid struct {
	Level Level
	Spine Spine
}

type VPi struct {
	Name     string
	Implicit bool
	Domain   Value
	Codomain Closure
}

type VLam struct {
	Name     string
	Implicit bool
	Body     Closure
}

// Located attaches the source location a value came from. It is invisible
// to evaluation and unification.
type Located struct {
	Location hir.Location
	Value    Value
}

func (VUniverse) valueNode() {}
func (VConst) valueNode()    {}
func (Flexible) valueNode()  {}
func (Rigid) valueNode()     {}
func (VPi) valueNode()       {}
func (VLam) valueNode()      {}
func (Located) valueNode()   {}

// NewVar is the value of the bound variable at lvl.
func NewVar(lvl Level) Value {
	return Rigid{Level: lvl}
}

// Closure is a term waiting for one more variable. The body is only
// evaluated when the closure is applied.
type Closure struct {
	Env  Env
	Body Term
}

func (c Closure) Apply(m *Metas, v Value) Value {
	return Eval(m, c.Env.Extend(v), c.Body)
}

// Env holds the values of the variables in scope. It is a persistent list:
// Extend shares the tail with the receiver.
type Env struct {
	head *envNode
}

type envNode struct {
	value Value
	next  *envNode
	size  int
}

func (e Env) Extend(v Value) Env {
	return Env{head: &envNode{value: v, next: e.head, size: e.Len() + 1}}
}

func (e Env) Len() int {
	if e.head == nil {
		return 0
	}
	return e.head.size
}

// At returns the value of the variable at lvl.
func (e Env) At(lvl Level) (Value, bool) {
	i := e.Len() - 1 - int(lvl)
	if lvl < 0 || i < 0 {
		return nil, false
	}
	n := e.head
	for ; i > 0; i-- {
		n = n.next
	}
	return n.value, true
}

// Values returns the environment outermost first.
func (e Env) Values() []Value {
	out := make([]Value, e.Len())
	i := len(out) - 1
	for n := e.head; n != nil; n = n.next {
		out[i] = n.value
		i--
	}
	return out
}
