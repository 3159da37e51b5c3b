package thir

import "github.com/aripiprazole/saph/hir"

// Context is the typing context of elaboration. Like Env it is persistent:
// extending a context never changes the receiver, so a context captured
// before entering a binder stays valid after leaving it.
type Context struct {
	entries *entry
	env     Env
}

type entry struct {
	def   *hir.Definition
	name  string
	typ   Value
	bound bool
	level Level
	next  *entry
}

func (c Context) Level() Level {
	return Level(c.env.Len())
}

func (c Context) Env() Env {
	return c.env
}

func (c Context) extend(def *hir.Definition, name string, value, typ Value, bound bool) Context {
	return Context{
		entries: &entry{def: def, name: name, typ: typ, bound: bound, level: c.Level(), next: c.entries},
		env:     c.env.Extend(value),
	}
}

// CreateNewValue binds def to a known value of type typ.
func (c Context) CreateNewValue(def *hir.Definition, name string, value, typ Value) Context {
	return c.extend(def, name, value, typ, false)
}

// InsertNewBinder binds def to a fresh variable of type typ. def may be nil
// for binders that no source name refers to.
func (c Context) InsertNewBinder(def *hir.Definition, name string, typ Value) Context {
	return c.extend(def, name, NewVar(c.Level()), typ, true)
}

// Lookup returns the level and type of the innermost entry for def.
func (c Context) Lookup(def *hir.Definition) (Level, Value, bool) {
	if def == nil {
		return 0, nil, false
	}
	for e := c.entries; e != nil; e = e.next {
		if e.def == def {
			return e.level, e.typ, true
		}
	}
	return 0, nil, false
}

// Bound reports, outermost first, which entries are binders rather than
// defined values.
func (c Context) Bound() []bool {
	out := make([]bool, c.Level())
	for e := c.entries; e != nil; e = e.next {
		out[e.level] = e.bound
	}
	return out
}

// Names returns the entry names outermost first, for printing.
func (c Context) Names() []string {
	out := make([]string, c.Level())
	for e := c.entries; e != nil; e = e.next {
		out[e.level] = e.name
	}
	return out
}
