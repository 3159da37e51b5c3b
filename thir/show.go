package thir

import (
	"fmt"
	"strings"
)

const (
	precTop = iota
	precApp
	precAtom
)

// Show prints t. names holds the names of the variables in scope, outermost
// first; variables without a name print as their level.
func Show(t Term, names []string) string {
	var sb strings.Builder
	p := printer{sb: &sb, names: append([]string(nil), names...)}
	p.term(t, precTop)
	return sb.String()
}

func (t Universe) String() string     { return Show(t, nil) }
func (t Var) String() string          { return Show(t, nil) }
func (t Lam) String() string          { return Show(t, nil) }
func (t Pi) String() string           { return Show(t, nil) }
func (t App) String() string          { return Show(t, nil) }
func (t Meta) String() string         { return Show(t, nil) }
func (t InsertedMeta) String() string { return Show(t, nil) }

type printer struct {
	sb    *strings.Builder
	names []string
}

func (p *printer) name(lvl Level) string {
	if int(lvl) < len(p.names) && p.names[lvl] != "" {
		return p.names[lvl]
	}
	return fmt.Sprintf("$%d", lvl)
}

func (p *printer) bind(name string, f func()) {
	p.names = append(p.names, name)
	f()
	p.names = p.names[:len(p.names)-1]
}

func (p *printer) term(t Term, prec int) {
	switch t := t.(type) {
	case Universe:
		p.sb.WriteString("Type")
	case Var:
		p.sb.WriteString(p.name(t.Level))
	case Const:
		p.sb.WriteString(t.String())
	case Meta:
		p.sb.WriteString(t.ID.String())
	case InsertedMeta:
		p.sb.WriteString(t.ID.String())
	case App:
		p.paren(prec > precApp, func() {
			p.term(t.Callee, precApp)
			p.sb.WriteByte(' ')
			if t.Implicit {
				p.sb.WriteByte('{')
				p.term(t.Argument, precTop)
				p.sb.WriteByte('}')
				return
			}
			p.term(t.Argument, precAtom)
		})
	case Lam:
		p.paren(prec > precTop, func() {
			name := t.Name
			if name == "" {
				name = "_"
			}
			if t.Implicit {
				fmt.Fprintf(p.sb, "\\{%s} -> ", name)
			} else {
				fmt.Fprintf(p.sb, "\\%s -> ", name)
			}
			p.bind(t.Name, func() { p.term(t.Body, precTop) })
		})
	case Pi:
		p.paren(prec > precTop, func() {
			switch {
			case t.Implicit:
				fmt.Fprintf(p.sb, "{%s : ", t.Name)
				p.term(t.Domain, precTop)
				p.sb.WriteByte('}')
			case t.Name != "":
				fmt.Fprintf(p.sb, "(%s : ", t.Name)
				p.term(t.Domain, precTop)
				p.sb.WriteByte(')')
			default:
				p.term(t.Domain, precApp)
			}
			p.sb.WriteString(" -> ")
			p.bind(t.Name, func() { p.term(t.Codomain, precTop) })
		})
	default:
		fmt.Fprintf(p.sb, "<%T>", t)
	}
}

func (p *printer) paren(wrap bool, f func()) {
	if wrap {
		p.sb.WriteByte('(')
	}
	f()
	if wrap {
		p.sb.WriteByte(')')
	}
}
