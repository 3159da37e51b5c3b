package hir

// Level tells the lowering whether a name is used as a term or as a type.
// It decides which definition kinds a bare path qualifies against.
type Level int

const (
	LevelExpr Level = iota
	LevelType
)

func (l Level) String() string {
	if l == LevelType {
		return "type"
	}
	return "expr"
}

type Declaration interface {
	Node
	Definition() *Definition
	declNode()
}

var (
	_ Declaration = Binding{}
	_ Declaration = Signature{}
	_ Declaration = Inductive{}
	_ Declaration = Constructor{}
	_ Declaration = Trait{}
)

// Binding is `let name params : type = value`. Params are lowered into a Lam
// around Value. Type is zero when the binding has no inline annotation.
//
// The Scope of a declaration holds the free variables of its type.
type Binding struct {
	Def   *Definition
	Type  TypeRep
	Value Expr
	Scope *Scope
	Loc   Location
}

// Signature is a standalone type declaration. It shares its Definition with
// the binding of the same name, if there is one.
type Signature struct {
	Def   *Definition
	Type  TypeRep
	Scope *Scope
	Loc   Location
}

type Inductive struct {
	Def          *Definition
	Type         TypeRep
	Constructors []Constructor
	Scope        *Scope
	Loc          Location
}

type Constructor struct {
	Def       *Definition
	Type      TypeRep
	Inductive *Definition
	Scope     *Scope
	Loc       Location
}

type Trait struct {
	Def   *Definition
	Type  TypeRep
	Scope *Scope
	Loc   Location
}

func (Binding) declNode()     {}
func (Signature) declNode()   {}
func (Inductive) declNode()   {}
func (Constructor) declNode() {}
func (Trait) declNode()       {}

func (d Binding) Definition() *Definition     { return d.Def }
func (d Signature) Definition() *Definition   { return d.Def }
func (d Inductive) Definition() *Definition   { return d.Def }
func (d Constructor) Definition() *Definition { return d.Def }
func (d Trait) Definition() *Definition       { return d.Def }

func (d Binding) Location() Location     { return d.Loc }
func (d Signature) Location() Location   { return d.Loc }
func (d Inductive) Location() Location   { return d.Loc }
func (d Constructor) Location() Location { return d.Loc }
func (d Trait) Location() Location       { return d.Loc }

// File is one lowered source file.
type File struct {
	Name         string
	Declarations []Declaration
	Scope        *Scope
}

func (f File) Location() Location {
	return Location{File: f.Name}
}

// SignatureOf returns the standalone signature declared for def.
func (f File) SignatureOf(def *Definition) (Signature, bool) {
	for _, d := range f.Declarations {
		if sig, ok := d.(Signature); ok && sig.Def == def {
			return sig, true
		}
	}
	return Signature{}, false
}

// Lookup finds the top-level declarations bound to name, in source order.
func (f File) Lookup(name string) []Declaration {
	var decls []Declaration
	for _, d := range f.Declarations {
		if d.Definition().Name() == name {
			decls = append(decls, d)
		}
	}
	return decls
}
