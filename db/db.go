// Package db runs the compiler pipeline over a package as a set of
// memoized queries. Every query result belongs to a revision; changing a
// source file starts a new revision and forgets everything computed before.
package db

import (
	"context"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/aripiprazole/saph/config"
	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/elab"
	"github.com/aripiprazole/saph/fsx"
	"github.com/aripiprazole/saph/hir"
	"github.com/aripiprazole/saph/lower"
	"github.com/aripiprazole/saph/names"
	"github.com/aripiprazole/saph/parser"
	"github.com/aripiprazole/saph/primitives"
	"github.com/aripiprazole/saph/thir"
)

var _ names.Finder = (*Database)(nil)

type Options struct {
	Config     config.Config
	Sink       diagnostic.Sink
	Logger     *slog.Logger
	Primitives *primitives.Bag
}

type Database struct {
	id    uuid.UUID
	pkg   Package
	fsys  *fsx.Overlay
	cfg   config.Config
	sink  diagnostic.Sink
	log   *slog.Logger
	prims *primitives.Bag

	mu       sync.Mutex
	revision int
	memo     *memo
}

// memo holds the query results of one revision.
type memo struct {
	flight singleflight.Group

	mu          sync.Mutex
	files       []string
	parsed      map[string]parser.File
	globals     map[string]*lower.Globals
	lowered     map[string]hir.File
	types       map[*hir.Definition]thir.Term
	elaborated  map[*hir.Definition]*elaboration
	definitions []*hir.Definition
}

func newMemo() *memo {
	return &memo{
		parsed:     make(map[string]parser.File),
		globals:    make(map[string]*lower.Globals),
		lowered:    make(map[string]hir.File),
		types:      make(map[*hir.Definition]thir.Term),
		elaborated: make(map[*hir.Definition]*elaboration),
	}
}

// elaboration is a finished declaration with the diagnostics it produced.
// The diagnostics are reported once, by ElaborateAll.
type elaboration struct {
	result   elab.Elaborated
	diags    []diagnostic.Diagnostic
	reported sync.Once
}

// New opens a database over the sources of pkg in fsys.
func New(pkg Package, fsys fs.FS, opts Options) *Database {
	cfg := opts.Config
	if cfg.Parallelism < 1 {
		cfg.Parallelism = config.Default().Parallelism
	}
	db := &Database{
		id:    uuid.New(),
		pkg:   pkg,
		fsys:  fsx.NewOverlay(fsys),
		cfg:   cfg,
		sink:  opts.Sink,
		log:   opts.Logger,
		prims: opts.Primitives,
		memo:  newMemo(),
	}
	if db.sink == nil {
		db.sink = diagnostic.Discard
	}
	if db.log == nil {
		db.log = slog.Default()
	}
	if db.prims == nil {
		db.prims = primitives.Default()
	}
	db.prims.Initialize()
	db.log = db.log.With("session", db.id.String(), "package", pkg.String())
	return db
}

func (db *Database) ID() uuid.UUID {
	return db.id
}

func (db *Database) Package() Package {
	return db.pkg
}

func (db *Database) Revision() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.revision
}

func (db *Database) current() *memo {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.memo
}

// SetSource replaces the contents of the file name and starts a new
// revision.
func (db *Database) SetSource(name, text string) error {
	if err := db.fsys.Write(name, []byte(text)); err != nil {
		return errors.Wrap(err, "set source")
	}
	db.mu.Lock()
	db.revision++
	db.memo = newMemo()
	rev := db.revision
	db.mu.Unlock()
	db.log.Debug("source changed", "file", name, "revision", rev)
	return nil
}

// do runs f once per key and revision, however many callers ask at once.
func do[T any](m *memo, key string, f func() (T, error)) (T, error) {
	v, err, _ := m.flight.Do(key, func() (any, error) {
		return f()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Files lists the source files of the package.
func (db *Database) Files() ([]string, error) {
	m := db.current()
	return do(m, "files", func() ([]string, error) {
		m.mu.Lock()
		files := m.files
		m.mu.Unlock()
		if files != nil {
			return files, nil
		}
		files, err := parser.SourceFiles(db.fsys, db.pkg.Root)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", db.pkg)
		}
		m.mu.Lock()
		m.files = files
		m.mu.Unlock()
		return files, nil
	})
}

func (db *Database) Parse(name string) (parser.File, error) {
	m := db.current()
	return do(m, "parse:"+name, func() (parser.File, error) {
		m.mu.Lock()
		f, ok := m.parsed[name]
		m.mu.Unlock()
		if ok {
			return f, nil
		}
		f, err := parser.ParseFile(db.fsys, name)
		if err != nil {
			return parser.File{}, errors.Wrapf(err, "parse %s", name)
		}
		m.mu.Lock()
		m.parsed[name] = f
		m.mu.Unlock()
		return f, nil
	})
}

// Declarations returns the top-level definitions of the file name.
func (db *Database) Declarations(name string) (*lower.Globals, error) {
	m := db.current()
	return do(m, "declarations:"+name, func() (*lower.Globals, error) {
		m.mu.Lock()
		g, ok := m.globals[name]
		m.mu.Unlock()
		if ok {
			return g, nil
		}
		f, err := db.Parse(name)
		if err != nil {
			return nil, err
		}
		g = lower.Collect(f)
		m.mu.Lock()
		m.globals[name] = g
		m.mu.Unlock()
		return g, nil
	})
}

// Lower lowers the file name. Its diagnostics are reported once per
// revision.
func (db *Database) Lower(name string) (hir.File, error) {
	m := db.current()
	return do(m, "lower:"+name, func() (hir.File, error) {
		m.mu.Lock()
		f, ok := m.lowered[name]
		m.mu.Unlock()
		if ok {
			return f, nil
		}
		parsed, err := db.Parse(name)
		if err != nil {
			return hir.File{}, err
		}
		globals, err := db.Declarations(name)
		if err != nil {
			return hir.File{}, err
		}
		f = lower.File(parsed, globals, db, db.prims, db.sink)
		db.log.Debug("lowered", "file", name, "declarations", len(f.Declarations))
		m.mu.Lock()
		m.lowered[name] = f
		m.mu.Unlock()
		return f, nil
	})
}

func (db *Database) find(path hir.Path, kind hir.DefinitionKind) (*hir.Definition, bool) {
	files, err := db.Files()
	if err != nil {
		return nil, false
	}
	for _, name := range files {
		g, err := db.Declarations(name)
		if err != nil {
			continue
		}
		if def, ok := names.Find(g, path, kind); ok {
			return def, true
		}
	}
	return nil, false
}

func (db *Database) FindFunction(path hir.Path) (*hir.Definition, bool) {
	return db.find(path, hir.FunctionKind)
}

func (db *Database) FindType(path hir.Path) (*hir.Definition, bool) {
	return db.find(path, hir.TypeKind)
}

func (db *Database) FindConstructor(path hir.Path) (*hir.Definition, bool) {
	return db.find(path, hir.ConstructorKind)
}

func (db *Database) FindTrait(path hir.Path) (*hir.Definition, bool) {
	return db.find(path, hir.TraitKind)
}

// LowerAll lowers every file of the package, in file order.
func (db *Database) LowerAll() ([]hir.File, error) {
	files, err := db.Files()
	if err != nil {
		return nil, err
	}
	out := make([]hir.File, len(files))
	for i, name := range files {
		if out[i], err = db.Lower(name); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Definitions lists every definition declared in the package, including
// constructors, in source order.
func (db *Database) Definitions() ([]*hir.Definition, error) {
	m := db.current()
	return do(m, "definitions", func() ([]*hir.Definition, error) {
		m.mu.Lock()
		defs := m.definitions
		m.mu.Unlock()
		if defs != nil {
			return defs, nil
		}
		files, err := db.LowerAll()
		if err != nil {
			return nil, err
		}
		seen := set.New[*hir.Definition](0)
		defs = []*hir.Definition{}
		add := func(def *hir.Definition) {
			if seen.Insert(def) {
				defs = append(defs, def)
			}
		}
		for _, f := range files {
			for _, d := range f.Declarations {
				add(d.Definition())
				if ind, ok := d.(hir.Inductive); ok {
					for _, c := range ind.Constructors {
						add(c.Def)
					}
				}
			}
		}
		m.mu.Lock()
		m.definitions = defs
		m.mu.Unlock()
		return defs, nil
	})
}

// declaration finds the declaration that defines def, and the type of its
// standalone signature if it has one. A binding is preferred over its
// signature.
func (db *Database) declaration(def *hir.Definition) (hir.Declaration, hir.TypeRep, error) {
	files, err := db.LowerAll()
	if err != nil {
		return nil, hir.TypeRep{}, err
	}
	var (
		found hir.Declaration
		sig   hir.TypeRep
	)
	for _, f := range files {
		for _, d := range f.Declarations {
			switch d := d.(type) {
			case hir.Signature:
				if d.Def == def {
					sig = d.Type
					if found == nil {
						found = d
					}
				}
			case hir.Inductive:
				if d.Def == def {
					found = d
				}
				for _, c := range d.Constructors {
					if c.Def == def {
						found = c
					}
				}
			default:
				if d.Definition() == def {
					found = d
				}
			}
		}
	}
	if found == nil {
		return nil, hir.TypeRep{}, errors.Errorf("no declaration for %s", def)
	}
	if _, ok := found.(hir.Signature); ok {
		sig = hir.TypeRep{}
	}
	return found, sig, nil
}

// stack is the chain of definitions whose types are being computed by one
// elaboration. It implements elab.Database.
type stack struct {
	db   *Database
	defs *set.Set[*hir.Definition]
}

func (s stack) push(def *hir.Definition) stack {
	defs := s.defs.Copy()
	defs.Insert(def)
	return stack{db: s.db, defs: defs}
}

func (s stack) ReferenceType(def *hir.Definition) (thir.Term, error) {
	return s.db.referenceType(def, s)
}

func (db *Database) root() stack {
	return stack{db: db, defs: set.New[*hir.Definition](0)}
}

// ReferenceType returns the type of def as a closed term.
func (db *Database) ReferenceType(def *hir.Definition) (thir.Term, error) {
	return db.referenceType(def, db.root())
}

func (db *Database) elaborator(s stack, sink diagnostic.Sink, def *hir.Definition) *elab.Elaborator {
	return elab.New(s, elab.Options{
		Sink:   sink,
		Logger: db.log.With("def", def.String()),
		Trace:  db.cfg.Trace,
	})
}

func (db *Database) referenceType(def *hir.Definition, s stack) (thir.Term, error) {
	if _, ok := db.prims.TypeRepOf(def); ok {
		return thir.Universe{}, nil
	}
	m := db.current()
	m.mu.Lock()
	t, ok := m.types[def]
	m.mu.Unlock()
	if ok {
		return t, nil
	}
	if s.defs.Contains(def) {
		return nil, errors.Wrapf(elab.ErrCycle, "%s", def)
	}
	decl, sig, err := db.declaration(def)
	if err != nil {
		return nil, err
	}
	s = s.push(def)
	e := db.elaborator(s, diagnostic.Discard, def)
	switch d := decl.(type) {
	case hir.Binding:
		switch {
		case !sig.IsZero():
			t, err = e.TypeOf(sig)
		case !d.Type.IsZero():
			t, err = e.TypeOf(d.Type)
		default:
			var el *elaboration
			if el, err = db.elaborate(def, s); err == nil {
				t = el.result.Type
			}
		}
	case hir.Signature:
		t, err = e.TypeOf(d.Type)
	case hir.Inductive:
		t, err = e.TypeOf(d.Type)
	case hir.Constructor:
		t, err = e.TypeOf(d.Type)
	case hir.Trait:
		t, err = e.TypeOf(d.Type)
	}
	if err != nil {
		if errors.Is(err, elab.ErrCycle) {
			return nil, err
		}
		return nil, errors.Errorf("the type of %s is ill-formed", def.Path)
	}
	m.mu.Lock()
	if prev, ok := m.types[def]; ok {
		t = prev
	} else {
		m.types[def] = t
	}
	m.mu.Unlock()
	return t, nil
}

// Elaborate elaborates the declaration of def.
func (db *Database) Elaborate(def *hir.Definition) (elab.Elaborated, error) {
	el, err := db.elaborate(def, db.root())
	if err != nil {
		return elab.Elaborated{}, err
	}
	return el.result, nil
}

func (db *Database) elaborate(def *hir.Definition, s stack) (*elaboration, error) {
	m := db.current()
	m.mu.Lock()
	el, ok := m.elaborated[def]
	m.mu.Unlock()
	if ok {
		return el, nil
	}
	decl, sig, err := db.declaration(def)
	if err != nil {
		return nil, err
	}
	var sink diagnostic.Collector
	result := db.elaborator(s.push(def), &sink, def).Declaration(decl, sig)
	el = &elaboration{result: result, diags: sink.Diagnostics()}
	m.mu.Lock()
	if prev, ok := m.elaborated[def]; ok {
		el = prev
	} else {
		m.elaborated[def] = el
	}
	m.mu.Unlock()
	db.log.Debug("elaborated", "def", def.String(), "diagnostics", len(el.diags))
	return el, nil
}

// ElaborateAll elaborates every definition of the package, at most
// Config.Parallelism at a time, and reports their diagnostics in source
// order.
func (db *Database) ElaborateAll(ctx context.Context) ([]elab.Elaborated, error) {
	defs, err := db.Definitions()
	if err != nil {
		return nil, err
	}
	els := make([]*elaboration, len(defs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(db.cfg.Parallelism)
	for i, def := range defs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			el, err := db.elaborate(def, db.root())
			els[i] = el
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, el := range els {
		el.reported.Do(func() {
			for _, d := range el.diags {
				db.sink.Report(d)
			}
		})
	}
	return lo.Map(els, func(el *elaboration, _ int) elab.Elaborated {
		return el.result
	}), nil
}
