package thir

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
)

var (
	ErrMetaAlreadySolved = errors.New("meta already solved")
	ErrForeignMeta       = errors.New("meta belongs to another elaboration")
)

var lastArena atomic.Uint64

// MetaID names a meta within the arena that created it.
type MetaID struct {
	arena uint64
	index int
}

// Index is the position of the meta in its arena, starting at 0.
func (id MetaID) Index() int {
	return id.index
}

// String prints ?A for the first meta of an arena, ?B for the second, and
// so on, with a numeric suffix once the alphabet runs out.
func (id MetaID) String() string {
	letter := string(rune('A' + id.index%26))
	if round := id.index / 26; round > 0 {
		return fmt.Sprintf("?%s%d", letter, round)
	}
	return "?" + letter
}

type metaEntry struct {
	level    Level
	solution Value
}

// Metas is an arena of metavariables. Each meta is created unsolved and is
// solved at most once. An arena belongs to a single elaboration and is not
// safe for concurrent use.
type Metas struct {
	id      uint64
	entries []metaEntry
}

func NewMetas() *Metas {
	return &Metas{id: lastArena.Add(1)}
}

// Fresh creates an unsolved meta. lvl is the size of the context it was
// created in; its solution may only mention variables below lvl.
func (m *Metas) Fresh(lvl Level) MetaID {
	m.entries = append(m.entries, metaEntry{level: lvl})
	return MetaID{arena: m.id, index: len(m.entries) - 1}
}

func (m *Metas) owns(id MetaID) bool {
	return m != nil && id.arena == m.id && id.index < len(m.entries)
}

// Lookup returns the solution of id. Metas of other arenas are always
// unsolved.
func (m *Metas) Lookup(id MetaID) (Value, bool) {
	if !m.owns(id) {
		return nil, false
	}
	e := m.entries[id.index]
	return e.solution, e.solution != nil
}

// Level returns the size of the context id was created in.
func (m *Metas) Level(id MetaID) (Level, bool) {
	if !m.owns(id) {
		return 0, false
	}
	return m.entries[id.index].level, true
}

func (m *Metas) Solve(id MetaID, v Value) error {
	if !m.owns(id) {
		return errors.Wrap(ErrForeignMeta, id.String())
	}
	e := &m.entries[id.index]
	if e.solution != nil {
		return errors.Wrap(ErrMetaAlreadySolved, id.String())
	}
	e.solution = v
	return nil
}

func (m *Metas) Len() int {
	return len(m.entries)
}

// Unsolved returns the metas that have no solution yet, in creation order.
func (m *Metas) Unsolved() []MetaID {
	var out []MetaID
	for i, e := range m.entries {
		if e.solution == nil {
			out = append(out, MetaID{arena: m.id, index: i})
		}
	}
	return out
}
