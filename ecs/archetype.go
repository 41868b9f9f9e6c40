package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Archetype holds every entity that carries exactly the same set of component types.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	index   map[reflect.Type]int
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		index:   make(map[reflect.Type]int, len(types)),
	}
	for i, t := range types {
		a.columns[i] = registry.newColumn(t)
		a.index[t] = i
	}
	return a
}

// ID returns the archetype's identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types of the archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].len()
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(t reflect.Type) bool {
	_, ok := a.index[t]
	return ok
}

// Iter returns an iterator over all live entity IDs in this archetype
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for slot := range a.slots() {
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}

func (a *Archetype) slots() iter.Seq[int] {
	if len(a.columns) == 0 {
		return func(func(int) bool) {}
	}
	return a.columns[0].occupied()
}

// spawn writes the components into every column; all columns share the slot
// because inserts and removals always touch every column together.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		col := a.columns[a.index[componentType(comp)]]
		s := col.insert(comp)
		if slot != -1 && s != slot {
			panic("ecs: archetype columns out of sync")
		}
		slot = s
	}
	return uint32(slot)
}

func (a *Archetype) remove(slot uint32) bool {
	if a.componentAt(slot, 0) == nil {
		return false
	}
	for _, col := range a.columns {
		col.remove(int(slot))
	}
	return true
}

func (a *Archetype) componentAt(slot uint32, column int) unsafe.Pointer {
	if column < 0 || column >= len(a.columns) {
		return nil
	}
	return a.columns[column].pointer(int(slot))
}

func (a *Archetype) component(slot uint32, t reflect.Type) unsafe.Pointer {
	i, ok := a.index[t]
	if !ok {
		return nil
	}
	return a.columns[i].pointer(int(slot))
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t == nil {
		panic("ecs: nil component")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// sortedTypes extracts the component types and sorts them by their qualified name
func sortedTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		if slices.Contains(types, t) {
			panic("ecs: duplicate component " + t.String())
		}
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(typeKey(a), typeKey(b))
	})
	return types
}

func typeKey(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// archetypeID hashes the sorted type keys; zero is reserved so that
// EntityId(0) never refers to a live entity.
func archetypeID(types []reflect.Type) uint32 {
	h := xxhash.New()
	for _, t := range types {
		_, _ = h.WriteString(typeKey(t))
		_, _ = h.Write([]byte{0})
	}
	sum := h.Sum64()
	id := uint32(sum) ^ uint32(sum>>32)
	if id == 0 {
		id = 1
	}
	return id
}
