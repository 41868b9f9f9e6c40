package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View represents a lookup of entities with a specific combination of components.
// T must be a struct whose fields are pointers to component types. A field of
// type EntityId receives the ID of the entity being visited.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
type View[T any] struct {
	storage *Storage
	fields  []viewField
}

type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
	entityId bool
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	return &View[T]{
		storage: storage,
		fields:  parseViewFields(reflect.TypeFor[T]()),
	}
}

func parseViewFields(st reflect.Type) []viewField {
	if st.Kind() != reflect.Struct {
		panic("ecs: view type must be a struct, got " + st.String())
	}

	fields := make([]viewField, 0, st.NumField())
	for i := range st.NumField() {
		f := st.Field(i)
		if f.Type == entityIdType {
			fields = append(fields, viewField{offset: f.Offset, entityId: true})
			continue
		}
		if f.Type.Kind() != reflect.Pointer {
			panic("ecs: view field " + f.Name + " must be a component pointer or EntityId")
		}

		field := viewField{typ: f.Type.Elem(), offset: f.Offset}
		switch tag := f.Tag.Get("ecs"); tag {
		case "":
		case "optional":
			if f.Anonymous {
				panic("ecs: embedded view field " + f.Name + " cannot be optional")
			}
			field.optional = true
		default:
			panic("ecs: invalid ecs tag value \"" + tag + "\" (only \"optional\" is supported)")
		}
		fields = append(fields, field)
	}
	return fields
}

func (v *View[T]) matches(archetype *Archetype) bool {
	for _, f := range v.fields {
		if f.entityId || f.optional {
			continue
		}
		if !archetype.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

// fill writes the entity's component pointers into dst. It returns false if a
// required component is missing.
func (v *View[T]) fill(archetype *Archetype, slot uint32, dst unsafe.Pointer) bool {
	for _, f := range v.fields {
		fieldPtr := unsafe.Add(dst, f.offset)
		if f.entityId {
			*(*EntityId)(fieldPtr) = NewEntityId(archetype.id, slot)
			continue
		}

		comp := archetype.component(slot, f.typ)
		if comp == nil && !f.optional {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = comp
	}
	return true
}

// Fill populates the struct for the given entity. Optional components that
// are absent are left nil.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || archetype.componentAt(id.Index(), 0) == nil {
		return false
	}
	return v.fill(archetype, id.Index(), unsafe.Pointer(ptr))
}

// Get returns a populated view struct for the given entity, or nil if the
// entity doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

func (v *View[T]) iterArchetypes(archetypes []*Archetype) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, archetype := range archetypes {
			if !v.matches(archetype) {
				continue
			}

			var result T
			for slot := range archetype.slots() {
				if !v.fill(archetype, uint32(slot), unsafe.Pointer(&result)) {
					continue
				}
				if !yield(result) {
					return
				}
			}
		}
	}
}

// Iter returns an iterator over every entity that has all the required components.
// Archetypes are visited in creation order.
func (v *View[T]) Iter() iter.Seq[T] {
	return v.iterArchetypes(v.storage.order)
}

// Count returns the number of entities the view currently matches
func (v *View[T]) Count() int {
	n := 0
	for range v.Iter() {
		n++
	}
	return n
}

// Spawn creates a new entity from the non-nil component pointers in data.
func (v *View[T]) Spawn(data T) EntityId {
	base := unsafe.Pointer(&data)
	components := make([]any, 0, len(v.fields))
	for _, f := range v.fields {
		if f.entityId {
			continue
		}
		ptr := *(*unsafe.Pointer)(unsafe.Add(base, f.offset))
		if ptr == nil {
			if !f.optional {
				panic("ecs: required component " + f.typ.String() + " is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(f.typ, ptr).Elem().Interface())
	}
	return v.storage.Spawn(components...)
}
