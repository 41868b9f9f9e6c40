package ecs

import (
	"reflect"
	"slices"
	"unsafe"
)

// Storage is the ECS world: archetypes of entities plus singleton components.
type Storage struct {
	registry       *ComponentRegistry
	archetypes     map[uint32]*Archetype
	order          []*Archetype
	singletons     map[reflect.Type]*singletonEntry
	singletonOrder []reflect.Type
}

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: make(map[uint32]*Archetype),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry backing this storage
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates a new entity with the provided components.
// Components may be passed by value or by pointer; the value is copied.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}

	types := sortedTypes(components)
	archetype := s.archetypeFor(types)
	return NewEntityId(archetype.id, archetype.spawn(components))
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := archetypeID(types)
	if archetype, ok := s.archetypes[id]; ok {
		if !slices.Equal(archetype.types, types) {
			panic("ecs: archetype hash collision")
		}
		return archetype
	}

	archetype := newArchetype(id, types, s.registry)
	s.archetypes[id] = archetype
	s.order = append(s.order, archetype)
	return archetype
}

// Delete removes all data related to the entity ID. It reports whether the entity existed.
func (s *Storage) Delete(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	return archetype.remove(id.Index())
}

// Alive reports whether the entity ID refers to a live entity
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	return archetype.componentAt(id.Index(), 0) != nil
}

// GetComponent returns a pointer to the component for the given entity ID and
// component type, or nil when the entity does not carry it.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	ptr := archetype.component(id.Index(), compType)
	if ptr == nil {
		return nil
	}
	return reflect.NewAt(compType, ptr).Interface()
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	return archetype.component(id.Index(), compType) != nil
}

// Archetype returns the archetype with the given id, or nil.
func (s *Storage) Archetype(id uint32) *Archetype {
	return s.archetypes[id]
}

// Archetypes returns the archetypes in creation order
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

// EntityCount returns the number of live entities across all archetypes
func (s *Storage) EntityCount() int {
	total := 0
	for _, archetype := range s.order {
		total += archetype.Len()
	}
	return total
}

// AddSingleton stores value as the singleton of its type, replacing any previous value.
func (s *Storage) AddSingleton(value any) {
	t := componentType(value)
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(v)
		return
	}

	holder := reflect.New(t)
	holder.Elem().Set(v)
	s.singletons[t] = &singletonEntry{
		value:   holder,
		dataPtr: holder.UnsafePointer(),
	}
	s.singletonOrder = append(s.singletonOrder, t)
}

// RemoveSingleton drops the singleton of the given type. Existing Singleton
// accessors observe the removal on their next Get.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	if _, ok := s.singletons[t]; !ok {
		return
	}
	delete(s.singletons, t)
	s.singletonOrder = slices.DeleteFunc(s.singletonOrder, func(other reflect.Type) bool {
		return other == t
	})
}

// ReadSingleton points target (a **T) at the stored singleton of type T.
// It returns false and leaves target untouched if no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Pointer {
		panic("ecs: ReadSingleton expects a pointer to a pointer")
	}

	t := rv.Elem().Type().Elem()
	entry := s.getSingletonEntry(t)
	if entry == nil {
		return false
	}
	rv.Elem().Set(entry.value)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ComponentReader is implemented by Storage and anything else that can look up components by entity.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to the entity's component or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
