package ecs

import (
	"testing"
)

func TestStorageStats(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)
	RegisterComponent[float64](registry)

	storage := NewStorage(registry)

	stats := storage.CollectStats()
	if stats.ArchetypeCount != 0 {
		t.Errorf("expected 0 archetypes, got %d", stats.ArchetypeCount)
	}
	if stats.TotalEntityCount != 0 {
		t.Errorf("expected 0 entities, got %d", stats.TotalEntityCount)
	}
	if stats.SingletonCount != 0 {
		t.Errorf("expected 0 singletons, got %d", stats.SingletonCount)
	}

	storage.Spawn(42, "hello")
	storage.Spawn(100, "world")
	storage.Spawn(200.0, "test")

	NewSingleton[float64](storage, 3.14)
	NewSingleton[string](storage, "singleton")

	stats = storage.CollectStats()

	if stats.ArchetypeCount != 2 {
		t.Errorf("expected 2 archetypes, got %d", stats.ArchetypeCount)
	}
	if stats.TotalEntityCount != 3 {
		t.Errorf("expected 3 entities, got %d", stats.TotalEntityCount)
	}
	if stats.SingletonCount != 2 {
		t.Errorf("expected 2 singletons, got %d", stats.SingletonCount)
	}
	if len(stats.SingletonTypes) != 2 || stats.SingletonTypes[0] != "float64" {
		t.Errorf("unexpected singleton types: %v", stats.SingletonTypes)
	}

	// Breakdown follows archetype creation order.
	if len(stats.ArchetypeBreakdown) != 2 {
		t.Fatalf("expected 2 archetype breakdown entries, got %d", len(stats.ArchetypeBreakdown))
	}
	if stats.ArchetypeBreakdown[0].EntityCount != 2 || stats.ArchetypeBreakdown[1].EntityCount != 1 {
		t.Errorf("archetype breakdown incorrect: %+v", stats.ArchetypeBreakdown)
	}
}

func TestArchetypeIdIsStable(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)

	a := NewStorage(registry)
	b := NewStorage(registry)

	idA := a.Spawn(1, "x")
	idB := b.Spawn("y", 2)
	if idA.ArchetypeId() != idB.ArchetypeId() {
		t.Errorf("archetype ids differ across storages: %x vs %x", idA.ArchetypeId(), idB.ArchetypeId())
	}
	if idA.ArchetypeId() == 0 {
		t.Error("archetype id must never be zero")
	}
}
