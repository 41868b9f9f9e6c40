package ecs

import (
	"iter"
	"unsafe"
)

// column is the type-erased storage of a single component type inside an archetype.
type column interface {
	insert(value any) int
	remove(slot int)
	pointer(slot int) unsafe.Pointer
	occupied() iter.Seq[int]
	len() int
}

const blockSize = 64

type block[T any] struct {
	items [blockSize]T
	used  [blockSize]bool
}

// blockColumn stores components in fixed-size blocks so pointers handed out
// by views stay valid while the column grows.
type blockColumn[T any] struct {
	blocks []*block[T]
	free   []int
	next   int
	count  int
}

func (c *blockColumn[T]) insert(value any) int {
	var item T
	switch v := value.(type) {
	case T:
		item = v
	case *T:
		item = *v
	default:
		panic("ecs: column value has the wrong type")
	}

	var slot int
	if n := len(c.free); n > 0 {
		slot = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		slot = c.next
		c.next++
		if slot/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, &block[T]{})
		}
	}

	b := c.blocks[slot/blockSize]
	b.items[slot%blockSize] = item
	b.used[slot%blockSize] = true
	c.count++
	return slot
}

func (c *blockColumn[T]) remove(slot int) {
	b := c.blockFor(slot)
	if b == nil || !b.used[slot%blockSize] {
		return
	}
	var zero T
	b.items[slot%blockSize] = zero
	b.used[slot%blockSize] = false
	c.free = append(c.free, slot)
	c.count--
}

func (c *blockColumn[T]) pointer(slot int) unsafe.Pointer {
	b := c.blockFor(slot)
	if b == nil || !b.used[slot%blockSize] {
		return nil
	}
	return unsafe.Pointer(&b.items[slot%blockSize])
}

func (c *blockColumn[T]) occupied() iter.Seq[int] {
	return func(yield func(int) bool) {
		for slot := 0; slot < c.next; slot++ {
			if !c.blocks[slot/blockSize].used[slot%blockSize] {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

func (c *blockColumn[T]) len() int {
	return c.count
}

func (c *blockColumn[T]) blockFor(slot int) *block[T] {
	if slot < 0 || slot >= c.next {
		return nil
	}
	return c.blocks[slot/blockSize]
}
