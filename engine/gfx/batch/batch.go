package batch

import (
	"fmt"

	"github.com/hubastard/grove2d/engine/gfx"
)

// DefaultSize is the slot count used when no batch size is configured.
const DefaultSize = 1000

// Batch is a fixed number of item slots filled in order. Clear only resets
// the used count; slots are overwritten by later Adds.
type Batch[T Item] struct {
	slots []T
	used  int
}

func New[T Item](capacity int) *Batch[T] {
	if capacity <= 0 {
		capacity = DefaultSize
	}
	return &Batch[T]{slots: make([]T, capacity)}
}

// Add stores item in the next free slot and reports whether the batch is now
// full. Adding to a full batch panics; flush first.
func (b *Batch[T]) Add(item T) (full bool) {
	if b.used == len(b.slots) {
		panic(fmt.Sprintf("batch: Add on full batch of %d items", len(b.slots)))
	}
	b.slots[b.used] = item
	b.used++
	return b.used == len(b.slots)
}

func (b *Batch[T]) Clear() { b.used = 0 }

func (b *Batch[T]) Len() int      { return b.used }
func (b *Batch[T]) Cap() int      { return len(b.slots) }
func (b *Batch[T]) IsFull() bool  { return b.used == len(b.slots) }
func (b *Batch[T]) IsEmpty() bool { return b.used == 0 }

// Last returns the most recently added item.
func (b *Batch[T]) Last() (T, bool) {
	if b.used == 0 {
		var zero T
		return zero, false
	}
	return b.slots[b.used-1], true
}

// Items returns the occupied slots in insertion order. The slice aliases the
// batch and is only valid until the next Add or Clear.
func (b *Batch[T]) Items() []T { return b.slots[:b.used] }

// ItemsByTexture returns the occupied slots using id, in insertion order.
func (b *Batch[T]) ItemsByTexture(id gfx.TextureID) []T {
	var out []T
	for _, it := range b.slots[:b.used] {
		if it.TextureID() == id {
			out = append(out, it)
		}
	}
	return out
}

// Textures lists the distinct textures of the occupied slots in order of
// first appearance.
func (b *Batch[T]) Textures() []gfx.TextureID {
	var out []gfx.TextureID
	for _, it := range b.slots[:b.used] {
		id := it.TextureID()
		seen := false
		for _, o := range out {
			if o == id {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, id)
		}
	}
	return out
}

// Resize changes the slot count and drops anything queued.
func (b *Batch[T]) Resize(capacity int) {
	if capacity <= 0 {
		panic(fmt.Sprintf("batch: invalid capacity %d", capacity))
	}
	if capacity != len(b.slots) {
		b.slots = make([]T, capacity)
	}
	b.used = 0
}
