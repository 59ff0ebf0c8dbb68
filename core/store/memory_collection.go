package store

import (
	"context"
	"sync"
)

type memoryEntry[T any] struct {
	id   string
	item T
}

type memoryCollection[T any] struct {
	mu      sync.RWMutex
	entries []memoryEntry[T]
	clone   func(T) T
}

// NewMemoryCollection keeps records in process memory. clone is applied on
// every read and write so callers never share slices with the collection.
func NewMemoryCollection[T any](clone func(T) T) Collection[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &memoryCollection[T]{clone: clone}
}

func (c *memoryCollection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, c.clone(e.item))
	}
	return out, nil
}

func (c *memoryCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	item := c.clone(c.entries[idx].item)
	return &item, nil
}

func (c *memoryCollection[T]) Insert(ctx context.Context, id string, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(id) >= 0 {
		return ErrConflict
	}
	c.entries = append(c.entries, memoryEntry[T]{id: id, item: c.clone(item)})
	return nil
}

func (c *memoryCollection[T]) Replace(ctx context.Context, id string, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	c.entries[idx].item = c.clone(item)
	return nil
}

func (c *memoryCollection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	return nil
}

func (c *memoryCollection[T]) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

func (c *memoryCollection[T]) indexOf(id string) int {
	for i := range c.entries {
		if c.entries[i].id == id {
			return i
		}
	}
	return -1
}
