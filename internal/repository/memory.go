package repository

import "sync"

// MemoryStore is a concurrency-safe in-process map keyed by id.
type MemoryStore[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{
		items: make(map[string]V),
	}
}

// Insert stores value under id unless the id is already taken.
func (that *MemoryStore[V]) Insert(id string, value V) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.items[id]; exists {
		return false
	}

	that.items[id] = value

	return true
}

func (that *MemoryStore[V]) Get(id string) (V, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	value, ok := that.items[id]

	return value, ok
}

func (that *MemoryStore[V]) Delete(id string) (V, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	value, ok := that.items[id]
	if ok {
		delete(that.items, id)
	}

	return value, ok
}

// Values returns a point-in-time copy of the stored values.
func (that *MemoryStore[V]) Values() []V {
	that.mu.RLock()
	defer that.mu.RUnlock()

	values := make([]V, 0, len(that.items))
	for _, value := range that.items {
		values = append(values, value)
	}

	return values
}

func (that *MemoryStore[V]) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.items)
}
