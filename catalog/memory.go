package catalog

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository used in tests and local runs
// without a database. Ids are assigned sequentially and never reused.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]Item
	order  []int64

	// FailNext forces the next mutating call to return this error.
	FailNext error
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, items: make(map[int64]Item)}
}

func (r *MemoryRepository) takeFailure() error {
	err := r.FailNext
	r.FailNext = nil
	return err
}

// Insert stores a new item and returns its assigned id.
func (r *MemoryRepository) Insert(ctx context.Context, name, description string, price int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return 0, err
	}
	id := r.nextID
	r.nextID++
	r.items[id] = Item{ID: id, Name: name, Description: description, Price: price}
	r.order = append(r.order, id)
	return id, nil
}

// ListAll returns items in insertion order.
func (r *MemoryRepository) ListAll(ctx context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, 0, len(r.order))
	for _, id := range r.order {
		if it, ok := r.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

// DeleteByID removes an item and reports whether it existed.
func (r *MemoryRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return false, err
	}
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}
