package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/avelichko/todoservice/internal/model"
)

// MemoryStore implements Store with in-memory storage. A monotonically
// increasing counter allocates ids under the same lock as the insert, so
// ids are unique and never reused even after deletes.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[int64]model.TodoItem
	nextID int64
}

// NewMemoryStore creates a new MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[int64]model.TodoItem),
	}
}

// Insert persists a new item and returns it with the assigned id.
func (s *MemoryStore) Insert(ctx context.Context, item model.TodoItem) (*model.TodoItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("insert todo item: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	item.ID = s.nextID
	s.items[item.ID] = item

	return &item, nil
}

// Get retrieves an item by its id.
func (s *MemoryStore) Get(ctx context.Context, id int64) (*model.TodoItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get todo item: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return nil, ErrNotFound
	}

	return &item, nil
}

// List returns all items in ascending id order.
func (s *MemoryStore) List(ctx context.Context) ([]model.TodoItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list todo items: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.TodoItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

// Replace overwrites the item stored under id, preserving the id.
func (s *MemoryStore) Replace(ctx context.Context, id int64, item model.TodoItem) (*model.TodoItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("replace todo item: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return nil, ErrNotFound
	}

	item.ID = id
	s.items[id] = item

	return &item, nil
}

// Delete removes the item stored under id.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delete todo item: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ErrNotFound
	}

	delete(s.items, id)

	return nil
}

// Exists reports whether an item with the given id exists.
func (s *MemoryStore) Exists(ctx context.Context, id int64) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("todo item exists: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.items[id]
	return exists, nil
}
