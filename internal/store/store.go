// Package store provides persistence for todo items.
package store

import (
	"context"
	"errors"

	"github.com/avelichko/todoservice/internal/model"
)

// Store errors.
var (
	ErrNotFound  = errors.New("todo item not found")
	ErrInvalidID = errors.New("invalid todo item ID")
)

// Store defines the interface for todo item persistence. Implementations
// own the id allocator: ids are unique, assigned on insert, and never
// reused after a delete. Replace and Delete perform their existence check
// inside the store's own atomicity boundary, so a lookup-then-write
// sequence cannot silently resurrect a concurrently deleted record.
type Store interface {
	// Insert persists a new item and returns it with the assigned id.
	Insert(ctx context.Context, item model.TodoItem) (*model.TodoItem, error)

	// Get retrieves an item by its id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id int64) (*model.TodoItem, error)

	// List returns all items in ascending id order.
	List(ctx context.Context) ([]model.TodoItem, error)

	// Replace overwrites every field of the item stored under id,
	// preserving the id. Returns ErrNotFound if no such item exists.
	Replace(ctx context.Context, id int64, item model.TodoItem) (*model.TodoItem, error)

	// Delete removes the item stored under id. Returns ErrNotFound if
	// no such item exists.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether an item with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)
}
