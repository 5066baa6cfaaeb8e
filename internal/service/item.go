package service

import (
	"github.com/avelichko/todoservice/internal/model"
)

// Item is the external representation of a todo item as served to
// clients. It mirrors the persisted shape field by field; conversion in
// either direction carries no business logic.
type Item struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	DueDate     model.Date     `json:"due_date"`
	Priority    model.Priority `json:"priority"`
	Completed   bool           `json:"completed"`
}

// ListQuery carries the optional filter and sort parameters for GetAll.
type ListQuery struct {
	// Priority keeps only items whose priority matches case-insensitively.
	// Empty means no priority filter.
	Priority string

	// DueDate keeps only items due on the same calendar day. Nil means no
	// due date filter.
	DueDate *model.Date

	// SortBy selects the ordering: "duedate" (default), "priority", or
	// "title". Any other value fails with ErrInvalidSortKey.
	SortBy string
}

// toRecord converts the external representation to the persisted shape.
// The id is not carried over; stores assign it on insert and preserve it
// on replace.
func toRecord(item Item) model.TodoItem {
	return model.TodoItem{
		Title:       item.Title,
		Description: item.Description,
		DueDate:     item.DueDate,
		Priority:    item.Priority,
		Completed:   item.Completed,
	}
}

// toItem converts a persisted record to the external representation.
func toItem(record model.TodoItem) Item {
	return Item{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		DueDate:     record.DueDate,
		Priority:    record.Priority,
		Completed:   record.Completed,
	}
}
