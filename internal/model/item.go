// Package model defines the todo item entity and its value types.
package model

import (
	"errors"
	"strings"
)

// Validation errors for TodoItem.
var (
	ErrEmptyTitle      = errors.New("title cannot be blank")
	ErrDueDateInPast   = errors.New("due date cannot be in the past")
	ErrInvalidPriority = errors.New("priority must be one of: LOW, MEDIUM, HIGH")
)

// Priority is the closed set of todo item priorities, stored as the
// upper-case short code.
type Priority string

// Priority values, ordered LOW < MEDIUM < HIGH.
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority parses a priority value case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return PriorityLow, nil
	case "MEDIUM":
		return PriorityMedium, nil
	case "HIGH":
		return PriorityHigh, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Rank returns the natural order of the priority for sorting.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// Matches reports whether the priority equals s, ignoring case.
func (p Priority) Matches(s string) bool {
	return strings.EqualFold(string(p), strings.TrimSpace(s))
}

// TodoItem is the persisted shape of a todo record. The id is assigned by
// the store on insert and immutable afterwards. The external representation
// served to clients lives in the service package.
type TodoItem struct {
	ID          int64
	Title       string
	Description string
	DueDate     Date
	Priority    Priority
	Completed   bool
}

// APIResponse is a generic wrapper for API responses.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccessResponse creates a successful API response.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error API response.
func NewErrorResponse[T any](errMsg string) APIResponse[T] {
	return APIResponse[T]{
		Success: false,
		Error:   errMsg,
	}
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
