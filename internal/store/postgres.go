package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avelichko/todoservice/internal/model"
)

const queryTimeout = 5 * time.Second

// PostgresStore implements Store backed by a PostgreSQL table. Id
// allocation is delegated to the table's BIGSERIAL column, which never
// reuses values after a delete.
type PostgresStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("postgres-store"),
	}
}

// Insert persists a new item and returns it with the assigned id.
func (s *PostgresStore) Insert(ctx context.Context, item model.TodoItem) (*model.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "store.Insert")
	defer span.End()

	query := `
		INSERT INTO todo_items (title, description, due_date, priority, completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		item.Title,
		item.Description,
		item.DueDate,
		item.Priority,
		item.Completed,
	).Scan(&item.ID)

	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert todo item: %w", err)
	}

	span.SetAttributes(attribute.Int64("item.id", item.ID))
	return &item, nil
}

// Get retrieves an item by its id.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*model.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "store.Get")
	defer span.End()

	span.SetAttributes(attribute.Int64("item.id", id))

	query := `
		SELECT id, title, description, due_date, priority, completed
		FROM todo_items
		WHERE id = $1
	`

	item := &model.TodoItem{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.DueDate,
		&item.Priority,
		&item.Completed,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("get todo item: %w", err)
	}

	return item, nil
}

// List returns all items in ascending id order.
func (s *PostgresStore) List(ctx context.Context) ([]model.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "store.List")
	defer span.End()

	query := `
		SELECT id, title, description, due_date, priority, completed
		FROM todo_items
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list todo items: %w", err)
	}
	defer rows.Close()

	items := make([]model.TodoItem, 0)
	for rows.Next() {
		var item model.TodoItem
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.DueDate,
			&item.Priority,
			&item.Completed,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan todo item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterate todo items: %w", err)
	}

	span.SetAttributes(attribute.Int("item.count", len(items)))
	return items, nil
}

// Replace overwrites the item stored under id, preserving the id.
func (s *PostgresStore) Replace(ctx context.Context, id int64, item model.TodoItem) (*model.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "store.Replace")
	defer span.End()

	span.SetAttributes(attribute.Int64("item.id", id))

	query := `
		UPDATE todo_items
		SET title = $1, description = $2, due_date = $3, priority = $4, completed = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		item.Title,
		item.Description,
		item.DueDate,
		item.Priority,
		item.Completed,
		id,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("replace todo item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("replace todo item rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	item.ID = id
	return &item, nil
}

// Delete removes the item stored under id.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "store.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("item.id", id))

	result, err := s.db.ExecContext(ctx, `DELETE FROM todo_items WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete todo item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete todo item rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Exists reports whether an item with the given id exists.
func (s *PostgresStore) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "store.Exists")
	defer span.End()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM todo_items WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("todo item exists: %w", err)
	}

	return exists, nil
}
