// Package service implements the todo item management core: validation,
// lookup-or-fail, filtering, sorting, and conversion between the persisted
// and external item representations.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/avelichko/todoservice/internal/events"
	"github.com/avelichko/todoservice/internal/model"
	"github.com/avelichko/todoservice/internal/store"
)

// Service errors. Validation failures wrap ErrInvalidItem together with
// the specific model sentinel, so callers can match either. Not-found
// conditions surface as store.ErrNotFound.
var (
	ErrInvalidItem    = errors.New("invalid todo item")
	ErrInvalidSortKey = errors.New("unsupported sort key")
)

// Sort keys accepted by GetAll, compared case-insensitively.
const (
	SortByDueDate  = "duedate"
	SortByPriority = "priority"
	SortByTitle    = "title"
)

// ItemService implements the item management operations on top of a Store.
type ItemService struct {
	store  store.Store
	bus    *events.Bus
	logger *zap.Logger
	tracer trace.Tracer
}

// New creates a new ItemService. The event bus is optional; pass nil to
// disable change notifications.
func New(s store.Store, bus *events.Bus, logger *zap.Logger) *ItemService {
	return &ItemService{
		store:  s,
		bus:    bus,
		logger: logger,
		tracer: otel.Tracer("todo-service"),
	}
}

// Create validates the candidate item, persists it, and returns the stored
// item with its assigned id.
func (s *ItemService) Create(ctx context.Context, input Item) (*Item, error) {
	ctx, span := s.tracer.Start(ctx, "service.Create")
	defer span.End()

	if err := validateCreate(input); err != nil {
		return nil, err
	}

	stored, err := s.store.Insert(ctx, toRecord(input))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	item := toItem(*stored)
	span.SetAttributes(attribute.Int64("item.id", item.ID))
	s.logger.Info("todo item created",
		zap.Int64("item_id", item.ID),
		zap.String("priority", string(item.Priority)),
	)
	s.publish(events.ItemCreated, item)

	return &item, nil
}

// Get returns the item with the given id, or store.ErrNotFound.
func (s *ItemService) Get(ctx context.Context, id int64) (*Item, error) {
	ctx, span := s.tracer.Start(ctx, "service.Get")
	defer span.End()

	span.SetAttributes(attribute.Int64("item.id", id))

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item := toItem(*record)
	return &item, nil
}

// GetAll returns every item surviving the query's filters, ordered by the
// selected sort key. Ties preserve the store's ascending-id order. An
// empty result is a valid, non-error outcome.
func (s *ItemService) GetAll(ctx context.Context, q ListQuery) ([]Item, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetAll")
	defer span.End()

	less, err := comparatorFor(q.SortBy)
	if err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	kept := make([]model.TodoItem, 0, len(records))
	for _, record := range records {
		if q.Priority != "" && !record.Priority.Matches(q.Priority) {
			continue
		}
		if q.DueDate != nil && !record.DueDate.Equal(*q.DueDate) {
			continue
		}
		kept = append(kept, record)
	}

	sort.SliceStable(kept, func(i, j int) bool { return less(kept[i], kept[j]) })

	items := make([]Item, len(kept))
	for i, record := range kept {
		items[i] = toItem(record)
	}

	span.SetAttributes(attribute.Int("item.count", len(items)))
	return items, nil
}

// Update validates the input, overwrites every mutable field of the item
// with the given id, and returns the updated item. There is no partial
// update: fields absent from the input are cleared.
func (s *ItemService) Update(ctx context.Context, id int64, input Item) (*Item, error) {
	ctx, span := s.tracer.Start(ctx, "service.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("item.id", id))

	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	// Establishes existence; a missing id fails here as not-found.
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}

	replaced, err := s.store.Replace(ctx, id, toRecord(input))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	item := toItem(*replaced)
	s.logger.Info("todo item updated", zap.Int64("item_id", id))
	s.publish(events.ItemUpdated, item)

	return &item, nil
}

// Delete removes the item with the given id, or fails with
// store.ErrNotFound.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "service.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("item.id", id))

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.Info("todo item deleted", zap.Int64("item_id", id))
	s.publish(events.ItemDeleted, toItem(*record))

	return nil
}

// validateCreate applies the creation rules: the title must not be blank,
// and a due date, when set, must not fall before today. A due date of
// today is allowed.
func validateCreate(input Item) error {
	if err := validateUpdate(input); err != nil {
		return err
	}
	if !input.DueDate.IsZero() && input.DueDate.Before(model.Today()) {
		return fmt.Errorf("%w: %w", ErrInvalidItem, model.ErrDueDateInPast)
	}
	return nil
}

// validateUpdate applies the rules shared by create and update. The
// past-due-date rule is deliberately absent: a due date validated at
// creation is not re-checked when the item is updated later.
func validateUpdate(input Item) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, model.ErrEmptyTitle)
	}
	if input.Priority != "" {
		if _, err := model.ParsePriority(string(input.Priority)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidItem, err)
		}
	}
	return nil
}

// comparatorFor selects the ordering for the given sort key. The empty
// key defaults to the due date order.
func comparatorFor(sortBy string) (func(a, b model.TodoItem) bool, error) {
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "", SortByDueDate:
		return func(a, b model.TodoItem) bool { return a.DueDate.Before(b.DueDate) }, nil
	case SortByPriority:
		return func(a, b model.TodoItem) bool { return a.Priority.Rank() < b.Priority.Rank() }, nil
	case SortByTitle:
		return func(a, b model.TodoItem) bool { return a.Title < b.Title }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, sortBy)
	}
}

// publish emits an item change event when a bus is configured.
func (s *ItemService) publish(eventType events.EventType, item Item) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.ItemEvent{
		Type:   eventType,
		ItemID: item.ID,
		Item:   item,
	})
}
