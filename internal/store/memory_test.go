package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avelichko/todoservice/internal/model"
)

func newTestItem(title string) model.TodoItem {
	return model.TodoItem{
		Title:    title,
		DueDate:  model.NewDate(2026, time.December, 31),
		Priority: model.PriorityMedium,
	}
}

func TestNewMemoryStore(t *testing.T) {
	// Act
	store := NewMemoryStore()

	// Assert
	if store == nil {
		t.Fatal("NewMemoryStore() returned nil")
	}
	if store.items == nil {
		t.Error("items map should be initialized")
	}
}

func TestMemoryStore_Insert(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()

	// Act
	first, err := store.Insert(ctx, newTestItem("first"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	second, err := store.Insert(ctx, newTestItem("second"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	// Assert
	if first.ID <= 0 {
		t.Errorf("first ID = %d, want positive", first.ID)
	}
	if second.ID <= first.ID {
		t.Errorf("second ID = %d, want greater than %d", second.ID, first.ID)
	}
	if first.Title != "first" {
		t.Errorf("Title = %s, want first", first.Title)
	}
}

func TestMemoryStore_IDsNeverReused(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, newTestItem("doomed"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	// Act: delete and insert again
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	next, err := store.Insert(ctx, newTestItem("successor"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	// Assert
	if next.ID == created.ID {
		t.Errorf("ID %d was reused after delete", created.ID)
	}
	if next.ID <= created.ID {
		t.Errorf("next ID = %d, want greater than %d", next.ID, created.ID)
	}
}

func TestMemoryStore_Get(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, newTestItem("lookup"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		id      int64
		wantErr error
	}{
		{
			name: "existing item",
			id:   created.ID,
		},
		{
			name:    "missing item",
			id:      created.ID + 100,
			wantErr: ErrNotFound,
		},
		{
			name:    "zero id",
			id:      0,
			wantErr: ErrInvalidID,
		},
		{
			name:    "negative id",
			id:      -5,
			wantErr: ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := store.Get(ctx, tt.id)

			// Assert
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get(%d) error = %v, want %v", tt.id, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Get(%d) unexpected error: %v", tt.id, err)
			}
			if got.ID != tt.id {
				t.Errorf("ID = %d, want %d", got.ID, tt.id)
			}
		})
	}
}

func TestMemoryStore_Get_ReturnsCopy(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, newTestItem("original"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	// Act: mutate the returned item
	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	got.Title = "mutated"

	// Assert: the stored item is untouched
	again, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if again.Title != "original" {
		t.Errorf("stored Title = %s, want original", again.Title)
	}
}

func TestMemoryStore_List(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()

	titles := []string{"a", "b", "c"}
	for _, title := range titles {
		if _, err := store.Insert(ctx, newTestItem(title)); err != nil {
			t.Fatalf("Insert() unexpected error: %v", err)
		}
	}

	// Act
	items, err := store.List(ctx)

	// Assert
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(items) != len(titles) {
		t.Fatalf("List() returned %d items, want %d", len(items), len(titles))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].ID >= items[i].ID {
			t.Errorf("List() not in ascending id order: %d before %d", items[i-1].ID, items[i].ID)
		}
	}
}

func TestMemoryStore_List_Empty(t *testing.T) {
	// Arrange
	store := NewMemoryStore()

	// Act
	items, err := store.List(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("List() returned %d items, want 0", len(items))
	}
}

func TestMemoryStore_Replace(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, newTestItem("before"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	replacement := newTestItem("after")
	replacement.Completed = true

	// Act
	replaced, err := store.Replace(ctx, created.ID, replacement)

	// Assert
	if err != nil {
		t.Fatalf("Replace() unexpected error: %v", err)
	}
	if replaced.ID != created.ID {
		t.Errorf("Replace() ID = %d, want %d preserved", replaced.ID, created.ID)
	}
	if replaced.Title != "after" {
		t.Errorf("Title = %s, want after", replaced.Title)
	}
	if !replaced.Completed {
		t.Error("Completed should be overwritten to true")
	}
}

func TestMemoryStore_Replace_NotFound(t *testing.T) {
	// Arrange
	store := NewMemoryStore()

	// Act
	_, err := store.Replace(context.Background(), 42, newTestItem("ghost"))

	// Assert
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, newTestItem("transient"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	// Act
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	// Assert
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Exists(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, newTestItem("present"))
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	// Act / Assert
	exists, err := store.Exists(ctx, created.ID)
	if err != nil {
		t.Fatalf("Exists() unexpected error: %v", err)
	}
	if !exists {
		t.Error("Exists() = false for present item")
	}

	exists, err = store.Exists(ctx, created.ID+100)
	if err != nil {
		t.Fatalf("Exists() unexpected error: %v", err)
	}
	if exists {
		t.Error("Exists() = true for absent item")
	}
}

func TestMemoryStore_ContextCancellation(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	// Act / Assert
	if _, err := store.Insert(ctx, newTestItem("x")); err == nil {
		t.Error("Insert() expected error on cancelled context")
	}
	if _, err := store.Get(ctx, 1); err == nil {
		t.Error("Get() expected error on cancelled context")
	}
	if _, err := store.List(ctx); err == nil {
		t.Error("List() expected error on cancelled context")
	}
	if _, err := store.Replace(ctx, 1, newTestItem("x")); err == nil {
		t.Error("Replace() expected error on cancelled context")
	}
	if err := store.Delete(ctx, 1); err == nil {
		t.Error("Delete() expected error on cancelled context")
	}
	if _, err := store.Exists(ctx, 1); err == nil {
		t.Error("Exists() expected error on cancelled context")
	}
}

func TestMemoryStore_ConcurrentInserts(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	ids := make(chan int64, goroutines)

	// Act
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := store.Insert(ctx, newTestItem("concurrent"))
			if err != nil {
				t.Errorf("Insert() unexpected error: %v", err)
				return
			}
			ids <- created.ID
		}()
	}
	wg.Wait()
	close(ids)

	// Assert: every id is unique
	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d assigned", id)
		}
		seen[id] = true
	}
	if len(seen) != goroutines {
		t.Errorf("got %d unique ids, want %d", len(seen), goroutines)
	}
}
