package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderAssignsDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rec := NewRecorder(store)

	rec.Record(ctx, Entry{Entity: "employee", EntityID: "emp-1", Action: "create", ActorID: "usr-1"})

	got, err := store.Query(ctx, Filter{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %d", len(got))
	}
	e := got[0]
	if e.ID == "" || e.OccurredAt.IsZero() || e.Status != StatusSuccess {
		t.Fatalf("defaults not applied: %+v", e)
	}
}

func TestRecorderSkipsBlankEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rec := NewRecorder(store)

	rec.Record(ctx, Entry{Entity: "", Action: "create"})
	rec.Record(ctx, Entry{Entity: "employee", Action: "  "})

	got, _ := store.Query(ctx, Filter{})
	if len(got) != 0 {
		t.Fatalf("blank entries recorded: %+v", got)
	}
}

type failingStore struct{}

func (failingStore) Insert(context.Context, Entry) error { return errors.New("db down") }
func (failingStore) Query(context.Context, Filter) ([]Entry, error) {
	return nil, errors.New("db down")
}

func TestRecorderSurvivesStoreFailure(t *testing.T) {
	rec := NewRecorder(failingStore{})
	// Must not panic or propagate the store error.
	rec.Record(context.Background(), Entry{Entity: "employee", Action: "create"})
}

func TestQueryFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		entity := "employee"
		if i%2 == 1 {
			entity = "payroll"
		}
		err := store.Insert(ctx, Entry{
			ID:         "e" + string(rune('0'+i)),
			Entity:     entity,
			EntityID:   "rec-1",
			Action:     "update",
			ActorID:    "usr-1",
			Status:     StatusSuccess,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := store.Query(ctx, Filter{Entity: "payroll"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 payroll entries, got %d", len(got))
	}
	if !got[0].OccurredAt.After(got[1].OccurredAt) {
		t.Fatal("entries not newest-first")
	}

	got, err = store.Query(ctx, Filter{From: base.Add(3 * time.Minute)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("time filter: want 2, got %d", len(got))
	}

	got, err = store.Query(ctx, Filter{Limit: 1})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || !got[0].OccurredAt.Equal(base.Add(4*time.Minute)) {
		t.Fatalf("limit query wrong: %+v", got)
	}
}

func TestFilterLimitBounds(t *testing.T) {
	if got := (Filter{}).limit(); got != DefaultQueryLimit {
		t.Fatalf("default limit = %d", got)
	}
	if got := (Filter{Limit: -3}).limit(); got != DefaultQueryLimit {
		t.Fatalf("negative limit = %d", got)
	}
	if got := (Filter{Limit: 10_000}).limit(); got != MaxQueryLimit {
		t.Fatalf("oversized limit = %d", got)
	}
	if got := (Filter{Limit: 7}).limit(); got != 7 {
		t.Fatalf("explicit limit = %d", got)
	}
}
