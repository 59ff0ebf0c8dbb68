package records

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"itsm-desk/core/events"
	"itsm-desk/core/store"

	"github.com/google/go-cmp/cmp"
)

type notePayload struct {
	Name string
}

func noteKind() Kind[store.Service, notePayload] {
	return Kind[store.Service, notePayload]{
		Module: "notes",
		NewID: func(existing []store.Service, now time.Time) string {
			return TimestampID(existing, func(s store.Service) string { return s.ID }, now)
		},
		Validate: func(p notePayload) error {
			c := &Checks{}
			return c.Required("name", p.Name).Err()
		},
		Build: func(id string, p notePayload, _ time.Time) store.Service {
			return store.Service{ID: id, Name: p.Name, Status: "active"}
		},
		Merge: func(current store.Service, p notePayload, _ time.Time) store.Service {
			current.Name = p.Name
			return current
		},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateAssignsUniqueIDsUnderFixedClock(t *testing.T) {
	ctx := context.Background()
	coll := store.NewMemoryCollection(store.Service.Clone)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	ctrl := NewController(noteKind(), coll, Deps{Now: fixedClock(now)})

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		item, err := ctrl.Create(ctx, "alice", notePayload{Name: "n"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[item.ID] {
			t.Fatalf("duplicate id %s", item.ID)
		}
		seen[item.ID] = true
	}
	items, _ := ctrl.List(ctx)
	if len(items) != 5 {
		t.Fatalf("expected 5 records, got %d", len(items))
	}
}

func TestConcurrentCreatesAppearExactlyOnce(t *testing.T) {
	ctx := context.Background()
	coll := store.NewMemoryCollection(store.Service.Clone)
	ctrl := NewController(noteKind(), coll, Deps{})

	var wg sync.WaitGroup
	ids := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := ctrl.Create(ctx, "bob", notePayload{Name: "x"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- item.ID
		}()
	}
	wg.Wait()
	close(ids)
	items, _ := ctrl.List(ctx)
	counts := map[string]int{}
	for _, item := range items {
		counts[item.ID]++
	}
	for id := range ids {
		if counts[id] != 1 {
			t.Fatalf("id %s appears %d times", id, counts[id])
		}
	}
	if len(items) != 20 {
		t.Fatalf("expected 20 records, got %d", len(items))
	}
}

func TestUpdateTouchesOnlyTarget(t *testing.T) {
	ctx := context.Background()
	coll := store.NewMemoryCollection(store.Service.Clone)
	pub := &recordingPublisher{}
	activity := store.NewActivityStore(store.NewMemoryCollection(store.ActivityRecord.Clone))
	ctrl := NewController(noteKind(), coll, Deps{Events: pub, Activity: activity})
	for _, s := range []store.Service{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "3", Name: "c"}} {
		if err := coll.Insert(ctx, s.ID, s); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	before, _ := ctrl.List(ctx)

	updated, err := ctrl.Update(ctx, "carol", "2", notePayload{Name: "renamed"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != "2" || updated.Name != "renamed" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	after, _ := ctrl.List(ctx)
	want := append([]store.Service(nil), before...)
	want[1].Name = "renamed"
	if diff := cmp.Diff(want, after); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}
	if len(pub.events) != 1 || pub.events[0].Action != "update" || pub.events[0].RecordID != "2" {
		t.Fatalf("unexpected events %+v", pub.events)
	}
	logs, _ := activity.List(ctx, store.ActivityFilter{})
	if len(logs) != 1 || logs[0].Username != "carol" || logs[0].Module != "notes" {
		t.Fatalf("unexpected activity %+v", logs)
	}
}

func TestValidationFailureLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	coll := store.NewMemoryCollection(store.Service.Clone)
	ctrl := NewController(noteKind(), coll, Deps{})
	_, err := ctrl.Create(ctx, "", notePayload{})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := ctrl.Update(ctx, "", "missing", notePayload{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n, _ := coll.Count(ctx); n != 0 {
		t.Fatalf("expected empty collection, got %d", n)
	}
}

func TestSequenceID(t *testing.T) {
	idOf := func(s string) string { return s }
	cases := []struct {
		existing []string
		want     string
	}{
		{nil, "INC001"},
		{[]string{"INC001", "INC002"}, "INC003"},
		{[]string{"INC001", "INC007", "INC003"}, "INC008"},
		{[]string{"REQ009", "INC001", "bogus"}, "INC002"},
		{[]string{"INC999"}, "INC1000"},
	}
	for _, tc := range cases {
		if got := SequenceID("INC", tc.existing, idOf); got != tc.want {
			t.Fatalf("SequenceID(%v)=%s want %s", tc.existing, got, tc.want)
		}
	}
}

func TestTimestampIDSkipsTaken(t *testing.T) {
	now := time.UnixMilli(1705312200000)
	got := TimestampID([]string{"1705312200000", "1705312200001"}, func(s string) string { return s }, now)
	if got != "1705312200002" {
		t.Fatalf("unexpected id %s", got)
	}
}
