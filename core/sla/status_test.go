package sla

import (
	"context"
	"errors"
	"testing"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

func TestDeriveStatusThresholds(t *testing.T) {
	cases := []struct {
		current, objective float64
		want               string
	}{
		{0.98, 1, StatusHealthy},
		{98, 100, StatusHealthy},
		{0.979999, 1, StatusWarning},
		{0.90, 1, StatusWarning},
		{0.899999, 1, StatusCritical},
		{99.5, 99.9, StatusHealthy},
		{98.2, 99.95, StatusHealthy},
		{1.8, 2.0, StatusWarning},
		{2.5, 3.0, StatusCritical},
		{120, 100, StatusHealthy},
		{0, 100, StatusCritical},
		{50, 0, StatusCritical},
		{50, -1, StatusCritical},
	}
	for _, tc := range cases {
		if got := DeriveStatus(tc.current, tc.objective); got != tc.want {
			t.Fatalf("DeriveStatus(%v, %v)=%s want %s", tc.current, tc.objective, got, tc.want)
		}
	}
}

func TestDeriveStatusMonotonic(t *testing.T) {
	prev := -1
	for i := 0; i <= 1200; i++ {
		current := float64(i) / 10
		rank := Rank(DeriveStatus(current, 100))
		if rank < prev {
			t.Fatalf("status rank decreased at current=%v", current)
		}
		prev = rank
	}
}

func TestManagerDerivesOnSave(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryCollection(store.SLA.Clone), records.Deps{})
	created, err := m.Create(ctx, "admin", Payload{Name: "Uptime", Service: "Web Portal", Objective: 99.9, Current: 80})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != StatusCritical {
		t.Fatalf("expected critical, got %s", created.Status)
	}
	updated, err := m.Update(ctx, "admin", created.ID, Payload{Name: "Uptime", Service: "Web Portal", Objective: 99.9, Current: 99.9})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusHealthy {
		t.Fatalf("expected healthy after update, got %s", updated.Status)
	}
	crit, err := m.Critical(ctx)
	if err != nil || len(crit) != 0 {
		t.Fatalf("expected no critical SLAs, got %v err=%v", crit, err)
	}
	if _, err := m.Create(ctx, "admin", Payload{Objective: 1}); !errors.Is(err, records.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCriticalLabel(t *testing.T) {
	ctx := context.Background()
	coll := store.NewMemoryCollection(store.SLA.Clone)
	_ = coll.Insert(ctx, "3", store.SLA{ID: "3", Name: "Database Uptime", Objective: 99.95, Current: 98.2, Status: StatusCritical})
	_ = coll.Insert(ctx, "1", store.SLA{ID: "1", Name: "Email", Objective: 99.9, Current: 99.5, Status: StatusWarning})
	m := NewManager(coll, records.Deps{})
	crit, err := m.Critical(ctx)
	if err != nil {
		t.Fatalf("critical: %v", err)
	}
	if len(crit) != 1 || crit[0].Label != "Database Uptime - Current: 98.2% (Target: 99.95%)" {
		t.Fatalf("unexpected critical list %+v", crit)
	}
	items, _ := m.List(ctx)
	if got := Summarize(items); got != (Summary{Warning: 1, Critical: 1}) {
		t.Fatalf("unexpected summary %+v", got)
	}
}
