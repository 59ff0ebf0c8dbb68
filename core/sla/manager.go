package sla

import (
	"context"
	"fmt"
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

type Payload struct {
	Name      string  `json:"name"`
	Objective float64 `json:"objective"`
	Current   float64 `json:"current"`
	Service   string  `json:"service"`
}

func Kind() records.Kind[store.SLA, Payload] {
	return records.Kind[store.SLA, Payload]{
		Module: store.KindSLAs,
		NewID: func(existing []store.SLA, now time.Time) string {
			return records.TimestampID(existing, func(s store.SLA) string { return s.ID }, now)
		},
		Validate: func(p Payload) error {
			c := &records.Checks{}
			return c.Required("name", p.Name).Required("service", p.Service).
				Check(p.Current >= 0, "current must not be negative").Err()
		},
		Build: func(id string, p Payload, _ time.Time) store.SLA {
			return apply(store.SLA{ID: id}, p)
		},
		Merge: func(current store.SLA, p Payload, _ time.Time) store.SLA {
			return apply(current, p)
		},
	}
}

func apply(s store.SLA, p Payload) store.SLA {
	s.Name = strings.TrimSpace(p.Name)
	s.Service = strings.TrimSpace(p.Service)
	s.Objective = p.Objective
	s.Current = p.Current
	s.Status = DeriveStatus(p.Current, p.Objective)
	return s
}

type Manager struct {
	*records.Controller[store.SLA, Payload]
}

func NewManager(coll store.Collection[store.SLA], deps records.Deps) *Manager {
	return &Manager{Controller: records.NewController(Kind(), coll, deps)}
}

type CriticalItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Current   float64 `json:"current"`
	Objective float64 `json:"objective"`
	Label     string  `json:"label"`
}

func (m *Manager) Critical(ctx context.Context) ([]CriticalItem, error) {
	items, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []CriticalItem{}
	for _, s := range items {
		if s.Status != StatusCritical {
			continue
		}
		out = append(out, CriticalItem{
			ID:        s.ID,
			Name:      s.Name,
			Current:   s.Current,
			Objective: s.Objective,
			Label:     fmt.Sprintf("%s - Current: %g%% (Target: %g%%)", s.Name, s.Current, s.Objective),
		})
	}
	return out, nil
}

type Summary struct {
	Healthy  int `json:"healthy"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

func Summarize(items []store.SLA) Summary {
	var s Summary
	for _, item := range items {
		switch item.Status {
		case StatusHealthy:
			s.Healthy++
		case StatusWarning:
			s.Warning++
		case StatusCritical:
			s.Critical++
		}
	}
	return s
}
