package incidents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

var (
	Priorities       = []string{"low", "medium", "high", "critical"}
	IncidentStatuses = []string{"open", "in-progress", "resolved", "closed"}
)

type IncidentPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
}

func IncidentKind() records.Kind[store.Incident, IncidentPayload] {
	return records.Kind[store.Incident, IncidentPayload]{
		Module: store.KindIncidents,
		NewID: func(existing []store.Incident, _ time.Time) string {
			return records.SequenceID("INC", existing, func(i store.Incident) string { return i.ID })
		},
		Validate: func(p IncidentPayload) error {
			c := &records.Checks{}
			return c.Required("title", p.Title).
				OneOf("priority", p.Priority, Priorities...).
				OneOf("status", p.Status, IncidentStatuses...).Err()
		},
		Build: func(id string, p IncidentPayload, now time.Time) store.Incident {
			return applyIncident(store.Incident{ID: id, CreatedAt: now}, p, now)
		},
		Merge: applyIncident,
	}
}

func applyIncident(i store.Incident, p IncidentPayload, now time.Time) store.Incident {
	i.Title = strings.TrimSpace(p.Title)
	i.Description = strings.TrimSpace(p.Description)
	i.Priority = records.Or(p.Priority, "medium")
	i.Status = records.Or(p.Status, "open")
	i.Assignee = strings.TrimSpace(p.Assignee)
	i.UpdatedAt = now
	return i
}

type Incidents struct {
	*records.Controller[store.Incident, IncidentPayload]
}

func NewIncidents(coll store.Collection[store.Incident], deps records.Deps) *Incidents {
	return &Incidents{Controller: records.NewController(IncidentKind(), coll, deps)}
}

// SetStatus is the list view's quick status change; it bumps updated_at.
func (s *Incidents) SetStatus(ctx context.Context, actor, id, status string) (store.Incident, error) {
	if err := validateStatus(status, IncidentStatuses); err != nil {
		return store.Incident{}, err
	}
	return s.Modify(ctx, actor, id, "status", func(current store.Incident, now time.Time) (store.Incident, error) {
		current.Status = status
		current.UpdatedAt = now
		return current, nil
	})
}

type StatusCounts struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

func CountIncidents(items []store.Incident) StatusCounts {
	var c StatusCounts
	for _, i := range items {
		switch i.Status {
		case "open":
			c.Open++
		case "in-progress":
			c.InProgress++
		case "resolved":
			c.Resolved++
		}
	}
	return c
}

func validateStatus(status string, allowed []string) error {
	c := &records.Checks{}
	if err := c.Required("status", status).OneOf("status", status, allowed...).Err(); err != nil {
		return invalid(err)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", records.ErrInvalid, err)
}
