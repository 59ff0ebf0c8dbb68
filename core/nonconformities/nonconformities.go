package nonconformities

import (
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

var (
	Statuses   = []string{"open", "in-progress", "closed"}
	Severities = []string{"low", "medium", "high"}
)

type Payload struct {
	Description string `json:"description"`
	Cause       string `json:"cause"`
	Action      string `json:"action"`
	Status      string `json:"status"`
	Severity    string `json:"severity"`
}

func Kind() records.Kind[store.NonConformity, Payload] {
	return records.Kind[store.NonConformity, Payload]{
		Module: store.KindNonConformities,
		NewID: func(existing []store.NonConformity, now time.Time) string {
			return records.TimestampID(existing, func(n store.NonConformity) string { return n.ID }, now)
		},
		Validate: func(p Payload) error {
			c := &records.Checks{}
			return c.Required("description", p.Description).
				OneOf("status", p.Status, Statuses...).
				OneOf("severity", p.Severity, Severities...).Err()
		},
		Build: func(id string, p Payload, now time.Time) store.NonConformity {
			return apply(store.NonConformity{ID: id, CreatedAt: now}, p)
		},
		Merge: func(current store.NonConformity, p Payload, _ time.Time) store.NonConformity {
			return apply(current, p)
		},
	}
}

func apply(n store.NonConformity, p Payload) store.NonConformity {
	n.Description = strings.TrimSpace(p.Description)
	n.Cause = strings.TrimSpace(p.Cause)
	n.Action = strings.TrimSpace(p.Action)
	n.Status = records.Or(p.Status, "open")
	n.Severity = records.Or(p.Severity, "medium")
	return n
}

type Manager struct {
	*records.Controller[store.NonConformity, Payload]
}

func NewManager(coll store.Collection[store.NonConformity], deps records.Deps) *Manager {
	return &Manager{Controller: records.NewController(Kind(), coll, deps)}
}
