package problems

import (
	"context"
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

var Statuses = []string{"identified", "investigating", "resolved"}

type Payload struct {
	Description      string   `json:"description"`
	RootCause        string   `json:"root_cause"`
	Solution         string   `json:"solution"`
	Status           string   `json:"status"`
	RelatedIncidents []string `json:"related_incidents"`
}

func Kind() records.Kind[store.Problem, Payload] {
	return records.Kind[store.Problem, Payload]{
		Module: store.KindProblems,
		NewID: func(existing []store.Problem, now time.Time) string {
			return records.TimestampID(existing, func(p store.Problem) string { return p.ID }, now)
		},
		Validate: func(p Payload) error {
			c := &records.Checks{}
			return c.Required("description", p.Description).OneOf("status", p.Status, Statuses...).Err()
		},
		Build: func(id string, p Payload, now time.Time) store.Problem {
			return apply(store.Problem{ID: id, DisplayID: store.ProblemDisplayID(id), CreatedAt: now}, p)
		},
		Merge: func(current store.Problem, p Payload, _ time.Time) store.Problem {
			return apply(current, p)
		},
	}
}

func apply(pr store.Problem, p Payload) store.Problem {
	pr.Description = strings.TrimSpace(p.Description)
	pr.RootCause = strings.TrimSpace(p.RootCause)
	pr.Solution = strings.TrimSpace(p.Solution)
	pr.Status = records.Or(p.Status, "identified")
	pr.RelatedIncidents = records.CleanList(p.RelatedIncidents)
	return pr
}

type Manager struct {
	*records.Controller[store.Problem, Payload]
}

func NewManager(coll store.Collection[store.Problem], deps records.Deps) *Manager {
	return &Manager{Controller: records.NewController(Kind(), coll, deps)}
}

type Stats struct {
	Total         int `json:"total"`
	Identified    int `json:"identified"`
	Investigating int `json:"investigating"`
	Resolved      int `json:"resolved"`
}

func BuildStats(items []store.Problem) Stats {
	s := Stats{Total: len(items)}
	for _, p := range items {
		switch p.Status {
		case "identified":
			s.Identified++
		case "investigating":
			s.Investigating++
		case "resolved":
			s.Resolved++
		}
	}
	return s
}

func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	items, err := m.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return BuildStats(items), nil
}
