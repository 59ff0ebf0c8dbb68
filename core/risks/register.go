package risks

import (
	"context"
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

var (
	Levels   = []string{"low", "medium", "high"}
	Statuses = []string{"identified", "mitigated", "closed"}
)

type Payload struct {
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Probability string `json:"probability"`
	Mitigation  string `json:"mitigation"`
	Status      string `json:"status"`
}

func Kind() records.Kind[store.Risk, Payload] {
	return records.Kind[store.Risk, Payload]{
		Module: store.KindRisks,
		NewID: func(existing []store.Risk, now time.Time) string {
			return records.TimestampID(existing, func(r store.Risk) string { return r.ID }, now)
		},
		Validate: func(p Payload) error {
			c := &records.Checks{}
			return c.Required("description", p.Description).
				OneOf("impact", p.Impact, Levels...).
				OneOf("probability", p.Probability, Levels...).
				OneOf("status", p.Status, Statuses...).Err()
		},
		Build: func(id string, p Payload, _ time.Time) store.Risk {
			return apply(store.Risk{ID: id}, p)
		},
		Merge: func(current store.Risk, p Payload, _ time.Time) store.Risk {
			return apply(current, p)
		},
	}
}

func apply(r store.Risk, p Payload) store.Risk {
	r.Description = strings.TrimSpace(p.Description)
	r.Impact = records.Or(p.Impact, "medium")
	r.Probability = records.Or(p.Probability, "medium")
	r.Mitigation = strings.TrimSpace(p.Mitigation)
	r.Status = records.Or(p.Status, "identified")
	r.Priority = DerivePriority(r.Impact, r.Probability)
	return r
}

type Register struct {
	*records.Controller[store.Risk, Payload]
}

func NewRegister(coll store.Collection[store.Risk], deps records.Deps) *Register {
	return &Register{Controller: records.NewController(Kind(), coll, deps)}
}

type Matrix struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

func BuildMatrix(items []store.Risk) Matrix {
	var m Matrix
	for _, r := range items {
		switch r.Priority {
		case PriorityLow:
			m.Low++
		case PriorityMedium:
			m.Medium++
		case PriorityHigh:
			m.High++
		case PriorityCritical:
			m.Critical++
		}
	}
	return m
}

func (r *Register) Matrix(ctx context.Context) (Matrix, error) {
	items, err := r.List(ctx)
	if err != nil {
		return Matrix{}, err
	}
	return BuildMatrix(items), nil
}
