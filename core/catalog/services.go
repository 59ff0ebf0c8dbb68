package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

var ErrConfirmRequired = errors.New("confirmation required")

var Statuses = []string{"active", "inactive", "maintenance"}

type Payload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Category    string `json:"category"`
	Owner       string `json:"owner"`
}

func Kind() records.Kind[store.Service, Payload] {
	return records.Kind[store.Service, Payload]{
		Module: store.KindServices,
		NewID: func(existing []store.Service, now time.Time) string {
			return records.TimestampID(existing, func(s store.Service) string { return s.ID }, now)
		},
		Validate: func(p Payload) error {
			c := &records.Checks{}
			return c.Required("name", p.Name).OneOf("status", p.Status, Statuses...).Err()
		},
		Build: func(id string, p Payload, _ time.Time) store.Service {
			return apply(store.Service{ID: id}, p)
		},
		Merge: func(current store.Service, p Payload, _ time.Time) store.Service {
			return apply(current, p)
		},
	}
}

func apply(s store.Service, p Payload) store.Service {
	s.Name = strings.TrimSpace(p.Name)
	s.Description = strings.TrimSpace(p.Description)
	s.Status = records.Or(p.Status, "active")
	s.Category = strings.TrimSpace(p.Category)
	s.Owner = strings.TrimSpace(p.Owner)
	return s
}

type Catalog struct {
	*records.Controller[store.Service, Payload]
}

func NewCatalog(coll store.Collection[store.Service], deps records.Deps) *Catalog {
	return &Catalog{Controller: records.NewController(Kind(), coll, deps)}
}

// Delete removes one service. Linked assets and SLAs keep their references.
func (c *Catalog) Delete(ctx context.Context, actor, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	return c.Controller.Delete(ctx, actor, id)
}

func (c *Catalog) ActiveCount(ctx context.Context) (int, error) {
	items, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range items {
		if s.Status == "active" {
			n++
		}
	}
	return n, nil
}
