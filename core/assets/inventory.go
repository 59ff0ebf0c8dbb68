package assets

import (
	"context"
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

var (
	Types    = []string{"hardware", "software", "network", "data"}
	Statuses = []string{"active", "inactive", "maintenance", "retired"}
)

// Payload links services by name; names are not checked against the catalog.
type Payload struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	LinkedServices []string `json:"linked_services"`
	Location       string   `json:"location"`
}

func Kind() records.Kind[store.Asset, Payload] {
	return records.Kind[store.Asset, Payload]{
		Module: store.KindAssets,
		NewID: func(existing []store.Asset, now time.Time) string {
			return records.TimestampID(existing, func(a store.Asset) string { return a.ID }, now)
		},
		Validate: func(p Payload) error {
			c := &records.Checks{}
			return c.Required("name", p.Name).
				OneOf("type", p.Type, Types...).
				OneOf("status", p.Status, Statuses...).Err()
		},
		Build: func(id string, p Payload, _ time.Time) store.Asset {
			return apply(store.Asset{ID: id}, p)
		},
		Merge: func(current store.Asset, p Payload, _ time.Time) store.Asset {
			return apply(current, p)
		},
	}
}

func apply(a store.Asset, p Payload) store.Asset {
	a.Name = strings.TrimSpace(p.Name)
	a.Type = records.Or(p.Type, "hardware")
	a.Status = records.Or(p.Status, "active")
	a.LinkedServices = records.CleanList(p.LinkedServices)
	a.Location = strings.TrimSpace(p.Location)
	return a
}

type Inventory struct {
	*records.Controller[store.Asset, Payload]
}

func NewInventory(coll store.Collection[store.Asset], deps records.Deps) *Inventory {
	return &Inventory{Controller: records.NewController(Kind(), coll, deps)}
}

type TypeStats struct {
	Type   string `json:"type"`
	Total  int    `json:"total"`
	Active int    `json:"active"`
}

// BuildStats returns one row per asset type in the fixed type order.
func BuildStats(items []store.Asset) []TypeStats {
	out := make([]TypeStats, 0, len(Types))
	for _, t := range Types {
		row := TypeStats{Type: t}
		for _, a := range items {
			if a.Type != t {
				continue
			}
			row.Total++
			if a.Status == "active" {
				row.Active++
			}
		}
		out = append(out, row)
	}
	return out
}

func (i *Inventory) Stats(ctx context.Context) ([]TypeStats, error) {
	items, err := i.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStats(items), nil
}
