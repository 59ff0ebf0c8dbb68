package audits

import (
	"fmt"
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

var (
	Results  = []string{"passed", "failed", "partial"}
	Statuses = []string{"scheduled", "in-progress", "completed"}
)

// Payload carries recommendations either as a list or as newline separated
// text from a form; both are merged.
type Payload struct {
	Name                string   `json:"name"`
	Scope               string   `json:"scope"`
	Result              string   `json:"result"`
	Status              string   `json:"status"`
	Date                string   `json:"date"`
	Recommendations     []string `json:"recommendations"`
	RecommendationsText string   `json:"recommendations_text"`
}

func Kind() records.Kind[store.Audit, Payload] {
	return records.Kind[store.Audit, Payload]{
		Module: store.KindAudits,
		NewID: func(existing []store.Audit, now time.Time) string {
			return records.TimestampID(existing, func(a store.Audit) string { return a.ID }, now)
		},
		Validate: func(p Payload) error {
			c := &records.Checks{}
			c.Required("name", p.Name).Required("scope", p.Scope).
				OneOf("result", p.Result, Results...).
				OneOf("status", p.Status, Statuses...)
			if _, err := utils.ParseDateTime(p.Date); err != nil {
				c.Check(false, fmt.Sprintf("date %q is not a valid date", p.Date))
			}
			return c.Err()
		},
		Build: func(id string, p Payload, now time.Time) store.Audit {
			return apply(store.Audit{ID: id}, p, now)
		},
		Merge: apply,
	}
}

func apply(a store.Audit, p Payload, now time.Time) store.Audit {
	a.Name = strings.TrimSpace(p.Name)
	a.Scope = strings.TrimSpace(p.Scope)
	a.Result = records.Or(p.Result, "passed")
	a.Status = records.Or(p.Status, "scheduled")
	date, _ := utils.ParseDateTime(p.Date)
	if date.IsZero() {
		date = a.Date
	}
	if date.IsZero() {
		date = now.Truncate(24 * time.Hour)
	}
	a.Date = date
	a.Recommendations = SplitRecommendations(p.Recommendations, p.RecommendationsText)
	return a
}

// SplitRecommendations trims list items and splits text on newlines, dropping
// blank lines.
func SplitRecommendations(list []string, text string) []string {
	out := records.CleanList(list)
	out = append(out, utils.SplitLines(text)...)
	return out
}

type Manager struct {
	*records.Controller[store.Audit, Payload]
}

func NewManager(coll store.Collection[store.Audit], deps records.Deps) *Manager {
	return &Manager{Controller: records.NewController(Kind(), coll, deps)}
}
