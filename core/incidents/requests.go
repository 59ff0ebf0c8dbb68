package incidents

import (
	"context"
	"strings"
	"time"

	"itsm-desk/core/records"
	"itsm-desk/core/store"
)

var RequestStatuses = []string{"open", "in-progress", "completed", "rejected"}

type RequestPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Requester   string `json:"requester"`
}

func RequestKind() records.Kind[store.Request, RequestPayload] {
	return records.Kind[store.Request, RequestPayload]{
		Module: store.KindRequests,
		NewID: func(existing []store.Request, _ time.Time) string {
			return records.SequenceID("REQ", existing, func(r store.Request) string { return r.ID })
		},
		Validate: func(p RequestPayload) error {
			c := &records.Checks{}
			return c.Required("title", p.Title).Required("requester", p.Requester).
				OneOf("priority", p.Priority, Priorities...).
				OneOf("status", p.Status, RequestStatuses...).Err()
		},
		Build: func(id string, p RequestPayload, now time.Time) store.Request {
			return applyRequest(store.Request{ID: id, CreatedAt: now}, p, now)
		},
		Merge: applyRequest,
	}
}

func applyRequest(r store.Request, p RequestPayload, now time.Time) store.Request {
	r.Title = strings.TrimSpace(p.Title)
	r.Description = strings.TrimSpace(p.Description)
	r.Priority = records.Or(p.Priority, "medium")
	r.Status = records.Or(p.Status, "open")
	r.Requester = strings.TrimSpace(p.Requester)
	r.UpdatedAt = now
	return r
}

type Requests struct {
	*records.Controller[store.Request, RequestPayload]
}

func NewRequests(coll store.Collection[store.Request], deps records.Deps) *Requests {
	return &Requests{Controller: records.NewController(RequestKind(), coll, deps)}
}

func (s *Requests) SetStatus(ctx context.Context, actor, id, status string) (store.Request, error) {
	if err := validateStatus(status, RequestStatuses); err != nil {
		return store.Request{}, err
	}
	return s.Modify(ctx, actor, id, "status", func(current store.Request, now time.Time) (store.Request, error) {
		current.Status = status
		current.UpdatedAt = now
		return current, nil
	})
}
