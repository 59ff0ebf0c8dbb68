package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"itsm-desk/core/utils"
)

type ActivityFilter struct {
	Module string
	Action string
	User   string
	Query  string
	Since  time.Time
	To     *time.Time
	Limit  int
}

type ActivityStore interface {
	Log(ctx context.Context, username, module, action, details string) error
	List(ctx context.Context, filter ActivityFilter) ([]ActivityRecord, error)
}

type activityStore struct {
	records Collection[ActivityRecord]
}

func NewActivityStore(records Collection[ActivityRecord]) ActivityStore {
	return &activityStore{records: records}
}

func (s *activityStore) Log(ctx context.Context, username, module, action, details string) error {
	rec := ActivityRecord{
		ID:        utils.NewUUID(),
		Username:  strings.TrimSpace(username),
		Module:    module,
		Action:    action,
		Details:   details,
		CreatedAt: utils.NowUTC(),
	}
	return s.records.Insert(ctx, rec.ID, rec)
}

// List returns matching records, newest first.
func (s *activityStore) List(ctx context.Context, filter ActivityFilter) ([]ActivityRecord, error) {
	all, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ActivityRecord, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		rec := all[i]
		if !matchActivity(rec, filter) {
			continue
		}
		out = append(out, rec)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	slices.SortStableFunc(out, func(a, b ActivityRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func matchActivity(rec ActivityRecord, f ActivityFilter) bool {
	if f.Module != "" && !strings.EqualFold(rec.Module, f.Module) {
		return false
	}
	if f.Action != "" && !strings.EqualFold(rec.Action, f.Action) {
		return false
	}
	if f.User != "" && !strings.EqualFold(rec.Username, f.User) {
		return false
	}
	if !f.Since.IsZero() && rec.CreatedAt.Before(f.Since) {
		return false
	}
	if f.To != nil && rec.CreatedAt.After(*f.To) {
		return false
	}
	if f.Query != "" {
		hay := strings.ToLower(rec.Details + " " + rec.Action + " " + rec.Module)
		if !strings.Contains(hay, strings.ToLower(f.Query)) {
			return false
		}
	}
	return true
}
