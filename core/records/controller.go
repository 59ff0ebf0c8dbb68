package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"itsm-desk/core/events"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

var (
	ErrNotFound = store.ErrNotFound
	ErrInvalid  = errors.New("invalid record")
)

// Kind describes how one record type is created and edited.
type Kind[T any, P any] struct {
	Module   string
	NewID    func(existing []T, now time.Time) string
	Validate func(p P) error
	Build    func(id string, p P, now time.Time) T
	Merge    func(current T, p P, now time.Time) T
}

type Deps struct {
	Activity store.ActivityStore
	Events   events.Publisher
	Logger   *utils.Logger
	Now      func() time.Time
}

type Controller[T any, P any] struct {
	kind     Kind[T, P]
	store    store.Collection[T]
	activity store.ActivityStore
	events   events.Publisher
	logger   *utils.Logger
	now      func() time.Time
	mu       sync.Mutex
}

func NewController[T any, P any](kind Kind[T, P], coll store.Collection[T], deps Deps) *Controller[T, P] {
	c := &Controller[T, P]{
		kind:     kind,
		store:    coll,
		activity: deps.Activity,
		events:   deps.Events,
		logger:   deps.Logger,
		now:      deps.Now,
	}
	if c.events == nil {
		c.events = events.NopPublisher{}
	}
	if c.now == nil {
		c.now = utils.NowUTC
	}
	return c
}

func (c *Controller[T, P]) Module() string {
	return c.kind.Module
}

func (c *Controller[T, P]) List(ctx context.Context) ([]T, error) {
	return c.store.List(ctx)
}

func (c *Controller[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return c.store.Get(ctx, id)
}

func (c *Controller[T, P]) Create(ctx context.Context, actor string, p P) (T, error) {
	var zero T
	if err := c.validate(p); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, err := c.store.List(ctx)
	if err != nil {
		return zero, err
	}
	now := c.now()
	id := c.kind.NewID(existing, now)
	item := c.kind.Build(id, p, now)
	if err := c.store.Insert(ctx, id, item); err != nil {
		return zero, fmt.Errorf("%s create %s: %w", c.kind.Module, id, err)
	}
	c.record(ctx, actor, "create", id, item, now)
	return item, nil
}

func (c *Controller[T, P]) Update(ctx context.Context, actor, id string, p P) (T, error) {
	var zero T
	if err := c.validate(p); err != nil {
		return zero, err
	}
	return c.Modify(ctx, actor, id, "update", func(current T, now time.Time) (T, error) {
		return c.kind.Merge(current, p, now), nil
	})
}

// Modify applies fn to the stored record under the controller lock and
// persists the result in place.
func (c *Controller[T, P]) Modify(ctx context.Context, actor, id, action string, fn func(current T, now time.Time) (T, error)) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	current, err := c.store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	now := c.now()
	item, err := fn(*current, now)
	if err != nil {
		return zero, err
	}
	if err := c.store.Replace(ctx, id, item); err != nil {
		return zero, err
	}
	c.record(ctx, actor, action, id, item, now)
	return item, nil
}

func (c *Controller[T, P]) Delete(ctx context.Context, actor, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.record(ctx, actor, "delete", id, nil, c.now())
	return nil
}

func (c *Controller[T, P]) validate(p P) error {
	if c.kind.Validate == nil {
		return nil
	}
	if err := c.kind.Validate(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Controller[T, P]) record(ctx context.Context, actor, action, id string, item any, now time.Time) {
	if c.activity != nil {
		if err := c.activity.Log(ctx, actor, c.kind.Module, action, "id="+id); err != nil {
			c.logger.Errorf("activity log %s %s %s: %v", c.kind.Module, action, id, err)
		}
	}
	ev := events.Event{
		ID:       utils.NewUUID(),
		Module:   c.kind.Module,
		Action:   action,
		RecordID: id,
		Actor:    actor,
		At:       now,
		Record:   item,
	}
	if err := c.events.Publish(ctx, ev); err != nil {
		c.logger.Errorf("publish %s.%s %s: %v", c.kind.Module, action, id, err)
	}
}
