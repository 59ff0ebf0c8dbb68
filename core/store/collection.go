package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Collection is an ordered set of records of one kind keyed by string id.
// Insert appends at the end; Replace keeps the record's position.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, id string, item T) error
	Replace(ctx context.Context, id string, item T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
