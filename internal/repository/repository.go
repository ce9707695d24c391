package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Record wraps a stored document with the fields the store owns.
type Record[T any] struct {
	ID    string
	Owner string
	Doc   T
}

// Filter selects records of a single owner. An empty Owner matches nothing.
// Field/Value add an equality predicate on a top-level document field.
type Filter struct {
	Owner string
	ID    string
	Field string
	Value string
}

func ByOwner(owner string) Filter {
	return Filter{Owner: owner}
}

func ByOwnerAndID(owner, id string) Filter {
	return Filter{Owner: owner, ID: id}
}

func ByOwnerAndField(owner, field, value string) Filter {
	return Filter{Owner: owner, Field: field, Value: value}
}

// Schema describes a collection and the uniqueness the backend enforces.
type Schema struct {
	Name        string
	UniqueOwner bool
	// UniqueField makes (owner, field) unique.
	UniqueField string
}

// Collection is a filtered document store for one entity type. Find returns
// records in creation order.
type Collection[T any] interface {
	Insert(ctx context.Context, owner string, doc T) (Record[T], error)
	Find(ctx context.Context, filter Filter) ([]Record[T], error)
	FindOne(ctx context.Context, filter Filter) (Record[T], error)
	// Update replaces the document of the single record matched by filter.ID.
	Update(ctx context.Context, filter Filter, doc T) error
	Delete(ctx context.Context, filter Filter) (int64, error)
	Owners(ctx context.Context) ([]string, error)
}

// Pruner is the type-independent part of a collection, used by maintenance
// jobs that walk every collection.
type Pruner interface {
	Owners(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, filter Filter) (int64, error)
}
