package entitystore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Collection provides typed CRUD access to one entity type. The store
// assigns identifiers and timestamps on create; updates are partial.
type Collection[T any] struct {
	client *Client
	entity string
}

func newCollection[T any](c *Client, entity string) *Collection[T] {
	return &Collection[T]{client: c, entity: entity}
}

// List returns records, optionally sorted ("-created_date" for descending)
// and limited. A zero limit means no limit.
func (l *Collection[T]) List(ctx context.Context, sort string, limit int) ([]T, error) {
	q := url.Values{}
	if sort != "" {
		q.Set("sort", sort)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []T
	if err := l.client.do(ctx, http.MethodGet, l.client.entityPath(l.entity), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Filter returns records matching the predicate.
func (l *Collection[T]) Filter(ctx context.Context, pred Predicate) ([]T, error) {
	var out []T
	if err := l.client.do(ctx, http.MethodPost, l.client.entityPath(l.entity, "filter"), nil, pred, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one record by ID, or domain.ErrNotFound.
func (l *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := l.client.do(ctx, http.MethodGet, l.client.entityPath(l.entity, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores a new record. fields may be any JSON-marshalable value;
// store-managed fields in it are ignored by the service.
func (l *Collection[T]) Create(ctx context.Context, fields any) (*T, error) {
	var out T
	if err := l.client.do(ctx, http.MethodPost, l.client.entityPath(l.entity), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial update and returns the updated record.
// The store bumps updated_date even for an empty fields object.
func (l *Collection[T]) Update(ctx context.Context, id string, fields any) (*T, error) {
	var out T
	if err := l.client.do(ctx, http.MethodPut, l.client.entityPath(l.entity, id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a record. Deleting a missing record is a no-op.
func (l *Collection[T]) Delete(ctx context.Context, id string) error {
	return l.client.do(ctx, http.MethodDelete, l.client.entityPath(l.entity, id), nil, nil, nil)
}
