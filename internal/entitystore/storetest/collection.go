package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
	"github.com/clearpathclaims/inspectdesk/internal/entitystore"
)

// Collection is the fake counterpart of entitystore.Collection. Records
// live as JSON objects so partial updates and predicate matching behave
// like the remote service.
type Collection[T any] struct {
	store *Store
	rows  map[string]map[string]any

	// Failure hooks. When set and returning a non-nil error, the
	// operation fails before mutating anything.
	FailCreate func(fields map[string]any) error
	FailUpdate func(id string) error
	FailDelete func(id string) error
}

func newCollection[T any](s *Store) *Collection[T] {
	return &Collection[T]{store: s, rows: make(map[string]map[string]any)}
}

// Len returns the live record count.
func (c *Collection[T]) Len() int {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return len(c.rows)
}

// List returns all records, sorted by sortSpec ("field" ascending,
// "-field" descending, default created_date ascending), limited if
// limit > 0.
func (c *Collection[T]) List(ctx context.Context, sortSpec string, limit int) ([]T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	all := c.collect(func(map[string]any) bool { return true }, sortSpec)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return decodeAll[T](all)
}

// Filter returns records matching the predicate, oldest first.
func (c *Collection[T]) Filter(ctx context.Context, pred entitystore.Predicate) ([]T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	all := c.collect(func(row map[string]any) bool { return matches(row, pred) }, "")
	return decodeAll[T](all)
}

// Get returns one record by ID, or domain.ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	row, ok := c.rows[id]
	if !ok {
		return nil, fmt.Errorf("storetest: get %s: %w", id, domain.ErrNotFound)
	}
	return decode[T](row)
}

// Create stores a new record with a fresh ID and timestamps. created_by
// is stamped from the actor unless the fields carry one.
func (c *Collection[T]) Create(ctx context.Context, fields any) (*T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	m, err := toMap(fields)
	if err != nil {
		return nil, err
	}
	if c.FailCreate != nil {
		if err := c.FailCreate(m); err != nil {
			return nil, err
		}
	}

	now := c.store.tick().Format(time.RFC3339Nano)
	m["id"] = uuid.NewString()
	m["created_date"] = now
	m["updated_date"] = now
	if v, ok := m["created_by"].(string); !ok || v == "" {
		m["created_by"] = c.store.Actor.Email
	}

	c.rows[m["id"].(string)] = m
	return decode[T](m)
}

// Update merges fields into the record. A nil field value clears the
// field; id, created_date, and created_by never change; updated_date is
// always bumped, even for an empty fields object.
func (c *Collection[T]) Update(ctx context.Context, id string, fields any) (*T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	row, ok := c.rows[id]
	if !ok {
		return nil, fmt.Errorf("storetest: update %s: %w", id, domain.ErrNotFound)
	}
	if c.FailUpdate != nil {
		if err := c.FailUpdate(id); err != nil {
			return nil, err
		}
	}

	m, err := toMap(fields)
	if err != nil {
		return nil, err
	}
	for k, v := range m {
		switch k {
		case "id", "created_date", "created_by":
			continue
		}
		if v == nil {
			delete(row, k)
			continue
		}
		row[k] = v
	}
	row["updated_date"] = c.store.tick().Format(time.RFC3339Nano)

	return decode[T](row)
}

// Delete removes a record; deleting a missing record is a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if c.FailDelete != nil {
		if err := c.FailDelete(id); err != nil {
			return err
		}
	}
	delete(c.rows, id)
	return nil
}

// collect returns matching rows sorted by sortSpec. Callers hold s.mu.
func (c *Collection[T]) collect(keep func(map[string]any) bool, sortSpec string) []map[string]any {
	var out []map[string]any
	for _, row := range c.rows {
		if keep(row) {
			out = append(out, row)
		}
	}

	field := strings.TrimPrefix(sortSpec, "-")
	desc := strings.HasPrefix(sortSpec, "-")
	if field == "" {
		field = "created_date"
	}

	sort.Slice(out, func(i, j int) bool {
		li := less(out[i][field], out[j][field])
		if desc {
			return less(out[j][field], out[i][field])
		}
		return li
	})
	return out
}

func less(a, b any) bool {
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	at, errA := time.Parse(time.RFC3339Nano, as)
	bt, errB := time.Parse(time.RFC3339Nano, bs)
	if errA == nil && errB == nil {
		return at.Before(bt)
	}
	return as < bs
}

func matches(row map[string]any, pred entitystore.Predicate) bool {
	for field, want := range pred {
		got := row[field]

		if clause, ok := normalize(want).(map[string]any); ok {
			set, _ := clause["$in"].([]any)
			found := false
			for _, v := range set {
				if reflect.DeepEqual(v, got) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
			continue
		}

		if !reflect.DeepEqual(normalize(want), got) {
			return false
		}
	}
	return true
}

// normalize passes a value through JSON so predicate values compare
// against the JSON-shaped row values.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("storetest: marshal fields: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("storetest: fields must be an object: %w", err)
	}
	return m, nil
}

func decode[T any](m map[string]any) (*T, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("storetest: marshal record: %w", err)
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("storetest: decode record: %w", err)
	}
	return &out, nil
}

func decodeAll[T any](rows []map[string]any) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := decode[T](row)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}
