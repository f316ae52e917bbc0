package entitystore

// Predicate matches records by field value. A scalar value matches by
// equality; In produces a set-membership clause.
type Predicate map[string]any

// Where builds a single-field equality predicate.
func Where(field string, value any) Predicate {
	return Predicate{field: value}
}

// In builds a set-membership clause for use as a predicate value:
//
//	Predicate{"task_id": In(taskIDs)}
func In[T any](values []T) map[string]any {
	return map[string]any{"$in": values}
}
