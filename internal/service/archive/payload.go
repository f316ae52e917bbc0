package archive

import (
	"encoding/json"
	"fmt"
)

// recordFields converts an archived record into a create payload: the old
// identifier and store timestamps are stripped (the store assigns fresh
// ones), created_by stays as ordinary data to preserve original
// ownership, and drop removes foreign keys the caller is about to relink.
func recordFields(v any, drop ...string) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}

	delete(m, "id")
	delete(m, "created_date")
	delete(m, "updated_date")
	for _, k := range drop {
		delete(m, k)
	}
	return m, nil
}
