package query

import (
	"encoding/json"
	"fmt"
)

// Project applies p to serialized items. The id key always survives.
// With an empty projection the items are returned as they are.
func Project[T any](items []T, p Projection) (any, error) {
	if p.IsZero() {
		return items, nil
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("project: marshal item: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("project: item is not an object: %w", err)
		}
		out = append(out, projectDoc(doc, p))
	}
	return out, nil
}

func projectDoc(doc map[string]any, p Projection) map[string]any {
	if len(p.Include) > 0 {
		kept := map[string]any{}
		if id, ok := doc["id"]; ok {
			kept["id"] = id
		}
		for _, key := range p.Include {
			if v, ok := doc[key]; ok {
				kept[key] = v
			}
		}
		return kept
	}
	for _, key := range p.Exclude {
		if key == "id" {
			continue
		}
		delete(doc, key)
	}
	return doc
}
