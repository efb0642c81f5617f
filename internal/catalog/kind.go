package catalog

import (
	"encoding/json"
	"fmt"
)

// BlockKind describes one draggable block type loaded from the catalog.
// It is immutable once loaded.
type BlockKind struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	ClassNames string                 `json:"classNames"`
	Style      map[string]interface{} `json:"style,omitempty"`
}

// Parse decodes a JSON array of block kinds. Entries without an id are
// skipped and a repeated id replaces the earlier entry in place; each such
// entry is reported in warnings. Only a document that does not decode is an
// error.
func Parse(data []byte) (kinds []BlockKind, warnings []string, err error) {
	var raw []BlockKind
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode catalog: %w", err)
	}
	kinds = make([]BlockKind, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, k := range raw {
		if k.ID == "" {
			warnings = append(warnings, fmt.Sprintf("kinds[%d]: no id, skipped", i))
			continue
		}
		if at, ok := seen[k.ID]; ok {
			warnings = append(warnings, fmt.Sprintf("kinds[%d]: id %q repeated, replaces the earlier entry", i, k.ID))
			kinds[at] = k
			continue
		}
		seen[k.ID] = len(kinds)
		kinds = append(kinds, k)
	}
	return kinds, warnings, nil
}
