package journal

import (
	"encoding/json"
	"fmt"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// marshalData serializes an event payload to canonical JSON TEXT.
// Canonical form keeps the journal byte-deterministic for identical
// runs, which is what makes journal diffs meaningful.
func marshalData(data map[string]any) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	b, err := yard.MarshalCanonical(data)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}
	return string(b), nil
}

// unmarshalData parses journaled payload TEXT back into a map.
func unmarshalData(text string) (map[string]any, error) {
	if text == "" {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	return data, nil
}
