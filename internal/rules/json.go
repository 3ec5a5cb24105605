package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ParseJSON reads a rule object of the form {"Images": [".jpg", ".png"], ...}.
// Object key order is significant and is preserved in the returned slice.
// A repeated key keeps its first position but takes the last value.
func ParseJSON(r io.Reader) ([]Rule, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("read rules: expected a JSON object of category to extension list")
	}

	var out []Rule
	positions := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read rules: %w", err)
		}
		category, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("read rules: unexpected token %v", keyTok)
		}
		var exts []string
		if err := dec.Decode(&exts); err != nil {
			return nil, fmt.Errorf("read rules: category %q: %w", category, err)
		}
		if pos, dup := positions[category]; dup {
			out[pos].Extensions = exts
			continue
		}
		positions[category] = len(out)
		out = append(out, Rule{Category: category, Extensions: exts})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return out, nil
}
