package rules

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
)

// FactsFromJSON extracts the array at path within doc and decodes each
// element into T, for callers whose initial facts arrive as a JSON
// document rather than already-constructed Go values. Each element is
// decoded via mapstructure from gjson's generic map/slice representation,
// so T's fields should use the same names (or `mapstructure` tags) as the
// JSON keys.
func FactsFromJSON[T any](doc []byte, path string) ([]T, error) {
	result := gjson.GetBytes(doc, path)
	if !result.Exists() {
		return nil, fmt.Errorf("rules: json path %q not found", path)
	}
	if !result.IsArray() {
		var single T
		if err := mapstructure.Decode(result.Value(), &single); err != nil {
			return nil, fmt.Errorf("rules: decoding %q: %w", path, err)
		}
		return []T{single}, nil
	}

	var out []T
	var decodeErr error
	result.ForEach(func(_, value gjson.Result) bool {
		var fact T
		if err := mapstructure.Decode(value.Value(), &fact); err != nil {
			decodeErr = fmt.Errorf("rules: decoding element of %q: %w", path, err)
			return false
		}
		out = append(out, fact)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}
