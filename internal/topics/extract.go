package topics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Slots is the fixed number of labels per classification.
const Slots = 3

// Result holds the three chosen subcategories (most relevant first) and the
// main categories they resolve to. Unfilled slots are empty strings.
type Result struct {
	Subcategories  [Slots]string `json:"subcategories"`
	MainCategories [Slots]string `json:"main_categories"`
}

// ParseError reports a reply that could not be read as a classification.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification parse: %s: %v", e.Reason, e.Err)
	}
	return "classification parse: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract reads a classification from free-form model text.
//
// The span from the first '{' to the last '}' must decode as a JSON object.
// Its "subcategories" value (empty unless an array) is turned into trimmed
// labels: strings as-is, other scalars as their JSON literal, null dropped,
// empties dropped. A null carries no label, so it does not hold a slot and
// later labels move up. The list is cut or padded to three slots without
// deduplication and each label is resolved through catalog.
func Extract(text string, catalog *Catalog) (Result, error) {
	var result Result

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end < start {
		return result, &ParseError{Reason: "no JSON object found"}
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &root); err != nil {
		return result, &ParseError{Reason: "invalid JSON object", Err: err}
	}
	if root == nil {
		return result, &ParseError{Reason: "root is not an object"}
	}

	labels := labelsFrom(root["subcategories"])
	for i := 0; i < Slots && i < len(labels); i++ {
		result.Subcategories[i] = labels[i]
		result.MainCategories[i] = catalog.Main(labels[i])
	}
	return result, nil
}

func labelsFrom(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	labels := make([]string, 0, len(items))
	for _, item := range items {
		if label := strings.TrimSpace(scalarText(item)); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func scalarText(item json.RawMessage) string {
	trimmed := bytes.TrimSpace(item)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err != nil {
			return string(trimmed)
		}
		return compact.String()
	}
}
