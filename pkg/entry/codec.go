// SPDX-License-Identifier: MPL-2.0

package entry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlIndent matches the two-space layout of hand-edited pack sources.
const yamlIndent = 2

// DecodeYAML parses one entry from a YAML source file.
func DecodeYAML(data []byte) (*Entry, error) {
	var e Entry
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("invalid YAML entry: %w", err)
	}
	return &e, nil
}

// EncodeYAML renders the entry as a YAML document ending in a newline.
func (e *Entry) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("failed to encode entry %q: %w", e.ID, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode entry %q: %w", e.ID, err)
	}
	return buf.Bytes(), nil
}

// Map converts the entry to its generic document form.
func (e *Entry) Map() (map[string]any, error) {
	data, err := yaml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to convert entry %q: %w", e.ID, err)
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert entry %q: %w", e.ID, err)
	}
	return doc, nil
}

// FromMap builds an entry from its generic document form.
func FromMap(doc map[string]any) (*Entry, error) {
	data, err := yaml.Marshal(Canonical(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}
	return DecodeYAML(data)
}

// MarshalJSON encodes the entry with its extra fields flattened in.
func (e *Entry) MarshalJSON() ([]byte, error) {
	doc, err := e.Map()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a JSON document, keeping unknown fields in Extra.
func (e *Entry) UnmarshalJSON(data []byte) error {
	doc, err := DecodeJSONDocument(data)
	if err != nil {
		return err
	}
	decoded, err := FromMap(doc)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}

// DecodeJSONDocument decodes a JSON object into a generic document whose
// numbers are int64 when integral and float64 otherwise.
func DecodeJSONDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	canonical, _ := Canonical(doc).(map[string]any)
	return canonical, nil
}

// Canonical rewrites json.Number values inside v to int64 or float64, in place
// where possible, and returns the result.
func Canonical(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, child := range x {
			x[k] = Canonical(child)
		}
		return x
	case []any:
		for i, child := range x {
			x[i] = Canonical(child)
		}
		return x
	default:
		return v
	}
}
