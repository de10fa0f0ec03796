package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Property types
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema declares the rules for the members of one owning type
type Schema struct {
	Name       string               `json:"name,omitempty"`
	Properties map[string]*Property `json:"properties,omitempty"`
	Required   []string             `json:"required,omitempty"`
}

// Property declares the rules for one value
type Property struct {
	Type        string               `json:"type,omitempty"`
	Format      string               `json:"format,omitempty"`
	Pattern     string               `json:"pattern,omitempty"`
	MinLength   *int                 `json:"minLength,omitempty"`
	MaxLength   *int                 `json:"maxLength,omitempty"`
	Minimum     *float64             `json:"minimum,omitempty"`
	Maximum     *float64             `json:"maximum,omitempty"`
	Enum        []any                `json:"enum,omitempty"`
	Description string               `json:"description,omitempty"`
	Items       *Property            `json:"items,omitempty"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

// Parse decodes a schema from JSON
func Parse(raw []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return &s, nil
}

// Keys returns the declared member names in sorted order
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsRequired reports whether name may not be written as nil
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Int returns a pointer to n, for MinLength and MaxLength
func Int(n int) *int {
	return &n
}

// Float returns a pointer to f, for Minimum and Maximum
func Float(f float64) *float64 {
	return &f
}
