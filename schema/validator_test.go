package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSchema() *Schema {
	return &Schema{
		Name: "User",
		Properties: map[string]*Property{
			"name":    {Type: TypeString, MinLength: Int(2), MaxLength: Int(10)},
			"email":   {Type: TypeString, Format: "email"},
			"age":     {Type: TypeInteger, Minimum: Float(0), Maximum: Float(150)},
			"role":    {Type: TypeString, Enum: []any{"admin", "user"}},
			"code":    {Type: TypeString, Pattern: `^[A-Z]{3}$`},
			"tags":    {Type: TypeArray, Items: &Property{Type: TypeString, MinLength: Int(1)}},
			"level":   {Type: TypeNumber, Enum: []any{1.0, 2.0}},
			"address": {Type: TypeObject, Required: []string{"city"}, Properties: map[string]*Property{"zip": {Type: TypeString, Pattern: `^\d{5}$`}}},
		},
		Required: []string{"name"},
	}
}

func TestValidateMember(t *testing.T) {
	v, err := NewValidator(userSchema())
	require.NoError(t, err)

	tests := []struct {
		name  string
		field string
		value any
		code  string
	}{
		{"valid name", "name", "ada", ""},
		{"short name", "name", "a", CodeMinLength},
		{"long name", "name", "abcdefghijk", CodeMaxLength},
		{"required name", "name", nil, CodeRequired},
		{"name type", "name", 42, CodeTypeMismatch},
		{"valid email", "email", "ada@example.com", ""},
		{"bad email", "email", "ada@", CodeFormat},
		{"optional nil", "email", nil, ""},
		{"valid age", "age", 36, ""},
		{"float integral age", "age", 36.0, ""},
		{"fractional age", "age", 36.5, CodeTypeMismatch},
		{"negative age", "age", -1, CodeMinimum},
		{"old age", "age", uint16(200), CodeMaximum},
		{"valid role", "role", "admin", ""},
		{"bad role", "role", "root", CodeEnum},
		{"valid code", "code", "ABC", ""},
		{"bad code", "code", "abc", CodePattern},
		{"valid tags", "tags", []string{"a", "b"}, ""},
		{"empty tag", "tags", []any{"a", ""}, CodeMinLength},
		{"numeric enum", "level", 2, ""},
		{"numeric enum miss", "level", 3, CodeEnum},
		{"valid address", "address", map[string]any{"city": "Oslo", "zip": "01234"}, ""},
		{"missing city", "address", map[string]any{"zip": "01234"}, CodeRequired},
		{"bad zip", "address", map[string]any{"city": "Oslo", "zip": "x"}, CodePattern},
		{"undeclared", "nickname", 12, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateMember(tt.field, tt.value)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			var sErr *Error
			require.ErrorAs(t, err, &sErr)
			assert.True(t, sErr.Has(tt.code), "violations: %v", sErr.Violations)
		})
	}
}

func TestViolationPaths(t *testing.T) {
	v, err := NewValidator(userSchema())
	require.NoError(t, err)

	err = v.ValidateMember("tags", []any{"ok", ""})
	var sErr *Error
	require.ErrorAs(t, err, &sErr)
	require.Len(t, sErr.Violations, 1)
	assert.Equal(t, "tags[1]", sErr.Violations[0].Field)
	assert.Equal(t, "field 'tags[1]': string length 0 is less than minimum 1", err.Error())

	err = v.ValidateMember("address", map[string]any{"zip": "x"})
	require.ErrorAs(t, err, &sErr)
	require.Len(t, sErr.Violations, 2)
	assert.Equal(t, "address.city", sErr.Violations[0].Field)
	assert.Equal(t, "address.zip", sErr.Violations[1].Field)
}

func TestFormats(t *testing.T) {
	tests := []struct {
		format string
		valid  string
		bad    string
	}{
		{"uri", "https://example.com/x", "example.com"},
		{"uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "not-a-uuid"},
		{"date", "2024-02-29", "2023-02-29"},
		{"date-time", "2024-02-29T12:30:00Z", "2024-02-29 12:30"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Empty(t, checkFormat(tt.valid, tt.format))
			assert.NotEmpty(t, checkFormat(tt.bad, tt.format))
		})
	}
	assert.Empty(t, checkFormat("anything", "unknown"))
}

func TestNewValidatorErrors(t *testing.T) {
	_, err := NewValidator(nil)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = NewValidator(&Schema{Properties: map[string]*Property{"x": {Pattern: "("}}})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = NewValidator(&Schema{Properties: map[string]*Property{"x": {Type: "decimal"}}})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = NewValidator(&Schema{Properties: map[string]*Property{"x": {Items: &Property{Pattern: "["}}}})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = NewValidator(&Schema{Properties: map[string]*Property{"x": nil}})
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`{
		"name": "User",
		"properties": {
			"name": {"type": "string", "minLength": 2},
			"level": {"type": "integer", "enum": [1, 2]}
		},
		"required": ["name"]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"level", "name"}, s.Keys())
	assert.True(t, s.IsRequired("name"))
	assert.False(t, s.IsRequired("level"))

	v, err := NewValidator(s)
	require.NoError(t, err)
	assert.NoError(t, v.ValidateMember("level", 1))
	assert.Error(t, v.ValidateMember("level", 3))
	assert.Error(t, v.ValidateMember("name", "a"))

	_, err = Parse([]byte(`{`))
	assert.Error(t, err)
}
