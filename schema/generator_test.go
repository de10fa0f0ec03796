package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name     string    `hookable:"required,minLength=2,maxLength=20"`
	Email    string    `hookable:"format=email"`
	Age      int       `hookable:"minimum=0,maximum=150"`
	Score    float64   `hookable:"enum=1.5|2.5"`
	Role     string    `hookable:"enum=admin|user"`
	Active   bool
	Count    uint
	Tags     []string  `hookable:"maxLength=5"`
	Joined   time.Time `hookable:"format=date-time"`
	Internal string    `hookable:"-"`
	hidden   string
}

func TestFromStruct(t *testing.T) {
	s, err := FromStruct(&profile{})
	require.NoError(t, err)

	assert.Equal(t, "profile", s.Name)
	assert.Equal(t, []string{"Name"}, s.Required)
	assert.Equal(t,
		[]string{"Active", "Age", "Count", "Email", "Joined", "Name", "Role", "Score", "Tags"},
		s.Keys())

	name := s.Properties["Name"]
	assert.Equal(t, TypeString, name.Type)
	assert.Equal(t, 2, *name.MinLength)
	assert.Equal(t, 20, *name.MaxLength)

	assert.Equal(t, "email", s.Properties["Email"].Format)
	assert.Equal(t, 150.0, *s.Properties["Age"].Maximum)
	assert.Equal(t, []any{1.5, 2.5}, s.Properties["Score"].Enum)
	assert.Equal(t, []any{"admin", "user"}, s.Properties["Role"].Enum)
	assert.Equal(t, TypeBoolean, s.Properties["Active"].Type)
	assert.Equal(t, 0.0, *s.Properties["Count"].Minimum)
	assert.Equal(t, TypeArray, s.Properties["Tags"].Type)
	assert.Equal(t, TypeString, s.Properties["Tags"].Items.Type)
	assert.Empty(t, s.Properties["Joined"].Type)

	v, err := NewValidator(s)
	require.NoError(t, err)
	assert.NoError(t, v.ValidateMember("Role", "user"))
	assert.Error(t, v.ValidateMember("Role", "root"))
	assert.Error(t, v.ValidateMember("Age", 200))
	assert.NoError(t, v.ValidateMember("Score", 2.5))
}

func TestFromStructErrors(t *testing.T) {
	_, err := FromStruct(42)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = FromStruct(nil)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	type badRule struct {
		X string `hookable:"shiny"`
	}
	_, err = FromStruct(badRule{})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	type badNumber struct {
		X string `hookable:"minLength=two"`
	}
	_, err = FromStruct(badNumber{})
	assert.ErrorIs(t, err, ErrInvalidSchema)
}
