package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("ProtectedTypeError", func(t *testing.T) {
		err := &ProtectedTypeError{Op: "register"}

		assert.Contains(t, err.Error(), "register")
		assert.Contains(t, err.Error(), "Hookable")
		assert.ErrorIs(t, err, ErrProtectedType)
	})

	t.Run("InvalidMemberKeyError", func(t *testing.T) {
		err := &InvalidMemberKeyError{Key: 3.5}

		assert.Contains(t, err.Error(), "float64")
		assert.ErrorIs(t, err, ErrInvalidMemberKey)
	})

	t.Run("MemberNotFoundError", func(t *testing.T) {
		assert.Equal(t, `hookable: User has no member "age"`, (&MemberNotFoundError{Target: "User", Key: "age"}).Error())
		assert.Equal(t, `hookable: no member "age"`, (&MemberNotFoundError{Key: "age"}).Error())
		assert.ErrorIs(t, &MemberNotFoundError{Key: "age"}, ErrMemberNotFound)
	})
}
