package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		wantErr bool
	}{
		{"string", "greeting", false},
		{"empty string", "", false},
		{"symbol", NewSymbol("id"), false},
		{"nil", nil, true},
		{"nil symbol", (*Symbol)(nil), true},
		{"int", 7, true},
		{"struct", struct{}{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMemberKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSymbolIdentity(t *testing.T) {
	a := NewSymbol("token")
	b := NewSymbol("token")

	m := map[Key]int{a: 1, b: 2}

	assert.Len(t, m, 2)
	assert.Equal(t, "token", a.Description())
	assert.Equal(t, "Symbol(token)", FormatKey(a))
	assert.Equal(t, `"token"`, FormatKey("token"))
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []Kind{KindMethod, KindParams, KindResult, KindBefore, KindAfter}, CallableKinds())
	assert.True(t, IsCallableKind(KindResult))
	assert.False(t, IsCallableKind(KindGet))
	assert.NoError(t, Kind("custom").Validate())
	assert.ErrorIs(t, Kind("").Validate(), ErrInvalidKind)
}

func TestAsFunc(t *testing.T) {
	fn := func(args ...any) (any, error) { return len(args), nil }

	f, ok := AsFunc(fn)
	assert.True(t, ok)
	v, err := f(1, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, v)

	_, ok = AsFunc(Func(fn))
	assert.True(t, ok)

	_, ok = AsFunc("hello")
	assert.False(t, ok)

	_, ok = AsFunc(Func(nil))
	assert.False(t, ok)
}
