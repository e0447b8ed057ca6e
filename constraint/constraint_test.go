package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLength(t *testing.T) {
	tests := []struct {
		name    string
		fn      ValidateFunc[string]
		str     string
		wantErr error
	}{
		{"min too short", MinLength(8), "secret", ErrLengthMin},
		{"min exact", MinLength(8), "secret12", nil},
		{"min counts runes", MinLength(4), "Ūla", ErrLengthMin},
		{"empty below min", MinLength(1), "", ErrLengthMin},
		{"max too long", MaxLength(3), "abcd", ErrLengthMax},
		{"max counts runes", MaxLength(3), "Ūla", nil},
		{"between below", LengthBetween(2, 4), "a", ErrLengthBetween},
		{"between inside", LengthBetween(2, 4), "abc", nil},
		{"between above", LengthBetween(2, 4), "abcde", ErrLengthBetween},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, v := tt.fn()
			err := v(tt.str)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEmail(t *testing.T) {
	_, v := Email()()
	assert.NoError(t, v("admin@clan.dev"))
	assert.NoError(t, v("Ada Admin <admin@clan.dev>"))
	assert.ErrorIs(t, v("not-an-email"), ErrNotValidEmail)
	assert.ErrorIs(t, v(""), ErrNotValidEmail)
}
