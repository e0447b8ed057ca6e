package clanadmin

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/kcmvp/clanadmin/constraint"
	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestTyped(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		check       func(res gjson.Result) (any, error)
		want        any
		expectedErr error
		anyErr      bool
	}{
		{
			name:  "int_ok",
			json:  `{"value": 123}`,
			check: func(r gjson.Result) (any, error) { return typed[int](r).Get() },
			want:  123,
		},
		{
			name:        "int_from_string_fail",
			json:        `{"value": "123"}`,
			check:       func(r gjson.Result) (any, error) { return typed[int](r).Get() },
			expectedErr: constraint.ErrTypeMismatch,
		},
		{
			name:        "int_overflow",
			json:        fmt.Sprintf(`{"value": %d1}`, math.MaxInt),
			check:       func(r gjson.Result) (any, error) { return typed[int](r).Get() },
			expectedErr: constraint.ErrIntegerOverflow,
		},
		{
			name:        "int8_overflow",
			json:        `{"value": 128}`,
			check:       func(r gjson.Result) (any, error) { return typed[int8](r).Get() },
			expectedErr: constraint.ErrIntegerOverflow,
		},
		{
			name:        "int_from_float_fail",
			json:        `{"value": 1.5}`,
			check:       func(r gjson.Result) (any, error) { return typed[int64](r).Get() },
			expectedErr: constraint.ErrTypeMismatch,
		},
		{
			name:        "uint_negative",
			json:        `{"value": -1}`,
			check:       func(r gjson.Result) (any, error) { return typed[uint](r).Get() },
			expectedErr: constraint.ErrIntegerOverflow,
		},
		{
			name:  "float_ok",
			json:  `{"value": 1234.46}`,
			check: func(r gjson.Result) (any, error) { return typed[float64](r).Get() },
			want:  1234.46,
		},
		{
			name:  "bool_ok",
			json:  `{"value": true}`,
			check: func(r gjson.Result) (any, error) { return typed[bool](r).Get() },
			want:  true,
		},
		{
			name:  "date_only",
			json:  `{"value": "2024-03-24"}`,
			check: func(r gjson.Result) (any, error) { return typed[time.Time](r).Get() },
			want:  time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "date_garbage",
			json:        `{"value": "March 24"}`,
			check:  func(r gjson.Result) (any, error) { return typed[time.Time](r).Get() },
			anyErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check(gjson.Get(tt.json, "value"))
			if tt.anyErr {
				require.Error(t, err)
				return
			}
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

var signIn = NewSchema(
	Field[string]("email", constraint.Email())(),
	Field[string]("password", constraint.MinLength(1))(),
)

func TestSchema_Check(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
		errText string
		fields  []string
	}{
		{
			name:   "valid",
			json:   `{"email":"nikita@proton.me","password":"secret"}`,
			fields: []string{"email", "password"},
		},
		{
			name:    "missing password",
			json:    `{"email":"nikita@proton.me"}`,
			wantErr: constraint.ErrRequired,
		},
		{
			name:    "bad email",
			json:    `{"email":"nikita","password":"secret"}`,
			wantErr: constraint.ErrNotValidEmail,
		},
		{
			name:    "wrong type",
			json:    `{"email":"nikita@proton.me","password":42}`,
			wantErr: constraint.ErrTypeMismatch,
		},
		{
			name:    "unknown field",
			json:    `{"email":"nikita@proton.me","password":"secret","role":"Owner"}`,
			errText: "unknown field 'role'",
		},
		{
			name:    "not an object",
			json:    `["nikita@proton.me"]`,
			wantErr: constraint.ErrTypeMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := signIn.Check(tt.json)
			if tt.errText != "" {
				require.True(t, rs.IsError())
				require.Contains(t, rs.Error().Error(), tt.errText)
				return
			}
			if tt.wantErr != nil {
				require.True(t, rs.IsError())
				require.True(t, errors.Is(rs.Error(), tt.wantErr), rs.Error().Error())
				return
			}
			require.True(t, rs.IsOk())
			require.Equal(t, tt.fields, rs.MustGet().Fields())
		})
	}
}

func TestSchema_OptionalAndUnknown(t *testing.T) {
	schema := NewSchema(
		Field[string]("email", constraint.Email())(),
		Field[string]("name")().Optional(),
		Field[string]("code", constraint.LengthBetween(3, 12))().Optional(),
	).AllowUnknownFields()

	rs := schema.Check(`{"email":"emily@gmail.com","extra":1}`)
	require.True(t, rs.IsOk())
	obj := rs.MustGet()
	require.Equal(t, mo.Some("emily@gmail.com"), obj.String("email"))
	require.Equal(t, mo.None[string](), obj.String("name"))
	require.Equal(t, mo.None[string](), obj.String("code"))

	rs = schema.Check(`{"email":"emily@gmail.com","code":"ab"}`)
	require.True(t, rs.IsError())
	require.ErrorIs(t, rs.Error(), constraint.ErrLengthBetween)
}

func TestSchema_DuplicatesPanic(t *testing.T) {
	require.Panics(t, func() {
		NewSchema(Field[string]("email")(), Field[string]("email")())
	})
	require.Panics(t, func() {
		Field[string]("email", constraint.Email())(constraint.Email())
	})
}

func TestObject_WrongTypePanics(t *testing.T) {
	obj := Object{"value": "x"}
	require.Panics(t, func() { obj.Int("value") })
}
