package admin

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/kcmvp/clanadmin"
	"github.com/kcmvp/clanadmin/constraint"
)

// ErrInvalidInput wraps a request body rejected before it was sent.
var ErrInvalidInput = errors.New("admin: invalid input")

// SignInSchema is the body of POST /admin/sign-in.
var SignInSchema = clanadmin.NewSchema(
	clanadmin.Field[string]("email", constraint.Email())(),
	clanadmin.Field[string]("password", constraint.MinLength(1))(),
)

// CreateUserSchema is the body of POST /admin/users.
var CreateUserSchema = clanadmin.NewSchema(
	clanadmin.Field[string]("email", constraint.Email())(),
	clanadmin.Field[string]("password", constraint.MinLength(8), constraint.MaxLength(72))(),
	clanadmin.Field[string]("name", constraint.LengthBetween(1, 100))().Optional(),
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type NewUser struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

// encode marshals v and checks it against schema.
func encode(schema *clanadmin.Schema, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if rs := schema.Check(string(body)); rs.IsError() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, rs.Error())
	}
	return body, nil
}
