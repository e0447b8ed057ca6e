package gateway

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Response is either Data (2xx) or Error (anything else), never both.
type Response struct {
	Status int
	Data   []byte
	Error  string
}

// OK reports whether the call succeeded at the application level.
func (r Response) OK() bool {
	return r.Error == ""
}

// Err converts an application failure into an *APIError.
func (r Response) Err() error {
	if r.OK() {
		return nil
	}
	return &APIError{Status: r.Status, Message: r.Error}
}

// Decode unmarshals Data into v.
func (r Response) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return nil
}

// APIError is a failure reported by the API itself.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// As decodes the result of Client.Request into T, folding every failure into one error.
//
//	user, err := gateway.As[entity.User](c.Request(ctx, "/admin/me", gateway.Options{}))
func As[T any](resp Response, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if err = resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
