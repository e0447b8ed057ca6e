// Package constraint holds the field rules used by payload schemas.
package constraint

import (
	"errors"
	"fmt"
	"net/mail"
	"unicode/utf8"
)

var (
	ErrIntegerOverflow = errors.New("integer overflow")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrRequired        = errors.New("is required but not found")

	ErrLengthMin     = errors.New("length must be at least")
	ErrLengthMax     = errors.New("length must be at most")
	ErrLengthBetween = errors.New("length must be between")

	ErrNotValidEmail = errors.New("not valid email address")
)

func rule[T JSONType](name string, check Validator[T]) ValidateFunc[T] {
	return func() (string, Validator[T]) {
		return name, check
	}
}

// MinLength counts characters, not bytes.
func MinLength(min int) ValidateFunc[string] {
	return rule("min_length", func(s string) error {
		if utf8.RuneCountInString(s) < min {
			return fmt.Errorf("%w %d", ErrLengthMin, min)
		}
		return nil
	})
}

func MaxLength(max int) ValidateFunc[string] {
	return rule("max_length", func(s string) error {
		if utf8.RuneCountInString(s) > max {
			return fmt.Errorf("%w %d", ErrLengthMax, max)
		}
		return nil
	})
}

// LengthBetween accepts min..max characters inclusive.
func LengthBetween(min, max int) ValidateFunc[string] {
	return rule("length_between", func(s string) error {
		if n := utf8.RuneCountInString(s); n < min || n > max {
			return fmt.Errorf("%w %d and %d characters", ErrLengthBetween, min, max)
		}
		return nil
	})
}

// Email accepts RFC 5322 addresses, display names included.
func Email() ValidateFunc[string] {
	return rule("email", func(s string) error {
		if _, err := mail.ParseAddress(s); err != nil {
			return fmt.Errorf("%w: %s", ErrNotValidEmail, s)
		}
		return nil
	})
}
