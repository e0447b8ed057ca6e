package constraint

import "time"

type Number interface {
	int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// JSONType is the set of Go types a payload field may decode to.
type JSONType interface {
	Number | string | time.Time | bool
}

// Validator checks a decoded value.
type Validator[T JSONType] func(v T) error

// ValidateFunc produces a named Validator. The name keeps a field from carrying the same rule twice.
type ValidateFunc[T JSONType] func() (string, Validator[T])
