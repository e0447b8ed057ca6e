// Package clanadmin holds the payload schemas shared by the admin client and the mock API.
//
// A Schema is a blueprint for a JSON object: each Field names a key, a Go type
// and a list of validators. Check walks the raw JSON with gjson, so a payload
// can be validated without decoding it into a struct first.
package clanadmin

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/kcmvp/clanadmin/constraint"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

// validationError holds at most one error per field.
type validationError struct {
	errors map[string]error
}

func (e *validationError) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	names := lo.Keys(e.errors)
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("validation failed:")
	for _, name := range names {
		b.WriteString(fmt.Sprintf(" %s;", e.errors[name].Error()))
	}
	return strings.TrimSuffix(b.String(), ";")
}

// Unwrap exposes the per-field errors to errors.Is.
func (e *validationError) Unwrap() []error {
	return lo.Values(e.errors)
}

func (e *validationError) add(field string, err error) {
	if err == nil {
		return
	}
	if e.errors == nil {
		e.errors = make(map[string]error)
	}
	e.errors[field] = err
}

func (e *validationError) err() error {
	if e == nil || len(e.errors) == 0 {
		return nil
	}
	return e
}

// schemaField lets a Schema hold fields of different generic types.
type schemaField interface {
	Name() string
	check(json string) (value any, found bool, err error)
}

// FieldSpec is a typed field of a Schema.
type FieldSpec[T constraint.JSONType] struct {
	name       string
	required   bool
	validators []constraint.Validator[T]
}

var _ schemaField = (*FieldSpec[string])(nil)

func (f *FieldSpec[T]) Name() string {
	return f.name
}

// Optional marks the field as allowed to be absent.
func (f *FieldSpec[T]) Optional() *FieldSpec[T] {
	f.required = false
	return f
}

func (f *FieldSpec[T]) check(json string) (any, bool, error) {
	rs, found := f.Validate(json)
	if rs.IsError() {
		return nil, found, rs.Error()
	}
	if !found {
		return nil, false, nil
	}
	return rs.MustGet(), true, nil
}

// Validate extracts the field from json and runs its validators. The boolean
// reports whether the key was present.
func (f *FieldSpec[T]) Validate(json string) (mo.Result[T], bool) {
	res := gjson.Get(json, f.name)
	if !res.Exists() {
		if f.required {
			return mo.Err[T](fmt.Errorf("%s %w", f.name, constraint.ErrRequired)), false
		}
		return mo.Ok(*new(T)), false
	}
	typedVal := typed[T](res)
	if typedVal.IsError() {
		return mo.Err[T](fmt.Errorf("field '%s': %w", f.name, typedVal.Error())), true
	}
	val := typedVal.MustGet()
	for _, v := range f.validators {
		if err := v(val); err != nil {
			return mo.Err[T](fmt.Errorf("field '%s': %w", f.name, err)), true
		}
	}
	return mo.Ok(val), true
}

func overflowError[T any](v T) error {
	return fmt.Errorf("for type %T: %w", v, constraint.ErrIntegerOverflow)
}

// typed converts a gjson.Result into T, refusing lossy conversions.
func typed[T constraint.JSONType](res gjson.Result) mo.Result[T] {
	var zero T
	targetType := reflect.TypeOf(zero)

	switch targetType.Kind() {
	case reflect.String:
		if res.Type == gjson.String {
			return mo.Ok(any(res.String()).(T))
		}
	case reflect.Bool:
		if res.Type == gjson.True || res.Type == gjson.False {
			return mo.Ok(any(res.Bool()).(T))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if res.Type != gjson.Number {
			break
		}
		bf, _, err := new(big.Float).Parse(res.Raw, 10)
		if err != nil {
			return mo.Err[T](fmt.Errorf("could not parse number: %w", err))
		}
		if !bf.IsInt() {
			return mo.Err[T](fmt.Errorf("%w: cannot assign float value %s to integer type", constraint.ErrTypeMismatch, res.Raw))
		}
		bi, _ := bf.Int(nil)
		if !bi.IsInt64() {
			return mo.Err[T](overflowError(zero))
		}
		val := bi.Int64()
		if reflect.New(targetType).Elem().OverflowInt(val) {
			return mo.Err[T](overflowError(zero))
		}
		return mo.Ok(reflect.ValueOf(val).Convert(targetType).Interface().(T))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if res.Type != gjson.Number {
			break
		}
		bf, _, err := new(big.Float).Parse(res.Raw, 10)
		if err != nil {
			return mo.Err[T](fmt.Errorf("could not parse number: %w", err))
		}
		if bf.Sign() < 0 {
			return mo.Err[T](overflowError(zero))
		}
		if !bf.IsInt() {
			return mo.Err[T](fmt.Errorf("%w: cannot assign float value %s to unsigned integer type", constraint.ErrTypeMismatch, res.Raw))
		}
		bi, _ := bf.Int(nil)
		if !bi.IsUint64() {
			return mo.Err[T](overflowError(zero))
		}
		val := bi.Uint64()
		if reflect.New(targetType).Elem().OverflowUint(val) {
			return mo.Err[T](overflowError(zero))
		}
		return mo.Ok(reflect.ValueOf(val).Convert(targetType).Interface().(T))
	case reflect.Float32, reflect.Float64:
		if res.Type != gjson.Number {
			break
		}
		val := res.Float()
		if reflect.New(targetType).Elem().OverflowFloat(val) {
			return mo.Err[T](fmt.Errorf("value %f overflows type %T", val, zero))
		}
		return mo.Ok(reflect.ValueOf(val).Convert(targetType).Interface().(T))
	case reflect.Struct:
		if targetType == reflect.TypeOf(time.Time{}) && res.Type == gjson.String {
			layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
			for _, layout := range layouts {
				if t, err := time.Parse(layout, res.String()); err == nil {
					return mo.Ok(any(t).(T))
				}
			}
			return mo.Err[T](fmt.Errorf("incorrect date format for string '%s'", res.String()))
		}
	}
	return mo.Err[T](fmt.Errorf("%w: expected %T but got JSON type %s", constraint.ErrTypeMismatch, zero, res.Type))
}

// FieldFactory builds a FieldSpec; extra validators may be appended at the call site.
type FieldFactory[T constraint.JSONType] func(...constraint.ValidateFunc[T]) *FieldSpec[T]

// Field declares a required field named name. Fields are required unless Optional is called.
//
//	Field[string]("email", constraint.Email())()
func Field[T constraint.JSONType](name string, vfs ...constraint.ValidateFunc[T]) FieldFactory[T] {
	return func(fs ...constraint.ValidateFunc[T]) *FieldSpec[T] {
		names := make(map[string]struct{})
		var validators []constraint.Validator[T]
		for _, vf := range append(vfs, fs...) {
			n, v := vf()
			if _, exists := names[n]; exists {
				panic(fmt.Sprintf("clanadmin: duplicate validator '%s' for field '%s'", n, name))
			}
			names[n] = struct{}{}
			validators = append(validators, v)
		}
		return &FieldSpec[T]{name: name, validators: validators, required: true}
	}
}

// Schema validates a JSON object against a fixed set of fields.
type Schema struct {
	fields             []schemaField
	allowUnknownFields bool
}

// NewSchema panics when two fields share a name.
func NewSchema(fields ...schemaField) *Schema {
	names := make(map[string]struct{})
	for _, f := range fields {
		if _, exists := names[f.Name()]; exists {
			panic(fmt.Sprintf("clanadmin: duplicate field name '%s' in schema", f.Name()))
		}
		names[f.Name()] = struct{}{}
	}
	return &Schema{fields: fields}
}

// AllowUnknownFields makes Check accept keys the schema does not declare.
func (s *Schema) AllowUnknownFields() *Schema {
	s.allowUnknownFields = true
	return s
}

// Check validates json and returns the typed values of the fields that were present.
func (s *Schema) Check(json string) mo.Result[Object] {
	errs := &validationError{}
	if !gjson.Valid(json) || !gjson.Parse(json).IsObject() {
		errs.add("$", fmt.Errorf("%w: payload is not a JSON object", constraint.ErrTypeMismatch))
		return mo.Err[Object](errs)
	}
	if !s.allowUnknownFields {
		known := lo.SliceToMap(s.fields, func(f schemaField) (string, struct{}) {
			return f.Name(), struct{}{}
		})
		gjson.Parse(json).ForEach(func(key, _ gjson.Result) bool {
			if _, ok := known[key.String()]; !ok {
				errs.add(key.String(), fmt.Errorf("unknown field '%s'", key.String()))
			}
			return true
		})
	}
	object := Object{}
	for _, field := range s.fields {
		v, found, err := field.check(json)
		if err != nil {
			errs.add(field.Name(), err)
			continue
		}
		if found {
			object[field.Name()] = v
		}
	}
	if err := errs.err(); err != nil {
		return mo.Err[Object](err)
	}
	return mo.Ok(object)
}

// Object is a validated payload keyed by field name.
type Object map[string]any

func get[T any](o Object, name string) mo.Option[T] {
	value, ok := o[name]
	if !ok {
		return mo.None[T]()
	}
	typedValue, ok := value.(T)
	if !ok {
		panic(fmt.Sprintf("clanadmin: field '%s' has wrong type: expected %T, got %T", name, *new(T), value))
	}
	return mo.Some(typedValue)
}

// String panics if the field exists with another type; so do the other getters.
func (o Object) String(name string) mo.Option[string] {
	return get[string](o, name)
}

func (o Object) Int(name string) mo.Option[int] {
	return get[int](o, name)
}

func (o Object) Int64(name string) mo.Option[int64] {
	return get[int64](o, name)
}

func (o Object) Float64(name string) mo.Option[float64] {
	return get[float64](o, name)
}

func (o Object) Bool(name string) mo.Option[bool] {
	return get[bool](o, name)
}

func (o Object) Time(name string) mo.Option[time.Time] {
	return get[time.Time](o, name)
}

// Fields returns the names present in the object, sorted.
func (o Object) Fields() []string {
	names := lo.Keys(o)
	sort.Strings(names)
	return names
}
