package config

import (
	"fmt"
	"reflect"
)

// Holder is implemented by values that carry their payload behind a
// type-erased indirection. Extract and Decode look through a Holder once.
type Holder interface {
	Held() any
}

// Hold wraps v in a Holder.
func Hold(v any) Holder {
	return held{v: v}
}

type held struct{ v any }

func (h held) Held() any { return h.v }

// Extract returns the value stored under name as a T.
//
// Resolution order:
//  1. the stored value is a T;
//  2. the stored value is a Holder whose payload is a T;
//  3. the (held) value is a non-nil *T, which is dereferenced once.
//
// Any other case yields an *ExtractionError.
func Extract[T any](b Bundle, name string) (T, error) {
	var zero T
	raw, ok := b.Lookup(name)
	if !ok {
		return zero, &ExtractionError{Field: name, Want: typeName[T](), Err: ErrMissingField}
	}
	if v, ok := resolve[T](raw); ok {
		return v, nil
	}
	return zero, &ExtractionError{
		Field: name,
		Want:  typeName[T](),
		Got:   fmt.Sprintf("%T", raw),
		Err:   ErrTypeMismatch,
	}
}

func resolve[T any](raw any) (T, bool) {
	if v, ok := raw.(T); ok {
		return v, true
	}
	if h, ok := raw.(Holder); ok {
		raw = h.Held()
		if v, ok := raw.(T); ok {
			return v, true
		}
	}
	if p, ok := raw.(*T); ok && p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// unwrap applies the Holder and reference steps of Extract without a
// static target type. It returns the value to assign to a field of type t.
func unwrap(raw any, t reflect.Type) any {
	if h, ok := raw.(Holder); ok && !reflect.TypeOf(raw).AssignableTo(t) {
		raw = h.Held()
	}
	rv := reflect.ValueOf(raw)
	if rv.IsValid() && rv.Kind() == reflect.Pointer && !rv.IsNil() &&
		!rv.Type().AssignableTo(t) && rv.Elem().Type().AssignableTo(t) {
		return rv.Elem().Interface()
	}
	return raw
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
