package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag read by Decode.
const TagName = "param"

// Decode fills the struct pointed to by dst from the bundle.
//
// Each exported field tagged `param:"name"` is required unless the tag
// carries the "optional" flag (`param:"name,optional"`), in which case the
// field keeps its current value when the key is absent. Untagged embedded
// structs are decoded recursively; other untagged fields are ignored.
//
// Values that are directly assignable to the field, after looking through a
// Holder or a pointer, are assigned as-is so slices and maps keep aliasing the
// caller's storage. Everything else is converted with mapstructure; lossy
// float-to-int conversions are rejected.
func Decode(b Bundle, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode: destination must be a non-nil pointer to struct, got %T", dst)
	}
	return decodeStruct(b, rv.Elem())
}

func decodeStruct(b Bundle, sv reflect.Value) error {
	st := sv.Type()
	for i := range st.NumField() {
		f := st.Field(i)
		tag, hasTag := f.Tag.Lookup(TagName)
		if f.Anonymous && !hasTag && f.Type.Kind() == reflect.Struct {
			if err := decodeStruct(b, sv.Field(i)); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() || !hasTag || tag == "-" {
			continue
		}

		name, optional := parseTag(tag)
		raw, ok := b.Lookup(name)
		if !ok || raw == nil {
			if optional {
				continue
			}
			return &ExtractionError{Field: name, Want: f.Type.String(), Err: ErrMissingField}
		}
		if err := assign(name, raw, sv.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func parseTag(tag string) (name string, optional bool) {
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "optional" {
			optional = true
		}
	}
	return parts[0], optional
}

func assign(name string, raw any, dst reflect.Value) error {
	val := unwrap(raw, dst.Type())
	if rv := reflect.ValueOf(val); rv.IsValid() && rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  dst.Addr().Interface(),
		TagName: TagName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			holderHook,
			floatStringHook,
			integralHook,
		),
	})
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	if err := dec.Decode(val); err != nil {
		return &ExtractionError{
			Field: name,
			Want:  dst.Type().String(),
			Got:   fmt.Sprintf("%T", raw),
			Err:   fmt.Errorf("%w: %v", ErrTypeMismatch, err),
		}
	}
	return nil
}

// holderHook looks through Holder values nested inside slices and maps.
func holderHook(_ reflect.Type, _ reflect.Type, data any) (any, error) {
	if h, ok := data.(Holder); ok {
		return h.Held(), nil
	}
	return data, nil
}

// floatStringHook converts "inf"-style strings to floats.
func floatStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Float32, reflect.Float64:
		if f, ok := parseFloat(data.(string)); ok {
			return f, nil
		}
	}
	return data, nil
}

var errLossyInt = errors.New("float value has a fractional part")

// integralHook rejects float inputs that do not represent an integer when
// the target is an integer type.
func integralHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	var f float64
	switch from.Kind() {
	case reflect.Float64:
		f = reflect.ValueOf(data).Float()
	case reflect.Float32:
		f = reflect.ValueOf(data).Float()
	default:
		return data, nil
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %v", errLossyInt, f)
	}
	return data, nil
}

// parseFloat parses numeric strings, including infinities in both the Go
// ("inf", "+Inf") and YAML (".inf", "-.inf") spellings.
func parseFloat(s string) (float64, bool) {
	switch s {
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF":
		return math.Inf(1), true
	case "-.inf", "-.Inf", "-.INF":
		return math.Inf(-1), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
