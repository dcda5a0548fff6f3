// Package propbind binds string-valued configuration properties onto
// arbitrary objects through their setter methods. A property named
// "brokerURL" binds through a method named SetBrokerURL taking a single
// parameter; the string value is converted to the parameter's declared type.
package propbind

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNoSetter reports a property without a matching setter method.
var ErrNoSetter = errors.New("no setter method for property")

// ErrUnsupportedType reports a setter whose parameter type has no string
// conversion.
var ErrUnsupportedType = errors.New("unsupported setter parameter type")

// Bind applies every property in props to target. Binding stops at the
// first failure.
func Bind(target any, props map[string]string) error {
	for key, value := range props {
		if err := Set(target, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Set binds a single property onto target. The setter is resolved as
// "Set" + the capitalized key and must take exactly one parameter of a
// supported type; it may return nothing or a single error.
func Set(target any, key, value string) error {
	method := reflect.ValueOf(target).MethodByName(setterName(key))
	if !method.IsValid() {
		return fmt.Errorf("propbind: property %q: %w", key, ErrNoSetter)
	}
	t := method.Type()
	if t.NumIn() != 1 {
		return fmt.Errorf("propbind: property %q: setter takes %d parameters, want 1", key, t.NumIn())
	}
	arg, err := convert(value, t.In(0))
	if err != nil {
		return fmt.Errorf("propbind: property %q: %w", key, err)
	}
	results := method.Call([]reflect.Value{arg})
	for _, result := range results {
		if err, ok := result.Interface().(error); ok && err != nil {
			return fmt.Errorf("propbind: property %q: %w", key, err)
		}
	}
	return nil
}

func setterName(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return "Set" + key
	}
	return "Set" + string(unicode.ToUpper(r)) + key[size:]
}

func convert(value string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(value).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %q as %s: %w", value, t.Kind(), err)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Uint8:
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 8)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %q as %s: %w", value, t.Kind(), err)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %q as %s: %w", value, t.Kind(), err)
		}
		return reflect.ValueOf(f).Convert(t), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %q as bool: %w", value, err)
		}
		return reflect.ValueOf(b).Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}
