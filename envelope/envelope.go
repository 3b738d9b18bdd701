// Package envelope decodes the platform response envelope
// {"success": bool, "data": ..., "total"|"Total": n} into typed values.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

var (
	ErrNotJSON      = errors.New("response body is not JSON")
	ErrNotSuccess   = errors.New("response success flag is not true")
	ErrMissingData  = errors.New("response has no data field")
	ErrMissingTotal = errors.New("response has no total field")
	ErrMissingKey   = errors.New("response is missing a required key")
)

// Keyed is implemented by response types whose zero values cannot be told
// apart from absent keys. Each listed key must be present and non-null.
type Keyed interface {
	RequiredKeys() []string
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Success reports whether the top level success flag is the boolean true.
func Success(body []byte) bool {
	return gjson.GetBytes(body, "success").Type == gjson.True
}

// Has reports whether a top level key exists.
func Has(body []byte, key string) bool {
	return gjson.GetBytes(body, gjson.Escape(key)).Exists()
}

// Total reads "total", falling back to "Total".
func Total(body []byte) (int, error) {
	for _, key := range []string{"total", "Total"} {
		if r := gjson.GetBytes(body, key); r.Exists() {
			if r.Type != gjson.Number {
				return 0, fmt.Errorf("%s is not a number: %s", key, r.Raw)
			}
			return int(r.Int()), nil
		}
	}
	return 0, ErrMissingTotal
}

// Data decodes and validates the "data" field of a successful envelope.
func Data[T any](body []byte) (T, error) {
	var out T
	if !gjson.ValidBytes(body) {
		return out, ErrNotJSON
	}
	if !Success(body) {
		return out, ErrNotSuccess
	}
	return Field[T](body, "data")
}

// Field decodes and validates one top level field without checking success.
func Field[T any](body []byte, key string) (T, error) {
	var out T
	raw := gjson.GetBytes(body, gjson.Escape(key))
	if !raw.Exists() {
		if key == "data" {
			return out, ErrMissingData
		}
		return out, fmt.Errorf("response has no %s field", key)
	}
	if raw.Type == gjson.Null {
		return out, fmt.Errorf("%s is null", key)
	}
	if err := json.Unmarshal([]byte(raw.Raw), &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	if err := requireKeys(reflect.TypeOf(out), raw, key); err != nil {
		return out, err
	}
	if err := Validate(out); err != nil {
		return out, err
	}
	return out, nil
}

// Validate runs struct tag validation on v, descending into slices and maps.
func Validate(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	var err error
	switch rv.Kind() {
	case reflect.Struct:
		err = validatorInstance().Struct(rv.Interface())
	case reflect.Slice, reflect.Array, reflect.Map:
		if !containsStruct(rv.Type().Elem()) {
			return nil
		}
		err = validatorInstance().Var(rv.Interface(), "dive")
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("validate response shape: %w", err)
	}
	return nil
}

// requireKeys walks t alongside the raw JSON and checks the RequiredKeys of
// every Keyed struct it reaches, including elements of slices and maps.
func requireKeys(t reflect.Type, raw gjson.Result, path string) error {
	if t == nil || raw.Type == gjson.Null {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		if k, ok := reflect.Zero(t).Interface().(Keyed); ok {
			for _, name := range k.RequiredKeys() {
				if v := raw.Get(gjson.Escape(name)); !v.Exists() || v.Type == gjson.Null {
					return fmt.Errorf("%w: %s.%s", ErrMissingKey, path, name)
				}
			}
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := jsonName(f)
			if name == "" {
				continue
			}
			v := raw.Get(gjson.Escape(name))
			if !v.Exists() {
				continue
			}
			if err := requireKeys(f.Type, v, path+"."+name); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array, reflect.Map:
		if !raw.IsArray() && !raw.IsObject() {
			return nil
		}
		var err error
		raw.ForEach(func(k, v gjson.Result) bool {
			err = requireKeys(t.Elem(), v, path+"["+k.String()+"]")
			return err == nil
		})
		return err
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name
}

func containsStruct(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
