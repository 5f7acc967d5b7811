package jxc

import (
	"fmt"
	"reflect"
	"time"
)

// JXCEncoder lets a Go type control its own serialization, taking
// priority over the Encoder's reflective fallback (spec.md §6.2's
// "Dumps accepts either a *Value tree or a plain Go value" contract).
type JXCEncoder interface {
	EncodeJXC() (*Value, error)
}

// Encoder turns arbitrary Go values into *Value trees for the
// Serializer to consume, mirroring the teacher's registry-plus-
// reflection-fallback approach to turning host types into template
// context values.
type Encoder struct {
	// exact holds per-concrete-type encode functions, checked before
	// falling back to EncodeJXC or reflection.
	exact map[reflect.Type]func(any) (*Value, error)
}

// NewEncoder returns an Encoder with no exact-type overrides.
func NewEncoder() *Encoder {
	return &Encoder{exact: make(map[reflect.Type]func(any) (*Value, error))}
}

// RegisterType installs an exact-type encode function for T, letting
// callers special-case types EncodeJXC can't be added to (e.g. types
// from another package).
func RegisterType[T any](e *Encoder, fn func(T) (*Value, error)) {
	var zero T
	t := reflect.TypeOf(zero)
	e.exact[t] = func(v any) (*Value, error) { return fn(v.(T)) }
}

// EncodeValue converts v into a *Value tree. If v is already *Value,
// it's returned as-is. Exact-type registrations are tried first, then
// the JXCEncoder interface, then reflection-based structural encoding.
func (e *Encoder) EncodeValue(v any) (*Value, error) {
	if val, ok := v.(*Value); ok {
		return val, nil
	}
	if v == nil {
		return NewNull(), nil
	}

	if fn, ok := e.exact[reflect.TypeOf(v)]; ok {
		return fn(v)
	}
	if enc, ok := v.(JXCEncoder); ok {
		return enc.EncodeJXC()
	}
	if t, ok := v.(time.Time); ok {
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 && t.Location() == time.UTC {
			return NewDate(t), nil
		}
		return NewDateTime(t, true, t.Location() == time.UTC), nil
	}

	return e.encodeReflect(reflect.ValueOf(v))
}

func (e *Encoder) encodeReflect(rv reflect.Value) (*Value, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return NewNull(), nil
	case reflect.Bool:
		return NewBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int(), ""), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewUint(rv.Uint(), ""), nil
	case reflect.Float32, reflect.Float64:
		return NewFloat(rv.Float(), ""), nil
	case reflect.String:
		return NewString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return NewBytes(rv.Bytes()), nil
		}
		items := make([]*Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := e.EncodeValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return NewArray(items), nil
	case reflect.Map:
		obj := NewOrderedObject()
		iter := rv.MapRange()
		for iter.Next() {
			item, err := e.EncodeValue(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			obj.Set(fmt.Sprintf("%v", iter.Key().Interface()), item)
		}
		return NewObject(obj), nil
	case reflect.Struct:
		return e.encodeStruct(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return NewNull(), nil
		}
		return e.EncodeValue(rv.Elem().Interface())
	default:
		return nil, &Error{Kind: ConstructorError, Sender: "encoder", Message: fmt.Sprintf("cannot encode value of kind %s", rv.Kind())}
	}
}

func (e *Encoder) encodeStruct(rv reflect.Value) (*Value, error) {
	obj := NewOrderedObject()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		name := field.Tag.Get("jxc")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		item, err := e.EncodeValue(rv.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		obj.Set(name, item)
	}
	return NewObject(obj), nil
}
