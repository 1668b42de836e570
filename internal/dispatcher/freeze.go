package dispatcher

import (
	"reflect"

	"github.com/mitchellh/copystructure"

	"github.com/guilhermegouw/evman/internal/statepath"
)

// freeze returns a private deep copy of v for one listener, so it can
// mutate neither the value the next Drive compares against nor the value
// another listener receives.
//
// Values that hold no references are returned as is: the listener gets its
// own copy through the interface. Values containing unexported struct
// fields, funcs, or channels are also returned as is, since a deep copy
// would not reproduce them.
func freeze(v any) (any, error) {
	switch v.(type) {
	case nil, bool, string, float64, float32, int, int64, int32, uint, uint64, statepath.Raw:
		return v, nil
	}

	refs, opaque := inspect(reflect.ValueOf(v), make(map[visit]bool))
	if !refs || opaque {
		return v, nil
	}
	return copystructure.Copy(v)
}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

// inspect reports whether v reaches shared memory and whether it holds
// anything a deep copy would drop or alias.
func inspect(v reflect.Value, seen map[visit]bool) (refs, opaque bool) {
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true, true

	case reflect.Interface:
		if v.IsNil() {
			return false, false
		}
		return inspect(v.Elem(), seen)

	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return false, false
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if seen[key] {
			return true, false
		}
		seen[key] = true

		switch v.Kind() {
		case reflect.Pointer:
			_, opaque = inspect(v.Elem(), seen)
		case reflect.Map:
			iter := v.MapRange()
			for !opaque && iter.Next() {
				_, ko := inspect(iter.Key(), seen)
				_, vo := inspect(iter.Value(), seen)
				opaque = ko || vo
			}
		default:
			for i := 0; !opaque && i < v.Len(); i++ {
				_, opaque = inspect(v.Index(i), seen)
			}
		}
		return true, opaque

	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			r, o := inspect(v.Index(i), seen)
			if o {
				return true, true
			}
			refs = refs || r
		}
		return refs, false

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				return true, true
			}
			r, o := inspect(v.Field(i), seen)
			if o {
				return true, true
			}
			refs = refs || r
		}
		return refs, false

	default:
		return false, false
	}
}
