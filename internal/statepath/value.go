package statepath

import (
	"reflect"
	"strconv"
	"strings"
)

// Fielder lets a state type resolve its own segments.
type Fielder interface {
	Field(name string) (any, bool)
}

func field(v any, seg string) (any, bool) {
	if v == nil {
		return nil, false
	}
	if f, ok := v.(Fielder); ok {
		return f.Field(seg)
	}
	if m, ok := v.(map[string]any); ok {
		val, ok := m[seg]
		return val, ok
	}
	return reflectField(reflect.ValueOf(v), seg)
}

func reflectField(rv reflect.Value, seg string) (any, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true

	case reflect.Struct:
		return structField(rv, seg)

	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	}

	return nil, false
}

// structField matches the json tag name first, then the Go field name.
func structField(rv reflect.Value, seg string) (any, bool) {
	t := rv.Type()
	byName := -1
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag, ok := sf.Tag.Lookup("json"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == seg {
				return rv.Field(i).Interface(), true
			}
		}
		if sf.Name == seg && byName < 0 {
			byName = i
		}
	}
	if byName >= 0 {
		return rv.Field(byName).Interface(), true
	}
	return nil, false
}
