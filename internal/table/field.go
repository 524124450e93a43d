package table

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	jmespath "github.com/jmespath-community/go-jmespath"
)

var plainField = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// accessor extracts a column value from a row.
type accessor struct {
	field string
	path  bool
}

func newAccessor(field string) (accessor, error) {
	if plainField.MatchString(field) {
		return accessor{field: field}, nil
	}
	if _, err := jmespath.Compile(field); err != nil {
		return accessor{}, fmt.Errorf("invalid JMESPath: %w", err)
	}
	return accessor{field: field, path: true}, nil
}

func (a accessor) value(row any) any {
	if a.path {
		return searchPath(a.field, row)
	}
	return lookupField(row, a.field)
}

// lookupField returns the value of the struct field tagged json:"name", or of
// map key name. Nil pointers yield nil; other pointers are dereferenced.
func lookupField(row any, name string) any {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return deref(mv)
	case reflect.Struct:
		idx, ok := fieldIndex(v.Type(), name)
		if !ok {
			return nil
		}
		return deref(v.FieldByIndex(idx))
	default:
		return nil
	}
}

func deref(v reflect.Value) any {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

var fieldCache sync.Map // reflect.Type -> map[string][]int

// fieldIndex resolves a JSON name to a field index path, including promoted
// fields of embedded structs.
func fieldIndex(t reflect.Type, name string) ([]int, bool) {
	if cached, ok := fieldCache.Load(t); ok {
		idx, found := cached.(map[string][]int)[name]
		return idx, found
	}

	names := make(map[string][]int)
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		key, _, _ := strings.Cut(tag, ",")
		if key == "" {
			key = f.Name
		}
		if _, exists := names[key]; !exists {
			names[key] = f.Index
		}
	}
	fieldCache.Store(t, names)

	idx, found := names[name]
	return idx, found
}

// searchPath evaluates a JMESPath expression against the row's JSON form.
func searchPath(expr string, row any) any {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	out, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil
	}
	return out
}
