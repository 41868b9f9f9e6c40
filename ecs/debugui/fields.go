package debugui

import (
	"fmt"
	"reflect"
	"sync"
)

// FieldInfo describes one exported field of a component struct.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
	IsStruct  bool
	IsArray   bool
	IsSlice   bool
	IsMap     bool
}

// ReflectionCache memoizes the exported fields of struct types. Safe for
// concurrent use.
type ReflectionCache struct {
	mu         sync.RWMutex
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

// Fields returns the exported fields of t, or nil if t is not a struct.
// Pointer fields report their element type.
func (rc *ReflectionCache) Fields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fieldCache[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fieldCache[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Pointer
			if isPointer {
				fieldType = fieldType.Elem()
			}

			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Type:      fieldType,
				Index:     i,
				IsPointer: isPointer,
				IsStruct:  fieldType.Kind() == reflect.Struct,
				IsArray:   fieldType.Kind() == reflect.Array,
				IsSlice:   fieldType.Kind() == reflect.Slice,
				IsMap:     fieldType.Kind() == reflect.Map,
			})
		}
	}

	rc.fieldCache[t] = fields
	return fields
}

var globalReflectionCache = NewReflectionCache()

// fieldValue returns the value of field in v, following a non-nil pointer.
func fieldValue(v reflect.Value, field FieldInfo) reflect.Value {
	fv := v.Field(field.Index)
	if field.IsPointer && !fv.IsNil() {
		fv = fv.Elem()
	}
	return fv
}

// elementLabel names array elements. Short arrays read as vectors (X, Y, Z, W).
func elementLabel(i, n int) string {
	if n <= 4 {
		return string("XYZW"[i])
	}
	return fmt.Sprintf("[%d]", i)
}

// assign writes x into v, converting between the widget's value type and the
// field's kind. It returns false when v is not settable, the kinds do not
// match, or x overflows the field.
func assign(v reflect.Value, x any) bool {
	if !v.IsValid() || !v.CanSet() {
		return false
	}

	switch x := x.(type) {
	case int64:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if v.OverflowInt(x) {
				return false
			}
			v.SetInt(x)
			return true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if x < 0 || v.OverflowUint(uint64(x)) {
				return false
			}
			v.SetUint(uint64(x))
			return true
		}
	case float64:
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			if v.OverflowFloat(x) {
				return false
			}
			v.SetFloat(x)
			return true
		}
	case bool:
		if v.Kind() == reflect.Bool {
			v.SetBool(x)
			return true
		}
	case string:
		if v.Kind() == reflect.String {
			v.SetString(x)
			return true
		}
	}
	return false
}

// summary is the read-only text shown for values no widget can edit.
func summary(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Slice:
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		return fmt.Sprintf("map[%d items]", v.Len())
	case reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		if v.IsNil() {
			return "nil"
		}
		return v.Type().String()
	}
	return fmt.Sprintf("%v", v.Interface())
}
