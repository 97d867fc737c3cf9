// Package structvalue models the loosely-typed payloads the document index
// attaches to result documents. Depending on index configuration the same
// logical data arrives either as plain JSON values or wrapped in a
// protobuf-Struct-style tree ({stringValue}, {listValue:{values}},
// {structValue:{fields}}). Decode folds both shapes into one variant type
// so callers walk a single representation.
package structvalue

import (
	"sort"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindList
	KindStruct
)

// Value is an immutable node of a decoded structured-value tree.
type Value struct {
	kind   Kind
	str    string
	list   []Value
	fields map[string]Value
}

func Null() Value { return Value{kind: KindNull} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

func Struct(fields map[string]Value) Value {
	return Value{kind: KindStruct, fields: fields}
}

// Decode converts decoded JSON (as produced by encoding/json into any) into
// a Value. Unknown or non-textual leaves (numbers, booleans, nil) decode to
// Null: they carry nothing useful for grounding context.
func Decode(raw any) Value {
	switch v := raw.(type) {
	case string:
		return String(v)
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, Decode(item))
		}
		return List(items...)
	case map[string]any:
		return decodeMap(v)
	default:
		return Null()
	}
}

func decodeMap(m map[string]any) Value {
	// Typed-value wrappers take precedence over generic struct decoding.
	if s, ok := m["stringValue"].(string); ok {
		return String(s)
	}
	if lv, ok := m["listValue"].(map[string]any); ok {
		if values, ok := lv["values"].([]any); ok {
			items := make([]Value, 0, len(values))
			for _, item := range values {
				items = append(items, Decode(item))
			}
			return List(items...)
		}
		return List()
	}
	if sv, ok := m["structValue"].(map[string]any); ok {
		if fields, ok := sv["fields"].(map[string]any); ok {
			return Struct(decodeFields(fields))
		}
		return Struct(nil)
	}

	return Struct(decodeFields(m))
}

func decodeFields(m map[string]any) map[string]Value {
	fields := make(map[string]Value, len(m))
	for k, v := range m {
		fields[k] = Decode(v)
	}
	return fields
}

func (v Value) Kind() Kind { return v.kind }

// StringVal returns the trimmed text of a string node.
func (v Value) StringVal() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return strings.TrimSpace(v.str), true
}

// Field looks up a struct field by name.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindStruct {
		return Null(), false
	}
	f, ok := v.fields[name]
	return f, ok
}

// FieldNames returns struct field names in sorted order, so walks over the
// tree are deterministic regardless of map iteration order.
func (v Value) FieldNames() []string {
	if v.kind != KindStruct || len(v.fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Items returns the elements of a list node.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// CollectStrings appends every non-empty string leaf beneath v to acc, in
// list order and sorted field order.
func (v Value) CollectStrings(acc *[]string) {
	switch v.kind {
	case KindString:
		if s, _ := v.StringVal(); s != "" {
			*acc = append(*acc, s)
		}
	case KindList:
		for _, item := range v.list {
			item.CollectStrings(acc)
		}
	case KindStruct:
		for _, name := range v.FieldNames() {
			v.fields[name].CollectStrings(acc)
		}
	}
}
