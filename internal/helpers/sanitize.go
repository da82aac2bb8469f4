package helpers

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// OperatorMarker prefixes MongoDB query and update operators.
const OperatorMarker = "$"

const (
	reasonNested     = "nested objects are not allowed"
	reasonOperator   = "invalid characters in input"
	reasonNestedList = "lists may not contain objects"
)

// FieldSet is the set of field names an entity accepts in a partial update.
type FieldSet map[string]struct{}

func NewFieldSet(names ...string) FieldSet {
	fs := make(FieldSet, len(names))
	for _, n := range names {
		fs[n] = struct{}{}
	}
	return fs
}

func (fs FieldSet) Has(name string) bool {
	_, ok := fs[name]
	return ok
}

// CleanInput rejects values that could be interpreted as query operators by
// the store: nested documents and strings carrying the operator marker.
// Lists are inspected one level deep. Keys are visited in sorted order so the
// reported field is stable.
func CleanInput(data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := checkValue(k, data[k]); err != nil {
			return err
		}
		if list, ok := asList(data[k]); ok {
			for _, item := range list {
				if isDocument(item) {
					return RejectedInput(k, reasonNestedList)
				}
				if err := checkValue(k, item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// SafeUpdateFields keeps only the allowed fields of an update body and
// sanitizes what remains.
func SafeUpdateFields(data map[string]any, allowed FieldSet) (map[string]any, error) {
	filtered := make(map[string]any, len(allowed))
	for k, v := range data {
		if allowed.Has(k) {
			filtered[k] = v
		}
	}
	if err := CleanInput(filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

func checkValue(field string, v any) error {
	if isDocument(v) {
		return RejectedInput(field, reasonNested)
	}
	switch s := v.(type) {
	case string:
		if strings.Contains(s, OperatorMarker) {
			return RejectedInput(field, reasonOperator)
		}
	case *string:
		if s != nil && strings.Contains(*s, OperatorMarker) {
			return RejectedInput(field, reasonOperator)
		}
	}
	return nil
}

func isDocument(v any) bool {
	switch v.(type) {
	case map[string]any, bson.M, bson.D, bson.Raw, map[string]string:
		return true
	}
	return false
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case bson.A:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
