package helpers

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// pending is a container whose children have not been converted yet. Exactly
// one of obj or arr is set; both are reference types already linked into the
// parent, so filling them in place completes the output tree.
type pending struct {
	keys   []string
	values []bson.RawValue
	obj    map[string]any
	arr    []any
}

// StringifyIDs converts a stored document into a JSON-safe tree in which every
// ObjectID is replaced by its hex string. The walk uses an explicit stack so
// nesting depth is bounded only by the document itself.
func StringifyIDs(doc bson.Raw) (map[string]any, error) {
	root, next, err := openDocument(doc)
	if err != nil {
		return nil, err
	}

	stack := []pending{next}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i, rv := range top.values {
			var child pending
			var opened bool
			var out any

			switch rv.Type {
			case bsontype.EmbeddedDocument:
				var m map[string]any
				m, child, err = openDocument(rv.Document())
				out, opened = m, true
			case bsontype.Array:
				var a []any
				a, child, err = openArray(rv.Array())
				out, opened = a, true
			default:
				out, err = scalar(rv)
			}
			if err != nil {
				return nil, err
			}

			if top.obj != nil {
				top.obj[top.keys[i]] = out
			} else {
				top.arr[i] = out
			}
			if opened {
				stack = append(stack, child)
			}
		}
	}
	return root, nil
}

// StringifyIDsMany applies StringifyIDs to every document of a result set.
func StringifyIDsMany(docs []bson.Raw) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		m, err := StringifyIDs(d)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func openDocument(doc bson.Raw) (map[string]any, pending, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, pending{}, fmt.Errorf("reading document: %w", err)
	}
	p := pending{
		keys:   make([]string, len(elems)),
		values: make([]bson.RawValue, len(elems)),
		obj:    make(map[string]any, len(elems)),
	}
	for i, e := range elems {
		p.keys[i] = e.Key()
		p.values[i] = e.Value()
	}
	return p.obj, p, nil
}

func openArray(arr bson.Raw) ([]any, pending, error) {
	values, err := arr.Values()
	if err != nil {
		return nil, pending{}, fmt.Errorf("reading array: %w", err)
	}
	p := pending{
		values: values,
		arr:    make([]any, len(values)),
	}
	return p.arr, p, nil
}

func scalar(rv bson.RawValue) (any, error) {
	switch rv.Type {
	case bsontype.ObjectID:
		return EncodeObjectID(rv.ObjectID()), nil
	case bsontype.String:
		return rv.StringValue(), nil
	case bsontype.Int32:
		return rv.Int32(), nil
	case bsontype.Int64:
		return rv.Int64(), nil
	case bsontype.Double:
		return rv.Double(), nil
	case bsontype.Boolean:
		return rv.Boolean(), nil
	case bsontype.DateTime:
		return rv.Time().UTC(), nil
	case bsontype.Null, bsontype.Undefined:
		return nil, nil
	case bsontype.Binary:
		_, data := rv.Binary()
		return data, nil
	}

	var v any
	if err := rv.Unmarshal(&v); err != nil {
		return nil, fmt.Errorf("decoding %s value: %w", rv.Type, err)
	}
	return v, nil
}
