// Package document defines the schemaless JSON document value type shared by
// the engine, the query matcher, and the wire protocol.
//
// A Document is a plain map[string]any holding JSON-decoded values: string,
// float64, bool, nil, nested map[string]any, and []any. Exactly one field is
// reserved: FieldID holds the document's globally unique string identifier.
//
// The engine never hands out references into store-owned state, so everything
// that crosses a boundary is cloned. Clone performs the deep copy; Merge
// builds update replacements without ever touching the identifier field.
package document

// FieldID is the reserved identifier field name.
const FieldID = "_id"

// Document is a single schemaless JSON record.
type Document map[string]any

// ID returns the document's identifier, or "" if it is absent or not a string.
func (d Document) ID() (string, bool) {
	if d == nil {
		return "", false
	}
	id, ok := d[FieldID].(string)
	return id, ok && id != ""
}

// SetID assigns the identifier field.
func (d Document) SetID(id string) {
	d[FieldID] = id
}

// Clone returns a deep copy of the document. Nested objects and lists are
// copied recursively; scalar values are immutable and copied by value.
// Mutating the clone can never be observed through the original.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge returns a new document that is a deep copy of d with every field of
// patch merged in, except the identifier field, which is immutable and
// silently ignored if present in patch. Fields of d not mentioned in patch
// survive untouched.
func (d Document) Merge(patch Document) Document {
	out := d.Clone()
	if out == nil {
		out = make(Document, len(patch))
	}
	for k, v := range patch {
		if k == FieldID {
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case Document:
		return map[string]any(t.Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
