// Package query implements the flat field-equality filter used by the
// engine's find and delete paths.
//
// A filter is itself a document: every field it names must exist in the
// candidate document with the same runtime type and an equal value. Matching
// is shallow only; a filter value that is a nested object or list never
// matches anything.
package query

import "github.com/xdb-io/xdb/document"

// Filter is a set of field-equality conditions. A nil or empty Filter
// matches every document.
type Filter = document.Document

// Match reports whether doc satisfies every condition in filter.
//
// A nil/empty filter acts as a wildcard and matches everything, including a
// nil document. A non-empty filter never matches a nil document. Supported
// condition types are string, float64 (JSON numbers), and bool; any missing
// field, type mismatch, or object/list condition is a non-match. The check
// short-circuits on the first failing condition.
func Match(doc document.Document, filter Filter) bool {
	if len(filter) == 0 {
		return true
	}
	if doc == nil {
		return false
	}

	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if !equal(want, got) {
			return false
		}
	}
	return true
}

// IdentifierOnly reports whether filter is exactly a single equality
// condition on the identifier field, returning the wanted identifier. The
// engine uses this to serve such lookups from the identifier index.
func IdentifierOnly(filter Filter) (string, bool) {
	if len(filter) != 1 {
		return "", false
	}
	id, ok := filter[document.FieldID].(string)
	return id, ok
}

func equal(want, got any) bool {
	switch w := want.(type) {
	case string:
		g, ok := got.(string)
		return ok && w == g
	case float64:
		g, ok := got.(float64)
		return ok && w == g
	case bool:
		g, ok := got.(bool)
		return ok && w == g
	default:
		// Nulls, nested objects, and lists are never compared field-by-field.
		return false
	}
}
