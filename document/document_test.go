package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	id, ok := Document{"_id": "abc123"}.ID()
	assert.True(t, ok)
	assert.Equal(t, "abc123", id)

	_, ok = Document{"name": "x"}.ID()
	assert.False(t, ok)

	// Non-string identifiers are treated as absent.
	_, ok = Document{"_id": 42.0}.ID()
	assert.False(t, ok)

	_, ok = Document{"_id": ""}.ID()
	assert.False(t, ok)

	var nilDoc Document
	_, ok = nilDoc.ID()
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	orig := Document{
		"name":   "bot",
		"score":  100.0,
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"level": 1.0, "inner": []any{1.0}},
	}

	c := orig.Clone()
	require.Equal(t, orig, c)

	// Mutations of the clone must not be observable through the original.
	c["name"] = "other"
	c["tags"].([]any)[0] = "z"
	c["nested"].(map[string]any)["level"] = 2.0

	assert.Equal(t, "bot", orig["name"])
	assert.Equal(t, "a", orig["tags"].([]any)[0])
	assert.Equal(t, 1.0, orig["nested"].(map[string]any)["level"])
}

func TestCloneNil(t *testing.T) {
	var d Document
	assert.Nil(t, d.Clone())
}

func TestMergeSelective(t *testing.T) {
	base := Document{"a": 1.0, "b": 2.0}
	merged := base.Merge(Document{"b": 3.0, "c": 4.0})

	assert.Equal(t, Document{"a": 1.0, "b": 3.0, "c": 4.0}, merged)
	// Base survives untouched.
	assert.Equal(t, Document{"a": 1.0, "b": 2.0}, base)
}

func TestMergeIgnoresIdentifier(t *testing.T) {
	base := Document{"_id": "orig", "score": 100.0}
	merged := base.Merge(Document{"_id": "HACKED", "score": 200.0})

	id, ok := merged.ID()
	require.True(t, ok)
	assert.Equal(t, "orig", id)
	assert.Equal(t, 200.0, merged["score"])
}

func TestMergePatchIsCopied(t *testing.T) {
	patch := Document{"tags": []any{"x"}}
	merged := Document{"a": 1.0}.Merge(patch)

	merged["tags"].([]any)[0] = "mutated"
	assert.Equal(t, "x", patch["tags"].([]any)[0])
}
