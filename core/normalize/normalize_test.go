package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "andor", Key("AND/OR"))
	assert.Equal(t, "andor", Key("AndOr"))
	assert.Equal(t, "andor", Key("and or"))
	assert.Equal(t, "maxroll", Key("Max Roll"))
	assert.Equal(t, "item1", Key("Item1"))
	assert.Equal(t, "", Key(""))
	assert.Equal(t, "", Key("---"))
}

func TestKeyIdempotent(t *testing.T) {
	for _, in := range []string{"AND/OR", "Roll Bonus Setting", "Item 12", "éé"} {
		once := Key(in)
		assert.Equal(t, once, Key(once))
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "iron sword", Text("  Iron   Sword "))
	assert.Equal(t, "epee rouillee", Text("Épée Rouillée"))
	assert.Equal(t, "fish 3", Text("Fish #3"))
	assert.Equal(t, "", Text(""))
}

func TestID(t *testing.T) {
	assert.Equal(t, "weaponsword001", ID("  WEAPONSWORD001 "))
	assert.Equal(t, "t_start", ID("T_START"))
}

func TestFieldLookupPriority(t *testing.T) {
	maxRoll := NewFieldLookup("Max Roll", "MaxRoll")

	recA := WrapRecord(map[string]any{"Max Roll": 100000})
	recB := WrapRecord(map[string]any{"MaxRoll": 100000})

	vA, _, okA := recA.Field(maxRoll)
	vB, _, okB := recB.Field(maxRoll)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, vA, vB)

	// Both synonyms collapse to the same normalized key; the
	// lexicographically first original name wins, no merging.
	both := WrapRecord(map[string]any{"Max Roll": 1, "MaxRoll": 2})
	v, name, ok := both.Field(maxRoll)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, "Max Roll", name)
}

func TestFieldLookupMiss(t *testing.T) {
	logic := NewFieldLookup("AND/OR", "Logic")
	rec := WrapRecord(map[string]any{"Unrelated": "x"})
	_, _, ok := rec.Field(logic)
	assert.False(t, ok)
}

func TestWrapRecordNil(t *testing.T) {
	rec := WrapRecord(nil)
	_, _, ok := rec.Field(NewFieldLookup("Anything"))
	assert.False(t, ok)
	assert.Empty(t, rec.Keys())
}
