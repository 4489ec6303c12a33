package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsOrderAndUniqueness(t *testing.T) {
	keys := Keys()
	assert.Len(t, keys, 11)

	// Canonical order is the display/export order.
	assert.Equal(t, KeyDepartment, keys[0])
	assert.Equal(t, KeyDateOrdered, keys[9])
	assert.Equal(t, KeyTotalCost, keys[10])

	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate field key %q", k)
		seen[k] = true
	}
}

func TestLookup(t *testing.T) {
	f, ok := Lookup(KeyLocation)
	assert.True(t, ok)
	assert.True(t, f.HasChoices())
	assert.Contains(t, f.Choices, "Front Desk")

	_, ok = Lookup("Nope")
	assert.False(t, ok)

	qty, ok := Lookup(KeyQty)
	assert.True(t, ok)
	assert.False(t, qty.HasChoices())
}
