package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecentSearchesCap(t *testing.T) {
	r := NewRecentSearches()

	r.Record("user123", "CMP-1")
	r.Record("user123", "CMP-2")
	r.Record("user123", "CMP-3")
	r.Record("user123", "CMP-4")

	assert.Equal(t, []string{"CMP-4", "CMP-3", "CMP-2"}, r.For("user123"))
}

func TestRecentSearchesRepromotesDuplicate(t *testing.T) {
	r := NewRecentSearches()

	r.Record("user123", "CMP-1")
	r.Record("user123", "CMP-2")
	r.Record("user123", "CMP-1")

	assert.Equal(t, []string{"CMP-1", "CMP-2"}, r.For("user123"))
}

func TestRecentSearchesPerIdentity(t *testing.T) {
	r := NewRecentSearches()

	r.Record("user123", "CMP-1")
	r.Record("admin456", "CMP-2")

	assert.Equal(t, []string{"CMP-1"}, r.For("user123"))
	assert.Equal(t, []string{"CMP-2"}, r.For("admin456"))
	assert.Empty(t, r.For("nobody"))
}

func TestRecentSearchesReturnsCopy(t *testing.T) {
	r := NewRecentSearches()
	r.Record("user123", "CMP-1")

	got := r.For("user123")
	got[0] = "mutated"

	assert.Equal(t, []string{"CMP-1"}, r.For("user123"))
}
