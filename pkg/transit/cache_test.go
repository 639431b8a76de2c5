package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFinder struct {
	calls int
}

func (f *countingFinder) FindRoute(from, to string) Route {
	f.calls++
	return Route{Found: from != to, TotalMinutes: float64(len(from) + len(to))}
}

func TestCachedFinderMemoises(t *testing.T) {
	next := &countingFinder{}
	c := NewCachedFinder(next, 8)

	r1 := c.FindRoute("A", "BB")
	r2 := c.FindRoute("A", "BB")
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, next.calls)

	// Direction is part of the key.
	c.FindRoute("BB", "A")
	assert.Equal(t, 2, next.calls)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
}

func TestCachedFinderEvicts(t *testing.T) {
	next := &countingFinder{}
	c := NewCachedFinder(next, 2)

	c.FindRoute("A", "B")
	c.FindRoute("A", "C")
	c.FindRoute("A", "D") // evicts A->B
	c.FindRoute("A", "B")
	assert.Equal(t, 4, next.calls)
}

func TestCachedFinderOverNetwork(t *testing.T) {
	n, err := Build(scenarioCatalogue(t), scenarioSettings)
	require.NoError(t, err)
	c := NewCachedFinder(n, 0)

	want := n.FindRoute("A", "C")
	assert.Equal(t, want, c.FindRoute("A", "C"))
	assert.Equal(t, want, c.FindRoute("A", "C"))
	assert.Equal(t, Route{}, c.FindRoute("A", "D"))
}
