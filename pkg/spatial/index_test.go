package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_router/pkg/catalogue"
)

func testStops(t *testing.T) []catalogue.Stop {
	t.Helper()
	c := catalogue.New()
	for _, s := range []struct {
		name     string
		lat, lng float64
	}{
		{"Centre", 1.3000, 103.8000},
		{"North", 1.3010, 103.8000}, // ~111 m
		{"East", 1.3000, 103.8020},  // ~222 m
		{"Twin", 1.3000, 103.8020},  // same place as East
		{"Far", 1.3500, 103.8000},   // ~5.5 km
	} {
		_, err := c.AddStop(s.name, s.lat, s.lng)
		require.NoError(t, err)
	}
	return c.Stops()
}

func names(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestNearby(t *testing.T) {
	idx := NewIndex(testStops(t))
	assert.Equal(t, 5, idx.Len())

	tests := []struct {
		name   string
		radius float64
		limit  int
		want   []string
	}{
		{"only self", 50, 0, []string{"Centre"}},
		{"ordered by distance then name", 300, 0, []string{"Centre", "North", "East", "Twin"}},
		{"limited", 300, 2, []string{"Centre", "North"}},
		{"everything", 10_000, 0, []string{"Centre", "North", "East", "Twin", "Far"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Nearby(1.3000, 103.8000, tt.radius, tt.limit)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestNearbyDistances(t *testing.T) {
	idx := NewIndex(testStops(t))

	got := idx.Nearby(1.3000, 103.8000, 150, 0)
	require.Len(t, got, 2)
	assert.Zero(t, got[0].DistanceMeters)
	assert.InDelta(t, 111.2, got[1].DistanceMeters, 0.5)
	assert.Equal(t, catalogue.StopID(1), got[1].Stop)
}

func TestNearbyCornerIsExcluded(t *testing.T) {
	c := catalogue.New()
	// Inside the bounding box of a 200 m circle but outside the circle.
	_, err := c.AddStop("Corner", 1.3017, 103.8017)
	require.NoError(t, err)
	idx := NewIndex(c.Stops())

	assert.Empty(t, idx.Nearby(1.3, 103.8, 200, 0))
}

func TestNearbyEmpty(t *testing.T) {
	idx := NewIndex(nil)
	assert.Empty(t, idx.Nearby(0, 0, 1000, 5))
	assert.Nil(t, idx.Nearby(0, 0, -1, 5))
}
