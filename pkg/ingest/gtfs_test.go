package ingest

import (
	"testing"

	"github.com/jamespfennell/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// sampleStatic builds a feed with two served routes and one route without
// trips. s4 has no coordinates.
func sampleStatic() *gtfs.Static {
	static := &gtfs.Static{
		Stops: []gtfs.Stop{
			{Id: "s1", Name: "Main", Latitude: ptr(10.00), Longitude: ptr(20.0)},
			{Id: "s2", Name: "Main", Latitude: ptr(10.01), Longitude: ptr(20.0)},
			{Id: "s3", Latitude: ptr(10.02), Longitude: ptr(20.0)},
			{Id: "s4", Name: "Ghost"},
		},
		Routes: []gtfs.Route{
			{Id: "r1", ShortName: "10"},
			{Id: "r2", LongName: "Crosstown"},
			{Id: "r3", ShortName: "idle"},
		},
	}
	s := func(i int) *gtfs.Stop { return &static.Stops[i] }
	static.Trips = []gtfs.ScheduledTrip{
		{
			ID:    "t1",
			Route: &static.Routes[0],
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: s(0), StopSequence: 1},
				{Stop: s(1), StopSequence: 2},
			},
		},
		{
			ID:    "t2",
			Route: &static.Routes[0],
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: s(2), StopSequence: 3},
				{Stop: s(0), StopSequence: 1},
				{Stop: s(1), StopSequence: 2},
			},
		},
		{
			ID:    "t3",
			Route: &static.Routes[1],
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: s(2), StopSequence: 1},
				{Stop: s(3), StopSequence: 2},
				{Stop: s(0), StopSequence: 3},
				{Stop: s(2), StopSequence: 4},
			},
		},
	}
	return static
}

func TestFromStatic(t *testing.T) {
	rec := FromStatic(sampleStatic())

	assert.Equal(t, []StopRecord{
		{Name: "Main", Lat: 10.00, Lng: 20.0},
		{Name: "Main (s2)", Lat: 10.01, Lng: 20.0},
		{Name: "s3", Lat: 10.02, Lng: 20.0},
	}, rec.Stops)

	assert.Equal(t, []BusRecord{
		{Name: "10", Stops: []string{"Main", "Main (s2)", "s3"}},
		{Name: "Crosstown", Stops: []string{"s3", "Main", "s3"}, Roundtrip: true},
	}, rec.Buses)

	assert.Equal(t, []DistanceRecord{
		{From: "Main", To: "Main (s2)", Meters: 1112},
		{From: "Main (s2)", To: "s3", Meters: 1112},
		{From: "s3", To: "Main", Meters: 2224},
		{From: "Main", To: "s3", Meters: 2224},
	}, rec.Distances)

	cat, err := Load(rec)
	require.NoError(t, err)
	stats, err := cat.BusStats("Crosstown")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.StopCount)
	assert.Equal(t, 4448.0, stats.RoadLength)
}

func TestFromStaticEmpty(t *testing.T) {
	rec := FromStatic(&gtfs.Static{})
	assert.Empty(t, rec.Stops)
	assert.Empty(t, rec.Buses)
}

func TestParseGTFSRejectsGarbage(t *testing.T) {
	_, err := ParseGTFS([]byte("not a zip"))
	assert.Error(t, err)
}
