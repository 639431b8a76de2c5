package ingest

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/jamespfennell/gtfs"

	"transit_router/pkg/geo"
)

// ParseGTFS parses a zipped GTFS static feed and converts it with FromStatic.
func ParseGTFS(data []byte) (*Records, error) {
	static, err := gtfs.ParseStatic(data, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	if len(static.Warnings) > 0 {
		slog.Warn("gtfs feed parsed with warnings", "count", len(static.Warnings))
	}
	return FromStatic(static), nil
}

// FromStatic converts a parsed GTFS feed. Each route becomes one bus whose
// stops are those of its longest trip. Stops without coordinates are left
// out, along with the stop times that reference them.
func FromStatic(static *gtfs.Static) *Records {
	rec := &Records{}
	stopNames := make(uniqueNamer)
	nameOf := make(map[string]string, len(static.Stops))
	pos := make(map[string][2]float64, len(static.Stops))

	for i := range static.Stops {
		s := &static.Stops[i]
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		name := stopNames.name(s.Name, s.Id)
		nameOf[s.Id] = name
		pos[s.Id] = [2]float64{*s.Latitude, *s.Longitude}
		rec.Stops = append(rec.Stops, StopRecord{Name: name, Lat: *s.Latitude, Lng: *s.Longitude})
	}

	// Longest trip per route; ties go to the smallest trip id.
	longest := make(map[string]*gtfs.ScheduledTrip)
	for i := range static.Trips {
		t := &static.Trips[i]
		if t.Route == nil {
			continue
		}
		best, ok := longest[t.Route.Id]
		if !ok || len(t.StopTimes) > len(best.StopTimes) ||
			(len(t.StopTimes) == len(best.StopTimes) && t.ID < best.ID) {
			longest[t.Route.Id] = t
		}
	}

	busNames := make(uniqueNamer)
	var dists distanceSet
	for i := range static.Routes {
		r := &static.Routes[i]
		trip, ok := longest[r.Id]
		if !ok {
			continue
		}

		stopTimes := append([]gtfs.ScheduledStopTime(nil), trip.StopTimes...)
		sort.SliceStable(stopTimes, func(a, b int) bool {
			return stopTimes[a].StopSequence < stopTimes[b].StopSequence
		})

		var ids []string
		for _, st := range stopTimes {
			if st.Stop == nil {
				continue
			}
			if _, ok := nameOf[st.Stop.Id]; !ok {
				continue
			}
			if len(ids) > 0 && ids[len(ids)-1] == st.Stop.Id {
				continue
			}
			ids = append(ids, st.Stop.Id)
		}
		if len(ids) < 2 {
			continue
		}

		names := make([]string, len(ids))
		for j, id := range ids {
			names[j] = nameOf[id]
			if j > 0 {
				a, b := pos[ids[j-1]], pos[id]
				dists.add(names[j-1], names[j], math.Round(geo.Haversine(a[0], a[1], b[0], b[1])))
			}
		}

		base := r.ShortName
		if base == "" {
			base = r.LongName
		}
		rec.Buses = append(rec.Buses, BusRecord{
			Name:      busNames.name(base, r.Id),
			Stops:     names,
			Roundtrip: ids[0] == ids[len(ids)-1],
		})
	}
	rec.Distances = dists.list

	slog.Info("gtfs feed converted", "stops", len(rec.Stops), "buses", len(rec.Buses))
	return rec
}
