// Package ingest reads transit networks from YAML network files, OpenStreetMap
// extracts and GTFS static feeds, and loads them into a catalogue.
package ingest

import (
	"errors"
	"fmt"

	"transit_router/pkg/catalogue"
	"transit_router/pkg/transit"
)

// ErrRoundtripMismatch is returned when a bus's is_roundtrip flag disagrees
// with whether its stop list starts and ends at the same stop.
var ErrRoundtripMismatch = errors.New("is_roundtrip disagrees with stop sequence")

// StopRecord describes one stop.
type StopRecord struct {
	Name string
	Lat  float64
	Lng  float64
}

// BusRecord describes one line. For a roundtrip line Stops starts and ends at
// the same stop; otherwise Stops is the outward leg only.
type BusRecord struct {
	Name      string
	Stops     []string
	Roundtrip bool
	Terminal  string
}

// DistanceRecord is a directed road distance in meters.
type DistanceRecord struct {
	From   string
	To     string
	Meters float64
}

// Records is a complete network description. Settings is nil when the source
// carries no routing parameters.
type Records struct {
	Settings  *transit.Settings
	Stops     []StopRecord
	Buses     []BusRecord
	Distances []DistanceRecord
}

// Apply loads rec into cat: stops first, then road distances, then buses.
// The first failure aborts the load.
func Apply(cat *catalogue.Catalogue, rec *Records) error {
	for _, s := range rec.Stops {
		if _, err := cat.AddStop(s.Name, s.Lat, s.Lng); err != nil {
			return fmt.Errorf("stop %q: %w", s.Name, err)
		}
	}
	for _, d := range rec.Distances {
		if err := cat.AddRoadDistance(d.From, d.To, d.Meters); err != nil {
			return fmt.Errorf("distance %q -> %q: %w", d.From, d.To, err)
		}
	}
	for _, b := range rec.Buses {
		if err := checkRoundtrip(b); err != nil {
			return err
		}
		if _, err := cat.AddBus(b.Name, b.Stops, b.Terminal); err != nil {
			return fmt.Errorf("bus %q: %w", b.Name, err)
		}
	}
	return nil
}

// Load builds a fresh catalogue from rec.
func Load(rec *Records) (*catalogue.Catalogue, error) {
	cat := catalogue.New()
	if err := Apply(cat, rec); err != nil {
		return nil, err
	}
	return cat, nil
}

func checkRoundtrip(b BusRecord) error {
	if len(b.Stops) < 2 {
		return nil
	}
	closed := b.Stops[0] == b.Stops[len(b.Stops)-1]
	if closed != b.Roundtrip {
		return fmt.Errorf("bus %q: %w", b.Name, ErrRoundtripMismatch)
	}
	return nil
}

// uniqueNamer hands out names, suffixing repeats with a source identifier.
type uniqueNamer map[string]struct{}

func (u uniqueNamer) name(base, id string) string {
	name := base
	if name == "" {
		name = id
	}
	if _, taken := u[name]; taken {
		name = fmt.Sprintf("%s (%s)", name, id)
	}
	u[name] = struct{}{}
	return name
}

// distanceSet accumulates directed distances, keeping the first value seen
// for each ordered pair.
type distanceSet struct {
	seen map[[2]string]struct{}
	list []DistanceRecord
}

func (ds *distanceSet) add(from, to string, meters float64) {
	if from == to {
		return
	}
	if ds.seen == nil {
		ds.seen = make(map[[2]string]struct{})
	}
	key := [2]string{from, to}
	if _, ok := ds.seen[key]; ok {
		return
	}
	ds.seen[key] = struct{}{}
	ds.list = append(ds.list, DistanceRecord{From: from, To: to, Meters: meters})
}
