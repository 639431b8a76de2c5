package catalogue

import (
	"fmt"

	"transit_router/pkg/geo"
)

// BusStats are the aggregate figures of one line, measured over the
// travelled sequence.
type BusStats struct {
	Name            string
	StopCount       int
	UniqueStopCount int
	GeoLength       float64 // meters, great-circle
	RoadLength      float64 // meters
	Curvature       float64 // RoadLength / GeoLength
}

// BusStats computes the statistics of the named bus. A line whose
// consecutive stops all coincide has no defined curvature and yields
// ErrUndefinedCurvature.
func (c *Catalogue) BusStats(name string) (BusStats, error) {
	id, ok := c.busByName[name]
	if !ok {
		return BusStats{}, fmt.Errorf("%w: %q", ErrUnknownBus, name)
	}
	bus := &c.buses[id]

	road, err := c.RoadLength(bus)
	if err != nil {
		return BusStats{}, fmt.Errorf("bus %q: %w", name, err)
	}
	geoLen := c.GeoLength(bus)
	if geoLen == 0 {
		return BusStats{}, fmt.Errorf("bus %q: %w", name, ErrUndefinedCurvature)
	}

	return BusStats{
		Name:            bus.Name,
		StopCount:       len(bus.Stops),
		UniqueStopCount: uniqueStops(bus.Stops),
		GeoLength:       geoLen,
		RoadLength:      road,
		Curvature:       road / geoLen,
	}, nil
}

// GeoLength sums the great-circle distance between consecutive stops.
func (c *Catalogue) GeoLength(bus *Bus) float64 {
	var total float64
	for i := 1; i < len(bus.Stops); i++ {
		a := &c.stops[bus.Stops[i-1]]
		b := &c.stops[bus.Stops[i]]
		total += geo.Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
	}
	return total
}

// RoadLength sums the road distance between consecutive stops.
func (c *Catalogue) RoadLength(bus *Bus) (float64, error) {
	var total float64
	for i := 1; i < len(bus.Stops); i++ {
		d, err := c.Distance(bus.Stops[i-1], bus.Stops[i])
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

func uniqueStops(stops []StopID) int {
	seen := make(map[StopID]struct{}, len(stops))
	for _, s := range stops {
		seen[s] = struct{}{}
	}
	return len(seen)
}

// BusPath returns the positions of the named bus's stops along its travelled
// sequence.
func (c *Catalogue) BusPath(name string) ([]geo.Coordinates, error) {
	id, ok := c.busByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBus, name)
	}
	bus := &c.buses[id]
	path := make([]geo.Coordinates, len(bus.Stops))
	for i, s := range bus.Stops {
		path[i] = geo.Coordinates{Lat: c.stops[s].Lat, Lng: c.stops[s].Lng}
	}
	return path, nil
}
