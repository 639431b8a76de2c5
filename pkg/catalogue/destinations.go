package catalogue

import (
	"errors"
	"fmt"
)

// ErrInvalidVelocity is returned when expansion is asked to run with a
// non-positive velocity.
var ErrInvalidVelocity = errors.New("velocity must be positive")

// Destination is a stop reachable from an origin without changing buses.
type Destination struct {
	Stop      StopID
	Minutes   float64 // cumulative riding time from the origin
	SpanCount int     // number of inter-stop hops
}

// TravelMinutes converts a road distance in meters to minutes at the given
// velocity in km/h.
func TravelMinutes(meters, velocityKmh float64) float64 {
	return meters / velocityKmh * 60 / 1000
}

// DirectDestinations enumerates every stop reachable from origin on the given
// bus without a transfer. For a loop, each occurrence of origin is walked
// forward to the end of the line. For an out-and-back line, the outward and
// return legs are walked separately and the results concatenated.
func (c *Catalogue) DirectDestinations(busID BusID, origin StopID, velocityKmh float64) ([]Destination, error) {
	if !(velocityKmh > 0) {
		return nil, ErrInvalidVelocity
	}
	bus := &c.buses[busID]

	if bus.Roundtrip {
		return c.expand(bus.Stops, origin, velocityKmh)
	}

	out, err := c.expand(bus.Outward(), origin, velocityKmh)
	if err != nil {
		return nil, err
	}
	in, err := c.expand(bus.Inward(), origin, velocityKmh)
	if err != nil {
		return nil, err
	}
	return append(out, in...), nil
}

// expand walks seq forward from every index holding origin, never wrapping
// past the end of seq.
func (c *Catalogue) expand(seq []StopID, origin StopID, velocityKmh float64) ([]Destination, error) {
	var result []Destination
	for i, s := range seq {
		if s != origin {
			continue
		}
		var minutes float64
		for j := i + 1; j < len(seq); j++ {
			d, err := c.Distance(seq[j-1], seq[j])
			if err != nil {
				return nil, fmt.Errorf("bus expansion: %w", err)
			}
			minutes += TravelMinutes(d, velocityKmh)
			result = append(result, Destination{
				Stop:      seq[j],
				Minutes:   minutes,
				SpanCount: j - i,
			})
		}
	}
	return result, nil
}
