package catalogue

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownStop is returned when a stop name has not been registered.
	ErrUnknownStop = errors.New("unknown stop")
	// ErrDuplicateStop is returned when a stop name is registered twice.
	ErrDuplicateStop = errors.New("duplicate stop")
	// ErrUnknownBus is returned when a bus name has not been registered.
	ErrUnknownBus = errors.New("unknown bus")
	// ErrDuplicateBus is returned when a bus name is registered twice.
	ErrDuplicateBus = errors.New("duplicate bus")
	// ErrEmptyBus is returned when a bus is registered without stops.
	ErrEmptyBus = errors.New("bus has no stops")
	// ErrMissingDistance is returned when no road distance is recorded in
	// either direction between two stops.
	ErrMissingDistance = errors.New("missing road distance")
	// ErrUndefinedCurvature is returned for lines with zero geographic length.
	ErrUndefinedCurvature = errors.New("undefined curvature")
	// ErrFrozen is returned by mutations after Freeze.
	ErrFrozen = errors.New("catalogue is frozen")
)

// StopID is a stable handle into the stop arena. IDs are dense and follow
// registration order.
type StopID uint32

// BusID is a stable handle into the bus arena.
type BusID uint32

// Stop is a named location. Immutable once registered.
type Stop struct {
	ID   StopID
	Name string
	Lat  float64
	Lng  float64
}

// Bus is a named line. Stops holds the travelled sequence: for a loop it is
// the sequence as registered (first == last), for an out-and-back line it is
// the outward leg followed by the mirrored return leg.
type Bus struct {
	ID        BusID
	Name      string
	Stops     []StopID
	Terminal  StopID // display only
	Roundtrip bool
}

// Turnaround returns the index of the turnaround stop of an out-and-back
// line. For a loop it returns the last index.
func (b *Bus) Turnaround() int {
	if b.Roundtrip {
		return len(b.Stops) - 1
	}
	return len(b.Stops) / 2
}

// Outward returns the outward leg, turnaround included.
func (b *Bus) Outward() []StopID {
	return b.Stops[:b.Turnaround()+1]
}

// Inward returns the return leg starting at the turnaround. It is empty for
// loops.
func (b *Bus) Inward() []StopID {
	if b.Roundtrip {
		return nil
	}
	return b.Stops[b.Turnaround():]
}

type stopPair struct {
	from, to StopID
}

// Catalogue owns stops, bus lines and road distances.
type Catalogue struct {
	stops      []Stop
	stopByName map[string]StopID

	buses     []Bus
	busByName map[string]BusID

	// busesAtStop[s] lists the buses serving stop s, in registration order.
	busesAtStop [][]BusID

	distances map[stopPair]float64

	frozen bool
}

// New creates an empty catalogue.
func New() *Catalogue {
	return &Catalogue{
		stopByName: make(map[string]StopID),
		busByName:  make(map[string]BusID),
		distances:  make(map[stopPair]float64),
	}
}

// AddStop registers a stop.
func (c *Catalogue) AddStop(name string, lat, lng float64) (StopID, error) {
	if c.frozen {
		return 0, ErrFrozen
	}
	if _, ok := c.stopByName[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateStop, name)
	}
	id := StopID(len(c.stops))
	c.stops = append(c.stops, Stop{ID: id, Name: name, Lat: lat, Lng: lng})
	c.stopByName[name] = id
	c.busesAtStop = append(c.busesAtStop, nil)
	return id, nil
}

// AddBus registers a line. When the first and last names are equal the line
// is a loop and the sequence is stored as given; otherwise stopNames is the
// outward leg and the return leg is appended in reverse, without repeating the
// turnaround stop. An empty terminal defaults to the line's natural end.
func (c *Catalogue) AddBus(name string, stopNames []string, terminal string) (BusID, error) {
	if c.frozen {
		return 0, ErrFrozen
	}
	if _, ok := c.busByName[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateBus, name)
	}
	if len(stopNames) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrEmptyBus, name)
	}

	outward := make([]StopID, len(stopNames))
	for i, sn := range stopNames {
		id, ok := c.stopByName[sn]
		if !ok {
			return 0, fmt.Errorf("bus %q: %w: %q", name, ErrUnknownStop, sn)
		}
		outward[i] = id
	}

	roundtrip := outward[0] == outward[len(outward)-1]

	seq := outward
	if !roundtrip {
		seq = make([]StopID, 0, 2*len(outward)-1)
		seq = append(seq, outward...)
		for i := len(outward) - 2; i >= 0; i-- {
			seq = append(seq, outward[i])
		}
	}

	term := outward[len(outward)-1]
	if roundtrip {
		term = outward[0]
	}
	if terminal != "" {
		id, ok := c.stopByName[terminal]
		if !ok {
			return 0, fmt.Errorf("bus %q terminal: %w: %q", name, ErrUnknownStop, terminal)
		}
		term = id
	}

	id := BusID(len(c.buses))
	c.buses = append(c.buses, Bus{
		ID:        id,
		Name:      name,
		Stops:     seq,
		Terminal:  term,
		Roundtrip: roundtrip,
	})
	c.busByName[name] = id

	seen := make(map[StopID]struct{}, len(seq))
	for _, s := range seq {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		c.busesAtStop[s] = append(c.busesAtStop[s], id)
	}
	return id, nil
}

// AddRoadDistance records the road distance in meters from one stop to
// another. A second call for the same ordered pair overwrites the first.
func (c *Catalogue) AddRoadDistance(from, to string, meters float64) error {
	if c.frozen {
		return ErrFrozen
	}
	a, ok := c.stopByName[from]
	if !ok {
		return fmt.Errorf("road distance: %w: %q", ErrUnknownStop, from)
	}
	b, ok := c.stopByName[to]
	if !ok {
		return fmt.Errorf("road distance: %w: %q", ErrUnknownStop, to)
	}
	c.distances[stopPair{a, b}] = meters
	return nil
}

// Distance returns the road distance from a to b. The (a, b) entry takes
// precedence; (b, a) is used only when (a, b) is absent.
func (c *Catalogue) Distance(a, b StopID) (float64, error) {
	if d, ok := c.distances[stopPair{a, b}]; ok {
		return d, nil
	}
	if d, ok := c.distances[stopPair{b, a}]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q -> %q", ErrMissingDistance, c.stops[a].Name, c.stops[b].Name)
}

// GetDistance is Distance addressed by stop names.
func (c *Catalogue) GetDistance(from, to string) (float64, error) {
	a, ok := c.stopByName[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStop, from)
	}
	b, ok := c.stopByName[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStop, to)
	}
	return c.Distance(a, b)
}

// Freeze makes the catalogue read-only.
func (c *Catalogue) Freeze() { c.frozen = true }

// Frozen reports whether Freeze has been called.
func (c *Catalogue) Frozen() bool { return c.frozen }

// FindStop resolves a stop name.
func (c *Catalogue) FindStop(name string) (StopID, bool) {
	id, ok := c.stopByName[name]
	return id, ok
}

// FindBus resolves a bus name.
func (c *Catalogue) FindBus(name string) (BusID, bool) {
	id, ok := c.busByName[name]
	return id, ok
}

// Stop returns the stop with the given handle.
func (c *Catalogue) Stop(id StopID) *Stop { return &c.stops[id] }

// Bus returns the bus with the given handle.
func (c *Catalogue) Bus(id BusID) *Bus { return &c.buses[id] }

// NumStops returns the number of registered stops.
func (c *Catalogue) NumStops() int { return len(c.stops) }

// NumBuses returns the number of registered buses.
func (c *Catalogue) NumBuses() int { return len(c.buses) }

// Stops returns all stops in registration order. The slice must not be modified.
func (c *Catalogue) Stops() []Stop { return c.stops }

// Buses returns all buses in registration order. The slice must not be modified.
func (c *Catalogue) Buses() []Bus { return c.buses }

// BusesAt returns the buses serving a stop, in registration order.
func (c *Catalogue) BusesAt(id StopID) []BusID { return c.busesAtStop[id] }

// ServedStops returns the stops served by at least one bus, in registration order.
func (c *Catalogue) ServedStops() []StopID {
	var served []StopID
	for i := range c.stops {
		if len(c.busesAtStop[i]) > 0 {
			served = append(served, StopID(i))
		}
	}
	return served
}

// StopInfo describes a stop and the buses that serve it.
type StopInfo struct {
	Name  string
	Lat   float64
	Lng   float64
	Buses []string // sorted
}

// StopInfo looks up a stop by name.
func (c *Catalogue) StopInfo(name string) (StopInfo, error) {
	id, ok := c.stopByName[name]
	if !ok {
		return StopInfo{}, fmt.Errorf("%w: %q", ErrUnknownStop, name)
	}
	s := c.stops[id]
	buses := make([]string, 0, len(c.busesAtStop[id]))
	for _, b := range c.busesAtStop[id] {
		buses = append(buses, c.buses[b].Name)
	}
	sort.Strings(buses)
	return StopInfo{Name: s.Name, Lat: s.Lat, Lng: s.Lng, Buses: buses}, nil
}
