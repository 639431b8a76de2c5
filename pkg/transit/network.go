// Package transit turns a catalogue into a routable wait/ride graph and
// answers minimum-time itinerary queries over it.
package transit

import (
	"errors"
	"fmt"

	"transit_router/pkg/catalogue"
	"transit_router/pkg/graph"
	"transit_router/pkg/routing"
)

// ErrInvalidSettings is returned by Build for a non-positive velocity or a
// negative wait time.
var ErrInvalidSettings = errors.New("invalid routing settings")

// Settings are the global routing parameters.
type Settings struct {
	BusVelocityKmh float64 `yaml:"bus_velocity" validate:"gt=0"`
	BusWaitMinutes float64 `yaml:"bus_wait_time" validate:"gte=0"`
}

// Validate reports whether s can drive a graph build.
func (s Settings) Validate() error {
	if !(s.BusVelocityKmh > 0) {
		return fmt.Errorf("%w: bus velocity %v km/h", ErrInvalidSettings, s.BusVelocityKmh)
	}
	if !(s.BusWaitMinutes >= 0) {
		return fmt.Errorf("%w: bus wait time %v min", ErrInvalidSettings, s.BusWaitMinutes)
	}
	return nil
}

const noVertex = ^graph.VertexID(0)

// EdgeKind tags the payload of a graph edge.
type EdgeKind uint8

const (
	WaitEdge EdgeKind = iota
	RideEdge
)

type edgeInfo struct {
	kind      EdgeKind
	stop      catalogue.StopID // WaitEdge
	bus       catalogue.BusID  // RideEdge
	minutes   float64
	spanCount int // RideEdge
}

type vertexInfo struct {
	stop  catalogue.StopID
	board bool
}

// Network is the immutable routable form of a frozen catalogue. Vertex 2k is
// the wait vertex and 2k+1 the board vertex of the k-th served stop. A Wait
// edge joins the two; a Ride edge leaves the board vertex of its origin and
// enters the wait vertex of its destination, so every boarding pays one wait.
type Network struct {
	cat      *catalogue.Catalogue
	settings Settings

	g      *graph.Graph
	router *routing.Router

	waitVertex []graph.VertexID // by StopID; noVertex for unserved stops
	vertices   []vertexInfo     // by VertexID
	edges      []edgeInfo       // by EdgeID

	component     []uint32 // weak component label by VertexID
	numComponents uint32
	rideEdges     int
}

// Build freezes cat and derives the transit graph from it. Any catalogue
// inconsistency aborts the build and no network is returned.
func Build(cat *catalogue.Catalogue, settings Settings) (*Network, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cat.Freeze()

	served := cat.ServedStops()
	n := &Network{
		cat:        cat,
		settings:   settings,
		g:          graph.New(uint32(2 * len(served))),
		waitVertex: make([]graph.VertexID, cat.NumStops()),
		vertices:   make([]vertexInfo, 0, 2*len(served)),
	}
	for i := range n.waitVertex {
		n.waitVertex[i] = noVertex
	}

	for k, stop := range served {
		wait := graph.VertexID(2 * k)
		n.waitVertex[stop] = wait
		n.vertices = append(n.vertices,
			vertexInfo{stop: stop},
			vertexInfo{stop: stop, board: true},
		)
		if err := n.addEdge(wait, wait+1, edgeInfo{
			kind:    WaitEdge,
			stop:    stop,
			minutes: settings.BusWaitMinutes,
		}); err != nil {
			return nil, err
		}
	}

	for i := range cat.Buses() {
		bus := &cat.Buses()[i]
		if err := n.addRides(bus); err != nil {
			return nil, fmt.Errorf("bus %q: %w", bus.Name, err)
		}
	}

	n.router = routing.NewRouter(n.g)
	n.component, n.numComponents = graph.Components(n.g)
	return n, nil
}

// addRides adds one Ride edge per direct destination of every distinct stop
// on bus, visiting stops in order of first occurrence.
func (n *Network) addRides(bus *catalogue.Bus) error {
	seen := make(map[catalogue.StopID]struct{}, len(bus.Stops))
	for _, origin := range bus.Stops {
		if _, ok := seen[origin]; ok {
			continue
		}
		seen[origin] = struct{}{}

		dests, err := n.cat.DirectDestinations(bus.ID, origin, n.settings.BusVelocityKmh)
		if err != nil {
			return err
		}
		from := n.waitVertex[origin] + 1
		for _, d := range dests {
			if err := n.addEdge(from, n.waitVertex[d.Stop], edgeInfo{
				kind:      RideEdge,
				bus:       bus.ID,
				minutes:   d.Minutes,
				spanCount: d.SpanCount,
			}); err != nil {
				return err
			}
			n.rideEdges++
		}
	}
	return nil
}

func (n *Network) addEdge(from, to graph.VertexID, info edgeInfo) error {
	id, err := n.g.AddEdge(graph.Edge{From: from, To: to, Weight: info.minutes})
	if err != nil {
		return fmt.Errorf("add edge: %w", err)
	}
	if int(id) != len(n.edges) {
		return fmt.Errorf("add edge: id %d out of sequence", id)
	}
	n.edges = append(n.edges, info)
	return nil
}

// Catalogue returns the frozen catalogue the network was built from.
func (n *Network) Catalogue() *catalogue.Catalogue { return n.cat }

// Settings returns the routing settings the network was built with.
func (n *Network) Settings() Settings { return n.settings }

// Graph returns the underlying frozen graph.
func (n *Network) Graph() *graph.Graph { return n.g }

// WaitVertex returns the wait vertex of a stop, or false if no bus serves it.
func (n *Network) WaitVertex(stop catalogue.StopID) (graph.VertexID, bool) {
	if int(stop) >= len(n.waitVertex) || n.waitVertex[stop] == noVertex {
		return 0, false
	}
	return n.waitVertex[stop], true
}

// NetworkStats summarises a built network.
type NetworkStats struct {
	Stops       int
	ServedStops int
	Buses       int
	Vertices    int
	WaitEdges   int
	RideEdges   int
	Components  int

	// LargestComponentStops counts the served stops in the largest
	// connected component.
	LargestComponentStops int
}

// Stats returns the size of the network.
func (n *Network) Stats() NetworkStats {
	return NetworkStats{
		Stops:       n.cat.NumStops(),
		ServedStops: len(n.vertices) / 2,
		Buses:       n.cat.NumBuses(),
		Vertices:    int(n.g.NumVertices()),
		WaitEdges:   len(n.edges) - n.rideEdges,
		RideEdges:   n.rideEdges,
		Components:  int(n.numComponents),

		LargestComponentStops: len(graph.LargestComponent(n.g)) / 2,
	}
}
