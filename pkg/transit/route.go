package transit

import "transit_router/pkg/graph"

// ItemKind distinguishes the steps of an itinerary.
type ItemKind string

const (
	ItemWait ItemKind = "Wait"
	ItemRide ItemKind = "Ride"
)

// Item is one step of an itinerary. StopName is set for waits; BusName and
// SpanCount are set for rides.
type Item struct {
	Kind      ItemKind
	StopName  string
	BusName   string
	Minutes   float64
	SpanCount int
}

// Route is the answer to a route query. A zero Route means no itinerary.
type Route struct {
	Found        bool
	TotalMinutes float64
	Items        []Item
}

// RouteFinder answers route queries by stop name.
type RouteFinder interface {
	FindRoute(from, to string) Route
}

var _ RouteFinder = (*Network)(nil)

// FindRoute returns the minimum-time itinerary between two stops. Unknown
// stops, stops no bus serves, and unconnected stops all yield Found false.
// The route from a served stop to itself is found, empty and free.
func (n *Network) FindRoute(from, to string) Route {
	src, ok := n.resolve(from)
	if !ok {
		return Route{}
	}
	dst, ok := n.resolve(to)
	if !ok {
		return Route{}
	}
	if n.component[src] != n.component[dst] {
		return Route{}
	}

	info, ok := n.router.BuildRoute(src, dst)
	if !ok {
		return Route{}
	}

	route := Route{Found: true, Items: make([]Item, 0, len(info.Edges))}
	for _, id := range info.Edges {
		item := n.item(id)
		route.TotalMinutes += item.Minutes
		route.Items = append(route.Items, item)
	}
	return route
}

func (n *Network) resolve(name string) (graph.VertexID, bool) {
	stop, ok := n.cat.FindStop(name)
	if !ok {
		return 0, false
	}
	return n.WaitVertex(stop)
}

func (n *Network) item(id graph.EdgeID) Item {
	e := &n.edges[id]
	switch e.kind {
	case WaitEdge:
		return Item{
			Kind:     ItemWait,
			StopName: n.cat.Stop(e.stop).Name,
			Minutes:  e.minutes,
		}
	default:
		return Item{
			Kind:      ItemRide,
			BusName:   n.cat.Bus(e.bus).Name,
			Minutes:   e.minutes,
			SpanCount: e.spanCount,
		}
	}
}
