package routing

import (
	"sync"

	"transit_router/pkg/graph"
)

// RouteInfo is a shortest path: its total weight and the edges along it,
// source first.
type RouteInfo struct {
	Weight float64
	Edges  []graph.EdgeID
}

// Router answers single-pair shortest-path queries over a frozen graph with
// non-negative weights. It keeps no state between calls other than pooled
// scratch buffers, so one Router may serve concurrent queries.
type Router struct {
	g    *graph.Graph
	pool sync.Pool
}

// NewRouter creates a router over g, freezing it if needed.
func NewRouter(g *graph.Graph) *Router {
	g.Freeze()
	r := &Router{g: g}
	n := g.NumVertices()
	r.pool.New = func() any { return NewQueryState(n) }
	return r
}

// BuildRoute returns the minimum-weight path from one vertex to another. The
// second result is false when to is unreachable or either vertex is out of
// range. A path from a vertex to itself has weight 0 and no edges.
func (r *Router) BuildRoute(from, to graph.VertexID) (RouteInfo, bool) {
	n := r.g.NumVertices()
	if from >= n || to >= n {
		return RouteInfo{}, false
	}
	if from == to {
		return RouteInfo{}, true
	}

	qs := r.pool.Get().(*QueryState)
	defer func() {
		qs.Reset()
		r.pool.Put(qs)
	}()

	qs.touch(from, 0, noEdge)
	qs.PQ.Push(from, 0)

	for qs.PQ.Len() > 0 {
		item := qs.PQ.Pop()
		u, d := item.Node, item.Dist
		if d > qs.Dist[u] {
			continue // stale entry
		}
		if u == to {
			break
		}
		for _, id := range r.g.OutEdges(u) {
			e := r.g.Edge(id)
			nd := d + e.Weight
			if nd < qs.Dist[e.To] {
				qs.touch(e.To, nd, id)
				qs.PQ.Push(e.To, nd)
			}
		}
	}

	if qs.PredEdge[to] == noEdge {
		return RouteInfo{}, false
	}

	// Walk predecessor edges back to the source, then reverse.
	var edges []graph.EdgeID
	for v := to; v != from; {
		id := qs.PredEdge[v]
		edges = append(edges, id)
		v = r.g.Edge(id).From
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return RouteInfo{Weight: qs.Dist[to], Edges: edges}, true
}
