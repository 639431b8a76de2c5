package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the number of elements in the set containing x.
func (uf *UnionFind) Size(x uint32) uint32 {
	return uf.size[uf.Find(x)]
}

// Components labels the weakly connected components of g (edges treated as
// undirected). labels[v] is a dense component number in [0, count), assigned
// in order of each component's lowest vertex.
func Components(g *Graph) (labels []uint32, count uint32) {
	n := g.NumVertices()
	if n == 0 {
		return nil, 0
	}

	uf := NewUnionFind(n)
	for _, e := range g.edges {
		uf.Union(e.From, e.To)
	}

	const unset = ^uint32(0)
	byRoot := make([]uint32, n)
	for i := range byRoot {
		byRoot[i] = unset
	}
	labels = make([]uint32, n)
	for v := uint32(0); v < n; v++ {
		root := uf.Find(v)
		if byRoot[root] == unset {
			byRoot[root] = count
			count++
		}
		labels[v] = byRoot[root]
	}
	return labels, count
}

// LargestComponent returns the vertices of the largest weakly connected
// component, in ascending order.
func LargestComponent(g *Graph) []VertexID {
	labels, count := Components(g)
	if count == 0 {
		return nil
	}

	sizes := make([]uint32, count)
	for _, l := range labels {
		sizes[l]++
	}
	best := uint32(0)
	for c := uint32(1); c < count; c++ {
		if sizes[c] > sizes[best] {
			best = c
		}
	}

	nodes := make([]VertexID, 0, sizes[best])
	for v, l := range labels {
		if l == best {
			nodes = append(nodes, VertexID(v))
		}
	}
	return nodes
}
