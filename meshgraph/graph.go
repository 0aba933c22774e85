package meshgraph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arktouros/geodesic/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Neighbor is one adjacency entry: the neighboring welded vertex index and
// the Euclidean length of the edge connecting it to the owning vertex.
type Neighbor struct {
	Index  int
	Weight float64
}

// Graph is the undirected, Euclidean-weighted adjacency structure over a
// welded mesh. It is built once and is safe for concurrent read access from
// multiple goroutines thereafter; nothing mutates it after Build returns.
type Graph struct {
	mu sync.RWMutex

	positions    []r3.Vec
	origToWelded []int
	faces        []mesh.Triangle
	adjacency    [][]Neighbor

	edgeCount           int
	totalEdgeLength     float64
	droppedTriangles    int
	nonManifoldVertices []int
}

// DefaultMeanEdgeLength is used when a graph has no edges at all.
const DefaultMeanEdgeLength = 0.01

// Build welds the given triangle soup (merge_epsilon <= 0 selects
// mesh.DefaultEpsilon) and constructs the adjacency list over the resulting
// welded vertices. Each undirected edge is inserted at most once; both
// endpoints receive a reciprocal Neighbor entry with the same weight.
func Build(positions []r3.Vec, faces []mesh.Triangle, mergeEpsilon float64) (*Graph, error) {
	welded, err := mesh.Weld(positions, faces, mergeEpsilon)
	if err != nil {
		return nil, fmt.Errorf("meshgraph: build: %w", err)
	}

	g := &Graph{
		positions:        welded.Positions,
		origToWelded:     welded.OrigToWelded,
		faces:            welded.Faces,
		adjacency:           make([][]Neighbor, len(welded.Positions)),
		droppedTriangles:    welded.DroppedTriangles,
		nonManifoldVertices: welded.NonManifoldVertices,
	}

	// seen[a] is the set of neighbor indices already wired for vertex a, used
	// to deduplicate an unordered pair across however many faces share it.
	seen := make([]map[int]struct{}, len(welded.Positions))
	for i := range seen {
		seen[i] = make(map[int]struct{})
	}

	addEdge := func(a, b int) {
		if a == b {
			return
		}
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		if _, ok := seen[lo][hi]; ok {
			return
		}
		seen[lo][hi] = struct{}{}
		w := r3.Norm(r3.Sub(g.positions[a], g.positions[b]))
		g.adjacency[a] = append(g.adjacency[a], Neighbor{Index: b, Weight: w})
		g.adjacency[b] = append(g.adjacency[b], Neighbor{Index: a, Weight: w})
		g.edgeCount++
		g.totalEdgeLength += w
	}

	for _, f := range welded.Faces {
		addEdge(f[0], f[1])
		addEdge(f[1], f[2])
		addEdge(f[2], f[0])
	}

	for i := range g.adjacency {
		sort.Slice(g.adjacency[i], func(a, b int) bool { return g.adjacency[i][a].Index < g.adjacency[i][b].Index })
	}

	return g, nil
}

// VertexCount returns the number of welded vertices.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.positions)
}

// Position returns the welded position of vertex i.
func (g *Graph) Position(i int) (r3.Vec, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if i < 0 || i >= len(g.positions) {
		return r3.Vec{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	return g.positions[i], nil
}

// MergedIndex returns the welded vertex index that original vertex origIndex
// maps to.
func (g *Graph) MergedIndex(origIndex int) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if origIndex < 0 || origIndex >= len(g.origToWelded) {
		return -1, fmt.Errorf("%w: %d", ErrIndexOutOfRange, origIndex)
	}

	return g.origToWelded[origIndex], nil
}

// AverageEdgeLength returns the mean Euclidean edge length, or
// DefaultMeanEdgeLength if the graph has no edges.
func (g *Graph) AverageEdgeLength() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.edgeCount == 0 {
		return DefaultMeanEdgeLength
	}

	return g.totalEdgeLength / float64(g.edgeCount)
}

// Neighbors returns the adjacency entries of vertex i, sorted by neighbor
// index. The returned slice must not be mutated by the caller.
func (g *Graph) Neighbors(i int) ([]Neighbor, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if i < 0 || i >= len(g.adjacency) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	return g.adjacency[i], nil
}

// ForEachNeighbor calls fn once per adjacency entry of vertex i, satisfying
// astar.Graph without exposing meshgraph's Neighbor type to that package.
func (g *Graph) ForEachNeighbor(i int, fn func(neighbor int, weight float64)) {
	g.mu.RLock()
	neighbors := g.adjacency[i]
	g.mu.RUnlock()

	for _, nb := range neighbors {
		fn(nb.Index, nb.Weight)
	}
}

// Faces returns the surviving welded triangles.
func (g *Graph) Faces() []mesh.Triangle {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.faces
}

// Positions returns the welded vertex positions.
func (g *Graph) Positions() []r3.Vec {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.positions
}

// DroppedTriangles returns the count of faces rejected at weld time because
// welding collapsed two or more of their corners onto the same vertex.
func (g *Graph) DroppedTriangles() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.droppedTriangles
}

// NonManifoldVertices returns the welded indices of "bowtie" vertices
// reported by the welder: points where two or more otherwise-disjoint
// triangle fans meet only at that single vertex. The mesh graph is still
// built over them (see mesh.DetectNonManifoldVertices); callers that need to
// reject non-manifold input should check len(NonManifoldVertices()) == 0
// themselves. Returns nil if none were found.
func (g *Graph) NonManifoldVertices() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.nonManifoldVertices
}

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgeCount
}
