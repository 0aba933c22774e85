// Package astar implements A* shortest-path search over a Euclidean-weighted
// mesh graph using a genuinely indexed binary min-heap: every vertex's
// position in the heap is tracked in a side index, so relaxing an edge that
// improves a vertex already on the open set is a true O(log n) decrease-key
// rather than a second, stale push.
package astar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Graph is the minimal surface A* needs from a mesh graph: vertex count,
// positions (for the Euclidean heuristic), and weighted adjacency.
type Graph interface {
	VertexCount() int
	Position(i int) (r3.Vec, error)
	ForEachNeighbor(i int, fn func(neighbor int, weight float64))
}

// ShortestPath returns the sequence of vertex indices from start to end,
// inclusive, found by A* with the straight-line Euclidean distance to end as
// heuristic (admissible because edge weights are themselves Euclidean edge
// lengths). Returns an empty slice if start or end is out of range, if end is
// unreachable from start, or if the graph has zero vertices. Returns [start]
// when start == end.
func ShortestPath(g Graph, start, end int) []int {
	n := g.VertexCount()
	if start < 0 || start >= n || end < 0 || end >= n {
		return nil
	}
	if start == end {
		return []int{start}
	}

	endPos, err := g.Position(end)
	if err != nil {
		return nil
	}

	const inf = math.MaxFloat64
	gScore := make([]float64, n)
	prev := make([]int, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = inf
		prev[i] = -1
	}
	gScore[start] = 0

	heuristic := func(v int) float64 {
		p, err := g.Position(v)
		if err != nil {
			return inf
		}
		return r3.Norm(r3.Sub(p, endPos))
	}

	open := newIndexedHeap(n)
	open.push(start, heuristic(start))

	for open.len() > 0 {
		u, _ := open.popMin()
		if u == end {
			break
		}
		if closed[u] {
			continue
		}
		closed[u] = true

		g.ForEachNeighbor(u, func(v int, w float64) {
			if closed[v] {
				return
			}
			cand := gScore[u] + w
			if cand < gScore[v] {
				gScore[v] = cand
				prev[v] = u
				f := cand + heuristic(v)
				if open.contains(v) {
					open.decreaseKey(v, f)
				} else {
					open.push(v, f)
				}
			}
		})
	}

	if gScore[end] == inf {
		return nil
	}

	path := make([]int, 0)
	for v := end; v != -1; v = prev[v] {
		path = append(path, v)
		if v == start {
			break
		}
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
