package mesh

import (
	"strconv"

	"github.com/arktouros/geodesic/core"
	"github.com/arktouros/geodesic/dfs"
)

// linkCycles builds the link graph of welded vertex v — one vertex per
// neighbor appearing opposite v in an incident face, one edge per such
// opposite pair — and returns how many distinct simple cycles that link
// graph decomposes into.
//
// A manifold interior vertex's incident faces form a single fan around v, so
// their opposite edges chain into exactly one cycle. A manifold boundary
// vertex's fan is open, so its link graph is a single path with no cycle at
// all. A vertex where two or more otherwise-disjoint fans meet only at v (the
// classic "bowtie" non-manifold configuration) produces two or more disjoint
// cycles in its link graph, which is exactly what distinguishes it from the
// two manifold cases above.
func linkCycles(v int, faces []Triangle) (int, error) {
	link := core.NewGraph(core.WithDirected(false))

	for _, f := range faces {
		var opposite [2]int
		n := 0
		for _, corner := range f {
			if corner == v {
				continue
			}
			opposite[n] = corner
			n++
		}
		if n != 2 {
			// v does not appear in this face (or appears more than once,
			// which Weld already rejects as degenerate); nothing to link.
			continue
		}

		a, b := strconv.Itoa(opposite[0]), strconv.Itoa(opposite[1])
		if err := link.AddVertex(a); err != nil {
			return 0, err
		}
		if err := link.AddVertex(b); err != nil {
			return 0, err
		}
		if _, err := link.AddEdge(a, b, 0); err != nil {
			return 0, err
		}
	}

	found, cycles, err := dfs.DetectCycles(link)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return len(cycles), nil
}

// DetectNonManifoldVertices reports which welded vertices are non-manifold
// "bowtie" vertices: points where two or more otherwise-disjoint fans of
// triangles meet only at that single vertex, sharing no edge. It inspects
// each vertex's incident faces via the link-graph construction described at
// linkCycles and flags a vertex the moment its link graph contains two or
// more disjoint cycles. Returns the flagged vertex indices in ascending
// order. A mesh with no bowtie vertices returns a nil slice and no error.
func DetectNonManifoldVertices(faces []Triangle, vertexCount int) ([]int, error) {
	incident := make([][]Triangle, vertexCount)
	for _, f := range faces {
		for _, corner := range f {
			if corner < 0 || corner >= vertexCount {
				continue
			}
			incident[corner] = append(incident[corner], f)
		}
	}

	var flagged []int
	for v := 0; v < vertexCount; v++ {
		if len(incident[v]) < 2 {
			continue
		}
		cycles, err := linkCycles(v, incident[v])
		if err != nil {
			return nil, err
		}
		if cycles >= 2 {
			flagged = append(flagged, v)
		}
	}

	return flagged, nil
}
