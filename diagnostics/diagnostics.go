package diagnostics

import (
	"math"
	"strconv"

	"github.com/arktouros/geodesic/bfs"
	"github.com/arktouros/geodesic/core"
	"github.com/arktouros/geodesic/dijkstra"
	"github.com/arktouros/geodesic/heat"
	"github.com/arktouros/geodesic/matrix"
	"github.com/arktouros/geodesic/meshgraph"
	"github.com/arktouros/geodesic/prim_kruskal"
)

// ComponentCount returns the number of connected components of cg, found by
// repeatedly running breadth-first search from an unvisited vertex until all
// vertices are accounted for.
func ComponentCount(cg *core.Graph) (int, error) {
	visited := make(map[string]bool, cg.VertexCount())
	count := 0
	for _, id := range cg.Vertices() {
		if visited[id] {
			continue
		}
		result, err := bfs.BFS(cg, id)
		if err != nil {
			return 0, diagnosticsErrorf("ComponentCount", err)
		}
		for _, v := range result.Order {
			visited[v] = true
		}
		count++
	}
	return count, nil
}

// SpanningLength returns the total edge weight of a minimum spanning tree
// over cg, scaled back down by scale into the same units as the original
// mesh edge lengths. Returns prim_kruskal.ErrDisconnected if cg spans more
// than one component, since no single spanning tree covers it.
func SpanningLength(cg *core.Graph, scale float64) (float64, error) {
	if scale <= 0 {
		scale = DefaultWeightScale
	}
	_, total, err := prim_kruskal.Compute(cg, prim_kruskal.DefaultOptions())
	if err != nil {
		return 0, diagnosticsErrorf("SpanningLength", err)
	}
	return float64(total) / scale, nil
}

// GraphDiameter returns the largest finite pairwise shortest-path distance
// over cg (the mesh's geodesic-graph diameter, as approximated by its edge
// graph rather than the true surface), found via Floyd-Warshall over a
// dense all-pairs metric closure. Infeasible for large meshes (O(n^3)); this
// is a --stats debug aid for small and medium fixtures only. Returns 0 for
// graphs with fewer than two vertices.
func GraphDiameter(cg *core.Graph, scale float64) (float64, error) {
	if scale <= 0 {
		scale = DefaultWeightScale
	}
	if cg.VertexCount() < 2 {
		return 0, nil
	}

	opts := matrix.NewMatrixOptions(matrix.WithUndirected(), matrix.WithWeighted(), matrix.WithAllowInfDistances())
	am, err := matrix.BuildMetricClosure(cg, opts)
	if err != nil {
		return 0, diagnosticsErrorf("GraphDiameter", err)
	}

	n, err := am.VertexCount()
	if err != nil {
		return 0, diagnosticsErrorf("GraphDiameter", err)
	}

	var maxDist float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d, err := am.Mat.At(i, j)
			if err != nil {
				return 0, diagnosticsErrorf("GraphDiameter", err)
			}
			if !math.IsInf(d, 1) && d > maxDist {
				maxDist = d
			}
		}
	}

	return maxDist / scale, nil
}

// DistanceFieldCorrelation computes the distance field from each of sources
// independently via solver, then returns the Pearson correlation matrix
// between those fields (one row/column per source) using this module's
// retained dense statistics package. Two sources whose fields correlate
// near 1 illuminate roughly the same region of the mesh from roughly the
// same direction; correlation well below 1 indicates the sources probe
// different parts of the surface. Requires at least 2 vertices and 2
// sources.
func DistanceFieldCorrelation(solver *heat.Solver, sources []int) (matrix.Matrix, error) {
	x, _, err := fieldMatrix(solver, sources, "DistanceFieldCorrelation")
	if err != nil {
		return nil, err
	}

	corr, _, _, err := matrix.Correlation(x)
	if err != nil {
		return nil, diagnosticsErrorf("DistanceFieldCorrelation", err)
	}
	return corr, nil
}

// fieldMatrix computes the distance field from each of sources independently
// via solver and assembles them as columns of an n-by-len(sources) dense
// matrix, returning the raw per-source fields alongside it so callers that
// need both the matrix form (for matrix package statistics) and the raw
// slices (for direct per-vertex arithmetic) don't recompute the fields
// twice. op labels any returned error with the caller's exported name.
func fieldMatrix(solver *heat.Solver, sources []int, op string) (matrix.Matrix, [][]float64, error) {
	if len(sources) < 2 {
		return nil, nil, diagnosticsErrorf(op, ErrVertexOutOfRange)
	}

	n := solver.VertexCount()
	fields := make([][]float64, len(sources))
	for i, src := range sources {
		dist, err := solver.ComputeDistance([]int{src})
		if err != nil {
			return nil, nil, diagnosticsErrorf(op, err)
		}
		fields[i] = dist
	}

	x, err := matrix.NewDense(n, len(sources))
	if err != nil {
		return nil, nil, diagnosticsErrorf(op, err)
	}
	for col, field := range fields {
		for row, v := range field {
			if err := x.Set(row, col, v); err != nil {
				return nil, nil, diagnosticsErrorf(op, err)
			}
		}
	}

	return x, fields, nil
}

// VertexDegrees returns, for every vertex of cg (keyed by its string ID), the
// number of edges incident to it, computed from a dense incidence matrix
// rather than by walking adjacency lists. This gives ComponentCount and
// SpanningLength an independent structural cross-check: a vertex whose
// incidence-row degree disagrees with its adjacency-list neighbor count
// signals a malformed projection rather than a property of the mesh.
func VertexDegrees(cg *core.Graph) (map[string]int, error) {
	opts := matrix.NewMatrixOptions(matrix.WithUndirected(), matrix.WithWeighted())
	im, err := matrix.NewIncidenceMatrix(cg, opts)
	if err != nil {
		return nil, diagnosticsErrorf("VertexDegrees", err)
	}

	edgeCount, err := im.EdgeCount()
	if err != nil {
		return nil, diagnosticsErrorf("VertexDegrees", err)
	}

	degrees := make(map[string]int, len(im.VertexIndex))
	for vertexID := range im.VertexIndex {
		row, err := im.VertexIncidence(vertexID)
		if err != nil {
			return nil, diagnosticsErrorf("VertexDegrees", err)
		}
		degree := 0
		for j := 0; j < edgeCount; j++ {
			if row[j] != 0 {
				degree++
			}
		}
		degrees[vertexID] = degree
	}

	return degrees, nil
}

// CrossCheckResult reports whether A*'s reported path length agrees with an
// independently computed Dijkstra shortest-path distance between the same
// two vertices of a mesh graph.
type CrossCheckResult struct {
	DijkstraDistance float64
	Agrees           bool
}

// CrossCheck runs Dijkstra from source to target over a projection of g and
// compares the result against astarLength (typically the length of an
// astar.ShortestPath walk, summed over its edge weights), agreeing if the
// two are within relativeTolerance of each other. relativeTolerance <= 0
// selects 1e-3. This is the independent-algorithm oracle testable property
// for A*'s optimality on arbitrary mesh graphs.
func CrossCheck(g *meshgraph.Graph, source, target int, astarLength float64, relativeTolerance float64) (*CrossCheckResult, error) {
	if relativeTolerance <= 0 {
		relativeTolerance = 1e-3
	}

	cg, err := ProjectGraph(g, DefaultWeightScale)
	if err != nil {
		return nil, diagnosticsErrorf("CrossCheck", err)
	}

	dist, _, err := dijkstra.Dijkstra(cg, dijkstra.Source(strconv.Itoa(source)))
	if err != nil {
		return nil, diagnosticsErrorf("CrossCheck", err)
	}

	targetID := strconv.Itoa(target)
	scaled, ok := dist[targetID]
	if !ok {
		return nil, diagnosticsErrorf("CrossCheck", ErrVertexOutOfRange)
	}
	dijkstraDistance := float64(scaled) / DefaultWeightScale

	denom := math.Max(1e-12, dijkstraDistance)
	agrees := math.Abs(dijkstraDistance-astarLength)/denom <= relativeTolerance

	return &CrossCheckResult{DijkstraDistance: dijkstraDistance, Agrees: agrees}, nil
}
