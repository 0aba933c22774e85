// Package diagnostics projects a mesh graph onto the retained general-
// purpose graph toolkit (core/bfs/dijkstra/prim_kruskal/matrix) to answer
// auxiliary questions a geodesic pipeline operator cares about but the Heat
// Method and A* solvers do not answer themselves: how many connected
// components the mesh has, how long a minimum spanning tree over it would
// be, whether A*'s answer agrees with an independent single-source-
// shortest-path algorithm on the same weighted graph, and a battery of
// dense-linear-algebra and statistics cross-checks (vertex degree, adjacency
// round trips, graph diameter, and multi-source distance-field correlation
// and covariance) over that same projection.
package diagnostics

import (
	"errors"
	"fmt"
)

// ErrEmptyGraph is returned when a projection has no vertices to diagnose.
var ErrEmptyGraph = errors.New("diagnostics: graph has no vertices")

// ErrVertexOutOfRange is returned when a requested vertex index is outside
// the projected graph.
var ErrVertexOutOfRange = errors.New("diagnostics: vertex index out of range")

// ErrInsufficientPoints is returned when a fit or statistic requires more
// points than were provided.
var ErrInsufficientPoints = errors.New("diagnostics: insufficient points")

// ErrDegenerateFit is returned when a least-squares fit's normal equations
// are singular or when two independent solves of the same system disagree
// beyond tolerance, indicating the input points do not determine a stable
// solution (e.g. collinear points for a plane fit).
var ErrDegenerateFit = errors.New("diagnostics: degenerate fit")

func diagnosticsErrorf(op string, err error) error {
	return fmt.Errorf("diagnostics: %s: %w", op, err)
}
