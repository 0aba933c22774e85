package diagnostics

import (
	"math"
	"strconv"

	"github.com/arktouros/geodesic/core"
	"github.com/arktouros/geodesic/meshgraph"
)

// DefaultWeightScale converts a Euclidean edge length into the integer
// weight core.Graph requires, at a resolution fine enough that mesh-scale
// geometry (edge lengths typically in [1e-3, 1e3]) does not collapse
// distinct lengths onto the same integer.
const DefaultWeightScale = 1e6

// ProjectGraph builds an undirected, weighted *core.Graph mirroring g's
// adjacency, with vertex IDs strconv.Itoa(i) and edge weights equal to
// round(length*scale). scale <= 0 selects DefaultWeightScale. This is the
// bridge that lets the retained bfs/dijkstra/prim_kruskal toolkit, built for
// core.Graph's integer-weighted model, operate over mesh geometry.
func ProjectGraph(g *meshgraph.Graph, scale float64) (*core.Graph, error) {
	if scale <= 0 {
		scale = DefaultWeightScale
	}
	n := g.VertexCount()
	if n == 0 {
		return nil, diagnosticsErrorf("ProjectGraph", ErrEmptyGraph)
	}

	cg := core.NewGraph(core.WithWeighted())
	for i := 0; i < n; i++ {
		if err := cg.AddVertex(strconv.Itoa(i)); err != nil {
			return nil, diagnosticsErrorf("ProjectGraph", err)
		}
	}

	var buildErr error
	for i := 0; i < n; i++ {
		g.ForEachNeighbor(i, func(neighbor int, weight float64) {
			if neighbor <= i || buildErr != nil {
				return // undirected edge already added from the lower index
			}
			w := int64(math.Round(weight * scale))
			if w < 0 {
				w = 0
			}
			if _, err := cg.AddEdge(strconv.Itoa(i), strconv.Itoa(neighbor), w); err != nil {
				buildErr = err
			}
		})
	}
	if buildErr != nil {
		return nil, diagnosticsErrorf("ProjectGraph", buildErr)
	}

	return cg, nil
}
