package meshgraph

import (
	"fmt"

	"github.com/arktouros/geodesic/astar"
	"github.com/arktouros/geodesic/path"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSamplesPerSegment is used by SmoothPath when the caller does not
// override it.
const DefaultSamplesPerSegment = 4

// ShortestPath returns the welded vertex sequence from start to end found by
// A* over this graph's adjacency, or nil if start/end are out of range or
// end is unreachable.
func (g *Graph) ShortestPath(start, end int) []int {
	return astar.ShortestPath(g, start, end)
}

// SmoothPath runs ShortestPath(start, end) and returns the resulting
// polyline smoothed with a centripetal Catmull-Rom spline at
// samplesPerSegment <= 0 resolving to DefaultSamplesPerSegment.
func (g *Graph) SmoothPath(start, end int, samplesPerSegment int) []r3.Vec {
	if samplesPerSegment <= 0 {
		samplesPerSegment = DefaultSamplesPerSegment
	}
	verts := g.ShortestPath(start, end)
	if len(verts) == 0 {
		return nil
	}

	points := g.positionsOf(verts)
	return path.Smooth(points, samplesPerSegment)
}

// ClosedLoop is the result of GenerateClosedLoop.
type ClosedLoop struct {
	// SimplifiedVertices holds the welded vertex indices that survived
	// simplification, in loop order.
	SimplifiedVertices []int
	// ResampledPolylineFlat holds the final arc-length-resampled loop as a
	// flat [x0,y0,z0,x1,y1,z1,...] coordinate array.
	ResampledPolylineFlat []float64
}

// GenerateClosedLoop composes the full interactive closed-loop pipeline:
// filter out-of-range indices, collapse consecutive and head/tail
// duplicates, connect consecutive surfaceVertices via ShortestPath, dedupe
// across segment boundaries, remove the wrap-around duplicate, simplify,
// closed-smooth, and arc-length resample. Returns ErrIndexOutOfRange only if
// that filtering leaves nothing at all; otherwise returns ErrInsufficientPoints
// (from the path package) if fewer than three distinct vertices survive at
// any stage.
func (g *Graph) GenerateClosedLoop(surfaceVertices []int) (*ClosedLoop, error) {
	n := g.VertexCount()

	filtered := make([]int, 0, len(surfaceVertices))
	for _, v := range surfaceVertices {
		if v >= 0 && v < n {
			filtered = append(filtered, v)
		}
	}
	filtered = collapseConsecutiveDuplicates(filtered)
	if len(filtered) >= 2 && filtered[0] == filtered[len(filtered)-1] {
		filtered = filtered[:len(filtered)-1]
	}
	if len(distinctOf(filtered)) < 3 {
		return nil, fmt.Errorf("meshgraph: closed loop: %w", path.ErrInsufficientPoints)
	}

	// Connect consecutive vertices (wrapping) via shortest path, concatenating
	// segments and deduping the junctions.
	full := make([]int, 0, len(filtered)*2)
	for i := 0; i < len(filtered); i++ {
		a := filtered[i]
		b := filtered[(i+1)%len(filtered)]
		seg := g.ShortestPath(a, b)
		if len(seg) == 0 {
			continue
		}
		if len(full) > 0 && full[len(full)-1] == seg[0] {
			seg = seg[1:]
		}
		full = append(full, seg...)
	}
	full = collapseConsecutiveDuplicates(full)
	if len(full) >= 2 && full[0] == full[len(full)-1] {
		full = full[:len(full)-1]
	}
	if len(distinctOf(full)) < 3 {
		return nil, fmt.Errorf("meshgraph: closed loop: %w", path.ErrInsufficientPoints)
	}

	epsilon := DefaultSimplifyFactorEpsilon(g.AverageEdgeLength())
	points := g.positionsOf(full)
	keptIdx := path.Simplify(points, epsilon)
	if len(keptIdx) < 3 {
		return nil, fmt.Errorf("meshgraph: closed loop: %w", path.ErrInsufficientPoints)
	}

	simplifiedVertices := make([]int, len(keptIdx))
	simplifiedPoints := make([]r3.Vec, len(keptIdx))
	for i, ki := range keptIdx {
		simplifiedVertices[i] = full[ki]
		simplifiedPoints[i] = points[ki]
	}

	smoothed := path.ClosedSmooth(simplifiedPoints, DefaultSamplesPerSegment)
	spacing := DefaultSpacingOf(g.AverageEdgeLength())
	resampled := path.ResampleByArcLength(smoothed, spacing)

	flat := make([]float64, 0, len(resampled)*3)
	for _, p := range resampled {
		flat = append(flat, p.X, p.Y, p.Z)
	}

	return &ClosedLoop{
		SimplifiedVertices:     simplifiedVertices,
		ResampledPolylineFlat: flat,
	}, nil
}

// DefaultSimplifyFactorEpsilon resolves simplify's default epsilon from a
// mesh's mean edge length, per path.DefaultSimplifyFactor.
func DefaultSimplifyFactorEpsilon(meanEdgeLength float64) float64 {
	return path.DefaultSimplifyFactor * meanEdgeLength
}

// DefaultSpacingOf resolves resample's default spacing from a mesh's mean
// edge length, per path.DefaultSpacingFactor.
func DefaultSpacingOf(meanEdgeLength float64) float64 {
	return path.DefaultSpacingFactor * meanEdgeLength
}

func (g *Graph) positionsOf(verts []int) []r3.Vec {
	out := make([]r3.Vec, len(verts))
	for i, v := range verts {
		out[i] = g.positions[v]
	}
	return out
}

func collapseConsecutiveDuplicates(verts []int) []int {
	out := make([]int, 0, len(verts))
	for _, v := range verts {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

func distinctOf(verts []int) map[int]struct{} {
	set := make(map[int]struct{}, len(verts))
	for _, v := range verts {
		set[v] = struct{}{}
	}
	return set
}
