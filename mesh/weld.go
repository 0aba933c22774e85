package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is an ordered triple of vertex indices.
type Triangle [3]int

// DefaultEpsilon is the default coordinate-quantization bucket width used by
// Weld when the caller does not supply one.
const DefaultEpsilon = 1e-5

// bucketKey is the integer-quantized coordinate triple identifying a welding
// bucket. Two positions land in the same bucket iff round(x/epsilon) agrees
// on every axis.
type bucketKey [3]int64

// WeldResult is the outcome of welding a triangle soup.
type WeldResult struct {
	// Positions holds one entry per welded (canonical) vertex.
	Positions []r3.Vec
	// OrigToWelded maps each original vertex index to its welded index.
	OrigToWelded []int
	// Faces holds the surviving triangles, rewritten in welded indices.
	Faces []Triangle
	// DroppedTriangles counts faces rejected because welding collapsed two or
	// more of their corners onto the same welded vertex.
	DroppedTriangles int
	// NonManifoldVertices holds the welded indices of "bowtie" vertices,
	// where two or more otherwise-disjoint triangle fans meet only at that
	// single vertex. Welding does not repair these (see DetectNonManifoldVertices);
	// it only reports them, the same way it reports DroppedTriangles, so
	// downstream consumers can decide whether to reject or tolerate the input.
	NonManifoldVertices []int
}

// Weld collapses numerically coincident vertices in a triangle soup into a
// canonical, minimal vertex set.
//
// Each position is quantized into an integer bucket via round(x/epsilon) on
// every axis; the first original vertex observed in a bucket becomes that
// bucket's canonical (welded) vertex, and every subsequent vertex in the same
// bucket maps to it. Faces are rewritten through the resulting map; a face
// whose three welded indices are not pairwise distinct is dropped and counted
// but does not abort the weld unless every face is dropped.
//
// epsilon <= 0 selects DefaultEpsilon. Returns ErrEmptyMesh if positions or
// faces is empty, ErrIndexOutOfRange if a face references an out-of-bounds
// vertex, and ErrNoSurvivingFaces if every face was dropped.
func Weld(positions []r3.Vec, faces []Triangle, epsilon float64) (*WeldResult, error) {
	if len(positions) == 0 || len(faces) == 0 {
		return nil, ErrEmptyMesh
	}
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	buckets := make(map[bucketKey]int, len(positions))
	origToWelded := make([]int, len(positions))
	welded := make([]r3.Vec, 0, len(positions))

	for i, p := range positions {
		key := bucketKey{
			int64(math.Round(p.X / epsilon)),
			int64(math.Round(p.Y / epsilon)),
			int64(math.Round(p.Z / epsilon)),
		}
		wi, ok := buckets[key]
		if !ok {
			wi = len(welded)
			buckets[key] = wi
			welded = append(welded, p)
		}
		origToWelded[i] = wi
	}

	result := &WeldResult{
		Positions:    welded,
		OrigToWelded: origToWelded,
		Faces:        make([]Triangle, 0, len(faces)),
	}

	for _, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(positions) {
				return nil, fmt.Errorf("%w: index %d (positions has %d entries)", ErrIndexOutOfRange, idx, len(positions))
			}
		}
		a, b, c := origToWelded[f[0]], origToWelded[f[1]], origToWelded[f[2]]
		if a == b || b == c || a == c {
			result.DroppedTriangles++
			continue
		}
		result.Faces = append(result.Faces, Triangle{a, b, c})
	}

	if len(result.Faces) == 0 {
		return nil, ErrNoSurvivingFaces
	}

	nonManifold, err := DetectNonManifoldVertices(result.Faces, len(result.Positions))
	if err != nil {
		return nil, fmt.Errorf("mesh: Weld: non-manifold check: %w", err)
	}
	result.NonManifoldVertices = nonManifold

	return result, nil
}
