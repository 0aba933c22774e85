package operators

import (
	"github.com/arktouros/geodesic/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// opGradient names this file's assembly step for error wrapping.
const opGradient = "Gradient"

// Gradient assembles the per-face linear gradient operator G (3m x n, m =
// len(faces), n = len(positions)): rows 3f, 3f+1, 3f+2 hold the x, y, z
// components of grad(u)|_f for a piecewise-linear scalar field u, expressed
// as a linear combination of the field's n vertex values. Its transpose
// gives the (area-weighted, once multiplied by FaceAreaWeights) divergence
// used by the heat solver's Poisson step.
//
// Degenerate triangles (area <= degenerateAreaEpsilon) contribute an
// all-zero row triple, per the tolerate-but-flag design for degeneracy.
func Gradient(positions []r3.Vec, faces []mesh.Triangle) (*Sparse, error) {
	m := len(faces)
	n := len(positions)
	g, err := NewSparse(3*m, n)
	if err != nil {
		return nil, operatorsErrorf(opGradient, err)
	}

	for fi, f := range faces {
		a, b, c := f[0], f[1], f[2]
		pa, pb, pc := positions[a], positions[b], positions[c]

		area := triangleArea(pa, pb, pc)
		if area <= degenerateAreaEpsilon {
			continue
		}

		normal := r3.Scale(1/(2*area), r3.Cross(r3.Sub(pb, pa), r3.Sub(pc, pa)))

		// For vertex i the contribution is (normal x edge_opposite_i) /
		// (2*area), where edge_opposite_i runs between the other two
		// vertices in a consistently oriented (ccw w.r.t. normal) order.
		contribute := func(vertex int, oppEdgeStart, oppEdgeEnd r3.Vec) {
			edge := r3.Sub(oppEdgeEnd, oppEdgeStart)
			coeff := r3.Scale(1/(2*area), r3.Cross(normal, edge))
			row := 3 * fi
			g.Add(row, vertex, coeff.X)
			g.Add(row+1, vertex, coeff.Y)
			g.Add(row+2, vertex, coeff.Z)
		}

		contribute(a, pb, pc)
		contribute(b, pc, pa)
		contribute(c, pa, pb)
	}

	return g, nil
}

// FaceAreaWeights replicates each face's area three times (once per x/y/z
// gradient row) into a length-3m vector, as the divergence step requires.
func FaceAreaWeights(faceAreas []float64) []float64 {
	out := make([]float64, 0, 3*len(faceAreas))
	for _, a := range faceAreas {
		out = append(out, a, a, a)
	}
	return out
}
