package operators

import (
	"github.com/arktouros/geodesic/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// LumpedMass returns the diagonal lumped mass matrix as a length-n vector:
// each vertex's entry is one third of the area of every non-degenerate
// triangle incident to it (the standard barycentric lumping of the Voronoi
// mass matrix). A vertex touched only by degenerate triangles, or touched by
// none, has entry zero.
func LumpedMass(positions []r3.Vec, faces []mesh.Triangle) []float64 {
	m := make([]float64, len(positions))
	for _, f := range faces {
		a, b, c := f[0], f[1], f[2]
		area := triangleArea(positions[a], positions[b], positions[c])
		if area <= degenerateAreaEpsilon {
			continue
		}
		third := area / 3
		m[a] += third
		m[b] += third
		m[c] += third
	}
	return m
}
