package operators

import (
	"fmt"

	"github.com/arktouros/geodesic/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateAreaEpsilon is the face-area threshold below which a triangle is
// treated as degenerate: it is skipped during operator assembly (its
// gradient/divergence contribution is zero) rather than rejected outright,
// per the tolerate-but-flag policy for degenerate geometry.
const degenerateAreaEpsilon = 1e-14

// opLaplacian names this file's assembly step for error wrapping.
const opLaplacian = "Laplacian"

// Laplacian assembles the cotangent Laplacian over a welded mesh: symmetric,
// positive-semidefinite, each row summing to zero up to numerical error.
// Off-diagonal (u,v) accumulates -1/2*(cot(alpha)+cot(beta)) over the one or
// two triangles sharing edge (u,v); the diagonal is the negated row sum.
// Degenerate triangles (area <= degenerateAreaEpsilon) contribute nothing.
func Laplacian(positions []r3.Vec, faces []mesh.Triangle) (*Sparse, error) {
	n := len(positions)
	l, err := NewSparse(n, n)
	if err != nil {
		return nil, operatorsErrorf(opLaplacian, err)
	}

	for _, f := range faces {
		a, b, c := f[0], f[1], f[2]
		pa, pb, pc := positions[a], positions[b], positions[c]

		area := triangleArea(pa, pb, pc)
		if area <= degenerateAreaEpsilon {
			continue
		}

		cotA := cotangentAt(pa, pb, pc)
		cotB := cotangentAt(pb, pc, pa)
		cotC := cotangentAt(pc, pa, pb)

		addCotWeight(l, b, c, cotA)
		addCotWeight(l, c, a, cotB)
		addCotWeight(l, a, b, cotC)
	}

	// Diagonals are the negated row sum of off-diagonal entries, computed
	// after assembly so shared edges have accumulated both contributions.
	for i := 0; i < n; i++ {
		var rowSum float64
		for j, v := range l.Row(i) {
			if j != i {
				rowSum += v
			}
		}
		l.Set(i, i, -rowSum)
	}

	return l, nil
}

// addCotWeight accumulates the symmetric off-diagonal contribution
// -1/2*cot(angle) to both (u,v) and (v,u).
func addCotWeight(l *Sparse, u, v int, cot float64) {
	w := -0.5 * cot
	l.Add(u, v, w)
	l.Add(v, u, w)
}

// cotangentAt returns the cotangent of the angle at vertex `at`, opposite
// the edge (other1, other2).
func cotangentAt(at, other1, other2 r3.Vec) float64 {
	u := r3.Sub(other1, at)
	v := r3.Sub(other2, at)
	dot := r3.Dot(u, v)
	crossNorm := r3.Norm(r3.Cross(u, v))
	if crossNorm < 1e-20 {
		return 0
	}
	return dot / crossNorm
}

// triangleArea returns the Euclidean area of triangle (a,b,c).
func triangleArea(a, b, c r3.Vec) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// ErrAllDegenerate is returned by FaceAreas/Gradient callers (via operators
// consumers) when every triangle in a mesh is degenerate; it mirrors the
// fatal DegenerateGeometry condition those callers must report.
var errAllDegenerate = fmt.Errorf("operators: all triangles are degenerate (area <= %g)", degenerateAreaEpsilon)

// FaceAreas returns the area of each triangle, in face order. It returns
// errAllDegenerate if every triangle is degenerate.
func FaceAreas(positions []r3.Vec, faces []mesh.Triangle) ([]float64, error) {
	areas := make([]float64, len(faces))
	anyValid := false
	for i, f := range faces {
		a := triangleArea(positions[f[0]], positions[f[1]], positions[f[2]])
		areas[i] = a
		if a > degenerateAreaEpsilon {
			anyValid = true
		}
	}
	if !anyValid {
		return nil, errAllDegenerate
	}
	return areas, nil
}

// ErrAllDegenerate exposes errAllDegenerate for errors.Is checks by callers
// outside this package.
var ErrAllDegenerate = errAllDegenerate
