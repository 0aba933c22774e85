package path

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSimplifyFactor is multiplied by the caller's mean edge length to
// obtain the default Douglas-Peucker tolerance when epsilon <= 0 is passed to
// a caller that resolves the default itself (see meshgraph).
const DefaultSimplifyFactor = 0.1

// Simplify runs Douglas-Peucker simplification over points and returns the
// indices (into points, ascending) that survive. The two endpoints are
// always kept. Distance from a point to the current chord uses the clamped
// projection onto the segment, so points beyond either endpoint are measured
// to that endpoint rather than to the infinite line.
func Simplify(points []r3.Vec, epsilon float64) []int {
	if len(points) <= 2 {
		out := make([]int, len(points))
		for i := range out {
			out[i] = i
		}
		return out
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	douglasPeucker(points, 0, len(points)-1, epsilon, keep)

	out := make([]int, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, i)
		}
	}
	return out
}

func douglasPeucker(points []r3.Vec, lo, hi int, epsilon float64, keep []bool) {
	if hi <= lo+1 {
		return
	}

	maxDist := -1.0
	maxIdx := -1
	for i := lo + 1; i < hi; i++ {
		d := pointToSegmentDistance(points[i], points[lo], points[hi])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist > epsilon {
		keep[maxIdx] = true
		douglasPeucker(points, lo, maxIdx, epsilon, keep)
		douglasPeucker(points, maxIdx, hi, epsilon, keep)
	}
}

// pointToSegmentDistance returns the distance from p to the segment [a,b]
// using the clamped projection: points whose projection falls outside the
// segment span are measured to the nearest endpoint instead of to the
// infinite line through a and b.
func pointToSegmentDistance(p, a, b r3.Vec) float64 {
	ab := r3.Sub(b, a)
	abLenSq := r3.Dot(ab, ab)
	if abLenSq < 1e-20 {
		return r3.Norm(r3.Sub(p, a))
	}

	t := r3.Dot(r3.Sub(p, a), ab) / abLenSq
	t = math.Max(0, math.Min(1, t))
	proj := r3.Add(a, r3.Scale(t, ab))

	return r3.Norm(r3.Sub(p, proj))
}
