package path

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSpacingFactor is multiplied by the caller's mean edge length to
// obtain the default resampling spacing when spacing <= 0 is passed to a
// caller that resolves the default itself (see meshgraph).
const DefaultSpacingFactor = 2.0

// ResampleByArcLength walks points and emits samples at (approximately)
// equal arc-length spacing. The first output point equals points[0]; the
// last equals points[len(points)-1]. numSamples is chosen as
// max(2, ceil(total/spacing)+1); since that formula can overshoot the total
// arc length, the final target is clamped to the true endpoint, and if the
// gap this leaves exceeds 10% of spacing an extra endpoint sample is
// appended instead of silently merging it into the prior sample.
func ResampleByArcLength(points []r3.Vec, spacing float64) []r3.Vec {
	if len(points) == 0 {
		return nil
	}
	if len(points) == 1 {
		return []r3.Vec{points[0], points[0]}
	}

	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cum[i] = cum[i-1] + r3.Norm(r3.Sub(points[i], points[i-1]))
	}
	total := cum[len(cum)-1]

	if spacing <= 0 {
		spacing = 1e-9
	}

	numSamples := int(math.Ceil(total/spacing)) + 1
	if numSamples < 2 {
		numSamples = 2
	}

	out := make([]r3.Vec, 0, numSamples+1)
	out = append(out, points[0])

	seg := 0
	lastTarget := 0.0
	for i := 1; i < numSamples-1; i++ {
		target := float64(i) * spacing
		if target > total {
			target = total
		}
		lastTarget = target
		out = append(out, pointAtArcLength(points, cum, &seg, target))
	}

	endpoint := points[len(points)-1]
	gap := total - lastTarget
	if numSamples >= 3 && gap <= 0.1*spacing && len(out) > 1 {
		// The last interior sample already lies within the tolerance of the
		// true endpoint; overwrite it rather than emit a near-duplicate.
		out[len(out)-1] = endpoint
	} else {
		out = append(out, endpoint)
	}

	return out
}

// pointAtArcLength interpolates the point at cumulative arc length target
// along points/cum, advancing the shared segment cursor seg monotonically
// (callers invoke this with non-decreasing target values).
func pointAtArcLength(points []r3.Vec, cum []float64, seg *int, target float64) r3.Vec {
	for *seg < len(cum)-2 && cum[*seg+1] < target {
		*seg++
	}
	a, b := points[*seg], points[*seg+1]
	segLen := cum[*seg+1] - cum[*seg]
	if segLen < 1e-12 {
		return a
	}
	t := (target - cum[*seg]) / segLen
	t = math.Max(0, math.Min(1, t))
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}
