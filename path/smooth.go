package path

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// centripetalAlpha is the knot-spacing exponent that makes the spline
// centripetal (avoids cusps and self-intersection loops on non-uniform
// control point spacing, unlike the uniform alpha=0 parametrization).
const centripetalAlpha = 0.5

// Smooth produces a centripetal Catmull-Rom spline through the open control
// polyline points. Two points degenerate to linear interpolation. Three or
// more points produce (len(points)-1)*samplesPerSegment + 1 samples spanning
// the whole curve; the first and last output points equal the first and last
// control points exactly.
func Smooth(points []r3.Vec, samplesPerSegment int) []r3.Vec {
	if samplesPerSegment < 1 {
		samplesPerSegment = 1
	}
	if len(points) < 2 {
		return append([]r3.Vec(nil), points...)
	}
	if len(points) == 2 {
		return linearInterpolate(points[0], points[1], samplesPerSegment)
	}

	n := len(points)
	out := make([]r3.Vec, 0, (n-1)*samplesPerSegment+1)
	for i := 0; i < n-1; i++ {
		p0 := points[clampIndex(i-1, n)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[clampIndex(i+2, n)]
		if i == 0 {
			p0 = reflect(p1, p2)
		}
		if i == n-2 {
			p3 = reflect(p2, p1)
		}
		for s := 0; s < samplesPerSegment; s++ {
			t := float64(s) / float64(samplesPerSegment)
			out = append(out, catmullRomPoint(p0, p1, p2, p3, t))
		}
	}
	out = append(out, points[n-1])

	return out
}

// ClosedSmooth is Smooth's closed-loop counterpart: points is treated as a
// cyclic control polygon and n*samplesPerSegment samples are emitted over
// the full loop (the final sample does not repeat the first).
func ClosedSmooth(points []r3.Vec, samplesPerSegment int) []r3.Vec {
	if samplesPerSegment < 1 {
		samplesPerSegment = 1
	}
	n := len(points)
	if n < 3 {
		return append([]r3.Vec(nil), points...)
	}

	out := make([]r3.Vec, 0, n*samplesPerSegment)
	for i := 0; i < n; i++ {
		p0 := points[((i-1)%n+n)%n]
		p1 := points[i]
		p2 := points[(i+1)%n]
		p3 := points[(i+2)%n]
		for s := 0; s < samplesPerSegment; s++ {
			t := float64(s) / float64(samplesPerSegment)
			out = append(out, catmullRomPoint(p0, p1, p2, p3, t))
		}
	}

	return out
}

func linearInterpolate(a, b r3.Vec, samplesPerSegment int) []r3.Vec {
	out := make([]r3.Vec, 0, samplesPerSegment+1)
	for s := 0; s <= samplesPerSegment; s++ {
		t := float64(s) / float64(samplesPerSegment)
		out = append(out, r3.Add(a, r3.Scale(t, r3.Sub(b, a))))
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// reflect produces a phantom control point beyond `outer`, mirroring `inner`
// through it, for the open curve's missing boundary neighbor.
func reflect(outer, inner r3.Vec) r3.Vec {
	return r3.Add(outer, r3.Sub(outer, inner))
}

// catmullRomPoint evaluates the centripetal Catmull-Rom curve at local
// parameter t in [0,1] between p1 and p2, using p0 and p3 as the preceding
// and following control points.
func catmullRomPoint(p0, p1, p2, p3 r3.Vec, t float64) r3.Vec {
	t0 := 0.0
	t1 := t0 + knotDelta(p0, p1)
	t2 := t1 + knotDelta(p1, p2)
	t3 := t2 + knotDelta(p2, p3)

	tt := t1 + t*(t2-t1)

	a1 := lerpKnot(p0, p1, t0, t1, tt)
	a2 := lerpKnot(p1, p2, t1, t2, tt)
	a3 := lerpKnot(p2, p3, t2, t3, tt)

	b1 := lerpKnot2(a1, a2, t0, t2, tt)
	b2 := lerpKnot2(a2, a3, t1, t3, tt)

	return lerpKnot2(b1, b2, t1, t2, tt)
}

func knotDelta(a, b r3.Vec) float64 {
	d := r3.Norm(r3.Sub(b, a))
	if d < 1e-12 {
		return 1e-6
	}
	return math.Pow(d, centripetalAlpha)
}

func lerpKnot(p0, p1 r3.Vec, t0, t1, t float64) r3.Vec {
	if t1-t0 < 1e-12 {
		return p0
	}
	w := (t - t0) / (t1 - t0)
	return r3.Add(r3.Scale(1-w, p0), r3.Scale(w, p1))
}

func lerpKnot2(p0, p1 r3.Vec, t0, t1, t float64) r3.Vec {
	return lerpKnot(p0, p1, t0, t1, t)
}
