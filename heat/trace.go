package heat

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultDescentEpsilon is the minimum strict decrease trace_path requires
// before stepping to a neighbor.
const DefaultDescentEpsilon = 1e-6

// GeodesicPath is the result of tracing a distance field from source to
// target: the welded vertex sequence, the corresponding 3-D polyline, the
// distance at target, and whether the descent stalled at a local minimum
// before reaching source (in which case source was prepended best-effort).
type GeodesicPath struct {
	Vertices []int
	Polyline []r3.Vec
	Length   float64
	Stalled  bool
}

// TracePath performs vertex-level steepest descent on field, starting at
// target and walking to the neighbor with the smallest field value provided
// it is smaller than the current vertex's by more than descentEpsilon;
// descentEpsilon <= 0 selects DefaultDescentEpsilon. Iterations are bounded at 2*n to guarantee
// termination. The accumulated walk is reversed to produce the source->
// target ordering; if it did not reach source, source is prepended and
// Stalled is set to true.
func (s *Solver) TracePath(field []float64, source, target int, descentEpsilon float64) (*GeodesicPath, error) {
	if s == nil {
		return nil, ErrNotInitialized
	}
	if len(field) != s.n {
		return nil, fmt.Errorf("%w: field has %d entries, solver has %d vertices", ErrFieldSizeMismatch, len(field), s.n)
	}
	if source < 0 || source >= s.n {
		return nil, fmt.Errorf("%w: source %d", ErrIndexOutOfRange, source)
	}
	if target < 0 || target >= s.n {
		return nil, fmt.Errorf("%w: target %d", ErrIndexOutOfRange, target)
	}
	if descentEpsilon <= 0 {
		descentEpsilon = DefaultDescentEpsilon
	}

	walk := []int{target}
	current := target
	maxIterations := 2 * s.n

	for iter := 0; iter < maxIterations && current != source; iter++ {
		best := -1
		bestVal := field[current]
		for _, nb := range s.neighbors[current] {
			if field[current]-field[nb] > descentEpsilon && field[nb] < bestVal {
				best = nb
				bestVal = field[nb]
			}
		}
		if best == -1 {
			break
		}
		current = best
		walk = append(walk, current)
	}

	for i, j := 0, len(walk)-1; i < j; i, j = i+1, j-1 {
		walk[i], walk[j] = walk[j], walk[i]
	}

	stalled := len(walk) == 0 || walk[0] != source
	if stalled {
		walk = append([]int{source}, walk...)
	}

	polyline := make([]r3.Vec, len(walk))
	for i, v := range walk {
		polyline[i] = s.positions[v]
	}

	return &GeodesicPath{
		Vertices: walk,
		Polyline: polyline,
		Length:   field[target],
		Stalled:  stalled,
	}, nil
}
