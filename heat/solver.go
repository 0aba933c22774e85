package heat

import (
	"fmt"
	"math"
	"sort"

	"github.com/arktouros/geodesic/mesh"
	"github.com/arktouros/geodesic/operators"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTimeScale is used when Solver construction receives timeScale <= 0.
const DefaultTimeScale = 1.0

// poissonRegularization is epsilon in (L + epsilon*M), handling the
// Laplacian's single-dimensional null space on a connected component.
const poissonRegularization = 1e-8

// gradientNormEpsilon is the per-face gradient norm below which step 3 of
// compute_distance treats the normalized direction as the zero vector
// instead of dividing by a near-zero length.
const gradientNormEpsilon = 1e-12

// Option configures Solver construction.
type Option func(*config)

type config struct {
	mergeEpsilon float64
}

// WithMergeEpsilon overrides the welding epsilon used at construction.
func WithMergeEpsilon(epsilon float64) Option {
	return func(c *config) { c.mergeEpsilon = epsilon }
}

// Solver is a stateful Heat Method geodesic distance solver: it pre-welds
// and pre-factors once at construction and is reused across many
// compute_distance/trace_path calls.
type Solver struct {
	n              int
	positions      []r3.Vec
	faces          []mesh.Triangle
	neighbors      [][]int
	mass           []float64
	laplacian      *operators.Sparse
	gradient       *operators.Sparse
	faceAreaWeight []float64
	meanEdgeLength float64

	heatFactor    *choleskyFactor
	poissonFactor *choleskyFactor
}

// New welds positions/faces, assembles the cotangent Laplacian, lumped
// mass, and gradient operators, and pre-factors both (M + t*L) and
// (L + epsilon*M) by Cholesky. timeScale <= 0 selects DefaultTimeScale.
func New(positions []r3.Vec, faces []mesh.Triangle, timeScale float64, opts ...Option) (*Solver, error) {
	cfg := config{mergeEpsilon: mesh.DefaultEpsilon}
	for _, opt := range opts {
		opt(&cfg)
	}
	if timeScale <= 0 {
		timeScale = DefaultTimeScale
	}

	welded, err := mesh.Weld(positions, faces, cfg.mergeEpsilon)
	if err != nil {
		return nil, fmt.Errorf("heat: new: %w", err)
	}

	n := len(welded.Positions)
	meanEdgeLength := meanEdgeLengthOf(welded.Positions, welded.Faces)
	t := math.Max(1e-7, timeScale*meanEdgeLength*meanEdgeLength)

	mass := operators.LumpedMass(welded.Positions, welded.Faces)
	laplacian, err := operators.Laplacian(welded.Positions, welded.Faces)
	if err != nil {
		return nil, fmt.Errorf("heat: new: %w", err)
	}
	faceAreas, err := operators.FaceAreas(welded.Positions, welded.Faces)
	if err != nil {
		return nil, fmt.Errorf("heat: new: %w: %v", ErrDegenerateGeometry, err)
	}
	gradient, err := operators.Gradient(welded.Positions, welded.Faces)
	if err != nil {
		return nil, fmt.Errorf("heat: new: %w", err)
	}

	heatMatrix, err := addScaled(mass, laplacian, t, n)
	if err != nil {
		return nil, fmt.Errorf("heat: new: %w", err)
	}
	poissonMatrix, err := laplacianPlusScaledMass(laplacian, mass, poissonRegularization, n)
	if err != nil {
		return nil, fmt.Errorf("heat: new: %w", err)
	}

	heatFactor, err := factorize(heatMatrix)
	if err != nil {
		return nil, fmt.Errorf("heat: new: %w", err)
	}
	poissonFactor, err := factorize(poissonMatrix)
	if err != nil {
		return nil, fmt.Errorf("heat: new: %w", err)
	}

	return &Solver{
		n:              n,
		positions:      welded.Positions,
		faces:          welded.Faces,
		neighbors:      buildNeighbors(n, welded.Faces),
		mass:           mass,
		laplacian:      laplacian,
		gradient:       gradient,
		faceAreaWeight: operators.FaceAreaWeights(faceAreas),
		meanEdgeLength: meanEdgeLength,
		heatFactor:     heatFactor,
		poissonFactor:  poissonFactor,
	}, nil
}

// VertexCount returns the number of welded vertices the solver was built
// over.
func (s *Solver) VertexCount() int {
	if s == nil {
		return 0
	}
	return s.n
}

// Position returns the welded position of vertex i.
func (s *Solver) Position(i int) (r3.Vec, error) {
	if s == nil {
		return r3.Vec{}, ErrNotInitialized
	}
	if i < 0 || i >= s.n {
		return r3.Vec{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return s.positions[i], nil
}

// ComputeDistance runs the four-step Heat Method and returns the resulting
// non-negative distance field, zero at (at least) one requested source.
func (s *Solver) ComputeDistance(sources []int) ([]float64, error) {
	if s == nil {
		return nil, ErrNotInitialized
	}
	if len(sources) == 0 {
		return nil, ErrEmptySources
	}
	delta := make([]float64, s.n)
	for _, src := range sources {
		if src < 0 || src >= s.n {
			return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, src)
		}
		delta[src] = 1
	}

	mDelta := make([]float64, s.n)
	for i, d := range delta {
		mDelta[i] = s.mass[i] * d
	}

	u, err := s.heatFactor.solve(mDelta)
	if err != nil {
		return nil, err
	}

	gradFlat, err := s.gradient.MatVec(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
	}

	weighted := make([]float64, len(gradFlat))
	for fi := 0; fi*3 < len(gradFlat); fi++ {
		base := fi * 3
		v := r3.Vec{X: gradFlat[base], Y: gradFlat[base+1], Z: gradFlat[base+2]}
		norm := r3.Norm(v)
		var unit r3.Vec
		if norm >= gradientNormEpsilon {
			unit = r3.Scale(-1/norm, v)
		}
		area := s.faceAreaWeight[base]
		weighted[base] = unit.X * area
		weighted[base+1] = unit.Y * area
		weighted[base+2] = unit.Z * area
	}

	divRaw, err := s.gradient.TransposeMatVec(weighted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
	}
	div := make([]float64, s.n)
	for i, v := range divRaw {
		div[i] = -v
	}

	phi, err := s.poissonFactor.solve(div)
	if err != nil {
		return nil, err
	}

	minPhi := phi[0]
	for _, v := range phi[1:] {
		if v < minPhi {
			minPhi = v
		}
	}
	dist := make([]float64, s.n)
	for i, v := range phi {
		d := v - minPhi
		if d < 0 {
			d = 0
		}
		dist[i] = d
	}

	return dist, nil
}

func meanEdgeLengthOf(positions []r3.Vec, faces []mesh.Triangle) float64 {
	seen := make(map[[2]int]struct{})
	var total float64
	var count int
	add := func(a, b int) {
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		key := [2]int{lo, hi}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		total += r3.Norm(r3.Sub(positions[a], positions[b]))
		count++
	}
	for _, f := range faces {
		add(f[0], f[1])
		add(f[1], f[2])
		add(f[2], f[0])
	}
	if count == 0 {
		return 0.01
	}
	return total / float64(count)
}

func buildNeighbors(n int, faces []mesh.Triangle) [][]int {
	sets := make([]map[int]struct{}, n)
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	add := func(a, b int) {
		sets[a][b] = struct{}{}
		sets[b][a] = struct{}{}
	}
	for _, f := range faces {
		add(f[0], f[1])
		add(f[1], f[2])
		add(f[2], f[0])
	}
	out := make([][]int, n)
	for i, s := range sets {
		list := make([]int, 0, len(s))
		for v := range s {
			list = append(list, v)
		}
		sort.Ints(list)
		out[i] = list
	}
	return out
}

// addScaled returns M + scale*L as a dense-backed Sparse, where M is the
// diagonal mass vector and L the assembled Laplacian.
func addScaled(mass []float64, l *operators.Sparse, scale float64, n int) (*operators.Sparse, error) {
	out, err := operators.NewSparse(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		out.Set(i, i, mass[i])
	}
	for i := 0; i < n; i++ {
		for j, v := range l.Row(i) {
			out.Add(i, j, scale*v)
		}
	}
	return out, nil
}

// laplacianPlusScaledMass returns L + scale*M.
func laplacianPlusScaledMass(l *operators.Sparse, mass []float64, scale float64, n int) (*operators.Sparse, error) {
	out, err := operators.NewSparse(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j, v := range l.Row(i) {
			out.Add(i, j, v)
		}
	}
	for i := 0; i < n; i++ {
		out.Add(i, i, scale*mass[i])
	}
	return out, nil
}
