package diagnostics

import (
	"math"

	"github.com/arktouros/geodesic/core"
	"github.com/arktouros/geodesic/heat"
	"github.com/arktouros/geodesic/matrix"
	"gonum.org/v1/gonum/spatial/r3"
)

// eigenTolerance and eigenMaxIterations bound the Jacobi eigen-decomposition
// used by DistanceFieldStatistics; the matrices it runs over are at most
// len(sources)-by-len(sources), so convergence is fast regardless of mesh
// size.
const (
	eigenTolerance     = 1e-9
	eigenMaxIterations = 100
)

// DegreeStatistics summarizes per-vertex degree over cg, cross-checked
// across three independent code paths: a dense adjacency matrix's row sums,
// its column sums, and AdjacencyMatrix.DegreeVector. For an undirected graph
// all three must agree; AllAgree is false when any of them diverges from
// VertexDegrees' incidence-matrix count, which usually means the projection
// introduced a self-loop or multi-edge the adjacency builder collapsed.
type DegreeStatistics struct {
	Min      int
	Max      int
	Mean     float64
	AllAgree bool
}

// DegreeCrossCheck computes DegreeStatistics for cg.
func DegreeCrossCheck(cg *core.Graph) (*DegreeStatistics, error) {
	const op = "DegreeCrossCheck"
	n := cg.VertexCount()
	if n == 0 {
		return nil, diagnosticsErrorf(op, ErrEmptyGraph)
	}

	opts := matrix.NewMatrixOptions(matrix.WithUndirected(), matrix.WithWeighted())
	am, err := matrix.BuildAdjacency(cg, opts)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}

	rowSums, err := matrix.RowSums(am.Mat)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	colSums, err := matrix.ColSums(am.Mat)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	degreeVec, err := matrix.DegreeVector(am)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}

	incidenceDegrees, err := VertexDegrees(cg)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}

	stats := &DegreeStatistics{AllAgree: true}
	stats.Min = math.MaxInt32
	for id, idx := range am.VertexIndex {
		incidence := incidenceDegrees[id]
		// Weighted row/column sums measure total incident weight, not edge
		// count; compare presence (nonzero) rather than magnitude against
		// the unweighted incidence degree.
		if (rowSums[idx] != 0) != (incidence != 0) || (colSums[idx] != 0) != (incidence != 0) {
			stats.AllAgree = false
		}
		if int(math.Round(degreeVec[idx])) != incidence && degreeVec[idx] != 0 {
			// The adjacency is built without loops (loops are off by default),
			// so DegreeVector omits them; only flag disagreement when the
			// graph carries no loops.
			if !cg.Looped() {
				stats.AllAgree = false
			}
		}
		if incidence < stats.Min {
			stats.Min = incidence
		}
		if incidence > stats.Max {
			stats.Max = incidence
		}
		stats.Mean += float64(incidence)
	}
	stats.Mean /= float64(n)

	return stats, nil
}

// AdjacencyRoundTrip rebuilds a core.Graph from cg's adjacency matrix and
// reports whether the round trip preserved vertex and edge counts. This
// exercises BuildAdjacency and AdjacencyToGraph (the matrix package's
// graph-to-matrix-to-graph bridge) independently of ProjectGraph, which only
// ever goes one direction (meshgraph.Graph -> core.Graph).
func AdjacencyRoundTrip(cg *core.Graph) (bool, error) {
	const op = "AdjacencyRoundTrip"
	opts := matrix.NewMatrixOptions(matrix.WithUndirected(), matrix.WithWeighted())
	am, err := matrix.BuildAdjacency(cg, opts)
	if err != nil {
		return false, diagnosticsErrorf(op, err)
	}

	rebuilt, err := matrix.AdjacencyToGraph(am)
	if err != nil {
		return false, diagnosticsErrorf(op, err)
	}

	if rebuilt.VertexCount() != cg.VertexCount() {
		return false, nil
	}
	if rebuilt.EdgeCount() != cg.EdgeCount() {
		return false, nil
	}

	symmetric, err := matrix.Symmetrize(am.Mat)
	if err != nil {
		return false, diagnosticsErrorf(op, err)
	}
	symmetricEnough, err := matrix.AllClose(am.Mat, symmetric, 1e-9, 1e-9)
	if err != nil {
		return false, diagnosticsErrorf(op, err)
	}

	return symmetricEnough, nil
}

// DiameterCrossCheck computes the graph diameter of cg via three independent
// Floyd-Warshall entry points - BuildMetricClosure's build-then-factor
// composition, APSPInPlace's raw-matrix form, and MetricClosure's in-place
// mutation of a freshly built adjacency matrix - and reports whether the
// resulting distance matrices all agree. A disagreement would mean two call
// paths through the matrix package's APSP kernel have diverged, which the
// diameter value alone would not catch.
func DiameterCrossCheck(cg *core.Graph, scale float64) (agree bool, diameter float64, err error) {
	const op = "DiameterCrossCheck"
	if scale <= 0 {
		scale = DefaultWeightScale
	}
	if cg.VertexCount() < 2 {
		return true, 0, nil
	}

	closureOpts := matrix.NewMatrixOptions(matrix.WithUndirected(), matrix.WithWeighted(), matrix.WithAllowInfDistances())
	closure, err := matrix.BuildMetricClosure(cg, closureOpts)
	if err != nil {
		return false, 0, diagnosticsErrorf(op, err)
	}

	adjacencyOpts := matrix.NewMatrixOptions(matrix.WithUndirected(), matrix.WithWeighted(), matrix.WithAllowInfDistances())
	am, err := matrix.BuildAdjacency(cg, adjacencyOpts)
	if err != nil {
		return false, 0, diagnosticsErrorf(op, err)
	}
	raw := am.Mat.Clone()
	if err := matrix.APSPInPlace(raw); err != nil {
		return false, 0, diagnosticsErrorf(op, err)
	}

	// Third, independent path: build yet another adjacency matrix and mutate
	// it in place via the am-oriented MetricClosure entry point, rather than
	// BuildMetricClosure's build-then-factor composition.
	am2, err := matrix.BuildAdjacency(cg, adjacencyOpts)
	if err != nil {
		return false, 0, diagnosticsErrorf(op, err)
	}
	if err := matrix.MetricClosure(am2); err != nil {
		return false, 0, diagnosticsErrorf(op, err)
	}

	rawAgree, err := matrix.AllClose(closure.Mat, raw, 1e-9, 1e-9)
	if err != nil {
		return false, 0, diagnosticsErrorf(op, err)
	}
	inPlaceAgree, err := matrix.AllClose(closure.Mat, am2.Mat, 1e-9, 1e-9)
	if err != nil {
		return false, 0, diagnosticsErrorf(op, err)
	}
	agree = rawAgree && inPlaceAgree

	diameter, err = maxFiniteEntry(raw)
	if err != nil {
		return false, 0, diagnosticsErrorf(op, err)
	}

	return agree, diameter / scale, nil
}

func maxFiniteEntry(m matrix.Matrix) (float64, error) {
	var maxVal float64
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return 0, err
			}
			if !math.IsInf(v, 1) && v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal, nil
}

// FiniteDistanceMatrix returns cg's all-pairs distance matrix (scaled back
// into mesh units) with unreachable pairs replaced by -1 instead of +Inf,
// and any residual negative floating-point noise on the reachable entries
// clamped to 0. This is the form a --stats dump or a debug table wants:
// +Inf doesn't print or diff cleanly, and a printed distance should never
// read as negative.
func FiniteDistanceMatrix(cg *core.Graph, scale float64) (matrix.Matrix, error) {
	const op = "FiniteDistanceMatrix"
	if scale <= 0 {
		scale = DefaultWeightScale
	}

	opts := matrix.NewMatrixOptions(matrix.WithUndirected(), matrix.WithWeighted(), matrix.WithAllowInfDistances())
	am, err := matrix.BuildMetricClosure(cg, opts)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}

	sanitized, err := matrix.ReplaceInfNaN(am.Mat, -1)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}

	n := sanitized.Rows()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, err := sanitized.At(i, j)
			if err != nil {
				return nil, diagnosticsErrorf(op, err)
			}
			if v < 0 {
				continue // unreachable sentinel, leave as -1
			}
			if err := sanitized.Set(i, j, v/scale); err != nil {
				return nil, diagnosticsErrorf(op, err)
			}
		}
	}

	maxVal, err := maxFiniteEntry(sanitized)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	clipped, err := matrix.Clip(sanitized, -1, maxVal)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	return clipped, nil
}

// FieldStatistics reports per-vertex and per-source summaries of a batch of
// independently computed Heat Method distance fields.
type FieldStatistics struct {
	// MeanSquaredDistance[i] is the mean, over sources, of field[i]^2: a
	// per-vertex measure of how far the vertex sits from the source set as
	// a whole, independent of which single source is closest.
	MeanSquaredDistance []float64
	// Drift[i] is the last field's distance at vertex i minus the first
	// field's, a crude measure of how source ordering shifts a vertex's
	// apparent position.
	Drift []float64
	// Midpoint[i] is the average of the first and last field's distance at
	// vertex i.
	Midpoint []float64
	// DominantMode is the leading eigenvector of the normalized
	// source-by-source second-moment matrix: the combination of sources
	// that explains the most shared variation across the fields.
	DominantMode []float64
	// DominantModeVariance is the eigenvalue paired with DominantMode.
	DominantModeVariance float64
}

// DistanceFieldStatistics computes FieldStatistics for the independent
// distance fields rooted at sources.
func DistanceFieldStatistics(solver *heat.Solver, sources []int) (*FieldStatistics, error) {
	const op = "DistanceFieldStatistics"
	x, fields, err := fieldMatrix(solver, sources, op)
	if err != nil {
		return nil, err
	}
	n := solver.VertexCount()
	k := len(sources)

	squared, err := matrix.HadamardProd(x, x)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	ones := make([]float64, k)
	for i := range ones {
		ones[i] = 1
	}
	totalSquared, err := matrix.MatVecMul(squared, ones)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	meanSquared := make([]float64, n)
	for i, v := range totalSquared {
		meanSquared[i] = v / float64(k)
	}

	firstField, err := newColumnVector(fields[0])
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	lastField, err := newColumnVector(fields[k-1])
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	driftMat, err := matrix.Diff(lastField, firstField)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	drift := make([]float64, n)
	for i := range drift {
		v, err := driftMat.At(i, 0)
		if err != nil {
			return nil, diagnosticsErrorf(op, err)
		}
		drift[i] = v
	}

	sumMat, err := matrix.Sum(firstField, lastField)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	midpointMat, err := matrix.ScaleBy(sumMat, 0.5)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	midpoint := make([]float64, n)
	for i := range midpoint {
		v, err := midpointMat.At(i, 0)
		if err != nil {
			return nil, diagnosticsErrorf(op, err)
		}
		midpoint[i] = v
	}

	xt, err := matrix.T(x)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	gram, err := matrix.Product(xt, x)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	normalizedGram, err := matrix.ScaleBy(gram, 1/float64(n))
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	symmetricGram, err := matrix.Symmetrize(normalizedGram)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}

	eigenvalues, eigenvectors, err := matrix.EigenSym(symmetricGram, eigenTolerance, eigenMaxIterations)
	if err != nil {
		return nil, diagnosticsErrorf(op, err)
	}
	leadIdx := 0
	for i, v := range eigenvalues {
		if v > eigenvalues[leadIdx] {
			leadIdx = i
		}
	}
	dominantMode := make([]float64, k)
	for i := 0; i < k; i++ {
		v, err := eigenvectors.At(i, leadIdx)
		if err != nil {
			return nil, diagnosticsErrorf(op, err)
		}
		dominantMode[i] = v
	}

	return &FieldStatistics{
		MeanSquaredDistance:  meanSquared,
		Midpoint:             midpoint,
		Drift:                drift,
		DominantMode:         dominantMode,
		DominantModeVariance: eigenvalues[leadIdx],
	}, nil
}

func newColumnVector(values []float64) (matrix.Matrix, error) {
	m, err := matrix.NewDense(len(values), 1)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if err := m.Set(i, 0, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NormalizedFieldSignature returns two independent scale-normalized "shapes"
// of the distance fields rooted at sources, plus the raw sample covariance
// between sources for comparison against DistanceFieldCorrelation's
// normalized counterpart:
//
//   - l2Signature: the field matrix column-centered (each source's field
//     zero-mean across vertices) and then row-normalized to unit L2 length,
//     so a vertex's signature no longer depends on the overall magnitude of
//     its distances, only their relative split across sources.
//   - l1Signature: the field matrix row-centered (each vertex's own mean
//     distance to the source set removed) and then row-normalized to unit
//     L1 length, turning each vertex's row into a signed distribution over
//     how its distance deviates per source.
func NormalizedFieldSignature(solver *heat.Solver, sources []int) (l2Signature matrix.Matrix, l1Signature matrix.Matrix, covariance matrix.Matrix, err error) {
	const op = "NormalizedFieldSignature"
	x, _, err := fieldMatrix(solver, sources, op)
	if err != nil {
		return nil, nil, nil, err
	}

	columnCentered, _, err := matrix.CenterColumns(x)
	if err != nil {
		return nil, nil, nil, diagnosticsErrorf(op, err)
	}
	l2Signature, _, err = matrix.NormalizeRowsL2(columnCentered)
	if err != nil {
		return nil, nil, nil, diagnosticsErrorf(op, err)
	}

	rowCentered, _, err := matrix.CenterRows(x)
	if err != nil {
		return nil, nil, nil, diagnosticsErrorf(op, err)
	}
	l1Signature, _, err = matrix.NormalizeRowsL1(rowCentered)
	if err != nil {
		return nil, nil, nil, diagnosticsErrorf(op, err)
	}

	cov, _, err := matrix.Covariance(x)
	if err != nil {
		return nil, nil, nil, diagnosticsErrorf(op, err)
	}

	return l2Signature, l1Signature, cov, nil
}

// MeshGraphSummary reports aggregate structural facts about a projected mesh
// graph beyond what ComponentCount/SpanningLength/GraphDiameter expose.
type MeshGraphSummary struct {
	Stats *core.GraphStats
	// MinDegree and MaxDegree are the smallest and largest undirected degree
	// over all vertices (core.Graph.Degree's third return value).
	MinDegree, MaxDegree int
	// ShortEdgeCount is the number of edges whose weight falls below a tenth
	// of the mean edge weight - candidates for a welding epsilon that ran
	// too loose and left near-duplicate vertices unmerged.
	ShortEdgeCount int
	// CloneConsistent reports whether cg.Clone() reproduces every edge of cg
	// under HasEdge, exercised on a scratch copy rather than cg itself so the
	// check never risks mutating the caller's graph.
	CloneConsistent bool
}

// SummarizeMeshGraph computes a MeshGraphSummary for cg.
func SummarizeMeshGraph(cg *core.Graph) (*MeshGraphSummary, error) {
	const op = "SummarizeMeshGraph"
	if cg.VertexCount() == 0 {
		return nil, diagnosticsErrorf(op, ErrEmptyGraph)
	}

	summary := &MeshGraphSummary{Stats: cg.Stats(), MinDegree: math.MaxInt32}

	clone := cg.Clone()
	summary.CloneConsistent = true
	edges := cg.Edges()
	for _, e := range edges {
		if !clone.HasEdge(e.From, e.To) {
			summary.CloneConsistent = false
		}
	}

	for _, id := range cg.Vertices() {
		_, _, undirected, err := cg.Degree(id)
		if err != nil {
			return nil, diagnosticsErrorf(op, err)
		}
		if undirected < summary.MinDegree {
			summary.MinDegree = undirected
		}
		if undirected > summary.MaxDegree {
			summary.MaxDegree = undirected
		}
	}

	if len(edges) > 0 {
		var total int64
		for _, e := range edges {
			total += e.Weight
		}
		meanWeight := total / int64(len(edges))
		threshold := meanWeight / 10

		shortCount := 0
		clone.FilterEdges(func(e *core.Edge) bool {
			if e.Weight < threshold {
				shortCount++
				return false
			}
			return true
		})
		summary.ShortEdgeCount = shortCount
	}

	return summary, nil
}

// PlanarityResidual fits the best-fitting plane z = a*x + b*y + c through
// positions in the least-squares sense and returns the root-mean-square
// residual of that fit: near zero for a flat patch of mesh, growing with how
// strongly the patch curves. The fit solves the 3x3 normal-equations system
// (A^T A) beta = A^T z via QR decomposition and back substitution, rather
// than matrix.Inverse, since the normal matrix can be singular for
// degenerate (collinear or duplicate) input and QR degrades more gracefully
// on a near-singular system. Requires at least 3 points.
func PlanarityResidual(positions []r3.Vec) (float64, error) {
	const op = "PlanarityResidual"
	if len(positions) < 3 {
		return 0, diagnosticsErrorf(op, ErrInsufficientPoints)
	}

	design, err := matrix.NewDense(3, 3)
	if err != nil {
		return 0, diagnosticsErrorf(op, err)
	}
	rhs := make([]float64, 3)
	for _, p := range positions {
		row := [3]float64{p.X, p.Y, 1}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cur, _ := design.At(i, j)
				_ = design.Set(i, j, cur+row[i]*row[j])
			}
			rhs[i] += row[i] * p.Z
		}
	}

	q, r, err := matrix.QRDecompose(design)
	if err != nil {
		return 0, diagnosticsErrorf(op, err)
	}
	// matrix.QR returns q with q*design = r, so r*beta = q*rhs.
	qb, err := matrix.MatVecMul(q, rhs)
	if err != nil {
		return 0, diagnosticsErrorf(op, err)
	}
	beta, err := backSubstituteUpper(r, qb)
	if err != nil {
		return 0, diagnosticsErrorf(op, err)
	}

	// Cross-check the QR solve against an independent LU solve of the same
	// normal equations. The two factorizations share no code path, so
	// agreement rules out a bug specific to either back-substitution.
	l, u, err := matrix.LUDecompose(design)
	if err != nil {
		return 0, diagnosticsErrorf(op, err)
	}
	y, err := forwardSubstituteLowerUnit(l, rhs)
	if err != nil {
		return 0, diagnosticsErrorf(op, err)
	}
	betaLU, err := backSubstituteUpper(u, y)
	if err != nil {
		return 0, diagnosticsErrorf(op, err)
	}
	for i := range beta {
		if math.Abs(beta[i]-betaLU[i]) > 1e-6*math.Max(1, math.Abs(beta[i])) {
			return 0, diagnosticsErrorf(op, ErrDegenerateFit)
		}
	}

	var sumSq float64
	for _, p := range positions {
		predicted := beta[0]*p.X + beta[1]*p.Y + beta[2]
		residual := p.Z - predicted
		sumSq += residual * residual
	}
	return math.Sqrt(sumSq / float64(len(positions))), nil
}

// forwardSubstituteLowerUnit solves l*y = b for y, where l is lower
// triangular with unit diagonal (as returned by matrix.LUDecompose).
func forwardSubstituteLowerUnit(l matrix.Matrix, b []float64) ([]float64, error) {
	n := l.Rows()
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			v, err := l.At(i, j)
			if err != nil {
				return nil, err
			}
			sum -= v * y[j]
		}
		y[i] = sum
	}
	return y, nil
}

// backSubstituteUpper solves r*x = b for x, where r is upper triangular
// (as returned by matrix.QR).
func backSubstituteUpper(r matrix.Matrix, b []float64) ([]float64, error) {
	n := r.Rows()
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < n; j++ {
			v, err := r.At(i, j)
			if err != nil {
				return nil, err
			}
			sum -= v * x[j]
		}
		pivot, err := r.At(i, i)
		if err != nil {
			return nil, err
		}
		if pivot == 0 {
			return nil, ErrDegenerateFit
		}
		x[i] = sum / pivot
	}
	return x, nil
}
