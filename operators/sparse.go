// Package operators assembles the discrete differential-geometry operators
// a triangle mesh needs for the Heat Method: the cotangent Laplacian, the
// lumped (Voronoi-style) mass matrix, and the per-face gradient operator.
//
// There is no sparse linear-algebra library anywhere in this module's
// dependency graph to build on, so Sparse is a small, purpose-built
// row-major sparse matrix in the same fail-fast, explicitly-validated idiom
// as this module's retained dense matrix package.
package operators

import "fmt"

// Operation name constants for unified error wrapping, mirroring the
// retained dense matrix package's opXxx convention.
const (
	opNewSparse = "NewSparse"
	opAt        = "At"
	opMatVec    = "MatVec"
)

// operatorsErrorf wraps an underlying error with an operation tag, mirroring
// the retained dense matrix package's matrixErrorf convention.
func operatorsErrorf(tag string, err error) error {
	return fmt.Errorf("operators: %s: %w", tag, err)
}

// entry is one nonzero (column, value) pair within a Sparse row.
type entry struct {
	col int
	val float64
}

// Sparse is a symmetric-or-general row-major sparse matrix: each row holds
// its nonzero entries sorted by column. Rows are built via accumulate calls
// during assembly and are not safe for concurrent mutation; once assembled,
// read-only use (At, MatVec) is safe from multiple goroutines.
type Sparse struct {
	rows, cols int
	data       []map[int]float64
}

// NewSparse allocates an empty rows x cols sparse matrix.
func NewSparse(rows, cols int) (*Sparse, error) {
	if rows <= 0 || cols <= 0 {
		return nil, operatorsErrorf(opNewSparse, fmt.Errorf("non-positive dimensions %dx%d", rows, cols))
	}
	s := &Sparse{rows: rows, cols: cols, data: make([]map[int]float64, rows)}
	for i := range s.data {
		s.data[i] = make(map[int]float64)
	}
	return s, nil
}

// Rows returns the row count.
func (s *Sparse) Rows() int { return s.rows }

// Cols returns the column count.
func (s *Sparse) Cols() int { return s.cols }

// Add accumulates v into entry (i,j), leaving any prior value in place and
// summing contributions, the way triangle-by-triangle operator assembly
// requires.
func (s *Sparse) Add(i, j int, v float64) {
	s.data[i][j] += v
}

// Set overwrites entry (i,j) with v.
func (s *Sparse) Set(i, j int, v float64) {
	s.data[i][j] = v
}

// At returns the value at (i,j), or 0 if absent.
func (s *Sparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		return 0, operatorsErrorf(opAt, fmt.Errorf("index (%d,%d) out of range for %dx%d matrix", i, j, s.rows, s.cols))
	}
	return s.data[i][j], nil
}

// Row returns the nonzero (column, value) entries of row i, in no
// particular order. The caller must not mutate the returned map.
func (s *Sparse) Row(i int) map[int]float64 {
	return s.data[i]
}

// MatVec returns s*x. x must have length s.cols.
func (s *Sparse) MatVec(x []float64) ([]float64, error) {
	if len(x) != s.cols {
		return nil, operatorsErrorf(opMatVec, fmt.Errorf("vector length %d does not match %d columns", len(x), s.cols))
	}
	out := make([]float64, s.rows)
	for i := 0; i < s.rows; i++ {
		var sum float64
		for j, v := range s.data[i] {
			sum += v * x[j]
		}
		out[i] = sum
	}
	return out, nil
}

// TransposeMatVec returns s^T * x. x must have length s.rows.
func (s *Sparse) TransposeMatVec(x []float64) ([]float64, error) {
	if len(x) != s.rows {
		return nil, operatorsErrorf(opMatVec, fmt.Errorf("vector length %d does not match %d rows", len(x), s.rows))
	}
	out := make([]float64, s.cols)
	for i := 0; i < s.rows; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		for j, v := range s.data[i] {
			out[j] += v * xi
		}
	}
	return out, nil
}
