package heat

import (
	"fmt"
	"math"

	"github.com/arktouros/geodesic/operators"
)

// choleskyFactor holds the lower-triangular factor L of a symmetric
// positive-definite matrix A = L*Lt, ready for repeated forward/backward
// substitution solves.
//
// There is no sparse Cholesky library anywhere in this module's dependency
// graph (see the root design notes), so factorization runs the classical
// column-by-column elimination in the same Doolittle-elimination idiom this
// module's retained dense linear-algebra package uses for LU, generalized
// to the symmetric case and backed by a dense triangular working buffer
// rather than a fill-reducing sparse ordering.
type choleskyFactor struct {
	n int
	l [][]float64 // l[i] has length i+1; l[i][j] is L(i,j) for j<=i
}

// factorize computes the Cholesky factorization of the symmetric matrix a.
// Only the lower triangle (including the diagonal) of a is read.
func factorize(a *operators.Sparse) (*choleskyFactor, error) {
	n := a.Rows()
	if a.Cols() != n {
		return nil, fmt.Errorf("heat: factorize: matrix is %dx%d, must be square", n, a.Cols())
	}

	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, i+1)
	}

	for j := 0; j < n; j++ {
		ajj, err := a.At(j, j)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
		}
		sum := ajj
		for k := 0; k < j; k++ {
			sum -= l[j][k] * l[j][k]
		}
		if sum <= 0 || math.IsNaN(sum) {
			return nil, fmt.Errorf("%w: non-positive pivot at %d", ErrNotPositiveDefinite, j)
		}
		ljj := math.Sqrt(sum)
		l[j][j] = ljj

		for i := j + 1; i < n; i++ {
			aij, err := a.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
			}
			sum := aij
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			l[i][j] = sum / ljj
		}
	}

	return &choleskyFactor{n: n, l: l}, nil
}

// solve returns x such that A*x = b, via forward substitution (L*y = b)
// followed by backward substitution (Lt*x = y).
func (f *choleskyFactor) solve(b []float64) ([]float64, error) {
	if len(b) != f.n {
		return nil, fmt.Errorf("%w: rhs length %d does not match factor size %d", ErrSolverFailure, len(b), f.n)
	}

	y := make([]float64, f.n)
	for i := 0; i < f.n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= f.l[i][k] * y[k]
		}
		y[i] = sum / f.l[i][i]
	}

	x := make([]float64, f.n)
	for i := f.n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < f.n; k++ {
			sum -= f.l[k][i] * x[k]
		}
		x[i] = sum / f.l[i][i]
	}

	return x, nil
}
