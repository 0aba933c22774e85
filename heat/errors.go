// Package heat implements the Heat Method geodesic distance field solver:
// short-time heat diffusion, normalized negative gradient, a Poisson solve
// for the scalar potential, and a steepest-descent path tracer over the
// resulting distance field.
package heat

import "errors"

// ErrNotInitialized indicates a solver method was called before construction
// completed successfully.
var ErrNotInitialized = errors.New("heat: solver not initialized")

// ErrIndexOutOfRange indicates a source, target, or sources entry fell
// outside [0, n).
var ErrIndexOutOfRange = errors.New("heat: index out of range")

// ErrSolverFailure indicates a sparse factorization or solve reported
// non-success; fatal and propagated without mutating the solver.
var ErrSolverFailure = errors.New("heat: linear solve failed")

// ErrDegenerateGeometry indicates every triangle in the mesh is degenerate
// after welding, so no usable operators can be assembled.
var ErrDegenerateGeometry = errors.New("heat: all triangles degenerate")

// ErrEmptySources indicates compute_distance was called with no source
// vertices.
var ErrEmptySources = errors.New("heat: sources must be non-empty")

// ErrFieldSizeMismatch indicates trace_path received a distance field whose
// length does not match the solver's vertex count.
var ErrFieldSizeMismatch = errors.New("heat: distance field size mismatch")

// ErrNotPositiveDefinite indicates a matrix submitted for Cholesky
// factorization was not (numerically) symmetric positive-definite.
var ErrNotPositiveDefinite = errors.New("heat: matrix is not positive-definite")
