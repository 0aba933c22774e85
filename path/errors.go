// Package path post-processes polylines of welded mesh vertices for
// interactive display: Douglas-Peucker simplification, centripetal
// Catmull-Rom smoothing (open and closed), and arc-length resampling.
package path

import "errors"

// ErrInsufficientPoints indicates an operation needs at least the stated
// minimum number of distinct points and did not receive them.
var ErrInsufficientPoints = errors.New("path: insufficient points")
