// Package meshgraph builds the undirected weighted adjacency structure over
// welded mesh vertices, keyed by Euclidean edge length, that the A* path
// finder and the post-processing pipeline both operate on.
package meshgraph

import "errors"

// ErrEmptyGeometry indicates a graph was built from zero positions or faces.
var ErrEmptyGeometry = errors.New("meshgraph: positions or faces are empty")

// ErrIndexOutOfRange indicates a vertex index fell outside [0, n).
var ErrIndexOutOfRange = errors.New("meshgraph: vertex index out of range")
