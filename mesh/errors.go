// Package mesh welds a triangle soup into a canonical vertex set.
//
// A triangle soup is an unordered collection of 3-D positions together with
// triangle indices into that collection. Real-world meshes (OBJ exports,
// procedurally generated geometry, CAD tessellations) routinely duplicate
// vertices that are numerically coincident but not literally the same array
// entry; weld collapses those duplicates deterministically so that downstream
// graph and solver code can assume a clean, minimal vertex set.
package mesh

import "errors"

// ErrEmptyMesh indicates that positions or faces were empty at weld time.
var ErrEmptyMesh = errors.New("mesh: positions or faces are empty")

// ErrNoSurvivingFaces indicates every face was dropped as degenerate, leaving
// nothing to weld into a usable mesh.
var ErrNoSurvivingFaces = errors.New("mesh: no faces survived welding")

// ErrIndexOutOfRange indicates a face referenced a vertex index outside the
// bounds of the positions slice.
var ErrIndexOutOfRange = errors.New("mesh: face index out of range")
