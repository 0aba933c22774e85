// Package meshfixtures provides small, deterministic triangle meshes for
// tests and for the command-line tool's --fixture debug flag. Coordinates
// and topology are hand-derived, not read from any external asset, so every
// fixture is reproducible without touching the filesystem.
package meshfixtures

import (
	"math"

	"github.com/arktouros/geodesic/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Fixture bundles a set of vertex positions with the triangles connecting
// them, ready to pass to mesh.Weld, meshgraph.Build, or heat.New.
type Fixture struct {
	Positions []r3.Vec
	Faces     []mesh.Triangle
}

// Triangle returns a single right triangle in the z=0 plane with unit legs,
// the smallest possible non-degenerate mesh: one face, three vertices, no
// interior edges at all.
func Triangle() Fixture {
	return Fixture{
		Positions: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Faces: []mesh.Triangle{{0, 1, 2}},
	}
}

// Grid2x2 returns a 2x2 vertex, 2-triangle quad in the z=0 plane, split
// along its (0,0)-(1,1) diagonal. Vertices are laid out row-major,
// index(x,y) = y*2+x, matching the row-major convention used throughout
// this module's grid-shaped fixtures.
func Grid2x2() Fixture {
	return Fixture{
		Positions: []r3.Vec{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
		},
		Faces: []mesh.Triangle{
			{0, 1, 2},
			{1, 3, 2},
		},
	}
}

// Icosahedron returns a regular icosahedron: 12 vertices at golden-ratio
// coordinates, 20 triangular faces, every vertex of degree 5. It is the
// standard closed, genus-0, constant-curvature fixture for exercising the
// Heat Method and closed-loop path generation on a mesh with no boundary.
func Icosahedron() Fixture {
	phi := (1 + math.Sqrt(5)) / 2

	raw := []r3.Vec{
		{X: -1, Y: phi, Z: 0}, {X: 1, Y: phi, Z: 0}, {X: -1, Y: -phi, Z: 0}, {X: 1, Y: -phi, Z: 0},
		{X: 0, Y: -1, Z: phi}, {X: 0, Y: 1, Z: phi}, {X: 0, Y: -1, Z: -phi}, {X: 0, Y: 1, Z: -phi},
		{X: phi, Y: 0, Z: -1}, {X: phi, Y: 0, Z: 1}, {X: -phi, Y: 0, Z: -1}, {X: -phi, Y: 0, Z: 1},
	}

	positions := make([]r3.Vec, len(raw))
	for i, v := range raw {
		positions[i] = r3.Scale(1/r3.Norm(v), v)
	}

	faces := []mesh.Triangle{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	return Fixture{Positions: positions, Faces: faces}
}
