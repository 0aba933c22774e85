package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arktouros/geodesic/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// readOBJ parses the standard subset of Wavefront OBJ a mesh diagnostic tool
// needs: "v x y z" position lines and "f ..." face lines, where each face
// token is a one-based vertex index optionally followed by /texture and/or
// /normal indices (both ignored). Any other line (comments, groups,
// materials, normals, texcoords) is skipped, not rejected.
func readOBJ(r io.Reader) ([]r3.Vec, []mesh.Triangle, error) {
	var positions []r3.Vec
	var faces []mesh.Triangle

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("obj: line %d: %w", lineNo, err)
			}
			positions = append(positions, v)
		case "f":
			tri, err := parseFace(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("obj: line %d: %w", lineNo, err)
			}
			faces = append(faces, tri)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("obj: %w", err)
	}

	return positions, faces, nil
}

func parseVertex(fields []string) (r3.Vec, error) {
	if len(fields) < 3 {
		return r3.Vec{}, fmt.Errorf("vertex line has %d coordinates, want at least 3", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return r3.Vec{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return r3.Vec{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: x, Y: y, Z: z}, nil
}

// parseFace requires exactly three vertex tokens: the reader targets
// triangulated input, matching the rest of this module's triangle-only
// mesh model. Polygon faces with more than three corners are rejected.
func parseFace(fields []string) (mesh.Triangle, error) {
	if len(fields) != 3 {
		return mesh.Triangle{}, fmt.Errorf("face has %d corners, only triangles are supported", len(fields))
	}
	var tri mesh.Triangle
	for i, tok := range fields {
		idxStr := strings.SplitN(tok, "/", 2)[0]
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return mesh.Triangle{}, fmt.Errorf("malformed face index %q: %w", tok, err)
		}
		if idx <= 0 {
			return mesh.Triangle{}, fmt.Errorf("face index %d is not a valid one-based OBJ index", idx)
		}
		tri[i] = idx - 1
	}
	return tri, nil
}
