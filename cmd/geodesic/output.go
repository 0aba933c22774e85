package main

import (
	"encoding/json"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// pathPoint mirrors one element of the published polyline JSON schema.
type pathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// pathArtifact is the top-level object the CLI writes.
type pathArtifact struct {
	Path []pathPoint `json:"path"`
}

// writePathJSON writes polyline as the published { "path": [...] } schema to
// outputPath.
func writePathJSON(outputPath string, polyline []r3.Vec) error {
	artifact := pathArtifact{Path: make([]pathPoint, len(polyline))}
	for i, p := range polyline {
		artifact.Path[i] = pathPoint{X: p.X, Y: p.Y, Z: p.Z}
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
