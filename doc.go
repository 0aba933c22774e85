// Package geodesic computes shortest paths and geodesic distance fields over
// triangle meshes.
//
// Two independent path finders are provided:
//
//	heat/      — Heat Method geodesic distance field + gradient-descent tracing
//	astar/     — A* shortest path over the mesh's edge graph
//
// Supporting packages:
//
//	mesh/        — triangle mesh ingest, vertex welding, validation
//	meshgraph/   — adjacency graph built from a welded mesh, path post-processing
//	operators/   — discrete differential geometry: cotangent Laplacian, mass
//	               matrix, per-face gradient and divergence
//	path/        — polyline simplification and smoothing (Douglas-Peucker,
//	               Catmull-Rom, arc-length resampling)
//	diagnostics/ — independent cross-checks (connected components, spanning
//	               tree length, graph diameter, distance-field correlation)
//	               projected onto a retained general-purpose graph toolkit
//	meshfixtures/ — deterministic meshes for tests and CLI debugging
//	cmd/geodesic/ — command-line entry point
package geodesic
