package main

import (
	"fmt"
	"os"

	"github.com/arktouros/geodesic/diagnostics"
	"github.com/arktouros/geodesic/heat"
	"github.com/arktouros/geodesic/mesh"
	"github.com/arktouros/geodesic/meshfixtures"
	"github.com/arktouros/geodesic/meshgraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

// defaultOutputName is used when the caller does not supply an output path.
const defaultOutputName = "geodesic_path.json"

func newRootCommand() *cobra.Command {
	var (
		useAstar    bool
		useHeat     bool
		fixtureName string
		showStats   bool
	)

	cmd := &cobra.Command{
		Use:   "geodesic <mesh.obj> <source_vertex> <target_vertex> [output.json]",
		Short: "Compute a geodesic path between two vertices of a triangle mesh",
		Args:  cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, runOptions{
				useAstar:    useAstar,
				fixtureName: fixtureName,
				showStats:   showStats,
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&useHeat, "heat", true, "use the Heat Method path finder (default)")
	cmd.Flags().BoolVar(&useAstar, "astar", false, "use the A* path finder instead of the Heat Method")
	cmd.MarkFlagsMutuallyExclusive("heat", "astar")
	cmd.Flags().StringVar(&fixtureName, "fixture", "", "build a deterministic mesh (triangle, grid2x2, icosahedron) instead of reading an OBJ file")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print mesh diagnostics to stderr before writing the path artifact")

	return cmd
}

type runOptions struct {
	useAstar    bool
	fixtureName string
	showStats   bool
}

func run(cmd *cobra.Command, args []string, opts runOptions) error {
	var meshPath, sourceStr, targetStr, outputPath string
	if opts.fixtureName != "" {
		if len(args) < 2 {
			return fmt.Errorf("usage: geodesic --fixture <name> <source_vertex> <target_vertex> [output.json]")
		}
		sourceStr, targetStr = args[0], args[1]
		if len(args) >= 3 {
			outputPath = args[2]
		}
	} else {
		if len(args) < 3 {
			return fmt.Errorf("usage: geodesic <mesh.obj> <source_vertex> <target_vertex> [output.json]")
		}
		meshPath, sourceStr, targetStr = args[0], args[1], args[2]
		if len(args) >= 4 {
			outputPath = args[3]
		}
	}
	if outputPath == "" {
		outputPath = defaultOutputName
	}

	source, err := parseVertexArg(sourceStr)
	if err != nil {
		return err
	}
	target, err := parseVertexArg(targetStr)
	if err != nil {
		return err
	}

	positions, faces, err := loadMesh(opts.fixtureName, meshPath)
	if err != nil {
		return err
	}

	g, err := meshgraph.Build(positions, faces, mesh.DefaultEpsilon)
	if err != nil {
		return fmt.Errorf("building mesh graph: %w", err)
	}
	if g.DroppedTriangles() > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: dropped %d degenerate triangle(s) during welding\n", g.DroppedTriangles())
	}

	if opts.showStats {
		printStats(cmd, g)
	}

	var polyline []r3.Vec
	if opts.useAstar {
		polyline = g.SmoothPath(source, target, 0)
		if polyline == nil {
			return fmt.Errorf("no path found between vertex %d and vertex %d", source, target)
		}
	} else {
		solver, err := heat.New(positions, faces, 0)
		if err != nil {
			return fmt.Errorf("building heat solver: %w", err)
		}
		dist, err := solver.ComputeDistance([]int{source})
		if err != nil {
			return fmt.Errorf("computing distance field: %w", err)
		}
		trace, err := solver.TracePath(dist, source, target, 0)
		if err != nil {
			return fmt.Errorf("tracing path: %w", err)
		}
		if trace.Stalled {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: gradient descent stalled before reaching source")
		}
		polyline = trace.Polyline
	}

	if err := writePathJSON(outputPath, polyline); err != nil {
		return fmt.Errorf("writing path artifact: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d-point path to %s\n", len(polyline), outputPath)
	return nil
}

func loadMesh(fixtureName, meshPath string) ([]r3.Vec, []mesh.Triangle, error) {
	if fixtureName != "" {
		f, err := fixtureByName(fixtureName)
		if err != nil {
			return nil, nil, err
		}
		return f.Positions, f.Faces, nil
	}

	file, err := os.Open(meshPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening mesh file: %w", err)
	}
	defer file.Close()

	positions, faces, err := readOBJ(file)
	if err != nil {
		return nil, nil, fmt.Errorf("reading mesh file: %w", err)
	}
	return positions, faces, nil
}

func fixtureByName(name string) (meshfixtures.Fixture, error) {
	switch name {
	case "triangle":
		return meshfixtures.Triangle(), nil
	case "grid2x2":
		return meshfixtures.Grid2x2(), nil
	case "icosahedron":
		return meshfixtures.Icosahedron(), nil
	default:
		return meshfixtures.Fixture{}, fmt.Errorf("unknown fixture %q (want triangle, grid2x2, or icosahedron)", name)
	}
}

func parseVertexArg(s string) (int, error) {
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, fmt.Errorf("invalid vertex index %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("vertex index %q must be non-negative", s)
	}
	return v, nil
}

func printStats(cmd *cobra.Command, g *meshgraph.Graph) {
	stderr := cmd.ErrOrStderr()

	cg, err := diagnostics.ProjectGraph(g, 0)
	if err != nil {
		fmt.Fprintf(stderr, "stats: projecting graph: %v\n", err)
		return
	}

	components, err := diagnostics.ComponentCount(cg)
	if err != nil {
		fmt.Fprintf(stderr, "stats: component count: %v\n", err)
	} else {
		fmt.Fprintf(stderr, "stats: %d connected component(s)\n", components)
	}

	spanning, err := diagnostics.SpanningLength(cg, 0)
	if err != nil {
		fmt.Fprintf(stderr, "stats: spanning tree length: %v\n", err)
	} else {
		fmt.Fprintf(stderr, "stats: spanning tree length %.6f\n", spanning)
	}

	if g.VertexCount() <= 200 {
		diameter, err := diagnostics.GraphDiameter(cg, 0)
		if err != nil {
			fmt.Fprintf(stderr, "stats: graph diameter: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "stats: edge-graph diameter %.6f\n", diameter)
		}
	}
}
