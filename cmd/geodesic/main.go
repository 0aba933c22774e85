// Command geodesic computes a geodesic path between two vertices of a
// triangle mesh and writes it as a JSON polyline.
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
