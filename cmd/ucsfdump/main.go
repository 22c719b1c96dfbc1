// Diagnostic tool for inspecting UCSF spectrum files
package main

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/go-ucsf/ucsf"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/ucsfdump/main.go <file.ucsf>")
		os.Exit(1)
	}

	filename := os.Args[1]
	fmt.Printf("=== %s ===\n\n", filename)

	s, err := ucsf.OpenFile(filename)
	if err != nil {
		fmt.Printf("ERROR: failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	fmt.Printf("Format version: %d\n", s.Version())
	fmt.Printf("Dimensions:     %d\n", s.Dimensions())
	fmt.Printf("Components:     %s\n", s.Components())
	fmt.Printf("Data points:    %d\n", s.NumPoints())
	fmt.Println()

	fmt.Printf("%-4s %-8s %8s %8s %6s %12s %12s %10s  %s\n",
		"axis", "nucleus", "points", "tilesize", "tiles", "freq (MHz)", "width (Hz)", "center", "ppm range")
	for d := 0; d < s.Dimensions(); d++ {
		a := s.Axis(d)
		fmt.Printf("%-4d %-8s %8d %8d %6d %12.3f %12.3f %10.4f  [%.4f, %.4f]\n",
			d, a.Nucleus(), a.Points(), a.TileSize(), a.Tiles(),
			a.Frequency(), a.SpectralWidth(), a.Center(),
			a.PPM(a.Points()-1), a.PPM(0))
	}
	fmt.Println()

	min, max, err := s.Bounds()
	if err != nil {
		fmt.Printf("ERROR: reading data: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Data bounds: [%g, %g]\n", min, max)
}
