/*
Package wojak composites a photographed face onto a stylized Wojak meme
template. It detects facial landmarks in the source photo, fits a
per-region similarity transform from the detected landmarks onto the
template's reference anchors, warps and blends each region (face outline,
eyes, nose, mouth) through feathered alpha masks, and finally matches the
result's color statistics to the template's palette.

The package provides a command line interface and an HTTP server on top of
the same core. A minimal programmatic use looks like:

	package main

	import (
		"fmt"
		"os"

		"github.com/memeforge/wojak"
	)

	func main() {
		reg, err := wojak.LoadTemplates("assets/templates")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		det, err := wojak.NewCascadeDetector("assets/cascades")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		gen := wojak.NewGenerator(reg, det)
		src, _ := os.ReadFile("portrait.jpg")

		res, err := gen.Generate(src, "doomer", wojak.DefaultParams())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.WriteFile("out.png", res.Image, 0644)
	}
*/
package wojak
