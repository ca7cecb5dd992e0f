package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/memeforge/wojak"
	"github.com/memeforge/wojak/utils"
)

const helpBanner = `
┬ ┬┌─┐ ┬┌─┐┬┌─
│││││ │ │├─┤├┴┐
└┴┘└─┘└┘┴ ┴┴ ┴

Wojak meme generator: imposes the geometry and colors
of a photographed face onto a stylized template.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image (file path, URL or - for stdin)")
	destination = flag.String("out", pipeName, "Destination file (- for stdout)")
	template    = flag.String("template", "wojak_basic", "Template identifier")
	templateDir = flag.String("templates", "assets/templates", "Template asset directory")
	cascadeDir  = flag.String("cascades", "assets/cascades", "Detection cascade directory")
	face        = flag.Float64("face", -1, "Face blend strength [0..1], -1 for the template default")
	eye         = flag.Float64("eye", -1, "Eye blend strength [0..1], -1 for the template default")
	mouth       = flag.Float64("mouth", -1, "Mouth blend strength [0..1], -1 for the template default")
	nose        = flag.Float64("nose", -1, "Nose blend strength [0..1], -1 for the template default")
	colorMatch  = flag.Float64("color", 0.4, "Color match strength [0..1]")
	contrast    = flag.Float64("contrast", 1.1, "Contrast enhancement factor [0.5..2.0]")
	list        = flag.Bool("list", false, "List the available templates and exit")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	registry, err := wojak.LoadTemplates(*templateDir)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("could not load the templates: %v", utils.ErrorMessage),
			err,
		)
	}

	if *list {
		for _, info := range registry.List() {
			fmt.Printf("%-16s %-16s %s\n", info.ID, info.Name, info.Description)
		}
		return
	}

	detector, err := wojak.NewCascadeDetector(*cascadeDir)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("could not initialize the face detector: %v", utils.ErrorMessage),
			err,
		)
	}

	src, err := readSource(*source)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("could not read the source image: %v", utils.ErrorMessage),
			err,
		)
	}

	params := wojak.Params{
		FaceBlendStrength:   *face,
		EyeBlendStrength:    *eye,
		MouthBlendStrength:  *mouth,
		NoseBlendStrength:   *nose,
		ColorMatchStrength:  *colorMatch,
		ContrastEnhancement: *contrast,
	}

	spinner := utils.NewSpinner(
		utils.DecorateText("Generating...", utils.StatusMessage),
		time.Millisecond*80,
		true,
	)
	showSpinner := *destination != pipeName && term.IsTerminal(int(os.Stderr.Fd()))
	if showSpinner {
		spinner.Start()
	}

	start := time.Now()
	gen := wojak.NewGenerator(registry, detector)
	result, err := gen.Generate(src, *template, params)

	if showSpinner {
		spinner.Stop()
	}
	if err != nil {
		log.Fatalf(
			utils.DecorateText("generation failed: %v", utils.ErrorMessage),
			err,
		)
	}

	if err := writeResult(*destination, result.Image); err != nil {
		log.Fatalf(
			utils.DecorateText("could not write the output image: %v", utils.ErrorMessage),
			err,
		)
	}

	for _, issue := range result.Report.Issues {
		fmt.Fprintln(os.Stderr, utils.DecorateText("note: "+issue, utils.StatusMessage))
	}
	fmt.Fprintln(os.Stderr,
		utils.DecorateText(
			fmt.Sprintf("Done in: %s (quality: %s)",
				utils.FormatTime(time.Since(start)), result.Report.Quality),
			utils.SuccessMessage,
		),
	)
}

// readSource loads the input bytes from a file, a URL or stdin.
func readSource(src string) ([]byte, error) {
	switch {
	case src == pipeName:
		return io.ReadAll(os.Stdin)
	case utils.IsValidURL(src):
		tmp, err := utils.DownloadImage(src)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp.Name())
		defer tmp.Close()
		return os.ReadFile(tmp.Name())
	default:
		return os.ReadFile(src)
	}
}

// writeResult stores the composite at the destination path or pipes it out.
func writeResult(dst string, data []byte) error {
	if dst == pipeName {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
