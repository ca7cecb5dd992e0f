package wojak

import (
	"image"
	"image/color"
	"testing"
)

func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func allEligible() map[RegionName]bool {
	m := make(map[RegionName]bool, len(BlendOrder))
	for _, name := range BlendOrder {
		m[name] = true
	}
	return m
}

func testTemplate(t *testing.T) *Template {
	t.Helper()
	reg, err := LoadTemplates(t.TempDir())
	if err != nil {
		t.Fatalf("could not load templates: %v", err)
	}
	tpl, err := reg.Get("wojak_basic")
	if err != nil {
		t.Fatalf("could not get template: %v", err)
	}
	return tpl
}

func TestBlendRegions_ZeroStrengthReproducesTemplate(t *testing.T) {
	tpl := testTemplate(t)
	src := solidNRGBA(256, 256, color.NRGBA{R: 200, G: 30, B: 30, A: 255})

	lm := tpl.Landmarks
	aligns := AlignRegions(&lm, tpl)

	out := BlendRegions(src, tpl, aligns, Params{ContrastEnhancement: 1}, allEligible())

	for i := range out.Pix {
		if out.Pix[i] != tpl.Image.Pix[i] {
			t.Fatalf("pixel data diverges from the template at byte %d", i)
		}
	}
}

func TestBlendRegions_FullStrengthPaintsSourceInMaskCore(t *testing.T) {
	tpl := testTemplate(t)
	red := color.NRGBA{R: 210, G: 40, B: 40, A: 255}
	src := solidNRGBA(256, 256, red)

	lm := tpl.Landmarks
	aligns := AlignRegions(&lm, tpl)

	params := Params{
		FaceBlendStrength:   1,
		EyeBlendStrength:    1,
		MouthBlendStrength:  1,
		NoseBlendStrength:   1,
		ContrastEnhancement: 1,
	}
	out := BlendRegions(src, tpl, aligns, params, allEligible())

	// The face center sits deep inside the feathered face mask, so a full
	// strength blend must show pure source content there.
	got := out.NRGBAAt(128, 128)
	if got.R != red.R || got.G != red.G || got.B != red.B {
		t.Errorf("face center is %v, expected the source color %v", got, red)
	}

	// A corner is outside every mask and must keep the template pixel.
	want := tpl.Image.NRGBAAt(2, 2)
	if got := out.NRGBAAt(2, 2); got != want {
		t.Errorf("corner is %v, expected the template pixel %v", got, want)
	}
}

func TestBlendRegions_IneligibleRegionsKeepTemplatePixels(t *testing.T) {
	tpl := testTemplate(t)
	src := solidNRGBA(256, 256, color.NRGBA{R: 210, G: 40, B: 40, A: 255})

	lm := tpl.Landmarks
	aligns := AlignRegions(&lm, tpl)

	params := Params{
		FaceBlendStrength:   1,
		EyeBlendStrength:    1,
		MouthBlendStrength:  1,
		NoseBlendStrength:   1,
		ContrastEnhancement: 1,
	}
	eligible := make(map[RegionName]bool, len(BlendOrder))
	for _, name := range BlendOrder {
		eligible[name] = false
	}

	out := BlendRegions(src, tpl, aligns, params, eligible)
	for i := range out.Pix {
		if out.Pix[i] != tpl.Image.Pix[i] {
			t.Fatalf("pixel data diverges from the template at byte %d", i)
		}
	}
}

func TestBlendRegions_MidStrengthIsConvex(t *testing.T) {
	tpl := testTemplate(t)
	red := color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	src := solidNRGBA(256, 256, red)

	lm := tpl.Landmarks
	aligns := AlignRegions(&lm, tpl)

	params := Params{FaceBlendStrength: 0.5, ContrastEnhancement: 1}
	out := BlendRegions(src, tpl, aligns, params, allEligible())

	// Every channel of every pixel must lie between the template and the
	// source value: the blend never overshoots.
	b := out.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			o := out.NRGBAAt(x, y)
			p := tpl.Image.NRGBAAt(x, y)
			checks := [3][3]uint8{
				{o.R, p.R, red.R},
				{o.G, p.G, red.G},
				{o.B, p.B, red.B},
			}
			for _, c := range checks {
				lo, hi := c[1], c[2]
				if lo > hi {
					lo, hi = hi, lo
				}
				if c[0] < lo || c[0] > hi {
					t.Fatalf("pixel (%d,%d): channel %d outside [%d,%d]", x, y, c[0], lo, hi)
				}
			}
		}
	}
}
