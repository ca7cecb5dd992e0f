package wojak

import (
	"image/color"
	"math"
	"testing"
)

func TestEnhanceContrast_FactorOneIsIdentity(t *testing.T) {
	img := solidNRGBA(32, 32, color.NRGBA{R: 90, G: 120, B: 180, A: 255})
	out := EnhanceContrast(img, 1)
	if out != img {
		t.Error("factor 1 should return the input image unchanged")
	}
}

func TestEnhanceContrast_ScalesAroundMidpoint(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{R: 100, G: 200, B: 128, A: 255})
	out := EnhanceContrast(img, 1.5)

	got := out.NRGBAAt(0, 0)
	// 127.5 + (v - 127.5) * 1.5, rounded.
	if got.R != 86 {
		t.Errorf("R = %d, expected 86", got.R)
	}
	if got.G != 236 {
		t.Errorf("G = %d, expected 236", got.G)
	}
	// 128 is nearly the midpoint and must barely move.
	if math.Abs(float64(got.B)-128) > 1 {
		t.Errorf("B = %d, expected to stay near 128", got.B)
	}
	if got.A != 255 {
		t.Errorf("alpha changed to %d", got.A)
	}
}

func TestEnhanceContrast_ClampsToChannelRange(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{R: 10, G: 250, B: 127, A: 255})
	out := EnhanceContrast(img, 2)

	got := out.NRGBAAt(0, 0)
	if got.R != 0 {
		t.Errorf("R = %d, expected clamping to 0", got.R)
	}
	if got.G != 255 {
		t.Errorf("G = %d, expected clamping to 255", got.G)
	}
}

func TestEnhanceContrast_DoesNotMutateInput(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{R: 10, G: 250, B: 127, A: 255})
	EnhanceContrast(img, 2)

	if got := img.NRGBAAt(0, 0); got.R != 10 || got.G != 250 {
		t.Errorf("input image was mutated: %v", got)
	}
}

func TestMatchColors_ZeroStrengthIsIdentity(t *testing.T) {
	tpl := testTemplate(t)
	img := solidNRGBA(256, 256, color.NRGBA{R: 80, G: 80, B: 80, A: 255})

	out := MatchColors(img, tpl, 0)
	if out != img {
		t.Error("strength 0 should return the input image unchanged")
	}
}

func TestMatchColors_FullStrengthMovesMeansTowardTemplate(t *testing.T) {
	tpl := testTemplate(t)
	gray := color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	img := solidNRGBA(256, 256, gray)

	out := MatchColors(img, tpl, 1)

	face := tpl.Region(RegionFace)
	tplStats, _ := maskedStats(tpl.Image, face.Mask())
	outStats, _ := maskedStats(out, face.Mask())

	for c := 0; c < 3; c++ {
		before := math.Abs(80 - tplStats.mean[c])
		after := math.Abs(outStats.mean[c] - tplStats.mean[c])
		if after >= before {
			t.Errorf("channel %d: mean distance to the template grew from %.1f to %.1f", c, before, after)
		}
	}
}

func TestMatchColors_PixelsOutsideMasksUntouched(t *testing.T) {
	tpl := testTemplate(t)
	gray := color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	img := solidNRGBA(256, 256, gray)

	out := MatchColors(img, tpl, 1)

	// The corner is covered by no region mask.
	if got := out.NRGBAAt(1, 1); got != gray {
		t.Errorf("corner pixel changed to %v", got)
	}
}
