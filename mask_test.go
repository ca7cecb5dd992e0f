package wojak

import (
	"image/color"
	"testing"
)

var squarePoly = []Point{
	{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 30}, {X: 10, Y: 30},
}

func TestRasterizePolygon_Coverage(t *testing.T) {
	mask := rasterizePolygon(squarePoly, 40, 40)

	if got := mask.AlphaAt(20, 20).A; got != 255 {
		t.Errorf("interior coverage = %d, expected 255", got)
	}
	if got := mask.AlphaAt(2, 2).A; got != 0 {
		t.Errorf("exterior coverage = %d, expected 0", got)
	}
	if got := mask.AlphaAt(35, 35).A; got != 0 {
		t.Errorf("exterior coverage = %d, expected 0", got)
	}
}

func TestRasterizePolygon_DegenerateInput(t *testing.T) {
	mask := rasterizePolygon([]Point{{X: 5, Y: 5}, {X: 10, Y: 10}}, 20, 20)
	for _, a := range mask.Pix {
		if a != 0 {
			t.Fatal("a two point polygon should rasterize to an empty mask")
		}
	}
}

func TestBuildSoftMask_FeatherSoftensBoundary(t *testing.T) {
	hard := buildSoftMask(squarePoly, 40, 40, 0)
	soft := buildSoftMask(squarePoly, 40, 40, 3)

	// Just outside the square: zero on the hard mask, spill-over on the
	// feathered one.
	if got := hard.AlphaAt(32, 20).A; got != 0 {
		t.Errorf("hard mask outside = %d, expected 0", got)
	}
	if got := soft.AlphaAt(32, 20).A; got == 0 {
		t.Error("feathered mask should bleed past the polygon edge")
	}

	// Deep interior stays fully opaque after feathering.
	if got := soft.AlphaAt(20, 20).A; got != 255 {
		t.Errorf("feathered mask interior = %d, expected 255", got)
	}

	// The boundary ramps down instead of cutting off.
	if edge := soft.AlphaAt(30, 20).A; edge == 0 || edge == 255 {
		t.Errorf("feathered mask edge = %d, expected an intermediate value", edge)
	}
}

func TestStackblurAlpha_DoesNotMutateInput(t *testing.T) {
	mask := rasterizePolygon(squarePoly, 40, 40)
	before := make([]uint8, len(mask.Pix))
	copy(before, mask.Pix)

	stackblurAlpha(mask, 4)

	for i := range before {
		if mask.Pix[i] != before[i] {
			t.Fatalf("input mask was mutated at byte %d", i)
		}
	}
}

func TestPaintPolygon_FillsInterior(t *testing.T) {
	img := solidNRGBA(40, 40, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	ink := color.NRGBA{R: 20, G: 60, B: 90, A: 255}

	paintPolygon(img, squarePoly, ink)

	if got := img.NRGBAAt(20, 20); got != ink {
		t.Errorf("interior pixel = %v, expected %v", got, ink)
	}
	if got := img.NRGBAAt(2, 2); got.R != 255 || got.G != 255 || got.B != 255 {
		t.Errorf("exterior pixel changed to %v", got)
	}
}
