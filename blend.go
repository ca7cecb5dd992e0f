package wojak

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/memeforge/wojak/utils"
)

// BlendRegions warps each eligible source region into template pixel space
// and composites it over the template through the region's feathered mask.
// Regions are painted in BlendOrder. Every output pixel stays a convex
// combination of template and warped source content: with all strengths at
// zero the template is reproduced unchanged, with a strength at one the
// mask core shows pure warped source.
func BlendRegions(src *image.NRGBA, tpl *Template, aligns map[RegionName]RegionAlignment, params Params, eligible map[RegionName]bool) *image.NRGBA {
	out := cloneNRGBA(tpl.Image)
	b := tpl.Image.Bounds()

	var warped *image.NRGBA
	for _, name := range BlendOrder {
		if !eligible[name] {
			continue
		}
		region := tpl.Region(name)
		if region == nil {
			continue
		}
		align, ok := aligns[name]
		if !ok {
			continue
		}
		w := clamp01(params.strengthFor(name))
		if w <= 0 {
			continue
		}

		// One warp buffer is reused across regions; each transform
		// repaints the full template rectangle.
		if warped == nil {
			warped = image.NewNRGBA(b)
		}
		xdraw.BiLinear.Transform(warped, align.Transform, src, src.Bounds(), xdraw.Src, nil)

		compositeMasked(out, warped, region.Mask(), w)
	}

	return out
}

// compositeMasked blends src over dst in place:
// dst = dst*(1 - w*mask) + src*(w*mask), per channel.
// The alpha channel keeps the destination value so template transparency
// is preserved.
func compositeMasked(dst, src *image.NRGBA, mask *image.Alpha, w float64) {
	b := dst.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			t := w * float64(a) / 255

			i := dst.PixOffset(x, y)
			j := src.PixOffset(x, y)
			dst.Pix[i+0] = mixChannel(dst.Pix[i+0], src.Pix[j+0], t)
			dst.Pix[i+1] = mixChannel(dst.Pix[i+1], src.Pix[j+1], t)
			dst.Pix[i+2] = mixChannel(dst.Pix[i+2], src.Pix[j+2], t)
		}
	}
}

// clamp01 clamps v to the [0, 1] interval.
func clamp01(v float64) float64 {
	return utils.Clamp(v, 0, 1)
}
