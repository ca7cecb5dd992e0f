package wojak

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// rasterizePolygon renders a closed polygon into an 8-bit alpha coverage
// mask of the given dimensions. Points outside the mask bounds are clipped
// by the rasterizer.
func rasterizePolygon(poly []Point, w, h int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if len(poly) < 3 {
		return mask
	}

	r := vector.NewRasterizer(w, h)
	r.DrawOp = draw.Src
	r.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return mask
}

// buildSoftMask rasterizes a region polygon and feathers its boundary with
// the given blur radius, producing the soft-edged alpha map the blender
// composites through. Radius zero keeps the hard edge.
func buildSoftMask(poly []Point, w, h, feather int) *image.Alpha {
	mask := rasterizePolygon(poly, w, h)
	if feather > 0 {
		mask = stackblurAlpha(mask, uint32(feather))
	}
	return mask
}

// paintPolygon fills the polygon area of dst with a flat color, using the
// rasterized coverage as the blend factor. Used by the placeholder drawing.
func paintPolygon(dst *image.NRGBA, poly []Point, c color.NRGBA) {
	b := dst.Bounds()
	mask := rasterizePolygon(poly, b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			af := float64(a) / 255
			dst.Pix[i+0] = mixChannel(dst.Pix[i+0], c.R, af)
			dst.Pix[i+1] = mixChannel(dst.Pix[i+1], c.G, af)
			dst.Pix[i+2] = mixChannel(dst.Pix[i+2], c.B, af)
			dst.Pix[i+3] = 0xff
		}
	}
}

// mixChannel linearly interpolates a single 8-bit channel.
func mixChannel(dst, src uint8, t float64) uint8 {
	return uint8(float64(dst)*(1-t) + float64(src)*t + 0.5)
}
