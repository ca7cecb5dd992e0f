package wojak

import (
	"math"

	"golang.org/x/image/math/f64"
)

// degenerateNorm is the point spread below which a least-squares fit is
// considered ill-conditioned and the translation-only fallback kicks in.
const degenerateNorm = 1e-6

// RegionAlignment is the computed mapping of one source region into
// template pixel space. TranslationOnly marks the degenerate-anchors
// fallback where rotation and scale could not be estimated.
type RegionAlignment struct {
	Transform       f64.Aff3
	TranslationOnly bool
}

// AlignRegions computes, for every region the template defines, the
// similarity transform mapping the source landmarks anchoring that region
// onto the template's reference landmarks. Each region is fit
// independently: eyes, nose and mouth move non-rigidly relative to each
// other across face shapes, so a single global transform would misplace at
// least one feature.
func AlignRegions(src *LandmarkSet, tpl *Template) map[RegionName]RegionAlignment {
	out := make(map[RegionName]RegionAlignment, len(tpl.Regions))
	for i := range tpl.Regions {
		region := &tpl.Regions[i]
		from := src.Points(region.Anchors)
		to := tpl.Landmarks.Points(region.Anchors)
		if len(from) == 0 || len(from) != len(to) {
			continue
		}
		out[region.Name] = fitSimilarity(from, to)
	}
	return out
}

// fitSimilarity solves the least-squares similarity transform
// (uniform scale + rotation + translation) mapping src points onto dst
// points, in closed form. Degenerate inputs (coincident or single points)
// fall back to pure translation between the centroids.
func fitSimilarity(src, dst []Point) RegionAlignment {
	srcC := centroid(src)
	dstC := centroid(dst)

	var srcNorm, a11, a12, a21, a22 float64
	for i := range src {
		sx := src[i].X - srcC.X
		sy := src[i].Y - srcC.Y
		dx := dst[i].X - dstC.X
		dy := dst[i].Y - dstC.Y

		srcNorm += sx*sx + sy*sy

		a11 += sx * dx
		a12 += sx * dy
		a21 += sy * dx
		a22 += sy * dy
	}

	// cos is proportional to a11 + a22, sin to a12 - a21.
	rotNorm := math.Hypot(a11+a22, a12-a21)
	if srcNorm < degenerateNorm || rotNorm < degenerateNorm {
		return RegionAlignment{
			Transform:       translationAff3(dstC.X-srcC.X, dstC.Y-srcC.Y),
			TranslationOnly: true,
		}
	}

	cos := (a11 + a22) / rotNorm
	sin := (a12 - a21) / rotNorm
	scale := rotNorm / srcNorm

	tx := dstC.X - scale*(cos*srcC.X-sin*srcC.Y)
	ty := dstC.Y - scale*(sin*srcC.X+cos*srcC.Y)

	return RegionAlignment{
		Transform: f64.Aff3{
			scale * cos, -scale * sin, tx,
			scale * sin, scale * cos, ty,
		},
	}
}

// translationAff3 builds an identity transform with the given offset.
func translationAff3(tx, ty float64) f64.Aff3 {
	return f64.Aff3{
		1, 0, tx,
		0, 1, ty,
	}
}

// applyAff3 maps a point through the transform.
func applyAff3(m f64.Aff3, p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}
