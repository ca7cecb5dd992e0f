package wojak

import (
	"image"
	"math"
)

// contrastMidpoint is the pivot value contrast enhancement scales around.
const contrastMidpoint = 127.5

// channelStats holds per-channel first and second moment statistics of the
// pixels covered by a region mask.
type channelStats struct {
	mean [3]float64
	std  [3]float64
}

// MatchColors shifts the color statistics of every region of the composite
// toward the template's statistics for the same region, interpolated by
// strength: 0 leaves the composite untouched, 1 fully matches the
// template's palette. Running this after blending makes the warped skin
// tones harmonize with the stylized template instead of looking pasted-in.
func MatchColors(img *image.NRGBA, tpl *Template, strength float64) *image.NRGBA {
	strength = clamp01(strength)
	if strength == 0 {
		return img
	}

	out := cloneNRGBA(img)
	for i := range tpl.Regions {
		region := &tpl.Regions[i]
		mask := region.Mask()

		srcStats, srcN := maskedStats(out, mask)
		tplStats, tplN := maskedStats(tpl.Image, mask)
		if srcN == 0 || tplN == 0 {
			continue
		}

		shiftRegion(out, mask, srcStats, tplStats, strength)
	}
	return out
}

// maskedStats computes the per-channel mean and standard deviation of the
// pixels with non-zero mask coverage.
func maskedStats(img *image.NRGBA, mask *image.Alpha) (channelStats, int) {
	var (
		sum   [3]float64
		sqSum [3]float64
		n     int
	)

	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if mask.AlphaAt(x, y).A == 0 {
				continue
			}
			i := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				v := float64(img.Pix[i+c])
				sum[c] += v
				sqSum[c] += v * v
			}
			n++
		}
	}

	var stats channelStats
	if n == 0 {
		return stats, 0
	}
	for c := 0; c < 3; c++ {
		stats.mean[c] = sum[c] / float64(n)
		variance := sqSum[c]/float64(n) - stats.mean[c]*stats.mean[c]
		if variance > 0 {
			stats.std[c] = math.Sqrt(variance)
		}
	}
	return stats, n
}

// shiftRegion remaps each masked pixel toward the target distribution:
// matched = (v - srcMean) * (tgtStd / srcStd) + tgtMean, then interpolates
// between the original and the matched value by strength and the mask
// coverage, so feathered edges shift gradually.
func shiftRegion(img *image.NRGBA, mask *image.Alpha, src, tgt channelStats, strength float64) {
	var gain [3]float64
	for c := 0; c < 3; c++ {
		if src.std[c] > 1e-3 {
			gain[c] = tgt.std[c] / src.std[c]
		} else {
			gain[c] = 1
		}
	}

	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			t := strength * float64(a) / 255

			i := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				v := float64(img.Pix[i+c])
				matched := (v-src.mean[c])*gain[c] + tgt.mean[c]
				img.Pix[i+c] = clampChannel(v + (matched-v)*t)
			}
		}
	}
}

// EnhanceContrast applies a global contrast adjustment as the final
// pipeline step: out = midpoint + (v - midpoint) * factor, clamped to the
// channel range. A factor of 1 is the identity.
func EnhanceContrast(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return img
	}

	out := cloneNRGBA(img)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(out.Pix[i+c])
			out.Pix[i+c] = clampChannel(contrastMidpoint + (v-contrastMidpoint)*factor)
		}
	}
	return out
}

// clampChannel rounds and clamps a float channel value to [0, 255].
func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
