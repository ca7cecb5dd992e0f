// Single channel port of the StackBlur algorithm described here:
// http://incubator.quasimondo.com/processing/fast_blur_deluxe.php
// It feathers region alpha masks at their boundary so that composited
// regions fade into the template instead of ending in a hard seam.

package wojak

import (
	"image"
)

type blurstack struct {
	a    uint32
	next *blurstack
}

var mulTable = []uint32{
	512, 512, 456, 512, 328, 456, 335, 512, 405, 328, 271, 456, 388, 335, 292, 512,
	454, 405, 364, 328, 298, 271, 496, 456, 420, 388, 360, 335, 312, 292, 273, 512,
	482, 454, 428, 405, 383, 364, 345, 328, 312, 298, 284, 271, 259, 496, 475, 456,
	437, 420, 404, 388, 374, 360, 347, 335, 323, 312, 302, 292, 282, 273, 265, 512,
	497, 482, 468, 454, 441, 428, 417, 405, 394, 383, 373, 364, 354, 345, 337, 328,
	320, 312, 305, 298, 291, 284, 278, 271, 265, 259, 507, 496, 485, 475, 465, 456,
	446, 437, 428, 420, 412, 404, 396, 388, 381, 374, 367, 360, 354, 347, 341, 335,
	329, 323, 318, 312, 307, 302, 297, 292, 287, 282, 278, 273, 269, 265, 261, 512,
	505, 497, 489, 482, 475, 468, 461, 454, 447, 441, 435, 428, 422, 417, 411, 405,
	399, 394, 389, 383, 378, 373, 368, 364, 359, 354, 350, 345, 341, 337, 332, 328,
	324, 320, 316, 312, 309, 305, 301, 298, 294, 291, 287, 284, 281, 278, 274, 271,
	268, 265, 262, 259, 257, 507, 501, 496, 491, 485, 480, 475, 470, 465, 460, 456,
	451, 446, 442, 437, 433, 428, 424, 420, 416, 412, 408, 404, 400, 396, 392, 388,
	385, 381, 377, 374, 370, 367, 363, 360, 357, 354, 350, 347, 344, 341, 338, 335,
	332, 329, 326, 323, 320, 318, 315, 312, 310, 307, 304, 302, 299, 297, 294, 292,
	289, 287, 285, 282, 280, 278, 275, 273, 271, 269, 267, 265, 263, 261, 259,
}

var shgTable = []uint32{
	9, 11, 12, 13, 13, 14, 14, 15, 15, 15, 15, 16, 16, 16, 16, 17,
	17, 17, 17, 17, 17, 17, 18, 18, 18, 18, 18, 18, 18, 18, 18, 19,
	19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 20, 20, 20,
	20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 21,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 22, 22, 22, 22, 22, 22,
	22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22,
	22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
}

// stackblurAlpha blurs an alpha mask in place semantics free fashion: the
// input is left untouched and a new blurred mask is returned.
func stackblurAlpha(src *image.Alpha, radius uint32) *image.Alpha {
	if radius < 1 {
		return src
	}
	if radius >= uint32(len(mulTable)) {
		radius = uint32(len(mulTable) - 1)
	}

	width := uint32(src.Bounds().Dx())
	height := uint32(src.Bounds().Dy())

	dst := image.NewAlpha(src.Bounds())
	copy(dst.Pix, src.Pix)

	var (
		div          = radius + radius + 1
		widthMinus1  = width - 1
		heightMinus1 = height - 1
		radiusPlus1  = radius + 1
		sumFactor    = radiusPlus1 * (radiusPlus1 + 1) / 2

		mulSum = mulTable[radius]
		shgSum = shgTable[radius]
	)

	stackStart := &blurstack{}
	stack := stackStart
	var stackEnd *blurstack
	for i := uint32(1); i < div; i++ {
		stack.next = &blurstack{}
		stack = stack.next
		if i == radiusPlus1 {
			stackEnd = stack
		}
	}
	stack.next = stackStart

	var stackIn, stackOut *blurstack

	for y := uint32(0); y < height; y++ {
		yi := y * width

		pa := uint32(dst.Pix[yi])
		aInSum, aOutSum, aSum := uint32(0), radiusPlus1*pa, sumFactor*pa

		stack = stackStart
		for i := uint32(0); i < radiusPlus1; i++ {
			stack.a = pa
			stack = stack.next
		}

		for i := uint32(1); i <= radius; i++ {
			p := yi + minu32(widthMinus1, i)
			a := uint32(dst.Pix[p])
			stack.a = a
			aSum += a * (radiusPlus1 - i)
			aInSum += a
			stack = stack.next
		}

		stackIn = stackStart
		stackOut = stackEnd
		for x := uint32(0); x < width; x++ {
			dst.Pix[yi+x] = uint8((aSum * mulSum) >> shgSum)

			aSum -= aOutSum

			aOutSum -= stackIn.a

			p := yi + minu32(x+radius+1, widthMinus1)
			stackIn.a = uint32(dst.Pix[p])
			aInSum += stackIn.a
			aSum += aInSum

			stackIn = stackIn.next

			aOutSum += stackOut.a
			aInSum -= stackOut.a
			stackOut = stackOut.next
		}
	}

	for x := uint32(0); x < width; x++ {
		pa := uint32(dst.Pix[x])
		aInSum, aOutSum, aSum := uint32(0), radiusPlus1*pa, sumFactor*pa

		stack = stackStart
		for i := uint32(0); i < radiusPlus1; i++ {
			stack.a = pa
			stack = stack.next
		}

		yp := uint32(0)
		for i := uint32(1); i <= radius; i++ {
			a := uint32(dst.Pix[yp*width+x])
			stack.a = a
			aSum += a * (radiusPlus1 - i)
			aInSum += a
			stack = stack.next
			if i < heightMinus1 {
				yp++
			}
		}

		stackIn = stackStart
		stackOut = stackEnd
		for y := uint32(0); y < height; y++ {
			dst.Pix[y*width+x] = uint8((aSum * mulSum) >> shgSum)

			aSum -= aOutSum

			aOutSum -= stackIn.a

			p := minu32(y+radiusPlus1, heightMinus1) * width
			stackIn.a = uint32(dst.Pix[p+x])
			aInSum += stackIn.a
			aSum += aInSum

			stackIn = stackIn.next

			aOutSum += stackOut.a
			aInSum -= stackOut.a
			stackOut = stackOut.next
		}
	}

	return dst
}

func minu32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
