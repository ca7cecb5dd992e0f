package wojak

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestDecodeImage_PNGRoundTrip(t *testing.T) {
	src := solidNRGBA(80, 60, color.NRGBA{R: 12, G: 34, B: 56, A: 255})
	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	img, err := DecodeImage(data)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("decoded size %dx%d, expected 80x60", b.Dx(), b.Dy())
	}
	if got := img.NRGBAAt(10, 10); got != src.NRGBAAt(10, 10) {
		t.Errorf("pixel round trip changed %v to %v", src.NRGBAAt(10, 10), got)
	}
}

func TestDecodeImage_JPEGInput(t *testing.T) {
	src := solidNRGBA(80, 60, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	data, err := EncodeJPEG(src, 90)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	img, err := DecodeImage(data)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("decoded size %dx%d, expected 80x60", b.Dx(), b.Dy())
	}
}

func TestDecodeImage_Garbage(t *testing.T) {
	_, err := DecodeImage([]byte("not an image at all"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, expected ErrDecode", err)
	}
}

func TestCheckImageSize(t *testing.T) {
	if err := checkImageSize(image.NewNRGBA(image.Rect(0, 0, 64, 64))); err != nil {
		t.Errorf("64x64 rejected: %v", err)
	}
	if err := checkImageSize(image.NewNRGBA(image.Rect(0, 0, 63, 200))); !errors.Is(err, ErrImageTooSmall) {
		t.Errorf("error = %v, expected ErrImageTooSmall", err)
	}
	if err := checkImageSize(image.NewNRGBA(image.Rect(0, 0, 200, 63))); !errors.Is(err, ErrImageTooSmall) {
		t.Errorf("error = %v, expected ErrImageTooSmall", err)
	}
}

func TestImgToNRGBA_TranslatedBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 20, 20))
	src.SetNRGBA(12, 15, color.NRGBA{R: 99, G: 88, B: 77, A: 255})

	dst := imgToNRGBA(src)
	if dst.Bounds().Min != (image.Point{}) {
		t.Fatalf("bounds min = %v, expected the origin", dst.Bounds().Min)
	}
	if got := dst.NRGBAAt(2, 5); got.R != 99 || got.G != 88 || got.B != 77 {
		t.Errorf("translated pixel = %v, expected {99 88 77 255}", got)
	}
}

func TestImgToNRGBA_GrayInput(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	src.SetGray(3, 3, color.Gray{Y: 140})

	dst := imgToNRGBA(src)
	if got := dst.NRGBAAt(3, 3); got.R != 140 || got.G != 140 || got.B != 140 || got.A != 255 {
		t.Errorf("gray pixel converted to %v", got)
	}
}

func TestCloneNRGBA_Independent(t *testing.T) {
	src := solidNRGBA(8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	dst := cloneNRGBA(src)

	dst.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	if got := src.NRGBAAt(0, 0); got.R != 10 {
		t.Error("mutating the clone changed the source")
	}
}
