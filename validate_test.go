package wojak

import (
	"image"
	"testing"
)

// frontalLandmarks builds a clean, frontal landmark set centered in a
// 300x300 image.
func frontalLandmarks() *LandmarkSet {
	ls := &LandmarkSet{
		LeftEye:    Point{X: 118, Y: 120},
		RightEye:   Point{X: 182, Y: 120},
		Confidence: 40,
	}
	deriveLowerFace(ls)
	ls.Outline = ellipsePolygon(Point{X: 150, Y: 150}, 70, 90, 0, outlinePoints)
	return ls
}

func TestValidate_NilLandmarks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))
	report := Validate(nil, img)

	if report.Valid {
		t.Error("report is valid without a detected face")
	}
	if report.Quality != QualityLow {
		t.Errorf("quality = %s, expected low", report.Quality)
	}
	if len(report.Issues) == 0 {
		t.Error("expected a no-face issue")
	}
	for _, name := range BlendOrder {
		if report.Eligible[name] {
			t.Errorf("region %s is eligible without a detected face", name)
		}
	}
}

func TestValidate_CleanFrontalFace(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))
	report := Validate(frontalLandmarks(), img)

	if !report.Valid {
		t.Errorf("report is invalid, issues: %v", report.Issues)
	}
	if report.Quality != QualityHigh {
		t.Errorf("quality = %s, expected high", report.Quality)
	}
	for _, name := range BlendOrder {
		if !report.Eligible[name] {
			t.Errorf("region %s is not eligible", name)
		}
	}
}

func TestValidate_LowResolutionDegradesQuality(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	report := Validate(frontalLandmarks(), img)

	if report.Valid {
		t.Error("a low resolution report should carry issues")
	}
	if report.Quality != QualityLow {
		t.Errorf("quality = %s, expected low", report.Quality)
	}
	// Resolution degrades quality but excludes no region.
	for _, name := range BlendOrder {
		if !report.Eligible[name] {
			t.Errorf("region %s was excluded by low resolution alone", name)
		}
	}
}

func TestValidate_LowConfidenceCapsQuality(t *testing.T) {
	ls := frontalLandmarks()
	ls.Confidence = 20
	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))

	report := Validate(ls, img)
	if report.Quality != QualityMedium {
		t.Errorf("quality = %s, expected medium", report.Quality)
	}
}

func TestValidate_TinyEyeDistanceExcludesEyes(t *testing.T) {
	ls := &LandmarkSet{
		LeftEye:    Point{X: 145, Y: 120},
		RightEye:   Point{X: 155, Y: 120},
		Confidence: 40,
	}
	deriveLowerFace(ls)
	ls.Outline = ellipsePolygon(Point{X: 150, Y: 130}, 12, 16, 0, outlinePoints)

	report := Validate(ls, image.NewNRGBA(image.Rect(0, 0, 300, 300)))

	if report.Valid {
		t.Error("a tiny face should carry issues")
	}
	if report.Eligible[RegionLeftEye] || report.Eligible[RegionRightEye] {
		t.Error("eye regions stay eligible despite a tiny eye distance")
	}
	if !report.Eligible[RegionFace] {
		t.Error("the face region should stay eligible")
	}
}

func TestValidate_HighYawExcludesNose(t *testing.T) {
	ls := frontalLandmarks()
	// Push the nose tip sideways along the eye axis past the yaw threshold.
	ls.NoseTip.X += 0.5 * ls.EyeDistance()

	report := Validate(ls, image.NewNRGBA(image.Rect(0, 0, 300, 300)))

	if report.Valid {
		t.Error("a turned face should carry issues")
	}
	if report.Eligible[RegionNose] {
		t.Error("the nose region stays eligible despite high yaw")
	}
	if !report.Eligible[RegionMouth] {
		t.Error("the mouth region should stay eligible")
	}
}

func TestValidate_StrongRollFlaggedButEligible(t *testing.T) {
	ls := &LandmarkSet{
		LeftEye:    Point{X: 120, Y: 100},
		RightEye:   Point{X: 170, Y: 140},
		Confidence: 40,
	}
	deriveLowerFace(ls)
	ls.Outline = ellipsePolygon(Point{X: 145, Y: 150}, 60, 80, 0, outlinePoints)

	report := Validate(ls, image.NewNRGBA(image.Rect(0, 0, 300, 300)))

	if report.Valid {
		t.Error("a tilted head should carry issues")
	}
	for _, name := range BlendOrder {
		if !report.Eligible[name] {
			t.Errorf("region %s was excluded by roll alone", name)
		}
	}
}

func TestQuality_MarshalJSON(t *testing.T) {
	for q, want := range map[Quality]string{
		QualityLow:    `"low"`,
		QualityMedium: `"medium"`,
		QualityHigh:   `"high"`,
	} {
		data, err := q.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal error: %v", err)
		}
		if string(data) != want {
			t.Errorf("quality %d marshals to %s, expected %s", q, data, want)
		}
	}
}
