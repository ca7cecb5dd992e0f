package wojak

import (
	"fmt"
	"image"

	"github.com/memeforge/wojak/utils"
)

// Quality grades the usability of a source image for generation.
type Quality int

const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
)

// String returns the wire representation of the quality tier.
func (q Quality) String() string {
	switch q {
	case QualityHigh:
		return "high"
	case QualityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON encodes the quality tier as its string form.
func (q Quality) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.String() + `"`), nil
}

// UnmarshalJSON decodes the string form of the quality tier.
func (q *Quality) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"high"`:
		*q = QualityHigh
	case `"medium"`:
		*q = QualityMedium
	case `"low"`:
		*q = QualityLow
	default:
		return fmt.Errorf("unknown quality tier %s", data)
	}
	return nil
}

// Validation thresholds. Tunable constants, not contractual values.
const (
	highResMinDim   = 256
	mediumResMinDim = 128

	highConfidence   = 35.0
	mediumConfidence = 15.0

	minEyeDistance = 20.0
	maxRollDegrees = 25.0
	maxYawRatio    = 0.35
)

// ValidationReport captures the quality heuristics verdict for one request.
// A failing report never aborts generation; it only degrades it by marking
// regions ineligible for blending.
type ValidationReport struct {
	Valid   bool     `json:"valid"`
	Quality Quality  `json:"image_quality"`
	Issues  []string `json:"issues"`

	// Eligible flags which regions may receive source content. It is the
	// channel through which partial or low confidence detection degrades
	// the output instead of failing the request.
	Eligible map[RegionName]bool `json:"-"`
}

// Validate inspects the detector output against the quality heuristics and
// produces the per-request report. A nil landmark set means no face was
// found; the report is then negative with every region ineligible.
func Validate(ls *LandmarkSet, img *image.NRGBA) ValidationReport {
	report := ValidationReport{
		Issues:   []string{},
		Eligible: make(map[RegionName]bool, len(BlendOrder)),
	}

	if ls == nil {
		report.Quality = QualityLow
		report.Issues = append(report.Issues, "no face detected in the uploaded image")
		for _, name := range BlendOrder {
			report.Eligible[name] = false
		}
		return report
	}

	for _, name := range BlendOrder {
		report.Eligible[name] = true
	}

	resTier := resolutionTier(img)
	confTier := confidenceTier(ls.Confidence)
	report.Quality = utils.Min(resTier, confTier)

	if resTier < QualityHigh {
		report.Issues = append(report.Issues,
			fmt.Sprintf("low image resolution %dx%d, results improve from %dx%d upwards",
				img.Bounds().Dx(), img.Bounds().Dy(), highResMinDim, highResMinDim))
	}

	if confTier == QualityLow {
		report.Issues = append(report.Issues, "low face detection confidence")
	}

	if eyeDist := ls.EyeDistance(); eyeDist < minEyeDistance {
		report.Issues = append(report.Issues,
			fmt.Sprintf("detected face is too small (eye distance %.0fpx)", eyeDist))
		report.Eligible[RegionLeftEye] = false
		report.Eligible[RegionRightEye] = false
	}

	if roll := utils.Abs(ls.RollAngle()); roll > maxRollDegrees {
		report.Issues = append(report.Issues,
			fmt.Sprintf("head is tilted by %.0f degrees, keep it below %.0f", roll, maxRollDegrees))
	}

	if yaw := yawRatio(ls); yaw > maxYawRatio {
		report.Issues = append(report.Issues, "face is turned away from the camera")
		report.Eligible[RegionNose] = false
	}

	report.Valid = len(report.Issues) == 0
	return report
}

// resolutionTier maps the image dimensions onto a quality tier.
func resolutionTier(img *image.NRGBA) Quality {
	d := utils.Min(img.Bounds().Dx(), img.Bounds().Dy())
	switch {
	case d >= highResMinDim:
		return QualityHigh
	case d >= mediumResMinDim:
		return QualityMedium
	default:
		return QualityLow
	}
}

// confidenceTier maps the classifier score onto a quality tier.
func confidenceTier(q float64) Quality {
	switch {
	case q >= highConfidence:
		return QualityHigh
	case q >= mediumConfidence:
		return QualityMedium
	default:
		return QualityLow
	}
}

// yawRatio estimates out-of-plane rotation as the lateral nose tip offset
// relative to the eye midpoint, normalized by the eye distance. Frontal
// faces score near zero, profile views score high.
func yawRatio(ls *LandmarkSet) float64 {
	eyeDist := ls.EyeDistance()
	if eyeDist == 0 {
		return 0
	}
	dir := ls.RightEye.Sub(ls.LeftEye).Scale(1 / eyeDist)
	off := ls.NoseTip.Sub(ls.EyeMidpoint())
	return utils.Abs(off.X*dir.X+off.Y*dir.Y) / eyeDist
}
