package wojak

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	pigo "github.com/esimov/pigo/core"

	"github.com/memeforge/wojak/utils"
)

// ErrNoFaceDetected signals that the classifier found no usable face in the
// source image. It is a normal pipeline outcome, not a terminal failure:
// the generator maps it into a negative validation report.
var ErrNoFaceDetected = errors.New("no face detected in the source image")

// FaceDetector locates the dominant face in an image and returns its
// landmark set. Implementations must be safe for concurrent use.
type FaceDetector interface {
	Detect(img *image.NRGBA) (*LandmarkSet, error)
}

// Cascade asset file names expected inside the cascade directory.
const (
	faceFinderFile = "facefinder"
	puplocFile     = "puploc"
	flplocDir      = "lps"
)

// Facial landmark point cascades used to refine the geometric estimates.
// The mapping is tunable: a missing cascade simply leaves the estimate as is.
var flpCascadeNames = map[LandmarkName]string{
	MouthLeft:  "lp81",
	MouthRight: "lp84",
	NoseTip:    "lp93",
}

// detectorSeed keeps the pupil localization perturbations deterministic, so
// that identical inputs always produce identical landmark sets.
const detectorSeed = 1

// detectMu serializes cascade runs: the puploc stage perturbs its start
// position through the shared math/rand source.
var detectMu sync.Mutex

// CascadeDetector is the pigo backed FaceDetector. The face classifier
// cascade is mandatory; pupil and facial landmark point cascades are
// optional refinements on top of the geometric landmark synthesis.
type CascadeDetector struct {
	classifier *pigo.Pigo
	puploc     *pigo.PuplocCascade
	flpcs      map[string][]*pigo.FlpCascade

	// MinFaceSize is the smallest face region (in pixels) the classifier
	// searches for.
	MinFaceSize int
	// QThreshold filters out detections below this classification score.
	QThreshold float32
	// Perturbs is the number of pupil localization perturbations.
	Perturbs int
	// Angle is the plane rotation tolerance passed to the cascade.
	Angle float64
}

// NewCascadeDetector loads the detection cascades from dir and returns a
// ready to use detector. The facefinder cascade is required; puploc and the
// lps/ directory are picked up when present.
func NewCascadeDetector(dir string) (*CascadeDetector, error) {
	cascade, err := os.ReadFile(filepath.Join(dir, faceFinderFile))
	if err != nil {
		return nil, fmt.Errorf("could not read the face cascade file: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}

	d := &CascadeDetector{
		classifier:  classifier,
		MinFaceSize: 60,
		QThreshold:  5.0,
		Perturbs:    63,
	}

	if plc, err := os.ReadFile(filepath.Join(dir, puplocFile)); err == nil {
		pl, err := pigo.NewPuplocCascade().UnpackCascade(plc)
		if err != nil {
			return nil, fmt.Errorf("error unpacking the puploc cascade file: %w", err)
		}
		d.puploc = pl

		if flpcs, err := pl.ReadCascadeDir(filepath.Join(dir, flplocDir)); err == nil {
			d.flpcs = flpcs
		}
	}

	return d, nil
}

// Detect runs the face classifier over the image and returns the landmark
// set of the largest detected face, or ErrNoFaceDetected.
func (d *CascadeDetector) Detect(img *image.NRGBA) (*LandmarkSet, error) {
	b := img.Bounds()
	cols, rows := b.Dx(), b.Dy()

	pixels := pigo.RgbToGrayscale(img)
	imgParams := pigo.ImageParams{
		Pixels: pixels,
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}
	cParams := pigo.CascadeParams{
		MinSize:     d.MinFaceSize,
		MaxSize:     utils.Max(cols, rows),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: imgParams,
	}

	detectMu.Lock()
	defer detectMu.Unlock()
	rand.Seed(detectorSeed)

	dets := d.classifier.RunCascade(cParams, d.Angle)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	face, ok := largestDetection(dets, d.QThreshold)
	if !ok {
		return nil, ErrNoFaceDetected
	}

	ls := synthesizeLandmarks(face)
	ls.Confidence = float64(face.Q)

	if d.puploc != nil {
		d.refineEyes(face, imgParams, ls)
		d.refineFlpPoints(imgParams, ls)
	}

	return ls, nil
}

// largestDetection picks the single face to use when the classifier reports
// several: largest area wins, ties broken by top-left position.
func largestDetection(dets []pigo.Detection, qThreshold float32) (pigo.Detection, bool) {
	var (
		best  pigo.Detection
		found bool
	)
	for _, det := range dets {
		if det.Q < qThreshold {
			continue
		}
		if !found {
			best, found = det, true
			continue
		}
		switch {
		case det.Scale > best.Scale:
			best = det
		case det.Scale == best.Scale && det.Row < best.Row:
			best = det
		case det.Scale == best.Scale && det.Row == best.Row && det.Col < best.Col:
			best = det
		}
	}
	return best, found
}

// synthesizeLandmarks derives a fully populated landmark set from the face
// bounding region alone, using anthropometric proportions. Cascade based
// refinements overwrite individual points afterwards when available.
func synthesizeLandmarks(face pigo.Detection) *LandmarkSet {
	s := float64(face.Scale)
	center := Point{X: float64(face.Col), Y: float64(face.Row)}

	ls := &LandmarkSet{
		LeftEye:  Point{X: center.X - 0.18*s, Y: center.Y - 0.1*s},
		RightEye: Point{X: center.X + 0.18*s, Y: center.Y - 0.1*s},
	}
	deriveLowerFace(ls)
	ls.Outline = ellipsePolygon(center, 0.40*s, 0.52*s, 0, outlinePoints)
	return ls
}

// deriveLowerFace positions the nose tip and mouth corners relative to the
// eye axis, so that the estimates follow the in-plane head rotation.
func deriveLowerFace(ls *LandmarkSet) {
	eyeDist := ls.EyeDistance()
	mid := ls.EyeMidpoint()

	dir := ls.RightEye.Sub(ls.LeftEye).Scale(1 / eyeDist)
	down := Point{X: -dir.Y, Y: dir.X}

	ls.NoseTip = mid.Add(down.Scale(0.55 * eyeDist))
	mouthMid := mid.Add(down.Scale(1.05 * eyeDist))
	ls.MouthLeft = mouthMid.Sub(dir.Scale(0.5 * eyeDist))
	ls.MouthRight = mouthMid.Add(dir.Scale(0.5 * eyeDist))
}

// refineEyes replaces the estimated eye centers with pupil localization
// results and re-derives the dependent lower face points.
func (d *CascadeDetector) refineEyes(face pigo.Detection, imgParams pigo.ImageParams, ls *LandmarkSet) {
	s := float32(face.Scale)

	left := d.puploc.RunDetector(pigo.Puploc{
		Row:      face.Row - int(0.075*s),
		Col:      face.Col - int(0.175*s),
		Scale:    0.25 * s,
		Perturbs: d.Perturbs,
	}, imgParams, d.Angle, false)

	right := d.puploc.RunDetector(pigo.Puploc{
		Row:      face.Row - int(0.075*s),
		Col:      face.Col + int(0.185*s),
		Scale:    0.25 * s,
		Perturbs: d.Perturbs,
	}, imgParams, d.Angle, false)

	if !validPuploc(left) || !validPuploc(right) {
		return
	}

	ls.LeftEye = Point{X: float64(left.Col), Y: float64(left.Row)}
	ls.RightEye = Point{X: float64(right.Col), Y: float64(right.Row)}
	deriveLowerFace(ls)

	// Re-center the outline on the refined eye axis.
	eyeDist := ls.EyeDistance()
	dir := ls.RightEye.Sub(ls.LeftEye).Scale(1 / eyeDist)
	down := Point{X: -dir.Y, Y: dir.X}
	center := ls.EyeMidpoint().Add(down.Scale(0.6 * eyeDist))
	s64 := float64(face.Scale)
	ls.Outline = ellipsePolygon(center, 0.40*s64, 0.52*s64, math.Atan2(dir.Y, dir.X), outlinePoints)
}

// refineFlpPoints overwrites the lower face estimates with facial landmark
// point cascade results where the corresponding cascade is loaded.
func (d *CascadeDetector) refineFlpPoints(imgParams pigo.ImageParams, ls *LandmarkSet) {
	if len(d.flpcs) == 0 {
		return
	}

	leftEye := &pigo.Puploc{Row: int(ls.LeftEye.Y), Col: int(ls.LeftEye.X)}
	rightEye := &pigo.Puploc{Row: int(ls.RightEye.Y), Col: int(ls.RightEye.X)}

	assign := map[LandmarkName]*Point{
		MouthLeft:  &ls.MouthLeft,
		MouthRight: &ls.MouthRight,
		NoseTip:    &ls.NoseTip,
	}

	for name, cascade := range flpCascadeNames {
		flps, ok := d.flpcs[cascade]
		if !ok || len(flps) == 0 || flps[0].PuplocCascade == nil {
			continue
		}
		flp := flps[0].GetLandmarkPoint(leftEye, rightEye, imgParams, d.Perturbs, false)
		if !validPuploc(flp) {
			continue
		}
		*assign[name] = Point{X: float64(flp.Col), Y: float64(flp.Row)}
	}
}

// validPuploc reports whether a localization result landed on a usable spot.
func validPuploc(pl *pigo.Puploc) bool {
	return pl != nil && pl.Row > 0 && pl.Col > 0 && pl.Scale > 0
}
