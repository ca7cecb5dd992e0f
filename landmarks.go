package wojak

import (
	"math"
)

// Point is a 2D coordinate in image pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the sum of two points treated as vectors.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points treated as vectors.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns the point scaled by the s factor.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dist returns the euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// LandmarkName identifies one of the named facial anchor points.
type LandmarkName string

const (
	LeftEyeCenter  LandmarkName = "left_eye_center"
	RightEyeCenter LandmarkName = "right_eye_center"
	NoseTip        LandmarkName = "nose_tip"
	MouthLeft      LandmarkName = "mouth_left"
	MouthRight     LandmarkName = "mouth_right"
	// FaceOutline expands to all outline polygon points.
	FaceOutline LandmarkName = "face_outline"
)

// outlinePoints is the number of points the face outline polygon is sampled at.
const outlinePoints = 16

// LandmarkSet holds the full set of facial landmarks detected on a single face.
// A landmark set is either fully populated or absent: the detector synthesizes
// every named point, so consumers never have to deal with partial sets.
type LandmarkSet struct {
	LeftEye    Point
	RightEye   Point
	NoseTip    Point
	MouthLeft  Point
	MouthRight Point
	Outline    []Point

	// Confidence is the detection score reported by the face classifier.
	Confidence float64
}

// EyeDistance returns the inter-pupillary pixel distance.
func (ls *LandmarkSet) EyeDistance() float64 {
	return ls.LeftEye.Dist(ls.RightEye)
}

// EyeMidpoint returns the point halfway between the two eye centers.
func (ls *LandmarkSet) EyeMidpoint() Point {
	return Point{
		X: (ls.LeftEye.X + ls.RightEye.X) / 2,
		Y: (ls.LeftEye.Y + ls.RightEye.Y) / 2,
	}
}

// RollAngle returns the in-plane head rotation in degrees, derived
// from the eye axis. Zero means the eyes are perfectly horizontal.
func (ls *LandmarkSet) RollAngle() float64 {
	dx := ls.RightEye.X - ls.LeftEye.X
	dy := ls.RightEye.Y - ls.LeftEye.Y
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// Points resolves a list of landmark names to concrete coordinates.
// The FaceOutline name expands to the whole outline polygon.
func (ls *LandmarkSet) Points(names []LandmarkName) []Point {
	pts := make([]Point, 0, len(names))
	for _, name := range names {
		switch name {
		case LeftEyeCenter:
			pts = append(pts, ls.LeftEye)
		case RightEyeCenter:
			pts = append(pts, ls.RightEye)
		case NoseTip:
			pts = append(pts, ls.NoseTip)
		case MouthLeft:
			pts = append(pts, ls.MouthLeft)
		case MouthRight:
			pts = append(pts, ls.MouthRight)
		case FaceOutline:
			pts = append(pts, ls.Outline...)
		}
	}
	return pts
}

// centroid returns the arithmetic mean of a point set.
func centroid(pts []Point) Point {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(pts))
	return Point{X: cx / n, Y: cy / n}
}

// ellipsePolygon samples an axis-aligned ellipse rotated by angle
// (radians) into a closed polygon of n points.
func ellipsePolygon(center Point, rx, ry, angle float64, n int) []Point {
	pts := make([]Point, n)
	sin, cos := math.Sincos(angle)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		x := rx * math.Cos(t)
		y := ry * math.Sin(t)
		pts[i] = Point{
			X: center.X + x*cos - y*sin,
			Y: center.Y + x*sin + y*cos,
		}
	}
	return pts
}
