package wojak

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrTemplateNotFound is returned by Registry.Get for unknown identifiers.
var ErrTemplateNotFound = errors.New("template not found")

// RegionName identifies one of the blendable facial regions.
type RegionName string

const (
	RegionFace     RegionName = "face"
	RegionLeftEye  RegionName = "left_eye"
	RegionRightEye RegionName = "right_eye"
	RegionNose     RegionName = "nose"
	RegionMouth    RegionName = "mouth"
)

// BlendOrder is the fixed compositing order: coarse regions first, finer
// features painted over them so they are never obscured by the face blend.
var BlendOrder = []RegionName{RegionFace, RegionNose, RegionMouth, RegionLeftEye, RegionRightEye}

// canonicalSize is the reference coordinate space all built-in template
// geometry is authored in. Geometry is rescaled to the actual asset size
// when a template is loaded.
const canonicalSize = 256

// thumbnailSize is the edge length of template gallery thumbnails.
const thumbnailSize = 128

// RegionDef pairs the landmarks anchoring a facial region with its mask in
// template coordinate space and its default blend weight. Immutable after
// template load.
type RegionDef struct {
	Name    RegionName
	Anchors []LandmarkName
	Polygon []Point
	Weight  float64
	Feather int

	mask *image.Alpha
}

// Mask returns the feathered alpha mask of the region in template space.
func (r *RegionDef) Mask() *image.Alpha {
	return r.mask
}

// Template is a stylized base face with reference landmarks and authored
// region definitions. Loaded once at startup, read-only thereafter.
type Template struct {
	ID          string
	Name        string
	Description string
	Image       *image.NRGBA
	Landmarks   LandmarkSet
	Regions     []RegionDef

	thumbnail []byte
}

// Region returns the definition for the named region, or nil.
func (t *Template) Region(name RegionName) *RegionDef {
	for i := range t.Regions {
		if t.Regions[i].Name == name {
			return &t.Regions[i]
		}
	}
	return nil
}

// TemplateInfo is the gallery summary of a template.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   []byte `json:"-"`
}

// templateSpec is the authored geometry of a built-in template in the
// canonical 256x256 space.
type templateSpec struct {
	id          string
	name        string
	description string

	faceCenter Point
	faceRx     float64
	faceRy     float64
	eyeY       float64
	eyeOffset  float64
	noseY      float64
	mouthY     float64
	mouthHalf  float64
	mouthOpen  float64
}

// builtinTemplates is the registry manifest: load order follows this list.
var builtinTemplates = []templateSpec{
	{
		id: "wojak_basic", name: "Basic Wojak", description: "Classic Wojak face",
		faceCenter: Point{X: 128, Y: 128}, faceRx: 78, faceRy: 98,
		eyeY: 104, eyeOffset: 32, noseY: 140, mouthY: 172, mouthHalf: 26, mouthOpen: 9,
	},
	{
		id: "pointer_wojak", name: "Pointer Wojak", description: "Wojak pointing with finger",
		faceCenter: Point{X: 118, Y: 122}, faceRx: 72, faceRy: 92,
		eyeY: 98, eyeOffset: 30, noseY: 132, mouthY: 162, mouthHalf: 24, mouthOpen: 8,
	},
	{
		id: "doomer", name: "Doomer", description: "Depressed night-walking Wojak",
		faceCenter: Point{X: 126, Y: 126}, faceRx: 76, faceRy: 96,
		eyeY: 102, eyeOffset: 31, noseY: 138, mouthY: 168, mouthHalf: 22, mouthOpen: 7,
	},
	{
		id: "soyjak", name: "Soyjak", description: "Soy-consuming variant",
		faceCenter: Point{X: 124, Y: 124}, faceRx: 74, faceRy: 95,
		eyeY: 100, eyeOffset: 30, noseY: 134, mouthY: 170, mouthHalf: 30, mouthOpen: 18,
	},
	{
		id: "brainlet", name: "Brainlet", description: "Low IQ Wojak variant",
		faceCenter: Point{X: 128, Y: 136}, faceRx: 64, faceRy: 78,
		eyeY: 118, eyeOffset: 26, noseY: 148, mouthY: 174, mouthHalf: 20, mouthOpen: 7,
	},
}

// Default per-region blend weights and feather radii.
var regionDefaults = map[RegionName]struct {
	weight  float64
	feather int
}{
	RegionFace:     {weight: 0.6, feather: 4},
	RegionNose:     {weight: 0.3, feather: 2},
	RegionMouth:    {weight: 0.7, feather: 3},
	RegionLeftEye:  {weight: 0.8, feather: 2},
	RegionRightEye: {weight: 0.8, feather: 2},
}

// Registry is the process-wide, read-only template store. It is populated
// once by LoadTemplates and safe for unlimited concurrent readers.
type Registry struct {
	templates map[string]*Template
	order     []string
}

// LoadTemplates builds the registry from the template asset directory.
// Every built-in identifier always resolves: a missing or unreadable
// <dir>/<id>.png falls back to a deterministically drawn placeholder.
// Extra .png files found in the directory are registered after the
// built-ins, in lexical order, with default geometry.
func LoadTemplates(dir string) (*Registry, error) {
	reg := &Registry{templates: make(map[string]*Template)}

	for _, spec := range builtinTemplates {
		img := loadTemplateAsset(filepath.Join(dir, spec.id+".png"))
		if img == nil {
			img = drawPlaceholder(spec)
		}
		tpl, err := buildTemplate(spec, img)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", spec.id, err)
		}
		reg.templates[spec.id] = tpl
		reg.order = append(reg.order, spec.id)
	}

	extras, err := extraTemplateIDs(dir, reg.templates)
	if err != nil {
		return nil, err
	}
	for _, id := range extras {
		img := loadTemplateAsset(filepath.Join(dir, id+".png"))
		if img == nil {
			continue
		}
		spec := defaultSpec(id)
		tpl, err := buildTemplate(spec, img)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", id, err)
		}
		reg.templates[id] = tpl
		reg.order = append(reg.order, id)
	}

	return reg, nil
}

// Get returns the template registered under id.
func (r *Registry) Get(id string) (*Template, error) {
	tpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return tpl, nil
}

// List returns the gallery summaries in registration order.
func (r *Registry) List() []TemplateInfo {
	infos := make([]TemplateInfo, 0, len(r.order))
	for _, id := range r.order {
		tpl := r.templates[id]
		infos = append(infos, TemplateInfo{
			ID:          tpl.ID,
			Name:        tpl.Name,
			Description: tpl.Description,
			Thumbnail:   tpl.thumbnail,
		})
	}
	return infos
}

// loadTemplateAsset reads and decodes a template image, returning nil when
// the asset is absent or unreadable.
func loadTemplateAsset(path string) *image.NRGBA {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	img, err := decodeReader(f)
	if err != nil {
		return nil
	}
	return img
}

// extraTemplateIDs lists .png assets in dir that are not already registered.
func extraTemplateIDs(dir string, known map[string]*Template) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read the template directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".png")
		if _, ok := known[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// defaultSpec derives geometry for a template with no authored metadata.
func defaultSpec(id string) templateSpec {
	name := titleCase(strings.ReplaceAll(id, "_", " "))
	spec := builtinTemplates[0]
	spec.id = id
	spec.name = name
	spec.description = name + " variant"
	return spec
}

// titleCase upper-cases the first letter of every space separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// buildTemplate scales the authored canonical geometry to the asset size
// and precomputes the feathered region masks.
func buildTemplate(spec templateSpec, img *image.NRGBA) (*Template, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	sx := float64(w) / canonicalSize
	sy := float64(h) / canonicalSize

	scale := func(p Point) Point { return Point{X: p.X * sx, Y: p.Y * sy} }
	scaleAll := func(pts []Point) []Point {
		out := make([]Point, len(pts))
		for i, p := range pts {
			out[i] = scale(p)
		}
		return out
	}

	lm := spec.landmarks()
	lm.LeftEye = scale(lm.LeftEye)
	lm.RightEye = scale(lm.RightEye)
	lm.NoseTip = scale(lm.NoseTip)
	lm.MouthLeft = scale(lm.MouthLeft)
	lm.MouthRight = scale(lm.MouthRight)
	lm.Outline = scaleAll(lm.Outline)

	tpl := &Template{
		ID:          spec.id,
		Name:        spec.name,
		Description: spec.description,
		Image:       img,
		Landmarks:   lm,
	}

	for _, region := range spec.regions() {
		region.Polygon = scaleAll(region.Polygon)
		region.mask = buildSoftMask(region.Polygon, w, h, region.Feather)
		tpl.Regions = append(tpl.Regions, region)
	}

	thumb := imaging.Thumbnail(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	data, err := EncodePNG(thumb)
	if err != nil {
		return nil, err
	}
	tpl.thumbnail = data

	return tpl, nil
}

// landmarks derives the reference landmark set from the authored geometry,
// in canonical coordinates.
func (s templateSpec) landmarks() LandmarkSet {
	cx := s.faceCenter.X
	return LandmarkSet{
		LeftEye:    Point{X: cx - s.eyeOffset, Y: s.eyeY},
		RightEye:   Point{X: cx + s.eyeOffset, Y: s.eyeY},
		NoseTip:    Point{X: cx, Y: s.noseY},
		MouthLeft:  Point{X: cx - s.mouthHalf, Y: s.mouthY},
		MouthRight: Point{X: cx + s.mouthHalf, Y: s.mouthY},
		Outline:    ellipsePolygon(s.faceCenter, s.faceRx, s.faceRy, 0, outlinePoints),
		Confidence: highConfidence,
	}
}

// regions derives the authored region definitions, in canonical coordinates.
func (s templateSpec) regions() []RegionDef {
	cx := s.faceCenter.X
	eyeRx := 0.45 * s.eyeOffset
	eyeRy := 0.30 * s.eyeOffset
	mouthMid := Point{X: cx, Y: s.mouthY}

	defs := []RegionDef{
		{
			Name:    RegionFace,
			Anchors: []LandmarkName{FaceOutline, LeftEyeCenter, RightEyeCenter},
			Polygon: ellipsePolygon(s.faceCenter, s.faceRx, s.faceRy, 0, outlinePoints),
		},
		{
			Name:    RegionNose,
			Anchors: []LandmarkName{LeftEyeCenter, RightEyeCenter, NoseTip},
			Polygon: ellipsePolygon(Point{X: cx, Y: s.noseY}, 0.5*s.eyeOffset, 0.6*s.eyeOffset, 0, 12),
		},
		{
			Name:    RegionMouth,
			Anchors: []LandmarkName{MouthLeft, MouthRight, NoseTip},
			Polygon: ellipsePolygon(mouthMid, 1.2*s.mouthHalf, s.mouthOpen+4, 0, 12),
		},
		{
			Name:    RegionLeftEye,
			Anchors: []LandmarkName{LeftEyeCenter, RightEyeCenter},
			Polygon: ellipsePolygon(Point{X: cx - s.eyeOffset, Y: s.eyeY}, eyeRx, eyeRy, 0, 12),
		},
		{
			Name:    RegionRightEye,
			Anchors: []LandmarkName{LeftEyeCenter, RightEyeCenter},
			Polygon: ellipsePolygon(Point{X: cx + s.eyeOffset, Y: s.eyeY}, eyeRx, eyeRy, 0, 12),
		},
	}

	for i := range defs {
		d := regionDefaults[defs[i].Name]
		defs[i].Weight = d.weight
		defs[i].Feather = d.feather
	}
	return defs
}

// drawPlaceholder renders a deterministic stand-in image for a template
// whose asset is missing on disk, so the registry never serves a broken
// entry.
func drawPlaceholder(spec templateSpec) *image.NRGBA {
	var (
		bg      = color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
		skin    = color.NRGBA{R: 0xe8, G: 0xdc, B: 0xc8, A: 0xff}
		line    = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
		mouthBg = color.NRGBA{R: 0x7a, G: 0x4a, B: 0x4a, A: 0xff}
	)

	img := image.NewNRGBA(image.Rect(0, 0, canonicalSize, canonicalSize))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = bg.R
		img.Pix[i+1] = bg.G
		img.Pix[i+2] = bg.B
		img.Pix[i+3] = bg.A
	}

	// Head with an outline ring.
	paintPolygon(img, ellipsePolygon(spec.faceCenter, spec.faceRx, spec.faceRy, 0, 48), line)
	paintPolygon(img, ellipsePolygon(spec.faceCenter, spec.faceRx-3, spec.faceRy-3, 0, 48), skin)

	cx := spec.faceCenter.X
	for _, ex := range []float64{cx - spec.eyeOffset, cx + spec.eyeOffset} {
		paintPolygon(img, ellipsePolygon(Point{X: ex, Y: spec.eyeY}, 0.28*spec.eyeOffset, 0.18*spec.eyeOffset, 0, 16), line)
	}

	// Nose stroke.
	paintPolygon(img, []Point{
		{X: cx - 1.5, Y: spec.eyeY + 6},
		{X: cx + 1.5, Y: spec.eyeY + 6},
		{X: cx + 4, Y: spec.noseY},
		{X: cx - 4, Y: spec.noseY},
	}, line)

	paintPolygon(img, ellipsePolygon(Point{X: cx, Y: spec.mouthY}, spec.mouthHalf, spec.mouthOpen, 0, 24), line)
	if spec.mouthOpen > 10 {
		paintPolygon(img, ellipsePolygon(Point{X: cx, Y: spec.mouthY}, spec.mouthHalf-2, spec.mouthOpen-2, 0, 24), mouthBg)
	}

	return img
}
