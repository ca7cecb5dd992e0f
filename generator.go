package wojak

import (
	"errors"
	"fmt"
	"time"

	"github.com/memeforge/wojak/utils"
)

// Stage names the pipeline steps a generation request moves through.
type Stage int

const (
	StageIdle Stage = iota
	StageDetecting
	StageValidating
	StageAligning
	StageBlending
	StageColorMatching
	StageDone
	StageFailed
)

// String returns the stage name used in diagnostics.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageDetecting:
		return "detecting"
	case StageValidating:
		return "validating"
	case StageAligning:
		return "aligning"
	case StageBlending:
		return "blending"
	case StageColorMatching:
		return "color_matching"
	case StageDone:
		return "done"
	default:
		return "failed"
	}
}

// Params is the per-request configuration record. Strengths are the weight
// of the source region's contribution against the template's own pixels,
// in [0, 1]; the contrast factor is multiplicative and clamped to [0.5, 2].
// Negative strengths select the template's authored default for that
// region, and a zero contrast factor resolves to 1 (no adjustment), so a
// partially filled Params leaves the unset stages inert.
type Params struct {
	FaceBlendStrength   float64 `json:"face_blend_strength"`
	EyeBlendStrength    float64 `json:"eye_blend_strength"`
	MouthBlendStrength  float64 `json:"mouth_blend_strength"`
	NoseBlendStrength   float64 `json:"nose_blend_strength"`
	ColorMatchStrength  float64 `json:"color_match_strength"`
	ContrastEnhancement float64 `json:"contrast_enhancement"`
}

// DefaultParams returns the generation defaults.
func DefaultParams() Params {
	return Params{
		FaceBlendStrength:   0.6,
		EyeBlendStrength:    0.8,
		MouthBlendStrength:  0.7,
		NoseBlendStrength:   0.3,
		ColorMatchStrength:  0.4,
		ContrastEnhancement: 1.1,
	}
}

// strengthFor maps a region name to its blend strength parameter.
func (p Params) strengthFor(name RegionName) float64 {
	switch name {
	case RegionFace:
		return p.FaceBlendStrength
	case RegionLeftEye, RegionRightEye:
		return p.EyeBlendStrength
	case RegionMouth:
		return p.MouthBlendStrength
	case RegionNose:
		return p.NoseBlendStrength
	default:
		return 0
	}
}

// normalized clamps the parameter set into its valid ranges and resolves
// negative strengths to the template's authored region defaults.
func (p Params) normalized(tpl *Template) Params {
	resolve := func(v float64, name RegionName) float64 {
		if v < 0 {
			if region := tpl.Region(name); region != nil {
				return region.Weight
			}
			return 0
		}
		return clamp01(v)
	}

	p.FaceBlendStrength = resolve(p.FaceBlendStrength, RegionFace)
	p.EyeBlendStrength = resolve(p.EyeBlendStrength, RegionLeftEye)
	p.MouthBlendStrength = resolve(p.MouthBlendStrength, RegionMouth)
	p.NoseBlendStrength = resolve(p.NoseBlendStrength, RegionNose)
	p.ColorMatchStrength = clamp01(p.ColorMatchStrength)

	// Zero is the unset value: no contrast adjustment.
	if p.ContrastEnhancement == 0 {
		p.ContrastEnhancement = 1
	} else {
		p.ContrastEnhancement = utils.Clamp(p.ContrastEnhancement, 0.5, 2.0)
	}
	return p
}

// StageTiming records how long one pipeline stage took, for diagnostics.
type StageTiming struct {
	Stage    Stage         `json:"stage"`
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of one generation request: the composite image
// encoded as PNG, the validation report, and the echoed parameters for
// audit purposes.
type Result struct {
	Image   []byte
	Report  ValidationReport
	Params  Params
	Timings []StageTiming
}

// Generator sequences detection, validation, alignment, blending and color
// matching into the public generation entry point. It holds no per-request
// state: the registry is the only shared data and it is read-only, so a
// single Generator serves any number of concurrent requests.
type Generator struct {
	Registry *Registry
	Detector FaceDetector
}

// NewGenerator wires a generator from its collaborators.
func NewGenerator(reg *Registry, det FaceDetector) *Generator {
	return &Generator{Registry: reg, Detector: det}
}

// ListTemplates returns the gallery summaries in registry order.
func (g *Generator) ListTemplates() []TemplateInfo {
	return g.Registry.List()
}

// Generate produces a composite of the source face over the chosen
// template. Only an undecodable or too-small input and an unknown template
// id terminate the request; a detection miss completes normally with a
// negative validation report and the untouched template as the output
// image, so the caller always receives a labeled image back.
func (g *Generator) Generate(src []byte, templateID string, params Params) (*Result, error) {
	tpl, err := g.Registry.Get(templateID)
	if err != nil {
		return nil, err
	}

	img, err := DecodeImage(src)
	if err != nil {
		return nil, err
	}
	if err := checkImageSize(img); err != nil {
		return nil, err
	}

	params = params.normalized(tpl)
	result := &Result{Params: params}

	stage := StageDetecting
	start := time.Now()
	mark := func(next Stage) {
		now := time.Now()
		result.Timings = append(result.Timings, StageTiming{Stage: stage, Duration: now.Sub(start)})
		stage = next
		start = now
	}

	landmarks, err := g.Detector.Detect(img)
	if err != nil && !errors.Is(err, ErrNoFaceDetected) {
		return nil, fmt.Errorf("face detection: %w", err)
	}
	mark(StageValidating)

	result.Report = Validate(landmarks, img)
	mark(StageAligning)

	if landmarks == nil {
		// Best-effort output: the template itself, unmodified.
		result.Image, err = EncodePNG(tpl.Image)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	aligns := AlignRegions(landmarks, tpl)
	mark(StageBlending)

	out := BlendRegions(img, tpl, aligns, params, result.Report.Eligible)
	mark(StageColorMatching)

	out = MatchColors(out, tpl, params.ColorMatchStrength)
	out = EnhanceContrast(out, params.ContrastEnhancement)
	mark(StageDone)

	result.Image, err = EncodePNG(out)
	if err != nil {
		return nil, err
	}
	return result, nil
}
