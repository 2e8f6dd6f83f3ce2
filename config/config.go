// Package config holds the flat option record the improvement engine
// consumes, its defaults, validation, and file loading.
//
// Files may be JSON (.json) or YAML (.yaml, .yml). Loading starts from
// Default(), so fields omitted from a file keep their default values and
// partial files are safe.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tetimprove/quality"
)

var (
	// ErrInvalid indicates an option value outside its allowed range.
	ErrInvalid = errors.New("config: invalid option")

	// ErrFormat indicates a config file with an unsupported extension.
	ErrFormat = errors.New("config: unsupported file format")
)

// maxFileSize bounds config files read by Load.
const maxFileSize = 1 << 20

// TensorField selects the constant deformation tensor of anisotropic runs.
type TensorField string

const (
	Identity TensorField = "identity"
	StretchX TensorField = "stretch-x"
	StretchZ TensorField = "stretch-z"
)

// stretchFactor is the scale the stretch fields apply along their axis.
const stretchFactor = 2.0

// Options is the engine configuration.
type Options struct {
	QualityMeasure quality.Measure `json:"quality_measure" yaml:"quality_measure"`

	// Smoothing by freedom class. Free vertices are always smoothed.
	FacetSmoothing   bool    `json:"facet_smoothing" yaml:"facet_smoothing"`
	SegmentSmoothing bool    `json:"segment_smoothing" yaml:"segment_smoothing"`
	FixedSmoothing   bool    `json:"fixed_smoothing" yaml:"fixed_smoothing"`
	QuadricSmoothing bool    `json:"quadric_smoothing" yaml:"quadric_smoothing"`
	QuadricOffset    float64 `json:"quadric_offset" yaml:"quadric_offset"`
	QuadricScale     float64 `json:"quadric_scale" yaml:"quadric_scale"`

	// Topological operators.
	EdgeRemoval        bool `json:"edge_removal" yaml:"edge_removal"`
	MaxEdgeRemovalRing int  `json:"max_edge_removal_ring" yaml:"max_edge_removal_ring"`
	EdgeContraction    bool `json:"edge_contraction" yaml:"edge_contraction"`

	// Vertex insertion.
	InsertBody                   bool    `json:"insert_body" yaml:"insert_body"`
	InsertFacet                  bool    `json:"insert_facet" yaml:"insert_facet"`
	InsertSegment                bool    `json:"insert_segment" yaml:"insert_segment"`
	InsertionThresholdPercentile float64 `json:"insertion_threshold_percentile" yaml:"insertion_threshold_percentile"`

	// Anisotropy.
	Anisotropic bool        `json:"anisotropic" yaml:"anisotropic"`
	TensorField TensorField `json:"tensor_field" yaml:"tensor_field"`

	// Size control. TargetEdgeLength 0 adopts the current median.
	Sizing              bool    `json:"sizing" yaml:"sizing"`
	TargetEdgeLength    float64 `json:"target_edge_length" yaml:"target_edge_length"`
	LongerFactor        float64 `json:"longer_factor" yaml:"longer_factor"`
	ShorterFactor       float64 `json:"shorter_factor" yaml:"shorter_factor"`
	MaxSizingIterations int     `json:"max_sizing_iterations" yaml:"max_sizing_iterations"`
	SizingQualityFloor  float64 `json:"sizing_quality_floor" yaml:"sizing_quality_floor"`
	SizingStopFraction  float64 `json:"sizing_stop_fraction" yaml:"sizing_stop_fraction"`

	// Goals, in degrees.
	GoalMinAngle float64 `json:"goal_min_angle" yaml:"goal_min_angle"`
	GoalMaxAngle float64 `json:"goal_max_angle" yaml:"goal_max_angle"`

	// Success and termination.
	MinStepImprovement      float64 `json:"min_step_improvement" yaml:"min_step_improvement"`
	MinInsertionImprovement float64 `json:"min_insertion_improvement" yaml:"min_insertion_improvement"`
	MaxStagnantRounds       int     `json:"max_stagnant_rounds" yaml:"max_stagnant_rounds"`
	MaxDesperatePasses      int     `json:"max_desperate_passes" yaml:"max_desperate_passes"`

	JournalChopSize int  `json:"journal_chop_size" yaml:"journal_chop_size"`
	CheckInvariants bool `json:"check_invariants" yaml:"check_invariants"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		QualityMeasure:   quality.MinSine,
		FacetSmoothing:   true,
		SegmentSmoothing: true,
		FixedSmoothing:   false,
		QuadricSmoothing: true,
		QuadricOffset:    0.8,
		QuadricScale:     300,

		EdgeRemoval:        true,
		MaxEdgeRemovalRing: 7,
		EdgeContraction:    true,

		InsertBody:                   true,
		InsertFacet:                  true,
		InsertSegment:                true,
		InsertionThresholdPercentile: 0.035,

		TensorField: Identity,

		LongerFactor:        1.5,
		ShorterFactor:       0.5,
		MaxSizingIterations: 5,
		SizingQualityFloor:  0.2,
		SizingStopFraction:  0.2,

		GoalMinAngle: 30,
		GoalMaxAngle: 150,

		MinStepImprovement:      1e-4,
		MinInsertionImprovement: 1e-3,
		MaxStagnantRounds:       5,
		MaxDesperatePasses:      3,

		JournalChopSize: 1 << 16,
	}
}

func invalid(field string, v any) error {
	return fmt.Errorf("%s = %v: %w", field, v, ErrInvalid)
}

// Validate reports the first option outside its allowed range.
func (o Options) Validate() error {
	if _, err := quality.Lookup(o.QualityMeasure); err != nil {
		return fmt.Errorf("quality_measure: %w: %w", ErrInvalid, err)
	}
	switch o.TensorField {
	case Identity, StretchX, StretchZ:
	default:
		return invalid("tensor_field", o.TensorField)
	}
	if o.GoalMinAngle <= 0 || o.GoalMinAngle >= 180 {
		return invalid("goal_min_angle", o.GoalMinAngle)
	}
	if o.GoalMaxAngle <= 0 || o.GoalMaxAngle >= 180 || o.GoalMaxAngle < o.GoalMinAngle {
		return invalid("goal_max_angle", o.GoalMaxAngle)
	}
	if o.ShorterFactor <= 0 || o.ShorterFactor >= 1 {
		return invalid("shorter_factor", o.ShorterFactor)
	}
	if o.LongerFactor <= 1 {
		return invalid("longer_factor", o.LongerFactor)
	}
	if o.TargetEdgeLength < 0 || math.IsNaN(o.TargetEdgeLength) {
		return invalid("target_edge_length", o.TargetEdgeLength)
	}
	if o.InsertionThresholdPercentile <= 0 || o.InsertionThresholdPercentile > 1 {
		return invalid("insertion_threshold_percentile", o.InsertionThresholdPercentile)
	}
	if o.SizingStopFraction < 0 || o.SizingStopFraction > 1 {
		return invalid("sizing_stop_fraction", o.SizingStopFraction)
	}
	if o.MinStepImprovement < 0 {
		return invalid("min_step_improvement", o.MinStepImprovement)
	}
	if o.MinInsertionImprovement < 0 {
		return invalid("min_insertion_improvement", o.MinInsertionImprovement)
	}
	if o.MaxStagnantRounds < 1 {
		return invalid("max_stagnant_rounds", o.MaxStagnantRounds)
	}
	if o.MaxDesperatePasses < 0 {
		return invalid("max_desperate_passes", o.MaxDesperatePasses)
	}
	if o.MaxSizingIterations < 0 {
		return invalid("max_sizing_iterations", o.MaxSizingIterations)
	}
	if o.MaxEdgeRemovalRing < 3 {
		return invalid("max_edge_removal_ring", o.MaxEdgeRemovalRing)
	}
	if o.JournalChopSize < 2 {
		return invalid("journal_chop_size", o.JournalChopSize)
	}
	if o.QuadricScale < 0 {
		return invalid("quadric_scale", o.QuadricScale)
	}
	return nil
}

// Tensor returns the deformation tensor of an anisotropic run, or nil when
// the run is isotropic or the field is the identity.
func (o Options) Tensor() *mat.Dense {
	if !o.Anisotropic {
		return nil
	}
	switch o.TensorField {
	case StretchX:
		return mat.NewDense(3, 3, []float64{stretchFactor, 0, 0, 0, 1, 0, 0, 0, 1})
	case StretchZ:
		return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, stretchFactor})
	}
	return nil
}

// Load reads options from a .json, .yaml or .yml file on top of Default()
// and validates the result.
func Load(path string) (Options, error) {
	o := Default()
	clean := filepath.Clean(path)

	info, err := os.Stat(clean)
	if err != nil {
		return o, fmt.Errorf("Load: %w", err)
	}
	if info.Size() > maxFileSize {
		return o, fmt.Errorf("Load: %s is %d bytes (max %d): %w", clean, info.Size(), maxFileSize, ErrInvalid)
	}
	data, err := os.ReadFile(clean)
	if err != nil {
		return o, fmt.Errorf("Load: %w", err)
	}

	switch ext := filepath.Ext(clean); ext {
	case ".json":
		err = json.Unmarshal(data, &o)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &o)
	default:
		return o, fmt.Errorf("Load: extension %q: %w", ext, ErrFormat)
	}
	if err != nil {
		return o, fmt.Errorf("Load: parse %s: %w", clean, err)
	}
	if err := o.Validate(); err != nil {
		return o, fmt.Errorf("Load: %w", err)
	}
	return o, nil
}
