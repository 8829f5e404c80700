package domain

import (
	"fmt"
	"math"
	"sort"
)

// Defaults of the fixed-axis variant: 500 m to 1000 m every 5 m.
const (
	DefaultStartDepth = 500.0
	DefaultEndDepth   = 1000.0
	DefaultDepthStep  = 5.0
)

// MaxDepthPoints caps the length of the depth axis of one request.
const MaxDepthPoints = 1_000_000

// gridEpsilon absorbs float noise in (end-start)/step so that an end depth
// lying on the grid is always included.
const gridEpsilon = 1e-9

// GenerationRequest is the configuration surface of one generation run.
type GenerationRequest struct {
	StartDepth float64            `json:"start_depth" yaml:"start_depth" mapstructure:"start_depth"`
	EndDepth   float64            `json:"end_depth" yaml:"end_depth" mapstructure:"end_depth"`
	Step       float64            `json:"step" yaml:"step" mapstructure:"step"`
	MaxSteps   map[string]float64 `json:"max_steps,omitempty" yaml:"max_steps,omitempty" mapstructure:"max_steps"` // channel key -> max step delta
	Seed       *int64             `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`
}

// DefaultRequest returns the fixed-axis request with default step deltas.
func DefaultRequest() GenerationRequest {
	return GenerationRequest{
		StartDepth: DefaultStartDepth,
		EndDepth:   DefaultEndDepth,
		Step:       DefaultDepthStep,
	}
}

// Validate rejects bad depth ranges and bad channel overrides before any generation starts.
func (r GenerationRequest) Validate() error {
	if err := ValidateRange(r.StartDepth, r.EndDepth, r.Step); err != nil {
		return err
	}
	_, err := r.Channels()
	return err
}

// Channels returns the default channels with the request's step overrides applied.
func (r GenerationRequest) Channels() ([]ChannelSpec, error) {
	channels := DefaultChannels()
	index := make(map[string]int, len(channels))
	for i, c := range channels {
		index[c.Key] = i
	}

	// Sorted for a deterministic first error.
	keys := make([]string, 0, len(r.MaxSteps))
	for k := range r.MaxSteps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		spec, ok := LookupChannel(k)
		if !ok {
			return nil, &ValidationError{Field: "max_steps." + k, Reason: "no such channel", Err: ErrUnknownChannel}
		}
		channels[index[spec.Key]].MaxStepDelta = r.MaxSteps[k]
	}

	for _, c := range channels {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return channels, nil
}

// ValidateRange checks start <= end, step > 0, finiteness and that the axis
// stays within MaxDepthPoints.
func ValidateRange(start, end, step float64) error {
	if !finite(start) || !finite(end) {
		return &ValidationError{Field: "depth", Reason: "bounds must be finite", Value: [2]float64{start, end}, Err: ErrInvalidRange}
	}
	if !finite(step) || step <= 0 {
		return &ValidationError{Field: "step", Reason: "must be positive", Value: step, Err: ErrInvalidRange}
	}
	if end < start {
		return &ValidationError{Field: "end_depth", Reason: fmt.Sprintf("must not be below start depth %g", start), Value: end, Err: ErrInvalidRange}
	}
	// Also false for NaN and +Inf, e.g. when end-start overflows.
	if !((end-start)/step+gridEpsilon < MaxDepthPoints) {
		return &ValidationError{Field: "step", Reason: fmt.Sprintf("depth axis would exceed %d points", MaxDepthPoints), Value: step, Err: ErrInvalidRange}
	}
	return nil
}

// DepthPoints returns the number of points of the axis start, start+step, ... <= end.
// The range must have passed ValidateRange.
func DepthPoints(start, end, step float64) int {
	return int(math.Floor((end-start)/step+gridEpsilon)) + 1
}
