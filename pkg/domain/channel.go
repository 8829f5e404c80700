package domain

import (
	"fmt"
	"math"
	"strings"
)

// Channel keys used by configuration overrides and the HTTP/MCP surfaces.
const (
	KeyROP         = "rop"
	KeyRPM         = "rpm"
	KeyFlowRate    = "flow_rate"
	KeyWeightOnBit = "wob"
)

// DepthColumn is the header of the depth index in every exported table.
const DepthColumn = "Depth (m)"

// ChannelSpec describes one synthesized sensor channel.
type ChannelSpec struct {
	Key          string  `json:"key" yaml:"key" mapstructure:"key"`
	Name         string  `json:"name" yaml:"name" mapstructure:"name"`
	Unit         string  `json:"unit,omitempty" yaml:"unit,omitempty" mapstructure:"unit"`
	Min          float64 `json:"min" yaml:"min" mapstructure:"min"`
	Max          float64 `json:"max" yaml:"max" mapstructure:"max"`
	MaxStepDelta float64 `json:"max_step_delta" yaml:"max_step_delta" mapstructure:"max_step_delta"`
}

// Column returns the table header for the channel, e.g. "ROP (m/h)".
// Unitless channels use the bare name.
func (c ChannelSpec) Column() string {
	if c.Unit == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Unit)
}

// Validate checks min < max and a positive, finite step delta.
func (c ChannelSpec) Validate() error {
	if !finite(c.Min) || !finite(c.Max) {
		return &ValidationError{Field: c.Key + ".bounds", Reason: "bounds must be finite", Value: [2]float64{c.Min, c.Max}, Err: ErrInvalidChannelBounds}
	}
	if c.Min >= c.Max {
		return &ValidationError{Field: c.Key + ".min", Reason: fmt.Sprintf("min must be below max %g", c.Max), Value: c.Min, Err: ErrInvalidChannelBounds}
	}
	if !finite(c.MaxStepDelta) || c.MaxStepDelta <= 0 {
		return &ValidationError{Field: c.Key + ".max_step_delta", Reason: "must be positive", Value: c.MaxStepDelta, Err: ErrInvalidChannelBounds}
	}
	return nil
}

// Clamp pins v into [Min, Max].
func (c ChannelSpec) Clamp(v float64) float64 {
	return math.Min(math.Max(v, c.Min), c.Max)
}

// DefaultChannels returns the four drilling channels in export order.
// Each call returns a fresh slice.
func DefaultChannels() []ChannelSpec {
	return []ChannelSpec{
		{Key: KeyROP, Name: "ROP", Unit: "m/h", Min: 2, Max: 20, MaxStepDelta: 0.5},
		{Key: KeyRPM, Name: "RPM", Min: 60, Max: 120, MaxStepDelta: 5},
		{Key: KeyFlowRate, Name: "Flow Rate", Unit: "L/min", Min: 200, Max: 400, MaxStepDelta: 10},
		{Key: KeyWeightOnBit, Name: "Weight on Bit", Unit: "tons", Min: 5, Max: 20, MaxStepDelta: 1},
	}
}

// StepRange is the suggested interval for a channel's max step in interactive front ends.
type StepRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SuggestedStepRanges are the max step slider ranges offered to users.
var SuggestedStepRanges = map[string]StepRange{
	KeyROP:         {Min: 0.1, Max: 5},
	KeyRPM:         {Min: 1, Max: 20},
	KeyFlowRate:    {Min: 1, Max: 50},
	KeyWeightOnBit: {Min: 0.1, Max: 5},
}

// LookupChannel finds a default channel by key, name or column header (case-insensitive).
func LookupChannel(id string) (ChannelSpec, bool) {
	id = strings.TrimSpace(id)
	for _, c := range DefaultChannels() {
		if strings.EqualFold(id, c.Key) || strings.EqualFold(id, c.Name) || strings.EqualFold(id, c.Column()) {
			return c, true
		}
	}
	return ChannelSpec{}, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
