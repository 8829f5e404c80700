package runtime

import (
	"fmt"

	"github.com/aretw0/drillsim/pkg/domain"
)

// Source is the random number source consumed by the generator.
// *rand.Rand satisfies it; tests may pass a scripted source.
type Source interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
}

// Walk produces a bounded random-walk series of n points for spec.
//
// The first value is drawn uniformly from [Min, Max]. Each following value is the
// previous one plus a perturbation drawn uniformly from [-MaxStepDelta, MaxStepDelta],
// clamped into [Min, Max]. An overshoot is truncated to the bound, never redrawn, so
// sustained drift shows up as flat runs at the extremes.
func Walk(spec domain.ChannelSpec, n int, rng Source) (domain.ChannelSeries, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", domain.ErrInvalidRange, n)
	}

	series := make(domain.ChannelSeries, n)
	if n == 0 {
		return series, nil
	}

	prev := uniform(rng, spec.Min, spec.Max)
	series[0] = prev
	for i := 1; i < n; i++ {
		prev = spec.Clamp(prev + uniform(rng, -spec.MaxStepDelta, spec.MaxStepDelta))
		series[i] = prev
	}
	return series, nil
}

// AtBounds counts the values of series pinned to spec's Min or Max.
func AtBounds(spec domain.ChannelSpec, series domain.ChannelSeries) int {
	n := 0
	for _, v := range series {
		if v == spec.Min || v == spec.Max {
			n++
		}
	}
	return n
}

func uniform(rng Source, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
