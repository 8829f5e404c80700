package runtime

import (
	"github.com/aretw0/drillsim/pkg/domain"
)

// BuildDepthAxis returns every start + k*step that does not exceed end.
// Points are computed by multiplication rather than accumulation so the
// spacing stays constant over long axes. Axes longer than
// domain.MaxDepthPoints are rejected with domain.ErrInvalidRange.
func BuildDepthAxis(start, end, step float64) (domain.DepthAxis, error) {
	if err := domain.ValidateRange(start, end, step); err != nil {
		return nil, err
	}

	axis := make(domain.DepthAxis, domain.DepthPoints(start, end, step))
	for k := range axis {
		axis[k] = start + float64(k)*step
	}
	return axis, nil
}
