package runtime_test

import (
	"math"
	"testing"

	"github.com/aretw0/drillsim/internal/runtime"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDepthAxis_Default(t *testing.T) {
	axis, err := runtime.BuildDepthAxis(500, 1000, 5)
	require.NoError(t, err)

	assert.Len(t, axis, 101)
	assert.Equal(t, 500.0, axis[0])
	assert.Equal(t, 1000.0, axis[len(axis)-1])
}

func TestBuildDepthAxis_Properties(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step float64
		wantLen          int
	}{
		{"SinglePoint", 750, 750, 5, 1},
		{"EndOffGrid", 500, 1003, 5, 101},
		{"StepLargerThanRange", 0, 3, 10, 1},
		{"FractionalStep", 0, 0.3, 0.1, 4},
		{"Long", 0, 10000, 0.25, 40001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, err := runtime.BuildDepthAxis(tt.start, tt.end, tt.step)
			require.NoError(t, err)
			require.Len(t, axis, tt.wantLen)
			assert.Equal(t, int(math.Floor((tt.end-tt.start)/tt.step+1e-9))+1, len(axis))

			assert.Equal(t, tt.start, axis[0])
			assert.LessOrEqual(t, axis[len(axis)-1], tt.end+1e-9)
			for i := 1; i < len(axis); i++ {
				assert.Greater(t, axis[i], axis[i-1])
				assert.InDelta(t, tt.step, axis[i]-axis[i-1], 1e-9)
			}
		})
	}
}

func TestBuildDepthAxis_InvalidRange(t *testing.T) {
	for _, tc := range [][3]float64{{1000, 500, 5}, {500, 1000, 0}, {500, 1000, -1}} {
		_, err := runtime.BuildDepthAxis(tc[0], tc[1], tc[2])
		assert.ErrorIs(t, err, domain.ErrInvalidRange, "%v", tc)
	}
}

func TestBuildDepthAxis_TooLong(t *testing.T) {
	for _, tc := range [][3]float64{{0, 1e300, 1e-300}, {-1e308, 1e308, 1}, {0, 1e9, 1e-3}} {
		var err error
		assert.NotPanics(t, func() {
			_, err = runtime.BuildDepthAxis(tc[0], tc[1], tc[2])
		}, "%v", tc)
		assert.ErrorIs(t, err, domain.ErrInvalidRange, "%v", tc)
		assert.True(t, domain.IsValidation(err))
	}
}

func TestBuildDepthAxis_AtPointCap(t *testing.T) {
	axis, err := runtime.BuildDepthAxis(0, domain.MaxDepthPoints-1, 1)
	require.NoError(t, err)
	assert.Len(t, axis, domain.MaxDepthPoints)
	assert.Equal(t, float64(domain.MaxDepthPoints-1), axis[len(axis)-1])
}
