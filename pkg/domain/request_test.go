package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step float64
		wantErr          bool
	}{
		{"Default", 500, 1000, 5, false},
		{"SinglePoint", 700, 700, 5, false},
		{"EndBeforeStart", 1000, 500, 5, true},
		{"ZeroStep", 500, 1000, 0, true},
		{"NegativeStep", 500, 1000, -5, true},
		{"NaNStep", 500, 1000, math.NaN(), true},
		{"InfiniteEnd", 500, math.Inf(1), 5, true},
		{"RatioOverflows", 0, 1e300, 1e-300, true},
		{"SpanOverflows", -1e308, 1e308, 1, true},
		{"TooManyPoints", 0, 1e9, 1e-3, true},
		{"AtPointCap", 0, domain.MaxDepthPoints - 1, 1, false},
		{"OnePastPointCap", 0, domain.MaxDepthPoints, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateRange(tt.start, tt.end, tt.step)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidRange)
				assert.True(t, domain.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDepthPoints(t *testing.T) {
	assert.Equal(t, 101, domain.DepthPoints(500, 1000, 5))
	assert.Equal(t, 1, domain.DepthPoints(700, 700, 5))
	assert.Equal(t, 4, domain.DepthPoints(0, 0.3, 0.1))
	assert.Equal(t, domain.MaxDepthPoints, domain.DepthPoints(0, domain.MaxDepthPoints-1, 1))
}

func TestGenerationRequest_ChannelsAppliesOverrides(t *testing.T) {
	req := domain.DefaultRequest()
	req.MaxSteps = map[string]float64{"rop": 1.5, "Flow Rate": 25}

	channels, err := req.Channels()
	require.NoError(t, err)
	require.Len(t, channels, 4)

	assert.Equal(t, 1.5, channels[0].MaxStepDelta)
	assert.Equal(t, 5.0, channels[1].MaxStepDelta)
	assert.Equal(t, 25.0, channels[2].MaxStepDelta)
	assert.Equal(t, 1.0, channels[3].MaxStepDelta)
}

func TestGenerationRequest_Validate(t *testing.T) {
	t.Run("UnknownChannel", func(t *testing.T) {
		req := domain.DefaultRequest()
		req.MaxSteps = map[string]float64{"torque": 1}
		assert.ErrorIs(t, req.Validate(), domain.ErrUnknownChannel)
	})

	t.Run("NonPositiveStepDelta", func(t *testing.T) {
		req := domain.DefaultRequest()
		req.MaxSteps = map[string]float64{domain.KeyRPM: 0}
		err := req.Validate()
		assert.ErrorIs(t, err, domain.ErrInvalidChannelBounds)

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "rpm.max_step_delta", verr.Field)
	})

	t.Run("BadRange", func(t *testing.T) {
		req := domain.DefaultRequest()
		req.Step = 0
		assert.ErrorIs(t, req.Validate(), domain.ErrInvalidRange)
	})
}

func TestChannelSpec_Validate(t *testing.T) {
	valid := domain.ChannelSpec{Key: "x", Name: "X", Min: 0, Max: 1, MaxStepDelta: 0.1}
	assert.NoError(t, valid.Validate())

	inverted := valid
	inverted.Min, inverted.Max = 1, 0
	assert.ErrorIs(t, inverted.Validate(), domain.ErrInvalidChannelBounds)

	equal := valid
	equal.Max = equal.Min
	assert.ErrorIs(t, equal.Validate(), domain.ErrInvalidChannelBounds)

	noStep := valid
	noStep.MaxStepDelta = 0
	assert.ErrorIs(t, noStep.Validate(), domain.ErrInvalidChannelBounds)
}

func TestLookupChannel(t *testing.T) {
	for _, id := range []string{"wob", "Weight on Bit", "weight on bit (tons)"} {
		spec, ok := domain.LookupChannel(id)
		assert.True(t, ok, id)
		assert.Equal(t, domain.KeyWeightOnBit, spec.Key)
	}
	_, ok := domain.LookupChannel("Depth (m)")
	assert.False(t, ok)
}

func TestParseFormat(t *testing.T) {
	f, err := domain.ParseFormat(".XLSX")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatXLSX, f)

	_, err = domain.ParseFormat("parquet")
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func TestExportTarget(t *testing.T) {
	target := domain.DefaultExportTarget()
	assert.Equal(t, "test_data_3.csv", target.FileName(3))
	assert.NoError(t, target.Validate())

	target.Prefix = "../escape"
	assert.ErrorIs(t, target.Validate(), domain.ErrInvalidTarget)

	target.Prefix = ""
	assert.ErrorIs(t, target.Validate(), domain.ErrInvalidTarget)

	target = domain.DefaultExportTarget()
	target.Format = "tsv"
	assert.NoError(t, target.Validate(), "serializer lookup decides which formats exist")

	target.Format = ""
	assert.ErrorIs(t, target.Validate(), domain.ErrUnknownFormat)

	target.Format = "../csv"
	assert.ErrorIs(t, target.Validate(), domain.ErrUnknownFormat)
}
