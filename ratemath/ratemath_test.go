package ratemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompound(t *testing.T) {
	tests := []struct {
		name    string
		rates   []float64
		initial float64
		mode    Mode
		want    float64
	}{
		{
			name:    "single period",
			rates:   []float64{0.10},
			initial: 1000,
			want:    1100,
		},
		{
			name:    "two periods compound",
			rates:   []float64{0.10, 0.10},
			initial: 1000,
			want:    1210,
		},
		{
			name:    "NaN counts as zero",
			rates:   []float64{0.10, math.NaN(), 0.10},
			initial: 1000,
			want:    1210,
		},
		{
			name:    "negative rate",
			rates:   []float64{-0.5},
			initial: 10,
			want:    5,
		},
		{
			name:    "percentage mode",
			rates:   []float64{10, 10},
			initial: 1000,
			mode:    Percentage,
			want:    1210,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compound(tt.rates, tt.initial, tt.mode)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCompound_EmptyRates(t *testing.T) {
	_, err := Compound(nil, 1000, Fraction)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = InterestValue([]float64{}, 1000, Fraction)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInterestValue_RoundTrip(t *testing.T) {
	rates := []float64{0.0062, 0.0041, -0.0012, 0.0105, 0.0087}
	initial := 2500.0

	interest, err := InterestValue(rates, initial, Fraction)
	require.NoError(t, err)

	total, err := RateFromValues(initial, interest+initial, Fraction)
	require.NoError(t, err)

	want := 1.0
	for _, r := range rates {
		want *= 1 + r
	}
	assert.InDelta(t, want-1, total, 1e-9)
}

func TestRateFromValues(t *testing.T) {
	got, err := RateFromValues(200, 250, Fraction)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, 1e-12)

	got, err = RateFromValues(200, 250, Percentage)
	require.NoError(t, err)
	assert.InDelta(t, 25, got, 1e-12)

	_, err = RateFromValues(0, 250, Fraction)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestCumulativeValues(t *testing.T) {
	got := CumulativeValues([]float64{0.10, 0.10, 0}, 1000, Fraction)
	require.Len(t, got, 3)
	assert.InDelta(t, 100, got[0], 1e-9)
	assert.InDelta(t, 110, got[1], 1e-9)
	assert.InDelta(t, 0, got[2], 1e-9)

	assert.Empty(t, CumulativeValues(nil, 1000, Fraction))
}

func TestCumulativeRates_InvertsCumulativeValues(t *testing.T) {
	rates := []float64{0.012, 0.0, -0.003, 0.0451}
	increments := CumulativeValues(rates, 1500, Fraction)

	got, err := CumulativeRates(increments, 1500, Fraction)
	require.NoError(t, err)
	assert.InDeltaSlice(t, rates, got, 1e-12)

	pct, err := CumulativeRates(increments, 1500, Percentage)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, pct[0], 1e-9)
}

func TestCumulativeRates_ZeroBase(t *testing.T) {
	_, err := CumulativeRates([]float64{10}, 0, Fraction)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	// the base drops to zero before the second increment.
	_, err = CumulativeRates([]float64{-10, 5}, 10, Fraction)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMeanRatePerPeriod(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		periods int
		mode    Mode
	}{
		{"annual to monthly", 0.1268, 12, Fraction},
		{"annual to daily", 0.1375, 252, Fraction},
		{"percentage mode", 12.68, 12, Percentage},
		{"single period", 0.05, 1, Fraction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthly, err := MeanRatePerPeriod(tt.rate, tt.periods, tt.mode)
			require.NoError(t, err)

			final, err := Compound(FlatRateSeries(monthly, tt.periods), 1, tt.mode)
			require.NoError(t, err)

			got, err := RateFromValues(1, final, tt.mode)
			require.NoError(t, err)
			assert.InDelta(t, tt.rate, got, 1e-6)
		})
	}
}

func TestMeanRatePerPeriod_InvalidPeriods(t *testing.T) {
	_, err := MeanRatePerPeriod(0.1, 0, Fraction)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFlatRateSeries(t *testing.T) {
	assert.Equal(t, []float64{0.01, 0.01, 0.01}, FlatRateSeries(0.01, 3))
	assert.Empty(t, FlatRateSeries(0.01, 0))
	assert.Empty(t, FlatRateSeries(0.01, -2))
}
