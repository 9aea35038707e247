package dosing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Uncapped(t *testing.T) {
	d, err := Compute(PerKg(1, "g").WithMax(50), 20)
	require.NoError(t, err)
	assert.Equal(t, 20.0, d.Total)
	assert.False(t, d.Capped)
	assert.Equal(t, "20.0 g (1 g/kg)", d.Text)
}

func TestCompute_CappedIsDisclosed(t *testing.T) {
	d, err := Compute(PerKg(1, "g").WithMax(50), 72.5)
	require.NoError(t, err)
	assert.Equal(t, 50.0, d.Total)
	assert.True(t, d.Capped)
	assert.Contains(t, d.Text, "50.0 g")
	assert.Contains(t, d.Text, "1 g/kg")
	assert.Contains(t, d.Text, "capped at max 50 g")
}

func TestCompute_NeverExceedsMax(t *testing.T) {
	spec := PerKg(0.04, "mg").WithMax(2)
	for w := 0.5; w <= 100; w += 0.5 {
		d, err := Compute(spec, w)
		require.NoError(t, err)
		if d.Total > 2 {
			t.Fatalf("weight %v: total %v exceeds max", w, d.Total)
		}
		if d.Capped != (0.04*w > 2) {
			t.Fatalf("weight %v: capped=%v, raw=%v", w, d.Capped, 0.04*w)
		}
	}
}

func TestCompute_Floored(t *testing.T) {
	d, err := Compute(PerKg(0.02, "mg").WithMin(0.1), 3)
	require.NoError(t, err)
	assert.Equal(t, 0.1, d.Total)
	assert.True(t, d.Floored)
	assert.False(t, d.Capped)
	assert.Contains(t, d.Text, "raised to min 0.1 mg")

	d, err = Compute(PerKg(0.02, "mg").WithMin(0.1), 20)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, d.Total, 1e-9)
	assert.False(t, d.Floored)
}

func TestCompute_MaxWinsOverMin(t *testing.T) {
	d, err := Compute(PerKg(10, "mg").WithMin(500).WithMax(100), 20)
	require.NoError(t, err)
	assert.Equal(t, 100.0, d.Total)
	assert.True(t, d.Capped)
	assert.False(t, d.Floored)
}

func TestCompute_FixedIgnoresWeight(t *testing.T) {
	spec := Fixed(3, "vials")
	a, err := Compute(spec, 5)
	require.NoError(t, err)
	b, err := Compute(spec, 50)
	require.NoError(t, err)

	assert.Equal(t, a.Text, b.Text)
	assert.Equal(t, "3 vials", a.Text)
	assert.Equal(t, 3.0, b.Total)
	assert.False(t, a.Capped)
}

func TestCompute_Hourly(t *testing.T) {
	d, err := Compute(PerKg(5, "mg").Hourly(), 20)
	require.NoError(t, err)
	assert.Equal(t, "100.0 mg/hr (5 mg/kg/hr)", d.Text)
}

func TestCompute_RejectsNonPositiveWeight(t *testing.T) {
	for _, w := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Compute(PerKg(1, "g"), w)
		if !errors.Is(err, ErrInvalidWeight) {
			t.Fatalf("weight %v: expected ErrInvalidWeight, got %v", w, err)
		}
	}
}
