package proration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMidCycleUpgrade(t *testing.T) {
	cycleStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cycleEnd := cycleStart.AddDate(0, 0, 30)
	now := cycleStart.AddDate(0, 0, 10)

	result, err := Compute(10, 20, cycleStart, cycleEnd, now)
	require.NoError(t, err)

	assert.InDelta(t, 10.0/3.0, result.ProratedOldAmount, 0.01)
	assert.InDelta(t, 40.0/3.0, result.ProratedNewAmount, 0.01)
	assert.InDelta(t, 50.0/3.0, result.TotalAmountDue, 0.01)
}

func TestComputeTotalIsSumOfParts(t *testing.T) {
	cycleStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cycleEnd := cycleStart.AddDate(0, 1, 0)

	for _, hours := range []int{0, 1, 12, 24, 300, 743} {
		now := cycleStart.Add(time.Duration(hours) * time.Hour)
		result, err := Compute(29.99, 49.99, cycleStart, cycleEnd, now)
		require.NoError(t, err)
		assert.InDelta(t, result.ProratedOldAmount+result.ProratedNewAmount, result.TotalAmountDue, 1e-9)
	}
}

func TestComputeAtCycleBoundaries(t *testing.T) {
	cycleStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cycleEnd := cycleStart.AddDate(0, 0, 30)

	atStart, err := Compute(10, 20, cycleStart, cycleEnd, cycleStart)
	require.NoError(t, err)
	assert.InDelta(t, 0, atStart.ProratedOldAmount, 1e-9)
	assert.InDelta(t, 20, atStart.ProratedNewAmount, 1e-9)

	atEnd, err := Compute(10, 20, cycleStart, cycleEnd, cycleEnd)
	require.NoError(t, err)
	assert.InDelta(t, 10, atEnd.ProratedOldAmount, 1e-9)
	assert.InDelta(t, 0, atEnd.ProratedNewAmount, 1e-9)
}

func TestComputePartialDays(t *testing.T) {
	cycleStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cycleEnd := cycleStart.AddDate(0, 0, 30)
	now := cycleStart.Add(36 * time.Hour)

	result, err := Compute(30, 30, cycleStart, cycleEnd, now)
	require.NoError(t, err)

	// Same price on both sides must charge exactly one cycle.
	assert.InDelta(t, 30, result.TotalAmountDue, 1e-9)
	assert.InDelta(t, 1.5, result.ProratedOldAmount, 1e-9)
}

func TestComputeDegenerateCycle(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := Compute(10, 20, at, at, at)
	assert.ErrorIs(t, err, ErrInvalidCyclePeriod)

	_, err = Compute(10, 20, at, at.Add(-time.Hour), at)
	assert.ErrorIs(t, err, ErrInvalidCyclePeriod)
}

func TestComputeNegativePrice(t *testing.T) {
	cycleStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cycleEnd := cycleStart.AddDate(0, 0, 30)

	_, err := Compute(-1, 20, cycleStart, cycleEnd, cycleStart)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Compute(10, -1, cycleStart, cycleEnd, cycleStart)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestFractionalDays(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 1, FractionalDays(from, from.Add(24*time.Hour)), 1e-9)
	assert.InDelta(t, 0.5, FractionalDays(from, from.Add(12*time.Hour)), 1e-9)
	assert.InDelta(t, -1, FractionalDays(from, from.Add(-24*time.Hour)), 1e-9)
}
