package economy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRegenerate_FractionalCarry(t *testing.T) {
	// 45s at 30s/unit: +1 energy, checkpoint T+30s (not T+45s)
	res := Regenerate(50, 100, 30, t0, t0.Add(45*time.Second))
	require.True(t, res.Changed)
	assert.Equal(t, 51, res.Energy)
	assert.Equal(t, t0.Add(30*time.Second), res.Checkpoint)

	// the leftover 15s keeps counting: at T+60s a further +1
	res2 := Regenerate(res.Energy, 100, 30, res.Checkpoint, t0.Add(60*time.Second))
	require.True(t, res2.Changed)
	assert.Equal(t, 52, res2.Energy)
	assert.Equal(t, t0.Add(60*time.Second), res2.Checkpoint)
}

func TestRegenerate_ZeroGainDoesNotAdvanceCheckpoint(t *testing.T) {
	res := Regenerate(50, 100, 30, t0, t0.Add(29*time.Second))
	assert.False(t, res.Changed)
	assert.Equal(t, 50, res.Energy)
	assert.Equal(t, t0, res.Checkpoint)
}

func TestRegenerate_ImmediateSecondCallIsNoop(t *testing.T) {
	now := t0.Add(95 * time.Second)
	first := Regenerate(10, 100, 30, t0, now)
	require.True(t, first.Changed)
	assert.Equal(t, 13, first.Energy)

	second := Regenerate(first.Energy, 100, 30, first.Checkpoint, now)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Energy, second.Energy)
	assert.Equal(t, first.Checkpoint, second.Checkpoint)
}

func TestRegenerate_ClampedToMax(t *testing.T) {
	res := Regenerate(95, 100, 30, t0, t0.Add(time.Hour))
	require.True(t, res.Changed)
	assert.Equal(t, 100, res.Energy)
}

func TestRegenerate_AtMaxAdvancesCheckpointOnlyAfterFullInterval(t *testing.T) {
	// within one interval: untouched
	res := Regenerate(100, 100, 30, t0, t0.Add(10*time.Second))
	assert.False(t, res.Changed)
	assert.Equal(t, t0, res.Checkpoint)

	// past one interval: checkpoint moves to now, energy stays at max
	now := t0.Add(5 * time.Minute)
	res = Regenerate(100, 100, 30, t0, now)
	require.True(t, res.Changed)
	assert.Equal(t, 100, res.Energy)
	assert.Equal(t, now, res.Checkpoint)
}

func TestRegenerate_NegativeElapsedIsNoop(t *testing.T) {
	res := Regenerate(50, 100, 30, t0, t0.Add(-time.Minute))
	assert.False(t, res.Changed)
	assert.Equal(t, 50, res.Energy)
	assert.Equal(t, t0, res.Checkpoint)
}

func TestRegenerate_MisconfiguredIntervalIsNoop(t *testing.T) {
	for _, interval := range []int{0, -30} {
		res := Regenerate(50, 100, interval, t0, t0.Add(time.Hour))
		assert.False(t, res.Changed)
		assert.Equal(t, 50, res.Energy)
	}
}

func TestRegenerate_BoundsAlwaysHold(t *testing.T) {
	cases := []struct {
		energy, max, interval int
		elapsed               time.Duration
	}{
		{0, 100, 30, 0},
		{0, 100, 30, 100 * time.Hour},
		{-5, 100, 30, time.Minute},
		{100, 100, 30, time.Hour},
		{99, 100, 1, time.Hour},
		{50, 100, 30, -time.Hour},
	}
	for _, tc := range cases {
		res := Regenerate(tc.energy, tc.max, tc.interval, t0, t0.Add(tc.elapsed))
		assert.GreaterOrEqual(t, res.Energy, 0)
		assert.LessOrEqual(t, res.Energy, tc.max)
	}
}
