package economy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldReset_CrossMidnight(t *testing.T) {
	d := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	next := time.Date(2025, 6, 2, 0, 0, 1, 0, time.UTC)

	assert.True(t, ShouldReset(d, next))
	// same UTC date, hours apart: no reset
	assert.False(t, ShouldReset(d.Add(-20*time.Hour), d))
}

func TestShouldReset_Idempotent(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	// after a reset the stamp is today's date; a second check must not fire
	assert.False(t, ShouldReset(now, now))
	assert.False(t, ShouldReset(now, now.Add(time.Hour)))
}

func TestShouldReset_ZeroStampAlwaysResets(t *testing.T) {
	assert.True(t, ShouldReset(time.Time{}, time.Now().UTC()))
}

func TestShouldReset_PastStampNeverUnresets(t *testing.T) {
	// stamp in the future (clock skew): must not reset
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	assert.False(t, ShouldReset(now.Add(48*time.Hour), now))
}

func TestShouldReset_NonUTCInputNormalized(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 2025-06-02 03:00 +05 is 2025-06-01 22:00 UTC — same UTC day as stamp
	now := time.Date(2025, 6, 2, 3, 0, 0, 0, loc)
	stamp := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, ShouldReset(stamp, now))
}
