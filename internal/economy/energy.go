package economy

import "time"

// RegenResult is the outcome of an energy regeneration step.
type RegenResult struct {
	Energy     int
	Checkpoint time.Time
	Changed    bool
}

// Regenerate computes the energy a user has at `now` given the stored
// snapshot. It is a pure function; the caller persists the result when
// Changed is set.
//
// Whole refill intervals only: the checkpoint advances by
// gained*refillSeconds from the old checkpoint, not to `now`, so leftover
// fractional time keeps counting toward the next unit. A call that gains
// nothing must not move the checkpoint, otherwise a client polling faster
// than the refill interval would starve regeneration forever.
func Regenerate(energy, maxEnergy, refillSeconds int, lastUpdate, now time.Time) RegenResult {
	unchanged := RegenResult{Energy: energy, Checkpoint: lastUpdate}

	if energy < 0 {
		energy = 0
		unchanged.Energy = 0
	}

	if energy >= maxEnergy {
		// At cap there is nothing to accumulate. Once a full interval has
		// passed the checkpoint moves to now so stale elapsed time is not
		// credited after the user next spends energy. Moving it can only
		// reduce future gain, never grant energy above max.
		if refillSeconds > 0 && now.Sub(lastUpdate) > time.Duration(refillSeconds)*time.Second {
			return RegenResult{Energy: energy, Checkpoint: now, Changed: true}
		}
		return unchanged
	}

	if refillSeconds <= 0 {
		return unchanged
	}

	elapsed := now.Sub(lastUpdate)
	if elapsed <= 0 {
		// Clock skew: treat as a no-op, not an error.
		return unchanged
	}

	gained := int(elapsed / (time.Duration(refillSeconds) * time.Second))
	if gained <= 0 {
		return unchanged
	}

	newEnergy := energy + gained
	if newEnergy > maxEnergy {
		newEnergy = maxEnergy
	}

	return RegenResult{
		Energy:     newEnergy,
		Checkpoint: lastUpdate.Add(time.Duration(gained*refillSeconds) * time.Second),
		Changed:    true,
	}
}
