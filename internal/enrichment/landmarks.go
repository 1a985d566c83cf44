package enrichment

import (
	"math"

	"forgefit/coach-engine/internal/domain"
)

// baseLandmarks holds the unscaled weekly set-count landmarks per muscle
// group for a reference intermediate lifter.
var baseLandmarks = map[string]domain.VolumeLandmark{
	"chest":      {MEV: 8, MAV: 14, MRV: 20},
	"back":       {MEV: 10, MAV: 16, MRV: 22},
	"shoulders":  {MEV: 8, MAV: 16, MRV: 22},
	"quads":      {MEV: 8, MAV: 14, MRV: 20},
	"hamstrings": {MEV: 6, MAV: 10, MRV: 16},
	"glutes":     {MEV: 6, MAV: 12, MRV: 16},
	"biceps":     {MEV: 6, MAV: 12, MRV: 20},
	"triceps":    {MEV: 6, MAV: 12, MRV: 18},
	"calves":     {MEV: 6, MAV: 10, MRV: 16},
	"abs":        {MEV: 6, MAV: 10, MRV: 16},
}

// ScaleLandmarks scales the base table by the user's volume tolerance; MAV
// and MRV are additionally scaled by recovery capacity since they are
// recovery-bound, MEV is not. Results are rounded to whole sets and clamped
// so MEV <= MAV <= MRV holds for every group.
func ScaleLandmarks(volumeTolerance, recoveryCapacity float64) domain.VolumeLandmarks {
	out := make(domain.VolumeLandmarks, len(baseLandmarks))
	for muscle, base := range baseLandmarks {
		mev := roundSets(float64(base.MEV) * volumeTolerance)
		mav := roundSets(float64(base.MAV) * volumeTolerance * recoveryCapacity)
		mrv := roundSets(float64(base.MRV) * volumeTolerance * recoveryCapacity)

		// Scaling with a low recovery multiplier can push MAV/MRV under MEV;
		// clamp upward to preserve the landmark ordering.
		if mav < mev {
			mav = mev
		}
		if mrv < mav {
			mrv = mav
		}

		out[muscle] = domain.VolumeLandmark{MEV: mev, MAV: mav, MRV: mrv}
	}
	return out
}

func roundSets(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	return n
}
