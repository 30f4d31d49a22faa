package system

import "math/rand/v2"

// SpawnPolicy decides how many particles a trigger frame produces.
// With Burst > 1 the count is uniform in [1, Burst); otherwise it is Count.
type SpawnPolicy struct {
	Count int
	Burst int
}

func (sp SpawnPolicy) count(rng *rand.Rand) int {
	if sp.Burst > 1 {
		return 1 + rng.IntN(sp.Burst-1)
	}
	return sp.Count
}
