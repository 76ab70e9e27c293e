package record

import (
	"math/rand"
	"sort"
)

// SampleSeed is the fixed seed used for down-sampling and for the engines
// that place markers randomly. Repeated renders of the same input must pick
// the same subset so the view stays visually stable; this is a
// reproducibility contract, not a statistical one.
const SampleSeed = 42

// Downsample reduces ds to at most cap records via a seeded uniform sample
// without replacement, preserving the original relative order of the
// surviving records. When len(ds) <= cap (or cap <= 0) the dataset is
// returned unchanged. Calling Downsample twice with the same cap is
// idempotent: the second call sees len == cap and is the identity.
func Downsample(ds Dataset, cap int) Dataset {
	if cap <= 0 || len(ds) <= cap {
		return ds
	}

	rng := rand.New(rand.NewSource(SampleSeed))
	idx := rng.Perm(len(ds))[:cap]
	sort.Ints(idx)

	out := make(Dataset, cap)
	for i, j := range idx {
		out[i] = ds[j]
	}
	return out
}
