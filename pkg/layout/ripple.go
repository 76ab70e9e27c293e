package layout

import (
	"math"
	"math/rand"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Ripple animation parameters.
const (
	// RippleFrames is the number of animation frames in one ripple loop.
	RippleFrames = 60

	ripplePhaseStep = 0.2 // per-record phase offset
	rippleCenter    = 0.5
	rippleSwing     = 0.4
)

// rippleLayout scatters every record at a seeded-random position inside
// the unit cube; spatial position carries no data signal. Only marker
// size (valuation) and color (impact score) are data-driven. A 60-frame
// animation moves each marker's Z on a sine wave with a phase offset
// proportional to its index, so a ripple appears to travel through the
// cloud while X and Y stay frozen.
func rippleLayout(ds record.Dataset) PointSet {
	n := len(ds)
	rng := rand.New(rand.NewSource(record.SampleSeed))

	ps := PointSet{
		Engine: EngineRipple,
		X:      make([]float64, n),
		Y:      make([]float64, n),
		Z:      make([]float64, n),
		Sizes:  make([]float64, n),
		Colors: ds.ImpactScores(),
		Labels: ds.Labels(),
		Frames: make([][]float64, RippleFrames),
	}

	for i := range ps.X {
		ps.X[i] = rng.Float64()
	}
	for i := range ps.Y {
		ps.Y[i] = rng.Float64()
	}
	for i := range ps.Z {
		ps.Z[i] = rng.Float64()
		ps.Sizes[i] = clamp(ds[i].Valuation*0.7, 6, 30)
	}

	for f := 0; f < RippleFrames; f++ {
		frame := make([]float64, n)
		for i := range frame {
			frame[i] = rippleCenter + rippleSwing*math.Sin(2*math.Pi*float64(f)/RippleFrames+float64(i)*ripplePhaseStep)
		}
		ps.Frames[f] = frame
	}
	return ps
}
