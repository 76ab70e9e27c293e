package layout

import (
	"math"
	"sort"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Spiral shape parameters. The radius widens as the spiral climbs, giving
// the "growth tsunami" silhouette.
const (
	spiralSweep        = 6 * math.Pi // 3 full turns over the whole dataset
	spiralRadiusBase   = 2
	spiralRadiusGrowth = 0.3
	spiralHeightStep   = 0.5
	spiralGuideSamples = 200
)

// spiralLayout places records on an expanding spiral, sorted by valuation
// ascending so the most valuable companies sit at the top. Marker size
// scales with valuation, color with impact score. A 200-sample smooth
// guide curve traces the same trajectory independent of record count.
func spiralLayout(ds record.Dataset) PointSet {
	sorted := make(record.Dataset, len(ds))
	copy(sorted, ds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Valuation < sorted[j].Valuation
	})

	n := len(sorted)
	angles := linspace(0, spiralSweep, n)

	ps := PointSet{
		Engine: EngineSpiral,
		X:      make([]float64, n),
		Y:      make([]float64, n),
		Z:      make([]float64, n),
		Sizes:  make([]float64, n),
		Colors: sorted.ImpactScores(),
		Labels: sorted.Labels(),
	}

	for i, angle := range angles {
		radius := spiralRadiusBase + spiralRadiusGrowth*float64(i)/float64(n)*8
		ps.X[i] = radius * math.Cos(angle)
		ps.Y[i] = radius * math.Sin(angle)
		ps.Z[i] = spiralHeightStep*float64(i) + 0.1*sorted[i].Valuation
		ps.Sizes[i] = clamp(sorted[i].Valuation*1.2+8, 8, 40)
	}

	ps.Guide = spiralGuide(n)
	return ps
}

// spiralGuide samples the spiral formula family uniformly, decoupled from
// the record count, to draw the smooth trajectory line.
func spiralGuide(n int) *Curve {
	angles := linspace(0, spiralSweep, spiralGuideSamples)
	c := &Curve{
		X: make([]float64, spiralGuideSamples),
		Y: make([]float64, spiralGuideSamples),
		Z: make([]float64, spiralGuideSamples),
	}
	for i, angle := range angles {
		frac := float64(i) / spiralGuideSamples
		radius := spiralRadiusBase + spiralRadiusGrowth*frac*8
		c.X[i] = radius * math.Cos(angle)
		c.Y[i] = radius * math.Sin(angle)
		c.Z[i] = spiralHeightStep * frac * float64(n)
	}
	return c
}
