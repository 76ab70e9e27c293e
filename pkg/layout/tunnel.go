package layout

import (
	"math"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Tunnel shape parameters.
const (
	tunnelHeight      = 100
	tunnelTurns       = 6
	tunnelRadiusBase  = 40
	tunnelRadiusSwing = 20
)

// tunnelLayout arranges records along a spiral corridor. Height runs
// 0..100 in input order (no sort), the angle sweeps 6 full turns, and the
// radius swells with the record's growth rate normalized across the
// dataset. Color follows height so the corridor fades along its length.
func tunnelLayout(ds record.Dataset) PointSet {
	n := len(ds)
	growth := ds.GrowthRates()
	gLo, gHi := record.MinMax(growth)
	spread := gHi - gLo + record.Epsilon

	zs := linspace(0, tunnelHeight, n)
	angles := linspace(0, tunnelTurns*2*math.Pi, n)

	ps := PointSet{
		Engine: EngineTunnel,
		X:      make([]float64, n),
		Y:      make([]float64, n),
		Z:      zs,
		Sizes:  make([]float64, n),
		Colors: make([]float64, n),
		Labels: ds.Labels(),
	}

	for i := range ds {
		growthNorm := (growth[i] - gLo) / spread
		radius := tunnelRadiusBase + tunnelRadiusSwing*growthNorm
		ps.X[i] = radius * math.Cos(angles[i])
		ps.Y[i] = radius * math.Sin(angles[i])
		ps.Sizes[i] = 7
		ps.Colors[i] = zs[i]
	}
	return ps
}
