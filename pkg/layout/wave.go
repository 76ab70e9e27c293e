package layout

import (
	"math"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Wave surface parameters. The ripple term is layered on top of the
// interpolated impact surface to give it a rolling-water look.
const (
	waveGridSize   = 100
	waveAmplitude  = 1.5
	waveFrequencyX = 0.2 // ripples along growth rate
	waveFrequencyY = 0.1 // ripples along valuation
	waveMarkerLift = 0.5 // markers float just above the surface
)

// waveSurfaceLayout builds a 100x100 surface over the dataset's growth
// rate (X) and valuation (Y) ranges. Impact score is interpolated onto the
// grid, gaps are filled with the surface mean, and a sine/cosine ripple is
// added. Markers sit at each record's raw coordinates with the impact
// score lifted slightly, so they hover above the surface they illustrate
// rather than snapping to it.
func waveSurfaceLayout(ds record.Dataset) PointSet {
	growth := ds.GrowthRates()
	valuation := ds.Valuations()
	impact := ds.ImpactScores()

	xLo, xHi := record.MinMax(growth)
	yLo, yHi := record.MinMax(valuation)
	xi := linspace(xLo, xHi, waveGridSize)
	yi := linspace(yLo, yHi, waveGridSize)

	z := interpolateGrid(growth, valuation, impact, xi, yi)
	for j, row := range z {
		for i := range row {
			row[i] += waveAmplitude * (math.Sin(waveFrequencyX*xi[i]) + math.Cos(waveFrequencyY*yi[j]))
		}
	}
	fillNaN(z)

	n := len(ds)
	gSpread := xHi - xLo + record.Epsilon

	ps := PointSet{
		Engine:  EngineWave,
		X:       growth,
		Y:       valuation,
		Z:       make([]float64, n),
		Sizes:   make([]float64, n),
		Colors:  impact,
		Labels:  ds.Labels(),
		Surface: &Surface{X: xi, Y: yi, Z: z},
	}
	for i := range ds {
		ps.Z[i] = impact[i] + waveMarkerLift
		ps.Sizes[i] = 8 + 12*(growth[i]-xLo)/gSpread
	}
	return ps
}
