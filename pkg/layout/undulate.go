package layout

import (
	"math"
	"math/rand"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Undulating wave parameters.
const (
	undulateGridSize    = 50
	undulatePadFraction = 0.1 // visual margin beyond the data range
	undulateFrequency   = 10  // oscillation count across the grid
)

// undulatingLayout builds a 50x50 radial sine surface over the padded
// valuation (X) and growth rate (Y) ranges. The height depends only on
// the grid position, not on any record field. Markers are scattered at
// seeded-random positions inside the padded bounds and take their height
// from the same radial formula, so only the dataset's min/max range
// shapes the picture.
func undulatingLayout(ds record.Dataset) PointSet {
	xLo, xHi := record.MinMax(ds.Valuations())
	yLo, yHi := record.MinMax(ds.GrowthRates())
	xPad := (xHi - xLo) * undulatePadFraction
	yPad := (yHi - yLo) * undulatePadFraction

	height := radialWave(xLo, xHi, yLo, yHi)

	xi := linspace(xLo-xPad, xHi+xPad, undulateGridSize)
	yi := linspace(yLo-yPad, yHi+yPad, undulateGridSize)
	z := make([][]float64, undulateGridSize)
	for j := range z {
		row := make([]float64, undulateGridSize)
		for i := range row {
			row[i] = height(xi[i], yi[j])
		}
		z[j] = row
	}

	n := len(ds)
	ps := PointSet{
		Engine:  EngineUndulating,
		X:       make([]float64, n),
		Y:       make([]float64, n),
		Z:       make([]float64, n),
		Sizes:   make([]float64, n),
		Labels:  ds.Labels(),
		Surface: &Surface{X: xi, Y: yi, Z: z},
	}

	// Marker positions are decoupled from the records' own values;
	// the fixed seed keeps repeated renders stable.
	rng := rand.New(rand.NewSource(record.SampleSeed))
	for i := range ps.X {
		ps.X[i] = xLo - xPad + rng.Float64()*(xHi+xPad-(xLo-xPad))
	}
	for i := range ps.Y {
		ps.Y[i] = yLo - yPad + rng.Float64()*(yHi+yPad-(yLo-yPad))
	}
	for i := range ps.Z {
		ps.Z[i] = height(ps.X[i], ps.Y[i])
		ps.Sizes[i] = 5
	}
	return ps
}

// radialWave returns the surface height function
// sin(10 * sqrt(normX^2 + normY^2)) with epsilon-guarded normalization.
func radialWave(xLo, xHi, yLo, yHi float64) func(x, y float64) float64 {
	xSpread := xHi - xLo + record.Epsilon
	ySpread := yHi - yLo + record.Epsilon
	return func(x, y float64) float64 {
		nx := (x - xLo) / xSpread
		ny := (y - yLo) / ySpread
		return math.Sin(undulateFrequency * math.Sqrt(nx*nx+ny*ny))
	}
}
