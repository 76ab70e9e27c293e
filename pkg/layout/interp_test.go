package layout

import (
	"math"
	"testing"
)

func TestInterpolateGridExactSamples(t *testing.T) {
	// A grid node coinciding with a sample must take the sample's value.
	px := []float64{0, 10}
	py := []float64{0, 10}
	pv := []float64{1, 3}
	z := interpolateGrid(px, py, pv, []float64{0, 10}, []float64{0, 10})
	if z[0][0] != 1 {
		t.Errorf("node at first sample = %v, want 1", z[0][0])
	}
	if z[1][1] != 3 {
		t.Errorf("node at second sample = %v, want 3", z[1][1])
	}
}

func TestInterpolateGridCoincidentSamplesAveraged(t *testing.T) {
	px := []float64{5, 5}
	py := []float64{5, 5}
	pv := []float64{50, 75}
	z := interpolateGrid(px, py, pv, []float64{5}, []float64{5})
	if z[0][0] != 62.5 {
		t.Errorf("coincident samples should average: got %v, want 62.5", z[0][0])
	}
}

func TestInterpolateGridUnreachableNodeIsNaN(t *testing.T) {
	// One sample in a corner leaves the far corner out of reach.
	px := []float64{0, 1}
	py := []float64{0, 0.01}
	pv := []float64{1, 1}
	z := interpolateGrid(px, py, pv, linspace(0, 1, 10), linspace(0, 1, 10))
	if !math.IsNaN(z[9][5]) {
		t.Errorf("node far from all samples should be NaN, got %v", z[9][5])
	}
}

func TestFillNaN(t *testing.T) {
	z := [][]float64{
		{1, math.NaN()},
		{3, math.NaN()},
	}
	fillNaN(z)
	if z[0][1] != 2 || z[1][1] != 2 {
		t.Errorf("NaN nodes should take the finite mean 2, got %v and %v", z[0][1], z[1][1])
	}

	empty := [][]float64{{math.NaN()}}
	fillNaN(empty)
	if empty[0][0] != 0 {
		t.Errorf("all-NaN grid should fill with zero, got %v", empty[0][0])
	}
}
