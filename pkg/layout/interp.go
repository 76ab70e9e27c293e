package layout

import (
	"math"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Scattered-data interpolation for the wave surface grid.
//
// Grid nodes are interpolated with cubic inverse-distance weighting over
// the sample points inside a local neighborhood, after normalizing both
// axes to the unit square (growth rates span thousands of percent while
// valuations span hundreds of billions, so raw distances would be
// dominated by one axis). Nodes with no sample inside the neighborhood --
// the analog of falling outside the data's convex hull -- come back as
// NaN and are filled by the caller.
const (
	interpRadius = 0.2 // neighborhood radius in unit-square space
	interpPower  = 3   // cubic distance decay
)

// interpolateGrid evaluates the scattered samples (px, py) -> pv at every
// node of the gx × gy grid. The result is indexed [row][col] with rows
// following gy. Unreachable nodes are NaN.
func interpolateGrid(px, py, pv, gx, gy []float64) [][]float64 {
	xLo, xHi := record.MinMax(px)
	yLo, yHi := record.MinMax(py)
	xSpread := xHi - xLo + record.Epsilon
	ySpread := yHi - yLo + record.Epsilon

	// Normalize samples once.
	nx := make([]float64, len(px))
	ny := make([]float64, len(py))
	for i := range px {
		nx[i] = (px[i] - xLo) / xSpread
		ny[i] = (py[i] - yLo) / ySpread
	}

	z := make([][]float64, len(gy))
	for j, y := range gy {
		row := make([]float64, len(gx))
		yn := (y - yLo) / ySpread
		for i, x := range gx {
			row[i] = interpolateNode((x-xLo)/xSpread, yn, nx, ny, pv)
		}
		z[j] = row
	}
	return z
}

// interpolateNode computes one grid node. A sample coinciding with the
// node wins outright (coincident samples are averaged); otherwise the
// weighted mean over the neighborhood applies.
func interpolateNode(x, y float64, nx, ny, pv []float64) float64 {
	var (
		wSum, vSum float64
		exactSum   float64
		exactCount int
	)
	for i := range nx {
		dx, dy := nx[i]-x, ny[i]-y
		d := math.Hypot(dx, dy)
		if d < record.Epsilon {
			exactSum += pv[i]
			exactCount++
			continue
		}
		if d > interpRadius {
			continue
		}
		w := 1 / math.Pow(d, interpPower)
		wSum += w
		vSum += w * pv[i]
	}
	if exactCount > 0 {
		return exactSum / float64(exactCount)
	}
	if wSum == 0 {
		return math.NaN()
	}
	return vSum / wSum
}

// fillNaN replaces every NaN in z with the mean of the finite entries,
// keeping the surface continuous without holes. A grid with no finite
// entries at all is filled with zero.
func fillNaN(z [][]float64) {
	var sum float64
	var count int
	for _, row := range z {
		for _, v := range row {
			if !math.IsNaN(v) {
				sum += v
				count++
			}
		}
	}
	fill := 0.0
	if count > 0 {
		fill = sum / float64(count)
	}
	for _, row := range z {
		for i, v := range row {
			if math.IsNaN(v) {
				row[i] = fill
			}
		}
	}
}
