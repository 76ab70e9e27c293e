// Package layout turns a normalized dataset into 3D point geometry.
//
// Each engine is a pure function from a Dataset to a PointSet: per-record
// coordinates plus scalar marker attributes (size, color, hover label) and,
// depending on the engine, auxiliary geometry (a guide curve, a surface
// grid, or time-indexed animation frames). Engines never mutate their
// input; the spiral engine sorts a copy.
//
// An empty dataset produces a sentinel PointSet (one degenerate point at
// the origin) instead of an error, so callers can render an "empty scene"
// placeholder rather than crash.
package layout

import (
	"fmt"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Engine identifies one of the five layout variants.
type Engine string

// The five layout engines.
const (
	EngineSpiral     Engine = "spiral"          // valuation-sorted growth spiral
	EngineTunnel     Engine = "tunnel"          // spiral tunnel corridor
	EngineWave       Engine = "wave-surface"    // interpolated impact wave
	EngineUndulating Engine = "undulating-wave" // radial sine surface
	EngineRipple     Engine = "ripple-bubbles"  // animated bubble cloud
)

// Engines lists all engines in presentation order.
func Engines() []Engine {
	return []Engine{EngineWave, EngineTunnel, EngineRipple, EngineUndulating, EngineSpiral}
}

// Valid reports whether e names a known engine.
func (e Engine) Valid() bool {
	switch e {
	case EngineSpiral, EngineTunnel, EngineWave, EngineUndulating, EngineRipple:
		return true
	}
	return false
}

// Cap returns the down-sampling cap for e. Marker rendering dominates
// scene cost, so each engine bounds the points it accepts.
func (e Engine) Cap() int {
	switch e {
	case EngineSpiral:
		return 2000
	case EngineTunnel:
		return 1000
	case EngineWave:
		return 1500
	case EngineUndulating:
		return 1200
	case EngineRipple:
		return 800
	}
	return 0
}

// Title returns the display title for e.
func (e Engine) Title() string {
	switch e {
	case EngineSpiral:
		return "The AI Growth Spiral"
	case EngineTunnel:
		return "The Unicorn Surge"
	case EngineWave:
		return "The AI Innovation Wave"
	case EngineUndulating:
		return "The AI Ascent: Charting Startup Velocity"
	case EngineRipple:
		return "Industry Quake: AI's Ripple Effect"
	}
	return string(e)
}

// Curve is auxiliary line geometry (the spiral's smooth guide trajectory).
type Curve struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z"`
}

// Surface is auxiliary grid geometry. Z is indexed [row][col] where row
// follows Y and col follows X.
type Surface struct {
	X []float64   `json:"x"`
	Y []float64   `json:"y"`
	Z [][]float64 `json:"z"`
}

// PointSet is a layout engine's output: one coordinate triple and one set
// of marker attributes per surviving record, order-aligned with the
// post-downsample dataset.
type PointSet struct {
	Engine Engine `json:"engine"`

	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z"`

	Sizes  []float64 `json:"sizes"`
	Colors []float64 `json:"colors,omitempty"`
	Labels []string  `json:"labels"`

	// Guide is the spiral engine's 200-sample trajectory line, nil otherwise.
	Guide *Curve `json:"guide,omitempty"`

	// Surface carries the wave engines' grid, nil otherwise.
	Surface *Surface `json:"surface,omitempty"`

	// Frames holds per-frame Z coordinates for the ripple animation,
	// nil otherwise. X and Y stay constant across frames.
	Frames [][]float64 `json:"frames,omitempty"`

	// Sentinel marks the degenerate single-point scene produced for an
	// empty input dataset.
	Sentinel bool `json:"sentinel,omitempty"`
}

// Len returns the number of points.
func (ps PointSet) Len() int { return len(ps.X) }

// sentinelPointSet is the designated empty-scene marker: a single point at
// the origin. Callers must treat it as an error display, never as data.
func sentinelPointSet(e Engine) PointSet {
	return PointSet{
		Engine:   e,
		X:        []float64{0},
		Y:        []float64{0},
		Z:        []float64{0},
		Sizes:    []float64{8},
		Labels:   []string{"no data"},
		Sentinel: true,
	}
}

// Compute runs engine e over ds. The dataset is down-sampled to the
// engine's cap first. An empty dataset yields the sentinel PointSet; the
// only error case is an unknown engine.
func Compute(e Engine, ds record.Dataset) (PointSet, error) {
	if !e.Valid() {
		return PointSet{}, fmt.Errorf("unknown layout engine %q", e)
	}
	if len(ds) == 0 {
		return sentinelPointSet(e), nil
	}

	ds = record.Downsample(ds, e.Cap())

	switch e {
	case EngineSpiral:
		return spiralLayout(ds), nil
	case EngineTunnel:
		return tunnelLayout(ds), nil
	case EngineWave:
		return waveSurfaceLayout(ds), nil
	case EngineUndulating:
		return undulatingLayout(ds), nil
	default:
		return rippleLayout(ds), nil
	}
}

// linspace returns n evenly spaced values from lo to hi inclusive.
// n == 1 yields just lo.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
