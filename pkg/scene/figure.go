// Package scene assembles layout geometry into renderable figure
// documents and serializes them through sinks (JSON, HTML, CSV).
//
// The figure model mirrors the plotly figure shape (traces, frames,
// layout) so the HTML sink can hand it straight to plotly.js and API
// consumers can feed it to any plotly-compatible renderer. The scene
// assembler itself never computes geometry; it only decorates a PointSet
// with per-engine styling.
package scene

import (
	"github.com/unicornviz/unicornviz/pkg/layout"
)

// Colorscale names understood by the rendering surface.
const (
	ScaleViridis = "Viridis"
	ScaleJet     = "Jet"
	ScaleHot     = "Hot"
	ScaleRdBu    = "RdBu"
)

// Marker styles a scatter trace's points.
type Marker struct {
	Size       any     `json:"size,omitempty"` // scalar or per-point slice
	Color      any     `json:"color,omitempty"`
	Colorscale string  `json:"colorscale,omitempty"`
	Opacity    float64 `json:"opacity,omitempty"`
}

// Line styles a line trace.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Trace is one renderable series: a 3D scatter, line, or surface.
type Trace struct {
	Type       string    `json:"type"`
	Mode       string    `json:"mode,omitempty"`
	Name       string    `json:"name,omitempty"`
	X          []float64 `json:"x,omitempty"`
	Y          []float64 `json:"y,omitempty"`
	Z          any       `json:"z,omitempty"` // []float64 for scatter, [][]float64 for surface
	Marker     *Marker   `json:"marker,omitempty"`
	Line       *Line     `json:"line,omitempty"`
	HoverText  []string  `json:"hovertext,omitempty"`
	HoverInfo  string    `json:"hoverinfo,omitempty"`
	Colorscale string    `json:"colorscale,omitempty"`
	Opacity    float64   `json:"opacity,omitempty"`
	ShowScale  *bool     `json:"showscale,omitempty"`
}

// Frame is one animation step. Traces replace the figure's data for the
// duration of the frame.
type Frame struct {
	Name string  `json:"name,omitempty"`
	Data []Trace `json:"data"`
}

// Axis styles one scene axis.
type Axis struct {
	Title string `json:"title,omitempty"`
}

// SceneLayout styles the 3D scene (axes, background).
type SceneLayout struct {
	XAxis   Axis   `json:"xaxis,omitempty"`
	YAxis   Axis   `json:"yaxis,omitempty"`
	ZAxis   Axis   `json:"zaxis,omitempty"`
	BGColor string `json:"bgcolor,omitempty"`
}

// FigureLayout carries figure-level presentation settings.
type FigureLayout struct {
	Title    string      `json:"title,omitempty"`
	Scene    SceneLayout `json:"scene,omitempty"`
	PaperBG  string      `json:"paper_bgcolor,omitempty"`
	Sentinel bool        `json:"sentinel,omitempty"` // empty-scene marker for error display
}

// Figure is a complete renderable scene description.
type Figure struct {
	Data   []Trace      `json:"data"`
	Layout FigureLayout `json:"layout"`
	Frames []Frame      `json:"frames,omitempty"`
}

// Option configures figure assembly via [Assemble].
type Option func(*assembler)

type assembler struct {
	opacity    float64
	markerSize float64 // 0 means keep per-point sizes
}

// WithOpacity overrides the marker/surface opacity (the dashboard's
// opacity slider). Values outside (0,1] are ignored.
func WithOpacity(o float64) Option {
	return func(a *assembler) {
		if o > 0 && o <= 1 {
			a.opacity = o
		}
	}
}

// WithMarkerSize replaces every per-point marker size with a single value
// (the dashboard's marker-size slider).
func WithMarkerSize(s float64) Option {
	return func(a *assembler) {
		if s > 0 {
			a.markerSize = s
		}
	}
}

const darkBG = "rgba(10,10,30,1)"

// Assemble builds a figure from a point set, applying the engine's
// characteristic styling. A sentinel point set produces a minimal
// single-marker figure flagged in the layout so the caller can show an
// error state instead of data.
func Assemble(ps layout.PointSet, opts ...Option) Figure {
	a := assembler{opacity: 0.8}
	for _, opt := range opts {
		opt(&a)
	}

	if ps.Sentinel {
		return Figure{
			Data: []Trace{{
				Type: "scatter3d", Mode: "markers",
				X: ps.X, Y: ps.Y, Z: ps.Z,
				Marker: &Marker{Size: a.size(ps.Sizes)},
			}},
			Layout: FigureLayout{Title: "No data available", Sentinel: true},
		}
	}

	switch ps.Engine {
	case layout.EngineSpiral:
		return a.spiral(ps)
	case layout.EngineTunnel:
		return a.tunnel(ps)
	case layout.EngineWave:
		return a.wave(ps)
	case layout.EngineUndulating:
		return a.undulating(ps)
	default:
		return a.ripple(ps)
	}
}

func (a assembler) size(sizes []float64) any {
	if a.markerSize > 0 {
		return a.markerSize
	}
	return sizes
}

func (a assembler) spiral(ps layout.PointSet) Figure {
	fig := Figure{
		Data: []Trace{{
			Type: "scatter3d", Mode: "markers", Name: "AI Startups",
			X: ps.X, Y: ps.Y, Z: ps.Z,
			Marker: &Marker{
				Size: a.size(ps.Sizes), Color: ps.Colors,
				Colorscale: ScaleViridis, Opacity: a.opacity,
			},
			HoverText: ps.Labels, HoverInfo: "text",
		}},
		Layout: FigureLayout{
			Title: ps.Engine.Title(),
			Scene: SceneLayout{
				XAxis:   Axis{Title: "X Coordinate"},
				YAxis:   Axis{Title: "Y Coordinate"},
				ZAxis:   Axis{Title: "Growth Height"},
				BGColor: darkBG,
			},
			PaperBG: darkBG,
		},
	}
	if ps.Guide != nil {
		fig.Data = append(fig.Data, Trace{
			Type: "scatter3d", Mode: "lines", Name: "Growth Trajectory",
			X: ps.Guide.X, Y: ps.Guide.Y, Z: ps.Guide.Z,
			Line:      &Line{Color: "rgba(255,255,255,0.3)", Width: 3},
			HoverInfo: "skip",
		})
	}
	return fig
}

func (a assembler) tunnel(ps layout.PointSet) Figure {
	return Figure{
		Data: []Trace{{
			Type: "scatter3d", Mode: "lines+markers", Name: "Tunnel Trajectory",
			X: ps.X, Y: ps.Y, Z: ps.Z,
			Line: &Line{Color: "royalblue", Width: 6},
			Marker: &Marker{
				Size: a.size(ps.Sizes), Color: ps.Colors,
				Colorscale: ScaleViridis, Opacity: a.opacity,
			},
			HoverText: ps.Labels, HoverInfo: "text",
		}},
		Layout: FigureLayout{
			Title: ps.Engine.Title(),
			Scene: SceneLayout{
				XAxis:   Axis{Title: "X"},
				YAxis:   Axis{Title: "Y"},
				ZAxis:   Axis{Title: "Z"},
				BGColor: darkBG,
			},
			PaperBG: darkBG,
		},
	}
}

func (a assembler) wave(ps layout.PointSet) Figure {
	hideScale := false
	fig := Figure{
		Layout: FigureLayout{
			Title: ps.Engine.Title(),
			Scene: SceneLayout{
				XAxis: Axis{Title: "Growth Rate (%)"},
				YAxis: Axis{Title: "Valuation (Billions USD)"},
				ZAxis: Axis{Title: "AI Impact Score"},
			},
		},
	}
	if ps.Surface != nil {
		fig.Data = append(fig.Data, Trace{
			Type: "surface", Name: "AI Impact Surface",
			X: ps.Surface.X, Y: ps.Surface.Y, Z: ps.Surface.Z,
			Colorscale: ScaleJet, Opacity: a.opacity,
			ShowScale: &hideScale, HoverInfo: "skip",
		})
	}
	fig.Data = append(fig.Data, Trace{
		Type: "scatter3d", Mode: "markers", Name: "Unicorn Companies",
		X: ps.X, Y: ps.Y, Z: ps.Z,
		Marker: &Marker{
			Size: a.size(ps.Sizes), Color: ps.Colors,
			Colorscale: ScaleHot, Opacity: 0.9,
		},
		HoverText: ps.Labels, HoverInfo: "text",
	})
	return fig
}

func (a assembler) undulating(ps layout.PointSet) Figure {
	fig := Figure{
		Layout: FigureLayout{
			Title: ps.Engine.Title(),
			Scene: SceneLayout{
				XAxis: Axis{Title: "Valuation ($B)"},
				YAxis: Axis{Title: "Growth Rate (%)"},
				ZAxis: Axis{Title: "Wave Height"},
			},
		},
	}
	if ps.Surface != nil {
		fig.Data = append(fig.Data, Trace{
			Type: "surface", Name: "Wave Surface",
			X: ps.Surface.X, Y: ps.Surface.Y, Z: ps.Surface.Z,
			Colorscale: ScaleRdBu, Opacity: min(a.opacity, 0.4),
		})
	}
	fig.Data = append(fig.Data, Trace{
		Type: "scatter3d", Mode: "markers", Name: "Companies",
		X: ps.X, Y: ps.Y, Z: ps.Z,
		Marker:    &Marker{Size: a.size(ps.Sizes), Color: "black", Opacity: a.opacity},
		HoverText: ps.Labels, HoverInfo: "text",
	})
	return fig
}

func (a assembler) ripple(ps layout.PointSet) Figure {
	base := Trace{
		Type: "scatter3d", Mode: "markers", Name: "Unicorn Companies",
		X: ps.X, Y: ps.Y, Z: ps.Z,
		Marker: &Marker{
			Size: a.size(ps.Sizes), Color: ps.Colors,
			Colorscale: ScaleViridis, Opacity: 0.9,
		},
		HoverText: ps.Labels, HoverInfo: "text",
	}
	fig := Figure{
		Data: []Trace{base},
		Layout: FigureLayout{
			Title: ps.Engine.Title(),
			Scene: SceneLayout{
				XAxis: Axis{Title: "Spread X"},
				YAxis: Axis{Title: "Spread Y"},
				ZAxis: Axis{Title: "Spread Z"},
			},
		},
	}
	for _, frameZ := range ps.Frames {
		frame := base
		frame.Z = frameZ
		fig.Frames = append(fig.Frames, Frame{Data: []Trace{frame}})
	}
	return fig
}
