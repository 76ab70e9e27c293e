package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/synth"
)

func pointSet(t *testing.T, e layout.Engine, n int) layout.PointSet {
	t.Helper()
	ps, err := layout.Compute(e, synth.GenerateSeeded(n, 1))
	if err != nil {
		t.Fatal(err)
	}
	return ps
}

func TestAssembleSpiralIncludesGuide(t *testing.T) {
	fig := Assemble(pointSet(t, layout.EngineSpiral, 50))
	if len(fig.Data) != 2 {
		t.Fatalf("spiral figure has %d traces, want markers + guide line", len(fig.Data))
	}
	if fig.Data[1].Mode != "lines" {
		t.Errorf("second trace should be the guide line, got mode %q", fig.Data[1].Mode)
	}
	if fig.Data[1].HoverInfo != "skip" {
		t.Error("guide line must not emit hover labels")
	}
}

func TestAssembleWaveHasSurfaceAndMarkers(t *testing.T) {
	fig := Assemble(pointSet(t, layout.EngineWave, 100))
	if len(fig.Data) != 2 {
		t.Fatalf("wave figure has %d traces, want surface + markers", len(fig.Data))
	}
	if fig.Data[0].Type != "surface" || fig.Data[0].Colorscale != ScaleJet {
		t.Errorf("first trace should be a Jet surface, got %s/%s", fig.Data[0].Type, fig.Data[0].Colorscale)
	}
	if fig.Data[1].Type != "scatter3d" {
		t.Errorf("second trace should be markers, got %s", fig.Data[1].Type)
	}
}

func TestAssembleRippleFrames(t *testing.T) {
	fig := Assemble(pointSet(t, layout.EngineRipple, 50))
	if len(fig.Frames) != layout.RippleFrames {
		t.Fatalf("ripple figure has %d frames, want %d", len(fig.Frames), layout.RippleFrames)
	}
	// X and Y are shared with the base trace; only Z varies per frame.
	base := fig.Data[0]
	for _, f := range fig.Frames {
		if len(f.Data) != 1 {
			t.Fatal("each frame should carry exactly one trace")
		}
		if &f.Data[0].X[0] != &base.X[0] {
			t.Fatal("frame X should alias the base trace positions")
		}
	}
}

func TestAssembleSentinel(t *testing.T) {
	ps, err := layout.Compute(layout.EngineTunnel, nil)
	if err != nil {
		t.Fatal(err)
	}
	fig := Assemble(ps)
	if !fig.Layout.Sentinel {
		t.Error("sentinel point set must produce a sentinel-flagged figure")
	}
	if len(fig.Data) != 1 {
		t.Errorf("sentinel figure has %d traces, want 1", len(fig.Data))
	}
}

func TestAssembleOptions(t *testing.T) {
	ps := pointSet(t, layout.EngineSpiral, 20)

	fig := Assemble(ps, WithOpacity(0.5), WithMarkerSize(12))
	if fig.Data[0].Marker.Opacity != 0.5 {
		t.Errorf("opacity override not applied: %v", fig.Data[0].Marker.Opacity)
	}
	if fig.Data[0].Marker.Size != 12.0 {
		t.Errorf("marker size override not applied: %v", fig.Data[0].Marker.Size)
	}

	// Out-of-range values are ignored.
	fig = Assemble(ps, WithOpacity(7))
	if fig.Data[0].Marker.Opacity != 0.8 {
		t.Errorf("invalid opacity should keep the default, got %v", fig.Data[0].Marker.Opacity)
	}
}

func TestFigureJSONRoundTrip(t *testing.T) {
	fig := Assemble(pointSet(t, layout.EngineTunnel, 30))
	data, err := MarshalFigure(fig)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalFigure(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Data) != len(fig.Data) {
		t.Errorf("round trip lost traces: %d -> %d", len(fig.Data), len(back.Data))
	}
	if back.Layout.Title != fig.Layout.Title {
		t.Errorf("round trip changed title: %q -> %q", fig.Layout.Title, back.Layout.Title)
	}
}

func TestRenderHTML(t *testing.T) {
	fig := Assemble(pointSet(t, layout.EngineRipple, 10))
	page, err := RenderHTML(fig)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"plotly", "Plotly.newPlot", "addFrames"} {
		if !bytes.Contains(page, []byte(want)) {
			t.Errorf("HTML page missing %q", want)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	ds := record.Dataset{
		{Name: "OpenAI", Valuation: 157, ImpactScore: 95, GrowthRate: 180, Sector: "AI/ML", Country: "USA", FoundedYear: 2015, Status: record.StatusHectocorn},
	}
	out, err := RenderCSV(ds)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("CSV has %d lines, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], record.FieldName) {
		t.Errorf("CSV header unexpected: %s", lines[0])
	}
	if !strings.Contains(lines[1], "OpenAI") || !strings.Contains(lines[1], "157") {
		t.Errorf("CSV row unexpected: %s", lines[1])
	}
}
