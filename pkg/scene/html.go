package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// htmlPage is the self-contained dashboard page: it embeds the figure
// JSON and hands it to plotly.js loaded from the CDN. Animation frames
// are wired to a play button when present.
var htmlPage = template.Must(template.New("figure").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.32.0.min.js"></script>
<style>
  body { margin: 0; background: #1a1a2e; color: #eee; font-family: sans-serif; }
  #chart { width: 100vw; height: 92vh; }
  header { padding: 8px 16px; }
</style>
</head>
<body>
<header><strong>{{.Title}}</strong></header>
<div id="chart"></div>
<script>
  const fig = {{.FigureJSON}};
  Plotly.newPlot("chart", fig.data, fig.layout, {responsive: true}).then(() => {
    if (fig.frames && fig.frames.length > 0) {
      Plotly.addFrames("chart", fig.frames);
      Plotly.animate("chart", null, {
        frame: {duration: 60, redraw: true},
        mode: "immediate",
      });
    }
  });
</script>
</body>
</html>
`))

// RenderHTML produces a standalone HTML page for a figure.
func RenderHTML(fig Figure) ([]byte, error) {
	data, err := json.Marshal(fig)
	if err != nil {
		return nil, fmt.Errorf("encode figure for page: %w", err)
	}

	title := fig.Layout.Title
	if title == "" {
		title = "Unicorn Startup 3D Visualization"
	}

	var buf bytes.Buffer
	err = htmlPage.Execute(&buf, struct {
		Title      string
		FigureJSON template.JS
	}{
		Title:      title,
		FigureJSON: template.JS(data), //nolint:gosec // figure JSON is produced locally, not user input
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
