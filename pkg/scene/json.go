package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalFigure serializes a figure to indented JSON.
func MarshalFigure(fig Figure) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeFigureTo(fig, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFigure writes a figure as JSON to an io.Writer.
func WriteFigure(fig Figure, w io.Writer) error {
	return writeFigureTo(fig, w)
}

// WriteFigureFile writes a figure to a JSON file with 0644 permissions.
func WriteFigureFile(fig Figure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeFigureTo(fig, f)
}

// UnmarshalFigure decodes JSON bytes back into a figure. Round-tripping a
// figure through MarshalFigure and UnmarshalFigure preserves trace
// structure; numeric slices come back as generic JSON values in the Z
// field since it is polymorphic between scatter and surface traces.
func UnmarshalFigure(data []byte) (Figure, error) {
	var fig Figure
	if err := json.Unmarshal(data, &fig); err != nil {
		return Figure{}, fmt.Errorf("decode figure: %w", err)
	}
	return fig, nil
}

func writeFigureTo(fig Figure, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fig); err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	return nil
}
