package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DatasetKeyOpts identifies one acquired dataset.
type DatasetKeyOpts struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Seed   int64  `json:"seed,omitempty"`
}

// PointSetKeyOpts identifies one layout computation over a dataset.
type PointSetKeyOpts struct {
	Engine string `json:"engine"`
}

// ArtifactKeyOpts identifies one rendered figure artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Opacity    float64 `json:"opacity,omitempty"`
	MarkerSize float64 `json:"marker_size,omitempty"`
}

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// DatasetKey keys an acquired dataset by source and requested size.
	DatasetKey(opts DatasetKeyOpts) string

	// PointSetKey keys a layout result by the dataset's content hash
	// and the engine.
	PointSetKey(datasetHash string, opts PointSetKeyOpts) string

	// ArtifactKey keys a rendered artifact by the point set's content
	// hash and the render options.
	ArtifactKey(pointSetHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256 under stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// DatasetKey implements Keyer.
func (k *DefaultKeyer) DatasetKey(opts DatasetKeyOpts) string {
	return hashKey("dataset", opts)
}

// PointSetKey implements Keyer.
func (k *DefaultKeyer) PointSetKey(datasetHash string, opts PointSetKeyOpts) string {
	return hashKey("pointset", datasetHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(pointSetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", pointSetHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)

// hashKey builds "prefix:sha256(parts)". The full 64-char digest is kept
// to rule out collisions between similar option sets.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash computes the SHA-256 content hash of data as a hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
