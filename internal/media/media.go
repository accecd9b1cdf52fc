package media

import (
	"fmt"
	"os"
	"time"
)

// Source is a local media file whose size is known before any
// chunking decision is made.
type Source struct {
	Path string
	Size int64
}

// NewSource stats the file so Size is always populated.
func NewSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("stat media source: %w", err)
	}
	return Source{Path: path, Size: info.Size()}, nil
}

// Chunk is one time-bounded, independently decodable slice of a source.
// Indices are 0-based and contiguous; concatenated in order the chunks
// cover the full source duration without gaps or overlaps.
type Chunk struct {
	Index    int
	Path     string
	Start    time.Duration
	Duration time.Duration
}
