package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// ChunkTranscript is the raw text produced for one media chunk. It is
// consumed exactly once, by Assemble.
type ChunkTranscript struct {
	Index int
	Text  string
}

// Transcript is the assembled, immutable transcript of the whole
// source, plus how many chunks produced it.
type Transcript struct {
	Text       string `json:"text"`
	ChunkCount int    `json:"chunk_count"`
}

// AssemblyError signals a non-contiguous or duplicated chunk index.
// That is an upstream bug, not a runtime condition.
type AssemblyError struct {
	Reason string
}

func (e *AssemblyError) Error() string {
	return "transcript assembly: " + e.Reason
}

// Assemble joins chunk transcripts in index order with a single space.
// The input must contain exactly one entry per index 0..n-1; upstream
// should already deliver them ordered, the sort is defensive.
func Assemble(parts []ChunkTranscript) (Transcript, error) {
	if len(parts) == 0 {
		return Transcript{}, &AssemblyError{Reason: "no chunk transcripts"}
	}

	sorted := make([]ChunkTranscript, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	texts := make([]string, len(sorted))
	for i, p := range sorted {
		if p.Index != i {
			return Transcript{}, &AssemblyError{
				Reason: fmt.Sprintf("expected chunk index %d, got %d", i, p.Index),
			}
		}
		texts[i] = p.Text
	}

	return Transcript{
		Text:       strings.Join(texts, " "),
		ChunkCount: len(sorted),
	}, nil
}
