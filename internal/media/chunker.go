package media

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Chunker splits oversized media into time-bounded segments that each
// fit the configured byte budget, so every segment can be sent to a
// size-limited transcription API on its own.
type Chunker struct {
	MaxChunkBytes int64
	FFmpegPath    string
	FFprobePath   string
}

func NewChunker(maxChunkMB int, ffmpegPath, ffprobePath string) *Chunker {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Chunker{
		MaxChunkBytes: int64(maxChunkMB) * 1024 * 1024,
		FFmpegPath:    ffmpegPath,
		FFprobePath:   ffprobePath,
	}
}

// Split returns the ordered chunk sequence for src. Sources at or under
// the budget take the fast path: one chunk spanning the whole file, no
// re-encode, no probe. Oversized sources are divided into
// ceil(size/budget) even time ranges, each re-encoded into a standalone
// mp3 inside ws.
func (c *Chunker) Split(ctx context.Context, ws *Workspace, src Source) ([]Chunk, error) {
	if src.Size <= c.MaxChunkBytes {
		return []Chunk{{Index: 0, Path: src.Path}}, nil
	}

	duration, err := c.probeDuration(ctx, src.Path)
	if err != nil {
		return nil, &InspectionError{Path: src.Path, Err: err}
	}

	segments := planSegments(src.Size, c.MaxChunkBytes, duration)

	chunks := make([]Chunk, 0, len(segments))
	for i, seg := range segments {
		out := ws.Path(fmt.Sprintf("chunk_%03d.mp3", i))
		if err := c.extractSegment(ctx, src.Path, out, seg); err != nil {
			return nil, &ChunkingError{Index: i, Err: err}
		}
		chunks = append(chunks, Chunk{
			Index:    i,
			Path:     out,
			Start:    seg.start,
			Duration: seg.length,
		})
	}
	return chunks, nil
}

type segment struct {
	start  time.Duration
	length time.Duration
}

// planSegments divides duration evenly across ceil(size/budget) ranges.
// Ranges are contiguous and non-overlapping; the last one absorbs the
// rounding remainder so the union covers the full duration.
func planSegments(size, budget int64, duration time.Duration) []segment {
	n := int(math.Ceil(float64(size) / float64(budget)))
	if n < 1 {
		n = 1
	}
	per := duration / time.Duration(n)
	segs := make([]segment, n)
	for i := 0; i < n; i++ {
		segs[i] = segment{start: time.Duration(i) * per, length: per}
	}
	segs[n-1].length = duration - segs[n-1].start
	return segs
}

func (c *Chunker) probeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, c.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("ffprobe returned no usable duration (%q)", strings.TrimSpace(out.String()))
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (c *Chunker) extractSegment(ctx context.Context, in, out string, seg segment) error {
	cmd := exec.CommandContext(ctx, c.FFmpegPath,
		"-y",
		"-ss", formatSeconds(seg.start),
		"-t", formatSeconds(seg.length),
		"-i", in,
		"-acodec", "libmp3lame",
		"-b:a", "128k",
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
