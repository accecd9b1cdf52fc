package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSplit_UnderBudgetReturnsSingleChunk(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	defer ws.Cleanup()

	path := filepath.Join(t.TempDir(), "small.mp3")
	if err := os.WriteFile(path, make([]byte, 1024), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	src, err := NewSource(path)
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	// ffmpeg binaries deliberately point nowhere: the fast path must
	// not invoke them.
	c := NewChunker(25, "/nonexistent/ffmpeg", "/nonexistent/ffprobe")
	chunks, err := c.Split(context.Background(), ws, src)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 || chunks[0].Path != path {
		t.Errorf("unexpected chunk: %+v", chunks[0])
	}
}

func TestSplit_OversizedWithoutProbeFails(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	defer ws.Cleanup()

	path := filepath.Join(t.TempDir(), "big.mp3")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	src, _ := NewSource(path)

	c := &Chunker{MaxChunkBytes: 1024, FFmpegPath: "/nonexistent/ffmpeg", FFprobePath: "/nonexistent/ffprobe"}
	_, err = c.Split(context.Background(), ws, src)
	if err == nil {
		t.Fatal("expected inspection error")
	}
	if _, ok := err.(*InspectionError); !ok {
		t.Errorf("expected *InspectionError, got %T: %v", err, err)
	}
}

func TestPlanSegments_EvenDivision(t *testing.T) {
	// 60 MB at a 25 MB budget over 180s: 3 segments of 60s.
	segs := planSegments(60<<20, 25<<20, 180*time.Second)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for i, s := range segs {
		if s.length != 60*time.Second {
			t.Errorf("segment %d length = %v, want 60s", i, s.length)
		}
	}
}

func TestPlanSegments_ContiguousAndCovering(t *testing.T) {
	cases := []struct {
		name     string
		size     int64
		budget   int64
		duration time.Duration
	}{
		{"exact multiple", 100 << 20, 25 << 20, 200 * time.Second},
		{"with remainder", 55 << 20, 25 << 20, 123 * time.Second},
		{"barely over", (25 << 20) + 1, 25 << 20, 61 * time.Second},
		{"odd duration", 77 << 20, 10 << 20, 3601*time.Second + 337*time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			segs := planSegments(tc.size, tc.budget, tc.duration)

			want := int((tc.size + tc.budget - 1) / tc.budget)
			if len(segs) != want {
				t.Fatalf("expected %d segments, got %d", want, len(segs))
			}

			var cursor time.Duration
			for i, s := range segs {
				if s.start != cursor {
					t.Errorf("segment %d starts at %v, want %v (gap or overlap)", i, s.start, cursor)
				}
				cursor += s.length
			}
			if cursor != tc.duration {
				t.Errorf("segments cover %v, want full duration %v", cursor, tc.duration)
			}
		})
	}
}
