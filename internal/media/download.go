package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
}

// VideoID extracts a YouTube video ID from a URL, for provenance only.
// Returns "" when the URL is not a recognized YouTube form.
func VideoID(url string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// Downloader resolves a remote video URL into a local audio Source by
// shelling out to yt-dlp with audio extraction enabled.
type Downloader struct {
	YTDLPPath string
}

func NewDownloader(ytdlpPath string) *Downloader {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return &Downloader{YTDLPPath: ytdlpPath}
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".webm": true, ".ogg": true,
}

// Resolve downloads the best audio stream for url into ws and returns
// it as a Source.
func (d *Downloader) Resolve(ctx context.Context, ws *Workspace, url string) (Source, error) {
	cmd := exec.CommandContext(ctx, d.YTDLPPath,
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-warnings",
		"-q",
		"-o", ws.Path("audio.%(ext)s"),
		url,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Source{}, &DownloadError{URL: url, Err: fmt.Errorf("%w: %s", err, lastLine(stderr.String()))}
	}

	entries, err := os.ReadDir(ws.Dir())
	if err != nil {
		return Source{}, &DownloadError{URL: url, Err: err}
	}
	for _, e := range entries {
		if audioExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			return NewSource(ws.Path(e.Name()))
		}
	}
	return Source{}, &DownloadError{URL: url, Err: fmt.Errorf("no audio file produced; the video may be unavailable")}
}
