package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a per-request scratch directory. Every file the pipeline
// writes (staged uploads, downloaded audio, chunk files) lives under it,
// so a single Cleanup releases everything on any exit path.
type Workspace struct {
	dir string
}

func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	dir := filepath.Join(baseDir, "transcriptlens-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

func (w *Workspace) Dir() string { return w.dir }

// Path returns the absolute path for a file name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Stage copies an incoming stream (an uploaded file) into the workspace
// and returns it as a Source.
func (w *Workspace) Stage(r io.Reader, name string) (Source, error) {
	dst := w.Path(filepath.Base(name))
	f, err := os.Create(dst)
	if err != nil {
		return Source{}, fmt.Errorf("stage upload: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Source{}, fmt.Errorf("stage upload: %w", err)
	}
	return Source{Path: dst, Size: n}, nil
}

// Cleanup removes the workspace and everything in it. Safe to call more
// than once.
func (w *Workspace) Cleanup() error {
	if w == nil || w.dir == "" {
		return nil
	}
	err := os.RemoveAll(w.dir)
	w.dir = ""
	return err
}
