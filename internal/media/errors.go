package media

import "fmt"

// InspectionError means the duration (or another required property) of
// a media file could not be determined.
type InspectionError struct {
	Path string
	Err  error
}

func (e *InspectionError) Error() string {
	return fmt.Sprintf("media inspection failed for %s: %v", e.Path, e.Err)
}

func (e *InspectionError) Unwrap() error { return e.Err }

// ChunkingError means extracting one time range failed. The whole split
// is abandoned; no partial chunk set is ever returned.
type ChunkingError struct {
	Index int
	Err   error
}

func (e *ChunkingError) Error() string {
	return fmt.Sprintf("chunking failed at segment %d: %v", e.Index, e.Err)
}

func (e *ChunkingError) Unwrap() error { return e.Err }

// DownloadError means a remote media URL could not be resolved to a
// local audio file.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("could not download audio from %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
