package stt

import (
	"context"
	"fmt"
)

// Request holds the parameters for transcribing one chunk file. The
// file must already fit the backend's size limit; the media chunker
// enforces that upstream.
type Request struct {
	FilePath string `json:"file_path"`
	Language string `json:"language,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
}

// Result holds the transcription output for one chunk.
type Result struct {
	Text string `json:"text"`
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// TranscriptionError reports the failing chunk index. One failed chunk
// fails the whole request; a silently incomplete transcript would be
// worse than an explicit error.
type TranscriptionError struct {
	Chunk int
	Err   error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed on chunk %d: %v", e.Chunk, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
