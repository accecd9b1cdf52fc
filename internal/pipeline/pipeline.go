package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/transcriptlens/api/internal/analysis"
	"github.com/transcriptlens/api/internal/llm"
	"github.com/transcriptlens/api/internal/media"
	"github.com/transcriptlens/api/internal/stt"
	"github.com/transcriptlens/api/internal/transcript"
)

// Stage names one step of the per-request state machine:
// Received -> (Chunking | SingleChunk) -> Transcribing -> Assembling ->
// Analyzing -> Completed. A failure in any stage terminates the
// request; no stage is ever re-entered.
type Stage string

const (
	StageReceived     Stage = "received"
	StageChunking     Stage = "chunking"
	StageTranscribing Stage = "transcribing"
	StageAssembling   Stage = "assembling"
	StageAnalyzing    Stage = "analyzing"
)

// StageError tags a pipeline failure with the stage it occurred in.
// The caller maps error kinds to status codes; the kind is forwarded
// untranslated.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed while %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Splitter produces the ordered chunk sequence for a media source.
type Splitter interface {
	Split(ctx context.Context, ws *media.Workspace, src media.Source) ([]media.Chunk, error)
}

// Analyzer runs the full interview analysis over one transcript.
type Analyzer interface {
	Analyze(ctx context.Context, tr transcript.Transcript, req analysis.Request) (*analysis.Result, error)
}

// Pipeline is the top-level controller: chunk, transcribe all chunks,
// assemble, then run one analysis pass. Each request's data flows
// linearly through immutable hand-offs; there is no shared mutable
// state between requests.
type Pipeline struct {
	splitter         Splitter
	transcriber      stt.Provider
	gateway          llm.Gateway
	analyzer         Analyzer
	chunkConcurrency int
}

func New(splitter Splitter, transcriber stt.Provider, gw llm.Gateway, analyzer Analyzer, chunkConcurrency int) *Pipeline {
	if chunkConcurrency < 1 {
		chunkConcurrency = 1
	}
	return &Pipeline{
		splitter:         splitter,
		transcriber:      transcriber,
		gateway:          gw,
		analyzer:         analyzer,
		chunkConcurrency: chunkConcurrency,
	}
}

// FormatOptions selects the provider and instructions for the
// free-form formatting pass.
type FormatOptions struct {
	Provider     string
	FormatPrompt string
}

// FormatOutput is the terminal artifact of TranscribeAndFormat.
type FormatOutput struct {
	RawTranscript string
	FormattedText string
	Provider      string
	ChunkCount    int
}

// TranscribeAndFormat turns a media source into an assembled transcript
// and a free-form formatted rendition of it. The provider is resolved
// up front so an unknown one is rejected before any chunking or
// transcription work.
func (p *Pipeline) TranscribeAndFormat(ctx context.Context, ws *media.Workspace, src media.Source, opts FormatOptions) (*FormatOutput, error) {
	if _, err := p.gateway.Provider(opts.Provider); err != nil {
		return nil, &StageError{Stage: StageReceived, Err: err}
	}

	tr, err := p.transcribe(ctx, ws, src)
	if err != nil {
		return nil, err
	}

	formatted, err := p.gateway.Format(ctx, llm.FormatRequest{
		Provider:     opts.Provider,
		Transcript:   tr.Text,
		Instructions: opts.FormatPrompt,
	})
	if err != nil {
		return nil, &StageError{Stage: StageAnalyzing, Err: err}
	}

	return &FormatOutput{
		RawTranscript: tr.Text,
		FormattedText: formatted.Text,
		Provider:      opts.Provider,
		ChunkCount:    tr.ChunkCount,
	}, nil
}

// AnalyzeInterview turns a media source into a full interview analysis.
// The request is validated before any chunking or provider work
// happens.
func (p *Pipeline) AnalyzeInterview(ctx context.Context, ws *media.Workspace, src media.Source, req analysis.Request) (*analysis.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, &StageError{Stage: StageReceived, Err: err}
	}
	if _, err := p.gateway.Provider(req.Provider); err != nil {
		return nil, &StageError{Stage: StageReceived, Err: err}
	}

	tr, err := p.transcribe(ctx, ws, src)
	if err != nil {
		return nil, err
	}

	result, err := p.analyzer.Analyze(ctx, tr, req)
	if err != nil {
		return nil, &StageError{Stage: StageAnalyzing, Err: err}
	}
	return result, nil
}

// transcribe runs chunking, per-chunk transcription and assembly.
// Independent chunks are transcribed concurrently, bounded by the
// configured cap; the assembler waits for all of them. One failed
// chunk fails and cancels everything.
func (p *Pipeline) transcribe(ctx context.Context, ws *media.Workspace, src media.Source) (transcript.Transcript, error) {
	chunks, err := p.splitter.Split(ctx, ws, src)
	if err != nil {
		return transcript.Transcript{}, &StageError{Stage: StageChunking, Err: err}
	}
	slog.Info("media split", "chunks", len(chunks), "size_bytes", src.Size)

	parts := make([]transcript.ChunkTranscript, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.chunkConcurrency)
	for _, c := range chunks {
		g.Go(func() error {
			res, err := p.transcriber.Transcribe(gctx, stt.Request{FilePath: c.Path})
			if err != nil {
				return &stt.TranscriptionError{Chunk: c.Index, Err: err}
			}
			parts[c.Index] = transcript.ChunkTranscript{Index: c.Index, Text: res.Text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return transcript.Transcript{}, &StageError{Stage: StageTranscribing, Err: err}
	}

	tr, err := transcript.Assemble(parts)
	if err != nil {
		return transcript.Transcript{}, &StageError{Stage: StageAssembling, Err: err}
	}
	return tr, nil
}
