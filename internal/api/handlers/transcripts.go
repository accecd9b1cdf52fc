package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/transcriptlens/api/internal/analysis"
	"github.com/transcriptlens/api/internal/media"
	"github.com/transcriptlens/api/internal/pipeline"
	"github.com/transcriptlens/api/internal/storage"
)

// DefaultFormatPrompt is used when the caller does not supply one.
const DefaultFormatPrompt = "Please format this transcript into a clear, well-structured summary with key points and main topics."

const maxUploadBytes = 512 << 20

var allowedExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true,
	".mp4": true, ".avi": true, ".mov": true, ".webm": true,
}

// Pipeline is the slice of the pipeline controller the handlers need.
type Pipeline interface {
	TranscribeAndFormat(ctx context.Context, ws *media.Workspace, src media.Source, opts pipeline.FormatOptions) (*pipeline.FormatOutput, error)
	AnalyzeInterview(ctx context.Context, ws *media.Workspace, src media.Source, req analysis.Request) (*analysis.Result, error)
}

// Resolver turns a remote video URL into a local media source.
type Resolver interface {
	Resolve(ctx context.Context, ws *media.Workspace, url string) (media.Source, error)
}

type TranscriptHandler struct {
	pipe     Pipeline
	resolver Resolver
	store    storage.Storage // nil when no bucket is configured
	bucket   string
	tempDir  string
}

func NewTranscriptHandler(pipe Pipeline, resolver Resolver, store storage.Storage, bucket, tempDir string) *TranscriptHandler {
	return &TranscriptHandler{
		pipe:     pipe,
		resolver: resolver,
		store:    store,
		bucket:   bucket,
		tempDir:  tempDir,
	}
}

type extractRequest struct {
	VideoURL     string `json:"video_url"`
	AIProvider   string `json:"ai_provider"`
	FormatPrompt string `json:"format_prompt"`
}

type transcriptResponse struct {
	VideoID           string `json:"video_id,omitempty"`
	Filename          string `json:"filename,omitempty"`
	RawTranscript     string `json:"raw_transcript"`
	FormattedResponse string `json:"formatted_response"`
	AIProvider        string `json:"ai_provider"`
	FileChunks        int    `json:"file_chunks"`
}

// Extract resolves a video URL, transcribes it and formats the result.
func (h *TranscriptHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.VideoURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "video_url required"})
		return
	}
	if req.AIProvider == "" {
		req.AIProvider = "openai"
	}
	if req.FormatPrompt == "" {
		req.FormatPrompt = DefaultFormatPrompt
	}

	ws, err := media.NewWorkspace(h.tempDir)
	if err != nil {
		writeError(w, err)
		return
	}
	defer ws.Cleanup()

	src, err := h.resolver.Resolve(r.Context(), ws, req.VideoURL)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.pipe.TranscribeAndFormat(r.Context(), ws, src, pipeline.FormatOptions{
		Provider:     req.AIProvider,
		FormatPrompt: req.FormatPrompt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transcriptResponse{
		VideoID:           media.VideoID(req.VideoURL),
		RawTranscript:     out.RawTranscript,
		FormattedResponse: out.FormattedText,
		AIProvider:        out.Provider,
		FileChunks:        out.ChunkCount,
	})
}

// Upload accepts a multipart media file, transcribes it and formats the
// result.
func (h *TranscriptHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "unsupported file type " + ext + "; allowed: " + allowedList(),
		})
		return
	}

	provider := r.FormValue("ai_provider")
	if provider == "" {
		provider = "openai"
	}
	formatPrompt := r.FormValue("format_prompt")
	if formatPrompt == "" {
		formatPrompt = DefaultFormatPrompt
	}

	ws, err := media.NewWorkspace(h.tempDir)
	if err != nil {
		writeError(w, err)
		return
	}
	defer ws.Cleanup()

	src, err := ws.Stage(file, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	h.archive(r.Context(), src, header.Filename)

	out, err := h.pipe.TranscribeAndFormat(r.Context(), ws, src, pipeline.FormatOptions{
		Provider:     provider,
		FormatPrompt: formatPrompt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transcriptResponse{
		Filename:          header.Filename,
		RawTranscript:     out.RawTranscript,
		FormattedResponse: out.FormattedText,
		AIProvider:        out.Provider,
		FileChunks:        out.ChunkCount,
	})
}

// archive copies the raw upload to object storage when a bucket is
// configured. Best effort only: an archive failure never fails the
// request.
func (h *TranscriptHandler) archive(ctx context.Context, src media.Source, name string) {
	if h.store == nil {
		return
	}
	f, err := os.Open(src.Path)
	if err != nil {
		slog.Warn("archive open failed", "error", err)
		return
	}
	defer f.Close()
	if err := h.store.Upload(ctx, h.bucket, filepath.Base(name), f, "application/octet-stream"); err != nil {
		slog.Warn("archive upload failed", "bucket", h.bucket, "error", err)
		return
	}
	slog.Info("raw upload archived", "url", h.store.PublicURL(h.bucket, filepath.Base(name)))
}

func allowedList() string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	return strings.Join(exts, ", ")
}
