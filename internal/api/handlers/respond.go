package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/transcriptlens/api/internal/analysis"
	"github.com/transcriptlens/api/internal/llm"
	"github.com/transcriptlens/api/internal/media"
	"github.com/transcriptlens/api/internal/pipeline"
	"github.com/transcriptlens/api/internal/stt"
	"github.com/transcriptlens/api/internal/transcript"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// writeError maps error kinds onto status codes and client-safe
// messages. Upstream response bodies can echo request details (key
// fragments, prompts), so they stay in the server log; the client sees
// what failed and at which stage.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: publicMessage(err)}

	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		resp.Stage = string(stageErr.Stage)
	}

	status := statusFor(err)
	slog.Error("request failed", "status", status, "stage", resp.Stage, "error", err)
	writeJSON(w, status, resp)
}

// publicMessage renders an error for the client. Messages produced by
// this service (validation, capability checks) pass through; anything
// that may carry an upstream response body is replaced with a summary.
func publicMessage(err error) string {
	var (
		downloadErr    *media.DownloadError
		inspectErr     *media.InspectionError
		chunkErr       *media.ChunkingError
		transcribeErr  *stt.TranscriptionError
		assemblyErr    *transcript.AssemblyError
		providerErr    *llm.ProviderError
		unknownErr     *llm.UnknownProviderError
		unsupportedErr *llm.UnsupportedProviderError
		schemaErr      *analysis.SchemaValidationError
		stageErr       *pipeline.StageError
	)

	switch {
	case errors.As(err, &unknownErr):
		return unknownErr.Error()
	case errors.As(err, &unsupportedErr):
		return unsupportedErr.Error()
	case errors.As(err, &schemaErr):
		return schemaErr.Error()
	case errors.As(err, &downloadErr):
		return "could not download media from the provided URL"
	case errors.As(err, &inspectErr):
		return "could not read media file properties"
	case errors.As(err, &chunkErr):
		return fmt.Sprintf("could not split media into chunks (chunk %d)", chunkErr.Index)
	case errors.As(err, &transcribeErr):
		return fmt.Sprintf("transcription failed for chunk %d", transcribeErr.Chunk)
	case errors.As(err, &providerErr):
		return fmt.Sprintf("%s provider failed during %s", providerErr.Provider, providerErr.Operation)
	case errors.As(err, &assemblyErr):
		return "could not assemble transcript"
	case errors.As(err, &stageErr):
		if stageErr.Stage == pipeline.StageReceived {
			return stageErr.Err.Error()
		}
		return "internal error"
	default:
		return "internal error"
	}
}

func statusFor(err error) int {
	var (
		downloadErr    *media.DownloadError
		inspectErr     *media.InspectionError
		chunkErr       *media.ChunkingError
		transcribeErr  *stt.TranscriptionError
		assemblyErr    *transcript.AssemblyError
		providerErr    *llm.ProviderError
		unknownErr     *llm.UnknownProviderError
		unsupportedErr *llm.UnsupportedProviderError
		schemaErr      *analysis.SchemaValidationError
		stageErr       *pipeline.StageError
	)

	switch {
	case errors.As(err, &downloadErr):
		return http.StatusBadRequest
	case errors.As(err, &unknownErr), errors.As(err, &unsupportedErr):
		return http.StatusBadRequest
	case errors.As(err, &inspectErr), errors.As(err, &chunkErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transcribeErr), errors.As(err, &providerErr), errors.As(err, &schemaErr):
		return http.StatusBadGateway
	case errors.As(err, &assemblyErr):
		return http.StatusInternalServerError
	case errors.As(err, &stageErr):
		if stageErr.Stage == pipeline.StageReceived {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
