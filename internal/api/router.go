package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/transcriptlens/api/internal/analysis"
	"github.com/transcriptlens/api/internal/api/handlers"
	"github.com/transcriptlens/api/internal/api/middleware"
	"github.com/transcriptlens/api/internal/config"
	"github.com/transcriptlens/api/internal/llm"
	"github.com/transcriptlens/api/internal/media"
	"github.com/transcriptlens/api/internal/pipeline"
	"github.com/transcriptlens/api/internal/storage"
	"github.com/transcriptlens/api/internal/stt"
)

type Router struct {
	mux *chi.Mux
	cfg *config.Config
}

func NewRouter(cfg *config.Config) *Router {
	return &Router{
		mux: chi.NewRouter(),
		cfg: cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(5, 10)
	r.Use(rl.Limit)

	// Wire the pipeline
	gw := llm.NewGateway(rt.cfg.LLM)
	transcriber := newTranscriber(rt.cfg.STT)
	chunker := media.NewChunker(rt.cfg.Media.MaxChunkMB, rt.cfg.Media.FFmpegPath, rt.cfg.Media.FFprobePath)
	downloader := media.NewDownloader(rt.cfg.Media.YTDLPPath)
	orchestrator := analysis.NewOrchestrator(gw, rt.cfg.LLM.ExtractModel)
	pipe := pipeline.New(chunker, transcriber, gw, orchestrator, rt.cfg.Pipeline.ChunkConcurrency)

	var store storage.Storage
	if rt.cfg.Storage.SupabaseURL != "" && rt.cfg.Storage.SupabaseKey != "" {
		store = storage.NewSupabaseStorage(rt.cfg.Storage.SupabaseURL, rt.cfg.Storage.SupabaseKey)
	}

	health := handlers.NewHealthHandler()
	transcripts := handlers.NewTranscriptHandler(pipe, downloader, store, rt.cfg.Storage.Bucket, rt.cfg.Media.TempDir)
	interviews := handlers.NewInterviewHandler(pipe, rt.cfg.Media.TempDir)

	r.Get("/", health.Root)
	r.Get("/health", health.Health)
	r.Post("/extract-transcript", transcripts.Extract)
	r.Post("/upload-audio", transcripts.Upload)
	r.Post("/analyze-interview", interviews.Analyze)

	return r
}

func newTranscriber(cfg config.STTConfig) stt.Provider {
	if cfg.Backend == "local" {
		return stt.NewLocal(stt.LocalConfig{BaseURL: cfg.LocalBaseURL})
	}
	return stt.NewWhisper(stt.WhisperConfig{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
}
