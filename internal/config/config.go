package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	STT      STTConfig
	Media    MediaConfig
	Pipeline PipelineConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LLMConfig struct {
	OpenAIKey       string
	GeminiKey       string
	AnthropicKey    string
	DefaultProvider string
	FormatModel     string
	ExtractModel    string
	GeminiModel     string
	AnthropicModel  string
	MaxRetries      int
}

type STTConfig struct {
	Backend       string // "openai" or "local"
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	LocalBaseURL  string // default: "http://localhost:8178"
}

type MediaConfig struct {
	MaxChunkMB  int
	TempDir     string
	FFmpegPath  string
	FFprobePath string
	YTDLPPath   string
}

type PipelineConfig struct {
	ChunkConcurrency int
	MaxSkills        int
}

type StorageConfig struct {
	SupabaseURL string
	SupabaseKey string
	Bucket      string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	maxChunkMB, err := getEnvInt("MEDIA_MAX_CHUNK_MB", 25)
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_MAX_CHUNK_MB: %w", err)
	}

	chunkConcurrency, err := getEnvInt("PIPELINE_CHUNK_CONCURRENCY", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_CHUNK_CONCURRENCY: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		LLM: LLMConfig{
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			GeminiKey:       getEnv("GEMINI_API_KEY", ""),
			AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
			DefaultProvider: getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			FormatModel:     getEnv("LLM_FORMAT_MODEL", "gpt-3.5-turbo"),
			ExtractModel:    getEnv("LLM_EXTRACT_MODEL", "gpt-4o"),
			GeminiModel:     getEnv("LLM_GEMINI_MODEL", "gemini-pro"),
			AnthropicModel:  getEnv("LLM_ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			MaxRetries:      maxRetries,
		},
		STT: STTConfig{
			Backend:       getEnv("STT_BACKEND", "openai"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("STT_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("STT_OPENAI_MODEL", ""),
			LocalBaseURL:  getEnv("STT_LOCAL_BASE_URL", "http://localhost:8178"),
		},
		Media: MediaConfig{
			MaxChunkMB:  maxChunkMB,
			TempDir:     getEnv("MEDIA_TEMP_DIR", os.TempDir()),
			FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),
			YTDLPPath:   getEnv("YTDLP_PATH", "yt-dlp"),
		},
		Pipeline: PipelineConfig{
			ChunkConcurrency: chunkConcurrency,
			MaxSkills:        20,
		},
		Storage: StorageConfig{
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			SupabaseKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:      getEnv("STORAGE_BUCKET", "recordings"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.STT.Backend == "openai" && c.STT.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.Media.MaxChunkMB <= 0 {
		return fmt.Errorf("MEDIA_MAX_CHUNK_MB must be positive, got %d", c.Media.MaxChunkMB)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
