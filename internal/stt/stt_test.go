package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeChunk(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk_000.mp3")
	if err := os.WriteFile(path, []byte("fake mp3 bytes"), 0o644); err != nil {
		t.Fatalf("write chunk: %v", err)
	}
	return path
}

func TestWhisper_Transcribe(t *testing.T) {
	var gotPath, gotModel, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("file part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello from whisper"}`))
	}))
	defer srv.Close()

	p := NewWhisper(WhisperConfig{APIKey: "sk-test", BaseURL: srv.URL})
	res, err := p.Transcribe(context.Background(), Request{FilePath: writeChunk(t)})
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if res.Text != "hello from whisper" {
		t.Errorf("text = %q", res.Text)
	}
	if gotPath != "/audio/transcriptions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q, want default whisper-1", gotModel)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
}

func TestWhisper_SurfacesAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"file too large"}`, http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	p := NewWhisper(WhisperConfig{BaseURL: srv.URL})
	if _, err := p.Transcribe(context.Background(), Request{FilePath: writeChunk(t)}); err == nil {
		t.Fatal("expected error from non-200 response")
	}
}

func TestWhisper_MissingFile(t *testing.T) {
	p := NewWhisper(WhisperConfig{})
	if _, err := p.Transcribe(context.Background(), Request{FilePath: "/nonexistent.mp3"}); err == nil {
		t.Fatal("expected error for missing chunk file")
	}
}

func TestLocal_UsesInferenceEndpoint(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("file part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"local transcript"}`))
	}))
	defer srv.Close()

	p := NewLocal(LocalConfig{BaseURL: srv.URL})
	res, err := p.Transcribe(context.Background(), Request{FilePath: writeChunk(t)})
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if res.Text != "local transcript" {
		t.Errorf("text = %q", res.Text)
	}
	if gotPath != "/inference" {
		t.Errorf("path = %q, want /inference", gotPath)
	}
	if gotAuth != "" {
		t.Errorf("local backend sent auth header %q", gotAuth)
	}
}
