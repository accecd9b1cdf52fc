package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/transcriptlens/api/internal/analysis"
	"github.com/transcriptlens/api/internal/media"
)

type InterviewHandler struct {
	pipe    Pipeline
	tempDir string
}

func NewInterviewHandler(pipe Pipeline, tempDir string) *InterviewHandler {
	return &InterviewHandler{pipe: pipe, tempDir: tempDir}
}

// Analyze accepts a multipart interview recording plus the skills to
// assess and returns the full analysis. The skill budget is enforced
// here, before any chunking or provider call.
func (h *InterviewHandler) Analyze(w http.ResponseWriter, r *http.Request) {
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

	req := analysis.Request{
		Skills:      parseSkills(r.Form["skills"]),
		JobRole:     r.FormValue("job_role"),
		CompanyName: r.FormValue("company_name"),
		Provider:    r.FormValue("ai_provider"),
	}
	if req.Provider == "" {
		req.Provider = "openai"
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
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

	result, err := h.pipe.AnalyzeInterview(r.Context(), ws, src, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parseSkills accepts both repeated "skills" fields and single
// comma-separated values.
func parseSkills(values []string) []string {
	var skills []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}
	return skills
}
