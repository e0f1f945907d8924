// Package api exposes the guidance system over HTTP and MCP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/wayfind/internal/careers"
	"github.com/kalambet/wayfind/internal/guidance"
	"github.com/kalambet/wayfind/internal/profile"
)

const maxRequestBodySize = 1 << 20 // 1MB

const maxResumeSize = 10 << 20 // 10MB

// NewHandler returns the REST API handler.
func NewHandler(sys *guidance.System) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(sys))
	r.Get("/careers", handleCareers)
	r.Get("/profile", handleGetProfile(sys))
	r.Put("/profile", handlePutProfile(sys))
	r.Post("/profile/resume", handleResumeImport(sys))
	r.Post("/analyze", handleAnalyze(sys))
	r.Get("/reports", handleListReports(sys))
	r.Get("/reports/{career}", handleGetReport(sys))
	r.Post("/chat", handleChat(sys))
	r.Get("/chat", handleChatHistory(sys))

	return r
}

func handleHealth(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status":         "ok",
			"search_enabled": sys.SearchEnabled,
			"model_enabled":  sys.ModelEnabled,
		})
	}
}

func handleCareers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"categories": careers.Categories(),
		"careers":    careers.All(),
	})
}

func handleGetProfile(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sys.Profiles.Get()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading profile: %v", err)
			return
		}
		writeJSON(w, map[string]any{"profile": p})
	}
}

func handlePutProfile(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var p profile.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		if p.Experience != "" && !contains(profile.ExperienceBuckets, p.Experience) {
			httpError(w, http.StatusBadRequest, "invalid_request_error",
				"experience must be one of %v", profile.ExperienceBuckets)
			return
		}
		if p.Education != "" && !contains(profile.EducationLevels, p.Education) {
			httpError(w, http.StatusBadRequest, "invalid_request_error",
				"education must be one of %v", profile.EducationLevels)
			return
		}

		if err := sys.Profiles.Replace(p); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "saving profile: %v", err)
			return
		}
		writeJSON(w, map[string]any{"profile": p})
	}
}

func handleResumeImport(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxResumeSize)
		defer r.Body.Close()

		file, _, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "file is required: %v", err)
			return
		}
		defer file.Close()

		tmp, err := os.CreateTemp("", "wayfind-resume-*.pdf")
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "staging resume: %v", err)
			return
		}
		defer os.Remove(tmp.Name())

		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			httpError(w, http.StatusInternalServerError, "api_error", "staging resume: %v", err)
			return
		}
		tmp.Close()

		added, err := sys.Importer.Import(r.Context(), tmp.Name())
		if err != nil {
			httpError(w, http.StatusUnprocessableEntity, "api_error", "importing resume: %v", err)
			return
		}
		writeJSON(w, map[string]any{"skills_added": added})
	}
}

func handleAnalyze(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req struct {
			Career string `json:"career"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Career == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "career is required")
			return
		}

		rep := sys.Analyze(r.Context(), req.Career)
		writeJSON(w, rep)
	}
}

func handleListReports(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := sys.Store.ListReports()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing reports: %v", err)
			return
		}
		writeJSON(w, map[string]any{"reports": reports})
	}
}

func handleGetReport(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		career := chi.URLParam(r, "career")
		rep, ok, err := sys.Store.GetReport(career)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading report: %v", err)
			return
		}
		if !ok {
			httpError(w, http.StatusNotFound, "not_found_error", "no report for career %q", career)
			return
		}
		writeJSON(w, rep)
	}
}

func handleChat(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req struct {
			Question string `json:"question"`
			Career   string `json:"career"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Question == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "question is required")
			return
		}

		turn, err := sys.Chat(r.Context(), req.Question, req.Career)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "answering question: %v", err)
			return
		}
		writeJSON(w, turn)
	}
}

func handleChatHistory(sys *guidance.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "limit must be a positive integer")
				return
			}
			limit = n
		}

		turns, err := sys.Store.ListChatTurns(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing chat history: %v", err)
			return
		}
		writeJSON(w, map[string]any{"turns": turns})
	}
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
