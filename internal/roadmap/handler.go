package roadmap

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nayi-disha/backend/internal/generator"
	"github.com/nayi-disha/backend/internal/models"
	"github.com/nayi-disha/backend/internal/progress"
	"github.com/nayi-disha/backend/internal/quiz"
)

const defaultSessionID = "default"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateRoadmap handles POST /api/roadmap/generate.
func (h *Handler) GenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}

	roadmap, err := h.service.Generate(r.Context(), req.SessionID, req.Subject, req.Goal, req.Level)
	if err != nil {
		writeServiceError(w, "GenerateRoadmap", err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: roadmap, SessionID: req.SessionID})
}

// GetRoadmap handles GET /api/roadmap/{sessionId}.
func (h *Handler) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	roadmap, err := h.service.Get(vars["sessionId"])
	if err != nil {
		writeServiceError(w, "GetRoadmap", err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: roadmap})
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	var (
		validationErr *quiz.ValidationError
		notFoundErr   *quiz.NotFoundError
		genErr        *generator.GenerationError
		storeErr      *progress.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: validationErr.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &genErr):
		log.Printf("[roadmap] %s generation error: %v", op, err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to generate roadmap. Please try again."})
	case errors.As(err, &storeErr):
		log.Printf("[roadmap] %s store error: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Storage failure"})
	default:
		log.Printf("[roadmap] %s error: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
