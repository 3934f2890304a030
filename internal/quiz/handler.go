package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nayi-disha/backend/internal/generator"
	"github.com/nayi-disha/backend/internal/models"
	"github.com/nayi-disha/backend/internal/progress"
)

// defaultSessionID is used when a request omits sessionId, matching the
// frontend's anonymous flow.
const defaultSessionID = "default"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateQuestion handles POST /api/quiz/question.
func (h *Handler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}
	if req.ModuleID == "" || req.ModuleTitle == "" || len(req.Topics) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "moduleId, moduleTitle, and topics array are required"})
		return
	}

	resp, err := h.service.RequestQuestion(r.Context(), req.SessionID, req.ModuleID, req.ModuleTitle, req.Topics)
	if err != nil {
		writeServiceError(w, "GenerateQuestion", err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: resp})
}

// EvaluateAnswer handles POST /api/quiz/evaluate.
func (h *Handler) EvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.EvaluateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}
	if req.ModuleID == "" || req.QuestionID == "" || req.UserAnswer == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "moduleId, questionId, and userAnswer are required"})
		return
	}

	resp, err := h.service.SubmitAnswer(r.Context(), req.SessionID, req.ModuleID, req.QuestionID, *req.UserAnswer)
	if err != nil {
		writeServiceError(w, "EvaluateAnswer", err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: resp})
}

// GetModuleReport handles POST /api/quiz/report.
func (h *Handler) GetModuleReport(w http.ResponseWriter, r *http.Request) {
	var req models.ModuleReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}
	if req.ModuleID == "" || req.ModuleTitle == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "moduleId and moduleTitle are required"})
		return
	}

	report, err := h.service.GetReport(r.Context(), req.SessionID, req.ModuleID, req.ModuleTitle)
	if err != nil {
		writeServiceError(w, "GetModuleReport", err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: report})
}

// GetModuleProgress handles GET /api/quiz/progress/{sessionId}/{moduleId}.
// Absent progress is a success with null data, not a 404, since the frontend
// checks it on every module open.
func (h *Handler) GetModuleProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	snapshot, ok, err := h.service.GetProgressSnapshot(vars["sessionId"], vars["moduleId"])
	if err != nil {
		writeServiceError(w, "GetModuleProgress", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: nil})
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: snapshot})
}

// ClearSession handles DELETE /api/session/{sessionId}.
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.ClearSession(vars["sessionId"]); err != nil {
		writeServiceError(w, "ClearSession", err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: map[string]string{"sessionId": vars["sessionId"]}})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		genErr        *generator.GenerationError
		storeErr      *progress.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: validationErr.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &genErr):
		log.Printf("[quiz] %s generation error: %v", op, err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to generate content. Please try again."})
	case errors.As(err, &storeErr):
		log.Printf("[quiz] %s store error: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Storage failure"})
	default:
		log.Printf("[quiz] %s error: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
