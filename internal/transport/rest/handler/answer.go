package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"identitymap/internal/model"
	"identitymap/internal/service"
)

// AnswerHandler handles answer submission and retrieval
type AnswerHandler struct {
	answerSvc *service.AnswerService
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerSvc *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerSvc: answerSvc}
}

// Submit handles POST /v1/answers
func (h *AnswerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "userId and questionId are required")
		return
	}

	resp, err := h.answerSvc.Submit(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownQuestion):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrValueType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetUserAnswers handles GET /v1/users/{userId}/answers
func (h *AnswerHandler) GetUserAnswers(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	answers, err := h.answerSvc.GetUserAnswers(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userId":  userID,
		"answers": answers,
	})
}
