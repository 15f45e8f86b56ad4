package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"identitymap/internal/registry"
	"identitymap/internal/service"
)

// QuestionHandler serves the question registry and answer distributions
type QuestionHandler struct {
	registry  *registry.Registry
	answerSvc *service.AnswerService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(reg *registry.Registry, answerSvc *service.AnswerService) *QuestionHandler {
	return &QuestionHandler{registry: reg, answerSvc: answerSvc}
}

// List handles GET /v1/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": h.registry.All(),
	})
}

// Distribution handles GET /v1/questions/{questionId}/distribution
func (h *QuestionHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	resp, err := h.answerSvc.QuestionDistribution(r.Context(), questionID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownQuestion) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
