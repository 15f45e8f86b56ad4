package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"identitymap/internal/model"
	"identitymap/internal/service"
)

// ScoreHandler serves final axis positions
type ScoreHandler struct {
	axesSvc *service.AxesService
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(axesSvc *service.AxesService) *ScoreHandler {
	return &ScoreHandler{axesSvc: axesSvc}
}

// GetUserScores handles GET /v1/scores/{userId}. The final position is
// recomputed against the current population on every read.
func (h *ScoreHandler) GetUserScores(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	final, err := h.axesSvc.GetFinalAxesScores(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	average, err := h.axesSvc.GetAverageAxesScores(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &model.UserScoreResponse{
		UserID:  userID,
		Final:   final,
		Average: average,
	})
}

// GetAverage handles GET /v1/scores/average
func (h *ScoreHandler) GetAverage(w http.ResponseWriter, r *http.Request) {
	average, err := h.axesSvc.GetAverageAxesScores(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"average": average,
	})
}
