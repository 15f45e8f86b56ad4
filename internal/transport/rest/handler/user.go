package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"identitymap/internal/model"
)

// UserHandler mints anonymous respondent handles
type UserHandler struct{}

// NewUserHandler creates a new user handler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Create handles POST /v1/users. Handles are anonymous; nothing is
// persisted until the first answer arrives.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, &model.CreateUserResponse{
		UserID:    "user_" + uuid.New().String()[:8],
		CreatedAt: time.Now(),
	})
}
