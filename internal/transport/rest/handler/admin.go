package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"identitymap/internal/repository"
	"identitymap/internal/service"
	"identitymap/internal/transport/rest/middleware"
)

// AdminHandler handles operator-only endpoints
type AdminHandler struct {
	recalcSvc *service.RecalcService
	exportSvc *service.ExportService
	qscores   repository.QuestionScoreRepo
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(recalcSvc *service.RecalcService, exportSvc *service.ExportService, qscores repository.QuestionScoreRepo) *AdminHandler {
	return &AdminHandler{recalcSvc: recalcSvc, exportSvc: exportSvc, qscores: qscores}
}

// Recalculate handles POST /v1/admin/recalculate
func (h *AdminHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	log.Printf("Recalculation requested by %s", middleware.GetAdminID(r.Context()))

	if err := h.recalcSvc.RecalculateAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// QuestionStats handles GET /v1/admin/questions/{questionId}/stats.
// Stats are written by batch recalculation; a question never swept
// returns 404.
func (h *AdminHandler) QuestionStats(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	stats, err := h.qscores.Get(r.Context(), questionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats == nil {
		writeError(w, http.StatusNotFound, "no statistics for question "+questionID)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Export handles GET /v1/admin/export
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	log.Printf("Data export requested by %s", middleware.GetAdminID(r.Context()))

	export, err := h.exportSvc.ExportAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, export)
}
