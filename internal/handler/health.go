package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
	"health-finance-api/internal/service"
)

type HealthHandler struct {
	assessment *service.AssessmentService
	logger     *logrus.Logger
}

func NewHealthHandler(assessment *service.AssessmentService, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{assessment: assessment, logger: logger}
}

func (h *HealthHandler) RegisterRoutes(router *mux.Router, prefix string) {
	router.HandleFunc(prefix+"/evaluate", h.Evaluate).Methods("POST")
}

// Evaluate оценивает финансовое здоровье профиля
func (h *HealthHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req model.FinancialProfileRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	result, err := h.assessment.EvaluateHealth(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
