package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
	"health-finance-api/internal/service"
)

type InsightHandler struct {
	assessment *service.AssessmentService
	logger     *logrus.Logger
}

func NewInsightHandler(assessment *service.AssessmentService, logger *logrus.Logger) *InsightHandler {
	return &InsightHandler{assessment: assessment, logger: logger}
}

func (h *InsightHandler) RegisterRoutes(router *mux.Router, prefix string) {
	router.HandleFunc(prefix+"/analyze", h.Analyze).Methods("POST")
	router.HandleFunc(prefix+"/quick", h.Quick).Methods("POST")
}

// Analyze строит полный пакет аналитики по профилю и заявке
func (h *InsightHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	pkg, err := h.assessment.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, pkg)
}

func (h *InsightHandler) Quick(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	resp, err := h.assessment.Quick(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
