package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
	"health-finance-api/internal/service"
)

const maxBatchSize = 100

type LoanHandler struct {
	assessment *service.AssessmentService
	logger     *logrus.Logger
}

func NewLoanHandler(assessment *service.AssessmentService, logger *logrus.Logger) *LoanHandler {
	return &LoanHandler{assessment: assessment, logger: logger}
}

func (h *LoanHandler) RegisterRoutes(router *mux.Router, prefix string) {
	router.HandleFunc(prefix+"/predict", h.Predict).Methods("POST")
	router.HandleFunc(prefix+"/predict/batch", h.PredictBatch).Methods("POST")
}

// explainParam читает ?explain=; по умолчанию объяснение включено
func explainParam(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("explain")
	if raw == "" {
		return true, nil
	}
	return strconv.ParseBool(raw)
}

func (h *LoanHandler) Predict(w http.ResponseWriter, r *http.Request) {
	explain, err := explainParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid explain parameter"})
		return
	}

	var req model.LoanRequestInput
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	result, err := h.assessment.PredictLoan(r.Context(), req, explain)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	explain, err := explainParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid explain parameter"})
		return
	}

	var reqs []model.LoanRequestInput
	if !decodeJSON(w, r, h.logger, &reqs) {
		return
	}
	if len(reqs) > maxBatchSize {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "batch is too large"})
		return
	}

	items, err := h.assessment.PredictBatch(r.Context(), reqs, explain)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": items,
		"total":   len(items),
	})
}
