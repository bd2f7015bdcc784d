package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
	"health-finance-api/internal/service"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError: ошибки ввода -> 400, остальное -> 500
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		resp := errorResponse{Error: err.Error()}
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			resp.Fields = verr.Fields
		}
		logger.WithError(err).Warn("Некорректный запрос")
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	logger.WithError(err).Error("Ошибка обработки запроса")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithError(err).Error("Не удалось декодировать тело запроса")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return false
	}
	return true
}
