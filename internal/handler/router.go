package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"health-finance-api/internal/service"
)

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

// NewRouter собирает маршруты API; tokens == nil отключает авторизацию
func NewRouter(assessment *service.AssessmentService, tokens *service.TokenService, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, LoggingMiddleware(logger))
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// /api - отдельный роутер, а не Subrouter: маршруты подроутера наследуют
	// префикс родителя, и совпадение префикса у соседа сбрасывает 405 в 404
	apiRouter := mux.NewRouter()
	apiRouter.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	if tokens != nil {
		apiRouter.Use(AuthMiddleware(tokens, logger))
	}

	NewHealthHandler(assessment, logger).RegisterRoutes(apiRouter, "/api/health")
	NewLoanHandler(assessment, logger).RegisterRoutes(apiRouter, "/api/loans")
	NewInsightHandler(assessment, logger).RegisterRoutes(apiRouter, "/api/insights")

	router.PathPrefix("/api/").Handler(apiRouter)

	return router
}
