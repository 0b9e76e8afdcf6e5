package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"gullak/domain"
	"gullak/service"
)

type TenureHandler struct {
	service *service.TenureRecommendationService
	log     *logrus.Logger
}

func NewTenureHandler(service *service.TenureRecommendationService, log *logrus.Logger) *TenureHandler {
	return &TenureHandler{service: service, log: log}
}

func (h *TenureHandler) RecommendTenure(w http.ResponseWriter, r *http.Request) {
	var input domain.TenureRecommendationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.RecommendTenure(r.Context(), owner(r), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
