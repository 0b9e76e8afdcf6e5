package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"gullak/domain"
	"gullak/service"
)

type LoanHandler struct {
	service *service.LoanService
	log     *logrus.Logger
}

func NewLoanHandler(service *service.LoanService, log *logrus.Logger) *LoanHandler {
	return &LoanHandler{service: service, log: log}
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.AmortizationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.CalculateLoan(r.Context(), owner(r), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
