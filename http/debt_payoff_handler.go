package http

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"gullak/domain"
	"gullak/report"
	"gullak/service"
)

type DebtPayoffHandler struct {
	service    *service.DebtPayoffService
	portfolios *service.PortfolioService
	log        *logrus.Logger
}

func NewDebtPayoffHandler(service *service.DebtPayoffService, portfolios *service.PortfolioService, log *logrus.Logger) *DebtPayoffHandler {
	return &DebtPayoffHandler{service: service, portfolios: portfolios, log: log}
}

type emailPlanRequest struct {
	To string `json:"to"`
	domain.PayoffInput
}

func (h *DebtPayoffHandler) ProjectDebtPayoff(w http.ResponseWriter, r *http.Request) {
	var input domain.PayoffInput
	if !decodeJSON(w, r, &input) {
		return
	}
	h.project(w, r, input)
}

// ProjectSavedPortfolio runs the projection for the portfolio stored for the
// owner in the path.
func (h *DebtPayoffHandler) ProjectSavedPortfolio(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["owner"]
	input, err := h.portfolios.PayoffInput(r.Context(), owner, r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.project(w, r, input)
}

func (h *DebtPayoffHandler) project(w http.ResponseWriter, r *http.Request, input domain.PayoffInput) {
	summary, err := h.service.ProjectDebtPayoff(r.Context(), owner(r), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if r.URL.Query().Get("format") == "xml" {
		var buf bytes.Buffer
		if err := report.WriteXML(&buf, summary); err != nil {
			writeError(w, h.log, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		if _, err := buf.WriteTo(w); err != nil {
			h.log.WithError(err).Warn("failed to write response")
		}
		return
	}

	writeJSON(w, h.log, http.StatusOK, summary)
}

func (h *DebtPayoffHandler) CompareStrategies(w http.ResponseWriter, r *http.Request) {
	var input domain.PayoffInput
	if !decodeJSON(w, r, &input) {
		return
	}

	cmp, err := h.service.CompareStrategies(r.Context(), owner(r), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, cmp)
}

func (h *DebtPayoffHandler) EmailPlan(w http.ResponseWriter, r *http.Request) {
	var req emailPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := h.service.EmailPlan(r.Context(), owner(r), req.To, req.PayoffInput)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusAccepted, summary)
}
