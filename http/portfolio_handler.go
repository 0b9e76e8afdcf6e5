package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"gullak/domain"
	"gullak/service"
)

type PortfolioHandler struct {
	portfolios *service.PortfolioService
	history    *service.HistoryService
	log        *logrus.Logger
}

func NewPortfolioHandler(portfolios *service.PortfolioService, history *service.HistoryService, log *logrus.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios, history: history, log: log}
}

func (h *PortfolioHandler) Save(w http.ResponseWriter, r *http.Request) {
	var p domain.Portfolio
	if !decodeJSON(w, r, &p) {
		return
	}
	p.Owner = mux.Vars(r)["owner"]

	saved, err := h.portfolios.Save(r.Context(), p)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, saved)
}

func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.portfolios.Load(r.Context(), mux.Vars(r)["owner"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, p)
}

func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolios.Delete(r.Context(), mux.Vars(r)["owner"]); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.history.Recent(r.Context(), mux.Vars(r)["owner"], limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, h.log, http.StatusOK, entries)
}
