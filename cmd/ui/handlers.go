package main

import (
	"encoding/json"
	"net/http"

	"github.com/NewLouwa/CookieTrading/internal/ledger"
	"go.uber.org/zap"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	svc *ledger.Service
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, svc *ledger.Service) *APIHandler {
	return &APIHandler{log: log, svc: svc}
}

// writeJSON serializes v, logging and 500-ing on failure upstream.
func (h *APIHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

// DashboardHandler returns the ledger summary.
func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.svc.Dashboard()
	if err != nil {
		h.log.Error("Failed to build dashboard", zap.Error(err))
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, dashboard)
}

// PositionsHandler returns all open positions, newest first.
func (h *APIHandler) PositionsHandler(w http.ResponseWriter, r *http.Request) {
	positions, err := h.svc.OpenPositions()
	if err != nil {
		h.log.Error("Failed to get open positions", zap.Error(err))
		http.Error(w, "Failed to get open positions", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, positions)
}

// HistoryHandler returns all closed trades, newest first.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.svc.History()
	if err != nil {
		h.log.Error("Failed to get trading history", zap.Error(err))
		http.Error(w, "Failed to get trading history", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, trades)
}

// PortfolioHandler returns the holding rollup.
func (h *APIHandler) PortfolioHandler(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.svc.Portfolio()
	if err != nil {
		h.log.Error("Failed to get portfolio", zap.Error(err))
		http.Error(w, "Failed to get portfolio", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, holdings)
}

// StatisticsHandler calculates and returns trading statistics.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats()
	if err != nil {
		h.log.Error("Failed to calculate statistics", zap.Error(err))
		http.Error(w, "Failed to calculate statistics", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, stats)
}
