package handlers

import (
	"net/http"

	"github.com/wonny/optionlab/backend/internal/options"
	"github.com/wonny/optionlab/backend/internal/portfolio"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// PortfolioHandler serves multi-position aggregation endpoints.
type PortfolioHandler struct {
	logger *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{logger: log}
}

// GreeksRequest is the body of POST /api/portfolio/greeks.
type GreeksRequest struct {
	Positions []options.Position `json:"positions"`
}

// Greeks aggregates position-weighted sensitivities across the book.
// POST /api/portfolio/greeks
func (h *PortfolioHandler) Greeks(w http.ResponseWriter, r *http.Request) {
	var req GreeksRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	agg, err := portfolio.AggregateGreeks(req.Positions)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, agg)
}

// HedgeRequest is the body of POST /api/portfolio/hedge.
type HedgeRequest struct {
	Positions       []options.Position    `json:"positions"`
	Target          string                `json:"hedge_target"`
	HedgeInstrument *portfolio.Instrument `json:"hedge_instrument,omitempty"`
}

// HedgeResponse reports the neutralizing trade for the requested greek.
type HedgeResponse struct {
	Target     options.GreekName `json:"hedge_target"`
	HedgeRatio float64           `json:"hedge_ratio"` // signed contracts (or shares/multiplier for delta)
	Totals     portfolio.Totals  `json:"totals"`
}

// Hedge solves for the position that zeroes the requested portfolio greek.
// POST /api/portfolio/hedge
func (h *PortfolioHandler) Hedge(w http.ResponseWriter, r *http.Request) {
	var req HedgeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	target, err := options.ParseGreekName(req.Target)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	ratio, err := portfolio.HedgeRatio(req.Positions, target, req.HedgeInstrument)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	agg, err := portfolio.AggregateGreeks(req.Positions)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, HedgeResponse{
		Target:     target,
		HedgeRatio: ratio,
		Totals:     agg.Totals,
	})
}
