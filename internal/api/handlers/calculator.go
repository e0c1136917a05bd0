package handlers

import (
	"net/http"

	"github.com/wonny/optionlab/backend/internal/options"
	"github.com/wonny/optionlab/backend/internal/pricing"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// CalculatorHandler serves single-contract pricing endpoints.
type CalculatorHandler struct {
	logger *logger.Logger
}

// NewCalculatorHandler creates a new calculator handler.
func NewCalculatorHandler(log *logger.Logger) *CalculatorHandler {
	return &CalculatorHandler{logger: log}
}

// PricingRequest is the flat contract+market payload shared by the
// calculator endpoints.
type PricingRequest struct {
	options.Contract
	options.Market
}

// Greeks prices one contract and returns its full sensitivity set.
// POST /api/calculator/greeks
func (h *CalculatorHandler) Greeks(w http.ResponseWriter, r *http.Request) {
	var req PricingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	greeks, err := pricing.PriceAndGreeks(req.Contract, req.Market)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, greeks)
}

// SurfaceRequest is the body of POST /api/calculator/surface.
type SurfaceRequest struct {
	PricingRequest
	Surface *pricing.SurfaceSpec `json:"surface,omitempty"`
}

// Surface computes the P&L grid over shocked price and vol levels.
// POST /api/calculator/surface
func (h *CalculatorHandler) Surface(w http.ResponseWriter, r *http.Request) {
	var req SurfaceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	spec := pricing.DefaultSurfaceSpec()
	if req.Surface != nil {
		spec = *req.Surface
	}

	grid, err := pricing.Surface(req.Contract, req.Market, spec)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, grid)
}

// ScenariosRequest is the body of POST /api/calculator/scenarios.
type ScenariosRequest struct {
	PricingRequest
	PriceShocks []float64 `json:"price_shocks,omitempty"`
	IVShocks    []float64 `json:"iv_shocks,omitempty"`
	DaysForward int       `json:"days_forward,omitempty"`
}

// Default shock ladders when the request leaves them out.
var (
	defaultPriceShocks = []float64{-0.10, -0.05, 0, 0.05, 0.10}
	defaultIVShocks    = []float64{-0.20, 0, 0.20}
)

// Scenarios reprices the contract across the shock grid.
// POST /api/calculator/scenarios
func (h *CalculatorHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	var req ScenariosRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	priceShocks := req.PriceShocks
	if priceShocks == nil {
		priceShocks = defaultPriceShocks
	}
	ivShocks := req.IVShocks
	if ivShocks == nil {
		ivShocks = defaultIVShocks
	}

	points, err := pricing.Scenarios(req.Contract, req.Market, priceShocks, ivShocks, req.DaysForward)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenarios": points,
		"count":     len(points),
	})
}

// ThetaDecayRequest is the body of POST /api/calculator/theta-decay.
type ThetaDecayRequest struct {
	PricingRequest
	Days int `json:"days,omitempty"`
}

// ThetaDecay reprices the contract day by day toward expiry.
// POST /api/calculator/theta-decay
func (h *CalculatorHandler) ThetaDecay(w http.ResponseWriter, r *http.Request) {
	var req ThetaDecayRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	days := req.Days
	if days == 0 {
		days = 30
	}

	points, err := pricing.ThetaDecay(req.Contract, req.Market, days)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"decay": points,
		"days":  len(points) - 1,
	})
}
