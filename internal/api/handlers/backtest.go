package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/optionlab/backend/internal/backtest"
	"github.com/wonny/optionlab/backend/internal/options"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

const dateLayout = "2006-01-02"

// BacktestHandler serves strategy backtest endpoints.
type BacktestHandler struct {
	engine   *backtest.Engine
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(engine *backtest.Engine, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{
		engine: engine,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RunRequest is the body of POST /api/backtest/run. Dates use YYYY-MM-DD.
// Volatility and rate are pointers so an omitted field falls back to the
// engine defaults while an explicit 0 stays 0.
type RunRequest struct {
	StrategyType   string             `json:"strategy_type"`
	Parameters     map[string]float64 `json:"parameters,omitempty"`
	Ticker         string             `json:"ticker"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	InitialCapital float64            `json:"initial_capital"`
	Volatility     *float64           `json:"volatility,omitempty"`
	Rate           *float64           `json:"rate,omitempty"`
}

func (h *BacktestHandler) toRun(req RunRequest) (backtest.Run, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return backtest.Run{}, fmt.Errorf("%w: start_date %q (want YYYY-MM-DD)", options.ErrInvalidInput, req.StartDate)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return backtest.Run{}, fmt.Errorf("%w: end_date %q (want YYYY-MM-DD)", options.ErrInvalidInput, req.EndDate)
	}

	vol, rate := h.engine.Defaults()
	if req.Volatility != nil {
		vol = *req.Volatility
	}
	if req.Rate != nil {
		rate = *req.Rate
	}

	return backtest.Run{
		StrategyType:   req.StrategyType,
		Parameters:     req.Parameters,
		Ticker:         req.Ticker,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: req.InitialCapital,
		Volatility:     vol,
		Rate:           rate,
	}, nil
}

// Run executes a backtest and returns the full result.
// POST /api/backtest/run
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	run, err := h.toRun(req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result, err := h.engine.Run(r.Context(), run)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"strategy": req.StrategyType,
			"ticker":   req.Ticker,
		}).Warn("Backtest failed")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// StrategyInfo describes one runnable strategy.
type StrategyInfo struct {
	Type       backtest.StrategyType `json:"strategy_type"`
	Parameters []string              `json:"parameters"`
}

// Strategies lists the runnable strategy types and their parameters.
// GET /api/backtest/strategies
func (h *BacktestHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	params := map[backtest.StrategyType][]string{
		backtest.StrategyLongCall: {"strike"},
		backtest.StrategyLongPut:  {"strike"},
		backtest.StrategyStraddle: {"strike"},
		backtest.StrategyStrangle: {"put_strike", "call_strike"},
	}

	infos := make([]StrategyInfo, 0, len(params))
	for _, t := range backtest.SupportedStrategies() {
		infos = append(infos, StrategyInfo{Type: t, Parameters: params[t]})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": infos,
	})
}

// streamMessage is the envelope for websocket frames.
type streamMessage struct {
	Type   string                `json:"type"` // "progress", "result", "error"
	Point  *backtest.EquityPoint `json:"point,omitempty"`
	Result *backtest.Result      `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Stream upgrades to a websocket, reads one run request, and pushes every
// equity point as it is computed, followed by the final result.
// GET /api/backtest/stream
func (h *BacktestHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req RunRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: "invalid request: " + err.Error()})
		return
	}

	run, err := h.toRun(req)
	if err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: err.Error()})
		return
	}

	run.OnProgress = func(p backtest.EquityPoint) {
		conn.WriteJSON(streamMessage{Type: "progress", Point: &p})
	}

	result, err := h.engine.Run(r.Context(), run)
	if err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: err.Error()})
		return
	}

	conn.WriteJSON(streamMessage{Type: "result", Result: result})
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
