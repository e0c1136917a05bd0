package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wonny/optionlab/backend/internal/api/handlers"
	"github.com/wonny/optionlab/backend/internal/backtest"
	"github.com/wonny/optionlab/backend/internal/marketdata"
	"github.com/wonny/optionlab/backend/pkg/config"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

func testRouter() http.Handler {
	log := logger.NewWriter(io.Discard, &config.Config{LogLevel: "error", LogFormat: "json"})
	engine := backtest.NewEngine(marketdata.NewSyntheticProvider(), backtest.DefaultConfig(), log)

	return NewRouter(
		handlers.NewCalculatorHandler(log),
		handlers.NewPortfolioHandler(log),
		handlers.NewBacktestHandler(engine, log),
		log,
	)
}

func TestRouter_Health(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var got map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" {
		t.Errorf("status field = %v, want ok", got["status"])
	}
}

func TestRouter_Routes(t *testing.T) {
	router := testRouter()

	body := `{
		"option_type": "call", "strike": 100, "time_to_expiration": 0.25,
		"underlying_price": 100, "risk_free_rate": 0.05, "volatility": 0.20
	}`

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/api/calculator/greeks", body, http.StatusOK},
		{http.MethodPost, "/api/calculator/surface", body, http.StatusOK},
		{http.MethodPost, "/api/calculator/scenarios", body, http.StatusOK},
		{http.MethodPost, "/api/calculator/theta-decay", body, http.StatusOK},
		{http.MethodPost, "/api/portfolio/greeks", `{"positions": []}`, http.StatusOK},
		{http.MethodGet, "/api/backtest/strategies", "", http.StatusOK},
		// Method constraints hold.
		{http.MethodGet, "/api/calculator/greeks", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/backtest/strategies", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var reader io.Reader
			if tt.body != "" {
				reader = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, reader)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

// A synthetic-provider backtest through the full router exercises the wire
// format end to end.
func TestRouter_BacktestRun(t *testing.T) {
	router := testRouter()

	body := `{
		"strategy_type": "straddle",
		"parameters": {"strike": 100},
		"ticker": "005930",
		"start_date": "2025-01-06",
		"end_date": "2025-02-28",
		"initial_capital": 1000000,
		"volatility": 0.25,
		"rate": 0.03
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/backtest/run", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got struct {
		Periods     int               `json:"periods"`
		EquityCurve []json.RawMessage `json:"equity_curve"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Periods == 0 || len(got.EquityCurve) != got.Periods+1 {
		t.Errorf("periods = %d, curve = %d, want curve = periods+1", got.Periods, len(got.EquityCurve))
	}
}
