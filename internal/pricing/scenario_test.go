package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/wonny/optionlab/backend/internal/options"
)

func TestScenarios_CartesianOrder(t *testing.T) {
	contract := options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.25}
	market := options.Market{Spot: 100, Rate: 0.05, Vol: 0.20}

	priceShocks := []float64{-0.10, 0, 0.10}
	ivShocks := []float64{-0.20, 0.20}

	points, err := Scenarios(contract, market, priceShocks, ivShocks, 0)
	if err != nil {
		t.Fatalf("Scenarios() error = %v", err)
	}

	if want := len(priceShocks) * len(ivShocks); len(points) != want {
		t.Fatalf("len = %d, want %d", len(points), want)
	}

	// Price-major, iv-minor ordering.
	idx := 0
	for _, ps := range priceShocks {
		for _, vs := range ivShocks {
			p := points[idx]
			if p.PriceShock != ps || p.IVShock != vs {
				t.Errorf("points[%d] shocks = (%v, %v), want (%v, %v)", idx, p.PriceShock, p.IVShock, ps, vs)
			}
			if want := market.Spot * (1 + ps); math.Abs(p.Spot-want) > 1e-12 {
				t.Errorf("points[%d] spot = %v, want %v", idx, p.Spot, want)
			}
			if want := market.Vol * (1 + vs); math.Abs(p.Vol-want) > 1e-12 {
				t.Errorf("points[%d] vol = %v, want %v", idx, p.Vol, want)
			}
			idx++
		}
	}
}

func TestScenarios_ZeroShockIsZeroPnL(t *testing.T) {
	contract := options.Contract{Type: options.Put, Strike: 100, TimeToExpiry: 0.5}
	market := options.Market{Spot: 95, Rate: 0.03, Vol: 0.30}

	points, err := Scenarios(contract, market, []float64{0}, []float64{0}, 0)
	if err != nil {
		t.Fatalf("Scenarios() error = %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("len = %d, want 1", len(points))
	}

	if points[0].PnL != 0 {
		t.Errorf("PnL = %v, want exactly 0", points[0].PnL)
	}
	if points[0].PnLPct == nil || *points[0].PnLPct != 0 {
		t.Errorf("PnLPct = %v, want 0", points[0].PnLPct)
	}
}

// A worthless base contract has no defined percentage return; the point
// reports nil rather than an infinity.
func TestScenarios_NilPnLPctOnZeroBase(t *testing.T) {
	contract := options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.25}
	market := options.Market{Spot: 50, Rate: 0, Vol: 0} // deterministic, deep OTM: base price 0

	points, err := Scenarios(contract, market, []float64{0, 1.5}, []float64{0}, 0)
	if err != nil {
		t.Fatalf("Scenarios() error = %v", err)
	}

	for _, p := range points {
		if p.PnLPct != nil {
			t.Errorf("shock %v: PnLPct = %v, want nil", p.PriceShock, *p.PnLPct)
		}
	}

	// The shocked-up scenario still carries absolute P&L.
	if points[1].PnL <= 0 {
		t.Errorf("shocked PnL = %v, want > 0", points[1].PnL)
	}
}

func TestScenarios_DaysForwardAgesContract(t *testing.T) {
	contract := options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 30.0 / 365}
	market := options.Market{Spot: 100, Rate: 0.05, Vol: 0.20}

	held, err := Scenarios(contract, market, []float64{0}, []float64{0}, 10)
	if err != nil {
		t.Fatalf("Scenarios() error = %v", err)
	}

	// Pure time decay: an unshocked ATM option loses value.
	if held[0].PnL >= 0 {
		t.Errorf("PnL after 10 days = %v, want < 0", held[0].PnL)
	}

	// Aging past expiry floors at zero time and settles intrinsic.
	past, err := Scenarios(contract, market, []float64{0.1}, []float64{0}, 90)
	if err != nil {
		t.Fatalf("Scenarios() error = %v", err)
	}
	if want := 10.0; past[0].Greeks.Price != want {
		t.Errorf("expired scenario price = %v, want %v", past[0].Greeks.Price, want)
	}
}

func TestScenarios_InvalidInput(t *testing.T) {
	contract := options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.25}
	market := options.Market{Spot: 100, Rate: 0.05, Vol: 0.20}

	tests := []struct {
		name        string
		priceShocks []float64
		ivShocks    []float64
		days        int
	}{
		{"negative days", []float64{0}, []float64{0}, -1},
		{"price shock at -100%", []float64{-1}, []float64{0}, 0},
		{"nan price shock", []float64{math.NaN()}, []float64{0}, 0},
		{"iv shock below -100%", []float64{0}, []float64{-1.5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scenarios(contract, market, tt.priceShocks, tt.ivShocks, tt.days)
			if !errors.Is(err, options.ErrInvalidInput) {
				t.Errorf("Scenarios() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestThetaDecay(t *testing.T) {
	contract := options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 30.0 / 365}
	market := options.Market{Spot: 100, Rate: 0, Vol: 0.20}

	points, err := ThetaDecay(contract, market, 45)
	if err != nil {
		t.Fatalf("ThetaDecay() error = %v", err)
	}

	if len(points) != 46 {
		t.Fatalf("len = %d, want 46", len(points))
	}
	if points[0].Day != 0 || points[45].Day != 45 {
		t.Errorf("day range = [%d, %d], want [0, 45]", points[0].Day, points[45].Day)
	}

	// ATM value decays monotonically with zero rate.
	for i := 1; i < len(points); i++ {
		if points[i].Greeks.Price > points[i-1].Greeks.Price {
			t.Fatalf("price increased at day %d: %v > %v", i, points[i].Greeks.Price, points[i-1].Greeks.Price)
		}
	}

	// Past expiry the contract sits at intrinsic with zero time left.
	if points[45].TimeToExpiry != 0 {
		t.Errorf("day 45 tte = %v, want 0", points[45].TimeToExpiry)
	}
	if points[45].Greeks.Price != 0 {
		t.Errorf("day 45 price = %v, want 0 (ATM intrinsic)", points[45].Greeks.Price)
	}

	if _, err := ThetaDecay(contract, market, -1); !errors.Is(err, options.ErrInvalidInput) {
		t.Errorf("negative days error = %v, want ErrInvalidInput", err)
	}
}
