package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/wonny/optionlab/backend/internal/options"
)

func TestPriceAndGreeks_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		contract options.Contract
		market   options.Market
		want     options.Greeks
	}{
		{
			name:     "atm call 3m",
			contract: options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.25},
			market:   options.Market{Spot: 100, Rate: 0.05, Vol: 0.20},
			want: options.Greeks{
				Price: 4.6150, Delta: 0.5695, Gamma: 0.0393,
				Vega: 0.1964, Theta: -0.0287, Rho: 0.1308,
			},
		},
		{
			name:     "atm put 3m",
			contract: options.Contract{Type: options.Put, Strike: 100, TimeToExpiry: 0.25},
			market:   options.Market{Spot: 100, Rate: 0.05, Vol: 0.20},
			want: options.Greeks{
				Price: 3.3728, Delta: -0.4305, Gamma: 0.0393,
				Vega: 0.1964, Theta: -0.0152, Rho: -0.1161,
			},
		},
		{
			name:     "itm call 6m",
			contract: options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.5},
			market:   options.Market{Spot: 105, Rate: 0.03, Vol: 0.25},
			want: options.Greeks{
				Price: 10.8715, Delta: 0.6734, Gamma: 0.0194,
				Vega: 0.2678, Theta: -0.0233, Rho: 0.2992,
			},
		},
		{
			name:     "itm put 1y",
			contract: options.Contract{Type: options.Put, Strike: 100, TimeToExpiry: 1.0},
			market:   options.Market{Spot: 95, Rate: 0.05, Vol: 0.30},
			want: options.Greeks{
				Price: 11.3963, Delta: -0.4421, Gamma: 0.0139,
				Vega: 0.3750, Theta: -0.0081, Rho: -0.5339,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PriceAndGreeks(tt.contract, tt.market)
			if err != nil {
				t.Fatalf("PriceAndGreeks() error = %v", err)
			}

			checks := []struct {
				name      string
				got, want float64
			}{
				{"price", got.Price, tt.want.Price},
				{"delta", got.Delta, tt.want.Delta},
				{"gamma", got.Gamma, tt.want.Gamma},
				{"vega", got.Vega, tt.want.Vega},
				{"theta", got.Theta, tt.want.Theta},
				{"rho", got.Rho, tt.want.Rho},
			}
			for _, c := range checks {
				if math.Abs(c.got-c.want) > 1e-4 {
					t.Errorf("%s = %.6f, want %.6f", c.name, c.got, c.want)
				}
			}
		})
	}
}

func TestPriceAndGreeks_PutCallParity(t *testing.T) {
	markets := []options.Market{
		{Spot: 100, Rate: 0.05, Vol: 0.20},
		{Spot: 80, Rate: 0.01, Vol: 0.45},
		{Spot: 130, Rate: 0.08, Vol: 0.10},
	}

	for _, m := range markets {
		for _, T := range []float64{0.1, 0.5, 2.0} {
			call, err := PriceAndGreeks(options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: T}, m)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			put, err := PriceAndGreeks(options.Contract{Type: options.Put, Strike: 100, TimeToExpiry: T}, m)
			if err != nil {
				t.Fatalf("put: %v", err)
			}

			lhs := call.Price - put.Price
			rhs := m.Spot - 100*math.Exp(-m.Rate*T)
			if math.Abs(lhs-rhs) > 1e-9 {
				t.Errorf("parity violated at S=%v T=%v: C-P = %v, S-Ke^-rT = %v", m.Spot, T, lhs, rhs)
			}

			// Delta parity: call delta - put delta = 1 without dividends.
			if math.Abs(call.Delta-put.Delta-1) > 1e-9 {
				t.Errorf("delta parity violated at S=%v T=%v", m.Spot, T)
			}
		}
	}
}

func TestPriceAndGreeks_Expired(t *testing.T) {
	tests := []struct {
		name      string
		typ       options.Type
		spot      float64
		wantPrice float64
		wantDelta float64
	}{
		{"itm call", options.Call, 110, 10, 1},
		{"otm call", options.Call, 90, 0, 0},
		{"atm call", options.Call, 100, 0, 0.5},
		{"itm put", options.Put, 90, 10, -1},
		{"otm put", options.Put, 110, 0, 0},
		{"atm put", options.Put, 100, 0, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := PriceAndGreeks(
				options.Contract{Type: tt.typ, Strike: 100, TimeToExpiry: 0},
				options.Market{Spot: tt.spot, Rate: 0.05, Vol: 0.20},
			)
			if err != nil {
				t.Fatalf("PriceAndGreeks() error = %v", err)
			}
			if g.Price != tt.wantPrice {
				t.Errorf("price = %v, want %v", g.Price, tt.wantPrice)
			}
			if g.Delta != tt.wantDelta {
				t.Errorf("delta = %v, want %v", g.Delta, tt.wantDelta)
			}
			if g.Gamma != 0 || g.Vega != 0 || g.Theta != 0 || g.Rho != 0 {
				t.Errorf("expired contract has nonzero time sensitivities: %+v", g)
			}
		})
	}
}

func TestPriceAndGreeks_ZeroVol(t *testing.T) {
	const (
		strike = 100.0
		rate   = 0.05
		tte    = 0.5
	)
	disc := math.Exp(-rate * tte)

	t.Run("itm forward call", func(t *testing.T) {
		g, err := PriceAndGreeks(
			options.Contract{Type: options.Call, Strike: strike, TimeToExpiry: tte},
			options.Market{Spot: 110, Rate: rate, Vol: 0},
		)
		if err != nil {
			t.Fatalf("PriceAndGreeks() error = %v", err)
		}
		if want := 110 - strike*disc; math.Abs(g.Price-want) > 1e-12 {
			t.Errorf("price = %v, want %v", g.Price, want)
		}
		if g.Delta != 1 {
			t.Errorf("delta = %v, want 1", g.Delta)
		}
		if g.Gamma != 0 || g.Vega != 0 {
			t.Errorf("zero-vol call has nonzero gamma/vega: %+v", g)
		}
	})

	t.Run("otm forward call", func(t *testing.T) {
		g, err := PriceAndGreeks(
			options.Contract{Type: options.Call, Strike: strike, TimeToExpiry: tte},
			options.Market{Spot: 80, Rate: rate, Vol: 0},
		)
		if err != nil {
			t.Fatalf("PriceAndGreeks() error = %v", err)
		}
		if g.Price != 0 || g.Delta != 0 {
			t.Errorf("got price=%v delta=%v, want both 0", g.Price, g.Delta)
		}
	})

	t.Run("itm put", func(t *testing.T) {
		g, err := PriceAndGreeks(
			options.Contract{Type: options.Put, Strike: strike, TimeToExpiry: tte},
			options.Market{Spot: 80, Rate: rate, Vol: 0},
		)
		if err != nil {
			t.Fatalf("PriceAndGreeks() error = %v", err)
		}
		if want := strike*disc - 80; math.Abs(g.Price-want) > 1e-12 {
			t.Errorf("price = %v, want %v", g.Price, want)
		}
		if g.Delta != -1 {
			t.Errorf("delta = %v, want -1", g.Delta)
		}
	})
}

// The normal path should approach the zero-vol limit continuously.
func TestPriceAndGreeks_VolContinuity(t *testing.T) {
	contract := options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.5}
	market := options.Market{Spot: 110, Rate: 0.05, Vol: 0}

	limit, err := PriceAndGreeks(contract, market)
	if err != nil {
		t.Fatalf("limit: %v", err)
	}

	market.Vol = 1e-6
	near, err := PriceAndGreeks(contract, market)
	if err != nil {
		t.Fatalf("near: %v", err)
	}

	if math.Abs(near.Price-limit.Price) > 1e-6 {
		t.Errorf("price discontinuity at vol->0: %v vs %v", near.Price, limit.Price)
	}
	if math.Abs(near.Delta-limit.Delta) > 1e-6 {
		t.Errorf("delta discontinuity at vol->0: %v vs %v", near.Delta, limit.Delta)
	}
}

func TestPriceAndGreeks_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		contract options.Contract
		market   options.Market
	}{
		{
			"zero strike",
			options.Contract{Type: options.Call, Strike: 0, TimeToExpiry: 0.5},
			options.Market{Spot: 100, Rate: 0.05, Vol: 0.2},
		},
		{
			"negative strike",
			options.Contract{Type: options.Call, Strike: -5, TimeToExpiry: 0.5},
			options.Market{Spot: 100, Rate: 0.05, Vol: 0.2},
		},
		{
			"negative time",
			options.Contract{Type: options.Put, Strike: 100, TimeToExpiry: -0.1},
			options.Market{Spot: 100, Rate: 0.05, Vol: 0.2},
		},
		{
			"zero spot",
			options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.5},
			options.Market{Spot: 0, Rate: 0.05, Vol: 0.2},
		},
		{
			"nan spot",
			options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.5},
			options.Market{Spot: math.NaN(), Rate: 0.05, Vol: 0.2},
		},
		{
			"negative vol",
			options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.5},
			options.Market{Spot: 100, Rate: 0.05, Vol: -0.2},
		},
		{
			"infinite rate",
			options.Contract{Type: options.Call, Strike: 100, TimeToExpiry: 0.5},
			options.Market{Spot: 100, Rate: math.Inf(1), Vol: 0.2},
		},
		{
			"bad option type",
			options.Contract{Type: "swap", Strike: 100, TimeToExpiry: 0.5},
			options.Market{Spot: 100, Rate: 0.05, Vol: 0.2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PriceAndGreeks(tt.contract, tt.market)
			if !errors.Is(err, options.ErrInvalidInput) {
				t.Errorf("PriceAndGreeks() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
