package backtest

import (
	"errors"
	"testing"

	"github.com/wonny/optionlab/backend/internal/options"
)

func TestSupportedStrategies_FixedOrder(t *testing.T) {
	want := []StrategyType{StrategyLongCall, StrategyLongPut, StrategyStraddle, StrategyStrangle}
	got := SupportedStrategies()

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("strategies[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseStrategy_Legs(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		params   map[string]float64
		wantLegs []Leg
	}{
		{
			name:     "long call",
			typ:      "long_call",
			params:   map[string]float64{"strike": 100},
			wantLegs: []Leg{{Type: options.Call, Strike: 100, Quantity: 1}},
		},
		{
			name:     "long put",
			typ:      "long_put",
			params:   map[string]float64{"strike": 95},
			wantLegs: []Leg{{Type: options.Put, Strike: 95, Quantity: 1}},
		},
		{
			name:   "straddle",
			typ:    "straddle",
			params: map[string]float64{"strike": 100},
			wantLegs: []Leg{
				{Type: options.Call, Strike: 100, Quantity: 1},
				{Type: options.Put, Strike: 100, Quantity: 1},
			},
		},
		{
			name:   "strangle",
			typ:    "strangle",
			params: map[string]float64{"put_strike": 90, "call_strike": 110},
			wantLegs: []Leg{
				{Type: options.Put, Strike: 90, Quantity: 1},
				{Type: options.Call, Strike: 110, Quantity: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseStrategy(tt.typ, tt.params)
			if err != nil {
				t.Fatalf("ParseStrategy() error = %v", err)
			}
			if string(s.Type) != tt.typ {
				t.Errorf("type = %s, want %s", s.Type, tt.typ)
			}
			if len(s.Legs) != len(tt.wantLegs) {
				t.Fatalf("legs = %d, want %d", len(s.Legs), len(tt.wantLegs))
			}
			for i, leg := range tt.wantLegs {
				if s.Legs[i] != leg {
					t.Errorf("legs[%d] = %+v, want %+v", i, s.Legs[i], leg)
				}
			}
		})
	}
}

func TestParseStrategy_Unknown(t *testing.T) {
	for _, typ := range []string{"iron_condor", "", "LONG_CALL"} {
		_, err := ParseStrategy(typ, map[string]float64{"strike": 100})
		if !errors.Is(err, options.ErrUnknownStrategy) {
			t.Errorf("ParseStrategy(%q) error = %v, want ErrUnknownStrategy", typ, err)
		}
	}
}

func TestParseStrategy_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		params map[string]float64
	}{
		{"missing strike", "long_call", nil},
		{"zero strike", "long_put", map[string]float64{"strike": 0}},
		{"negative strike", "straddle", map[string]float64{"strike": -100}},
		{"missing call strike", "strangle", map[string]float64{"put_strike": 90}},
		{"inverted strangle", "strangle", map[string]float64{"put_strike": 110, "call_strike": 90}},
		{"equal strangle strikes", "strangle", map[string]float64{"put_strike": 100, "call_strike": 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStrategy(tt.typ, tt.params)
			if !errors.Is(err, options.ErrInvalidInput) {
				t.Errorf("ParseStrategy() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
