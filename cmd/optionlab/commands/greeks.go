package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/optionlab/backend/internal/options"
	"github.com/wonny/optionlab/backend/internal/pricing"
)

// greeksCmd prices one contract from the command line.
var greeksCmd = &cobra.Command{
	Use:   "greeks",
	Short: "Price one option contract with full greeks",
	Long: `Price a European option with the Black-Scholes model and print its
full sensitivity set.

Example:
  go run ./cmd/optionlab greeks --type call --strike 100 --spot 105 --vol 0.25 --tte 0.25 --rate 0.05`,
	RunE: runGreeks,
}

var (
	greeksType   string
	greeksStrike float64
	greeksTTE    float64
	greeksSpot   float64
	greeksRate   float64
	greeksVol    float64
)

func init() {
	rootCmd.AddCommand(greeksCmd)

	greeksCmd.Flags().StringVar(&greeksType, "type", "call", "option type (call|put)")
	greeksCmd.Flags().Float64Var(&greeksStrike, "strike", 0, "strike price")
	greeksCmd.Flags().Float64Var(&greeksTTE, "tte", 0, "time to expiration in years")
	greeksCmd.Flags().Float64Var(&greeksSpot, "spot", 0, "underlying price")
	greeksCmd.Flags().Float64Var(&greeksRate, "rate", 0.05, "annualized risk-free rate")
	greeksCmd.Flags().Float64Var(&greeksVol, "vol", 0.25, "annualized volatility")

	greeksCmd.MarkFlagRequired("strike")
	greeksCmd.MarkFlagRequired("spot")
}

func runGreeks(cmd *cobra.Command, args []string) error {
	optType, err := options.ParseType(greeksType)
	if err != nil {
		return err
	}

	contract := options.Contract{
		Type:         optType,
		Strike:       greeksStrike,
		TimeToExpiry: greeksTTE,
	}
	market := options.Market{
		Spot: greeksSpot,
		Rate: greeksRate,
		Vol:  greeksVol,
	}

	g, err := pricing.PriceAndGreeks(contract, market)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s K=%.2f T=%.4fy  @  S=%.2f r=%.2f%% vol=%.2f%%\n",
		optType, contract.Strike, contract.TimeToExpiry,
		market.Spot, market.Rate*100, market.Vol*100)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Price : %12.4f\n", g.Price)
	fmt.Printf("  Delta : %12.4f\n", g.Delta)
	fmt.Printf("  Gamma : %12.4f\n", g.Gamma)
	fmt.Printf("  Vega  : %12.4f  (per 1%% vol)\n", g.Vega)
	fmt.Printf("  Theta : %12.4f  (per calendar day)\n", g.Theta)
	fmt.Printf("  Rho   : %12.4f  (per 1%% rate)\n", g.Rho)
	fmt.Println("═══════════════════════════════════════════════════════════")

	return nil
}
