package backtest

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metric helpers derived purely from an equity curve. The curve is the
// single source of truth: every summary statistic in a Result can be
// recomputed from it with these functions.

// PeriodReturns converts an equity curve into period-over-period returns.
func PeriodReturns(curve []float64) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		returns = append(returns, curve[i]/curve[i-1]-1)
	}
	return returns
}

// TotalReturn is curve[last]/curve[0] - 1.
func TotalReturn(curve []float64) float64 {
	if len(curve) == 0 || curve[0] == 0 {
		return 0
	}
	return curve[len(curve)-1]/curve[0] - 1
}

// MaxDrawdown is the largest peak-to-trough relative decline over the curve.
func MaxDrawdown(curve []float64) float64 {
	if len(curve) == 0 {
		return 0
	}

	maxDD := 0.0
	peak := curve[0]
	for _, equity := range curve {
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := 1 - equity/peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio annualizes mean excess period return over its standard
// deviation. riskFree is the annualized risk-free rate; zero volatility
// yields zero rather than a division blowup.
func SharpeRatio(returns []float64, periodsPerYear int, riskFree float64) float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return 0
	}

	perPeriodRF := riskFree / float64(periodsPerYear)
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - perPeriodRF
	}

	mean := stat.Mean(excess, nil)
	sd := stat.StdDev(excess, nil)
	if sd == 0 {
		return 0
	}
	return mean / sd * math.Sqrt(float64(periodsPerYear))
}

// AnnualizedVolatility scales the period-return standard deviation by the
// square root of the period count per year.
func AnnualizedVolatility(returns []float64, periodsPerYear int) float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(float64(periodsPerYear))
}
