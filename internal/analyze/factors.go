package analyze

import (
	"fmt"
	"math"

	"github.com/Alias1177/WhalePredictor/models"
)

// FactorInputs is everything the factor rules look at
type FactorInputs struct {
	Indicators   models.IndicatorSnapshot
	Correlations models.CorrelationSet
	Whales       models.WhaleActivitySummary
	GeoImpact    float64
}

// Rule turns one condition on the inputs into a scored factor
type Rule struct {
	Name     string
	Applies  func(in FactorInputs) bool
	Impact   func(in FactorInputs) float64
	Describe func(in FactorInputs) string
}

func fixed(impact float64) func(FactorInputs) float64 {
	return func(FactorInputs) float64 { return impact }
}

func text(s string) func(FactorInputs) string {
	return func(FactorInputs) string { return s }
}

// Catalog is the ordered rule table. Rules are independent: any number may fire.
var Catalog = []Rule{
	{
		Name:    "RSI Oversold",
		Applies: func(in FactorInputs) bool { return in.Indicators.RSI14 < 30 },
		Impact:  fixed(3),
		Describe: func(in FactorInputs) string {
			return fmt.Sprintf("RSI at %.1f indicates oversold conditions - potential bounce", in.Indicators.RSI14)
		},
	},
	{
		Name:    "RSI Overbought",
		Applies: func(in FactorInputs) bool { return in.Indicators.RSI14 > 70 },
		Impact:  fixed(-3),
		Describe: func(in FactorInputs) string {
			return fmt.Sprintf("RSI at %.1f indicates overbought conditions - potential correction", in.Indicators.RSI14)
		},
	},
	{
		Name: "Golden Cross Pattern",
		Applies: func(in FactorInputs) bool {
			return in.Indicators.MA20 > in.Indicators.MA50 && in.Indicators.MA50 > in.Indicators.MA200
		},
		Impact:   fixed(4),
		Describe: text("All major moving averages aligned bullishly"),
	},
	{
		Name: "Death Cross Pattern",
		Applies: func(in FactorInputs) bool {
			return in.Indicators.MA20 < in.Indicators.MA50 && in.Indicators.MA50 < in.Indicators.MA200
		},
		Impact:   fixed(-4),
		Describe: text("All major moving averages aligned bearishly"),
	},
	{
		Name: "Strong Uptrend",
		Applies: func(in FactorInputs) bool {
			return in.Indicators.ShortTrendPct > 5 && in.Indicators.MediumTrendPct > 3
		},
		Impact: fixed(3),
		Describe: func(in FactorInputs) string {
			return fmt.Sprintf("Price %.1f%% above MA20, momentum building", in.Indicators.ShortTrendPct)
		},
	},
	{
		Name: "Strong Downtrend",
		Applies: func(in FactorInputs) bool {
			return in.Indicators.ShortTrendPct < -5 && in.Indicators.MediumTrendPct < -3
		},
		Impact: fixed(-3),
		Describe: func(in FactorInputs) string {
			return fmt.Sprintf("Price %.1f%% below MA20, bearish momentum", math.Abs(in.Indicators.ShortTrendPct))
		},
	},
	{
		Name:    "S&P 500 Correlation",
		Applies: func(in FactorInputs) bool { return math.Abs(in.Correlations.SP500) > 0.5 },
		Impact: func(in FactorInputs) float64 {
			if in.Correlations.SP500 > 0 {
				return 2
			}
			return -2
		},
		Describe: func(in FactorInputs) string {
			return fmt.Sprintf("%.0f%% correlation with stock market", in.Correlations.SP500*100)
		},
	},
	{
		// fear rising alongside BTC is read as bearish, so the sign is inverted
		Name:    "Market Fear Index",
		Applies: func(in FactorInputs) bool { return math.Abs(in.Correlations.VIX) > 0.4 },
		Impact: func(in FactorInputs) float64 {
			if in.Correlations.VIX < 0 {
				return 2
			}
			return -2
		},
		Describe: text("High market volatility affecting crypto sentiment"),
	},
	{
		Name: "Whale Accumulation",
		Applies: func(in FactorInputs) bool {
			return float64(in.Whales.AccumulationCount) > 1.5*float64(in.Whales.DistributionCount)
		},
		Impact: fixed(3),
		Describe: func(in FactorInputs) string {
			return fmt.Sprintf("%d whale withdrawals vs %d deposits - accumulation phase",
				in.Whales.AccumulationCount, in.Whales.DistributionCount)
		},
	},
	{
		Name: "Whale Distribution",
		Applies: func(in FactorInputs) bool {
			return float64(in.Whales.DistributionCount) > 1.5*float64(in.Whales.AccumulationCount)
		},
		Impact: fixed(-3),
		Describe: func(in FactorInputs) string {
			return fmt.Sprintf("%d whale deposits vs %d withdrawals - distribution phase",
				in.Whales.DistributionCount, in.Whales.AccumulationCount)
		},
	},
	{
		Name:    "Geopolitical Impact",
		Applies: func(in FactorInputs) bool { return math.Abs(in.GeoImpact) > 1 },
		// passes through unclamped
		Impact: func(in FactorInputs) float64 { return in.GeoImpact },
		Describe: func(in FactorInputs) string {
			if in.GeoImpact > 0 {
				return "Recent events creating positive market sentiment"
			}
			return "Recent events creating negative market pressure"
		},
	},
}

// BuildFactors evaluates every catalog rule in order and collects those that fire
func BuildFactors(in FactorInputs) []models.Factor {
	return buildFactors(Catalog, in)
}

func buildFactors(rules []Rule, in FactorInputs) []models.Factor {
	factors := make([]models.Factor, 0, len(rules))
	for _, rule := range rules {
		if !rule.Applies(in) {
			continue
		}
		factors = append(factors, models.Factor{
			Name:        rule.Name,
			Impact:      rule.Impact(in),
			Description: rule.Describe(in),
		})
	}
	return factors
}
