package analyze

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Alias1177/WhalePredictor/models"
)

const topFactorCount = 3

var banners = map[models.Recommendation]string{
	models.RecommendationBuy:   "Strong BUY signal detected.",
	models.RecommendationSell:  "SELL signal detected.",
	models.RecommendationShort: "Strong SHORT signal - bearish conditions.",
	models.RecommendationHold:  "HOLD recommended - mixed signals.",
}

// RankFactors returns a copy sorted by absolute impact, largest first.
// Ties keep their catalog order.
func RankFactors(factors []models.Factor) []models.Factor {
	ranked := make([]models.Factor, len(factors))
	copy(ranked, factors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Impact) > math.Abs(ranked[j].Impact)
	})
	return ranked
}

// Reasoning renders the human-readable explanation of a prediction
func Reasoning(rec models.Recommendation, factors []models.Factor, rsi, currentPrice, ma50 float64) string {
	var b strings.Builder
	b.WriteString("Based on comprehensive analysis: ")
	b.WriteString(banners[rec])
	b.WriteString(" ")

	ranked := RankFactors(factors)
	if len(ranked) > topFactorCount {
		ranked = ranked[:topFactorCount]
	}
	names := make([]string, 0, len(ranked))
	for _, f := range ranked {
		names = append(names, f.Name)
	}
	if len(names) == 0 {
		names = append(names, "none")
	}
	fmt.Fprintf(&b, "Key factors: %s. ", strings.Join(names, ", "))

	if rsi < 30 {
		fmt.Fprintf(&b, "Market is oversold (RSI: %.1f). ", rsi)
	} else if rsi > 70 {
		fmt.Fprintf(&b, "Market is overbought (RSI: %.1f). ", rsi)
	}

	if ma50 > 0 {
		if currentPrice > ma50 {
			fmt.Fprintf(&b, "Price %.1f%% above 50-day MA.", (currentPrice-ma50)/ma50*100)
		} else {
			fmt.Fprintf(&b, "Price %.1f%% below 50-day MA.", (ma50-currentPrice)/ma50*100)
		}
	}

	return strings.TrimSpace(b.String())
}
