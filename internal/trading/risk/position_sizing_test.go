package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/WhalePredictor/models"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name       string
		volatility float64
		expected   models.RiskLevel
	}{
		{"calm", 500, models.RiskLow},
		{"just under 2%", 1999.99, models.RiskLow},
		{"exactly 2% is medium", 2000, models.RiskMedium},
		{"just under 5%", 4999.99, models.RiskMedium},
		{"exactly 5% is high", 5000, models.RiskHigh},
		{"wild", 12000, models.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Assess(tt.volatility, 100000))
		})
	}
}

func TestTradeSetup(t *testing.T) {
	t.Run("buy", func(t *testing.T) {
		levels := TradeSetup(models.RecommendationBuy, 100000, 105000)
		require.NotNil(t, levels)
		assert.Equal(t, 100000.0, levels.EntryPrice)
		assert.InDelta(t, 95000, levels.StopLoss, 1e-9)
		assert.Equal(t, 105000.0, levels.TakeProfit)
	})

	for _, rec := range []models.Recommendation{models.RecommendationSell, models.RecommendationShort} {
		t.Run(string(rec), func(t *testing.T) {
			levels := TradeSetup(rec, 100000, 94000)
			require.NotNil(t, levels)
			assert.Equal(t, 100000.0, levels.EntryPrice)
			assert.InDelta(t, 105000, levels.StopLoss, 1e-9)
			assert.Equal(t, 94000.0, levels.TakeProfit)
		})
	}

	t.Run("hold has no levels", func(t *testing.T) {
		assert.Nil(t, TradeSetup(models.RecommendationHold, 100000, 100500))
	})
}
