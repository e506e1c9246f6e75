package market

import (
	"context"
	"fmt"
	"time"

	"github.com/Alias1177/WhalePredictor/models"
)

// WhaleSource loads recorded whale transactions
type WhaleSource interface {
	WhaleTransactions(ctx context.Context, since time.Time) ([]models.WhaleTransaction, error)
}

// WhaleAnalyzer summarises exchange flows of large holders
type WhaleAnalyzer struct {
	source WhaleSource
	now    func() time.Time
}

// NewWhaleAnalyzer creates an analyzer over source
func NewWhaleAnalyzer(source WhaleSource) *WhaleAnalyzer {
	return &WhaleAnalyzer{source: source, now: time.Now}
}

// WhaleActivity implements models.WhaleActivityProvider
func (a *WhaleAnalyzer) WhaleActivity(ctx context.Context, days int) (models.WhaleActivitySummary, error) {
	txs, err := a.source.WhaleTransactions(ctx, models.DaysAgo(a.now(), days))
	if err != nil {
		return models.WhaleActivitySummary{}, fmt.Errorf("loading whale transactions: %w", err)
	}
	return SummarizeWhales(txs), nil
}

// SummarizeWhales counts withdrawals as accumulation and deposits as distribution.
// Volume covers every transaction, including unclassified transfers.
func SummarizeWhales(txs []models.WhaleTransaction) models.WhaleActivitySummary {
	var summary models.WhaleActivitySummary
	for _, tx := range txs {
		summary.TotalVolume += tx.Value
		switch tx.Classification {
		case models.ClassificationExchangeWithdrawal:
			summary.AccumulationCount++
		case models.ClassificationExchangeDeposit:
			summary.DistributionCount++
		}
	}
	return summary
}
