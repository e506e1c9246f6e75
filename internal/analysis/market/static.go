package market

import (
	"context"

	"github.com/Alias1177/WhalePredictor/models"
)

// Static serves fixed inputs. The zero value is a neutral market,
// used when no database is configured.
type Static struct {
	CorrelationSet models.CorrelationSet
	Summary        models.WhaleActivitySummary
	Impact         float64
}

// Correlations implements models.CorrelationProvider
func (s Static) Correlations(context.Context, int) (models.CorrelationSet, error) {
	return s.CorrelationSet, nil
}

// WhaleActivity implements models.WhaleActivityProvider
func (s Static) WhaleActivity(context.Context, int) (models.WhaleActivitySummary, error) {
	return s.Summary, nil
}

// GeopoliticalImpact implements models.GeopoliticalProvider
func (s Static) GeopoliticalImpact(context.Context, int) (float64, error) {
	return s.Impact, nil
}
