package pricefeed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alias1177/WhalePredictor/models"
)

// DefaultSyntheticBasePrice is the anchor of the synthetic random walk
const DefaultSyntheticBasePrice = 95000.0

// SyntheticProvider produces a clearly labelled random price series.
// It exists so the service keeps answering when every live source is down.
type SyntheticProvider struct {
	basePrice float64
	now       func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSyntheticProvider creates a provider anchored at basePrice; seed fixes the sequence
func NewSyntheticProvider(basePrice float64, seed int64) *SyntheticProvider {
	if basePrice <= 0 {
		basePrice = DefaultSyntheticBasePrice
	}
	return &SyntheticProvider{
		basePrice: basePrice,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(seed)),
	}
}

// PriceHistory returns days daily points ending now. Deviation from the base
// shrinks toward the present: price = base * (1 + (r-0.5)*0.1 * i/days), rounded to cents.
func (p *SyntheticProvider) PriceHistory(_ context.Context, days int) (models.PriceHistory, error) {
	if days <= 0 {
		return models.PriceHistory{}, fmt.Errorf("days must be positive, got %d", days)
	}

	now := p.now().UTC()
	points := make([]models.PricePoint, 0, days)

	p.mu.Lock()
	defer p.mu.Unlock()

	for i := days - 1; i >= 0; i-- {
		swing := (p.rnd.Float64() - 0.5) * 0.1
		price := p.basePrice * (1 + swing*(float64(i)/float64(days)))
		points = append(points, models.PricePoint{
			Timestamp: now.AddDate(0, 0, -i),
			Price:     decimal.NewFromFloat(price).Round(2).InexactFloat64(),
		})
	}

	return models.PriceHistory{Points: points, Source: models.SourceSynthetic}, nil
}
