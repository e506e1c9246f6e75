package market

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Alias1177/WhalePredictor/models"
)

// EventSource loads geopolitical events
type EventSource interface {
	GeopoliticalEvents(ctx context.Context, since time.Time) ([]models.GeopoliticalEvent, error)
}

// GeopoliticalAnalyzer turns recent events into a single impact score
type GeopoliticalAnalyzer struct {
	source EventSource
	now    func() time.Time
}

// NewGeopoliticalAnalyzer creates an analyzer over source
func NewGeopoliticalAnalyzer(source EventSource) *GeopoliticalAnalyzer {
	return &GeopoliticalAnalyzer{source: source, now: time.Now}
}

// GeopoliticalImpact implements models.GeopoliticalProvider
func (a *GeopoliticalAnalyzer) GeopoliticalImpact(ctx context.Context, days int) (float64, error) {
	now := a.now()
	events, err := a.source.GeopoliticalEvents(ctx, models.DaysAgo(now, days))
	if err != nil {
		return 0, fmt.Errorf("loading geopolitical events: %w", err)
	}
	return WeightedImpact(events, now, days), nil
}

// WeightedImpact averages impact * severity/10 * recency over the events,
// where recency falls linearly from 1 today to 0 at the window edge
// (whole days elapsed, future-dated events count as today). No events gives 0.
func WeightedImpact(events []models.GeopoliticalEvent, now time.Time, days int) float64 {
	if len(events) == 0 || days <= 0 {
		return 0
	}

	var total float64
	for _, e := range events {
		daysAgo := math.Max(0, math.Floor(now.Sub(e.Date).Hours()/24))
		recency := math.Max(0, 1-daysAgo/float64(days))
		total += e.ImpactOnBTC * (e.Severity / 10) * recency
	}

	return total / float64(len(events))
}
