package models

import (
	"fmt"
	"time"
)

// Timeframe is the prediction horizon label requested by a caller.
// It is echoed into the result and does not change the scoring thresholds.
type Timeframe string

const (
	Timeframe1h  Timeframe = "1h"
	Timeframe24h Timeframe = "24h"
	Timeframe7d  Timeframe = "7d"
	Timeframe30d Timeframe = "30d"

	DefaultTimeframe = Timeframe24h
)

// ParseTimeframe validates a timeframe string; empty means the default
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case "":
		return DefaultTimeframe, nil
	case Timeframe1h, Timeframe24h, Timeframe7d, Timeframe30d:
		return tf, nil
	default:
		return "", fmt.Errorf("unsupported timeframe %q (want 1h, 24h, 7d or 30d)", s)
	}
}

// DaysAgo returns the start of a lookback window of the given number of days
func DaysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}
