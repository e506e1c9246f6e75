package models

import (
	"time"
)

// PricePoint is a single BTC/USD observation
type PricePoint struct {
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Price     float64   `json:"price" db:"price"`
}

// DataSource tells where a price history came from
type DataSource string

const (
	SourceLive      DataSource = "live"
	SourceCache     DataSource = "cache"
	SourceSynthetic DataSource = "synthetic"
)

// PriceHistory is an ascending-by-time price series together with its origin
type PriceHistory struct {
	Points []PricePoint `json:"points"`
	Source DataSource   `json:"source"`
}

// Prices returns the bare price values in series order
func (h PriceHistory) Prices() []float64 {
	prices := make([]float64, len(h.Points))
	for i, p := range h.Points {
		prices[i] = p.Price
	}
	return prices
}

// IndicatorSnapshot holds the technical indicators derived at prediction time
type IndicatorSnapshot struct {
	CurrentPrice   float64 `json:"currentPrice"`
	RSI14          float64 `json:"rsi14"`
	MA20           float64 `json:"ma20"`
	MA50           float64 `json:"ma50"`
	MA200          float64 `json:"ma200"`
	ShortTrendPct  float64 `json:"shortTrendPct"`  // % distance from MA20
	MediumTrendPct float64 `json:"mediumTrendPct"` // % distance from MA50
	LongTrendPct   float64 `json:"longTrendPct"`   // % distance from MA200
	Volatility     float64 `json:"volatility"`     // population std-dev of the last 30 prices
}

// CorrelationSet holds Pearson coefficients between BTC and macro channels
type CorrelationSet struct {
	SP500       float64 `json:"btcSP500"`
	Gold        float64 `json:"btcGold"`
	DollarIndex float64 `json:"btcDollar"`
	Oil         float64 `json:"btcOil"`
	VIX         float64 `json:"btcVix"`
}

// WhaleActivitySummary counts classified whale transactions over a lookback window
type WhaleActivitySummary struct {
	AccumulationCount int     `json:"accumulationCount"` // exchange withdrawals
	DistributionCount int     `json:"distributionCount"` // exchange deposits
	TotalVolume       float64 `json:"totalVolume"`
}

// Factor is a named, signed contribution to the aggregate signal
type Factor struct {
	Name        string  `json:"name"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// Recommendation is the trading action derived from the total signal
type Recommendation string

const (
	RecommendationBuy   Recommendation = "buy"
	RecommendationSell  Recommendation = "sell"
	RecommendationShort Recommendation = "short"
	RecommendationHold  Recommendation = "hold"
)

// RiskLevel classifies recent volatility relative to price
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// PredictionResult is the finished output of one prediction run
type PredictionResult struct {
	ID             string             `json:"id"`
	GeneratedAt    time.Time          `json:"generatedAt"`
	Recommendation Recommendation     `json:"recommendation"`
	Confidence     float64            `json:"confidence"`
	PredictedPrice float64            `json:"predictedPrice"`
	CurrentPrice   float64            `json:"currentPrice"`
	Strength       float64            `json:"strength"`
	Timeframe      Timeframe          `json:"timeframe"`
	RiskLevel      RiskLevel          `json:"riskLevel"`
	Factors        []Factor           `json:"factors"`
	EntryPrice     *float64           `json:"entryPrice,omitempty"`
	StopLoss       *float64           `json:"stopLoss,omitempty"`
	TakeProfit     *float64           `json:"takeProfit,omitempty"`
	Reasoning      string             `json:"reasoning"`
	DataSource     DataSource         `json:"dataSource"`
	Indicators     *IndicatorSnapshot `json:"indicators,omitempty"`
}

// PredictionRecord is a prediction as stored by the persistence layer
type PredictionRecord struct {
	ID             string    `json:"id" db:"id"`
	Timestamp      time.Time `json:"timestamp" db:"created_at"`
	CurrentPrice   float64   `json:"currentPrice" db:"current_price"`
	PredictedPrice float64   `json:"predictedPrice" db:"predicted_price"`
	Confidence     float64   `json:"confidence" db:"confidence"`
	Recommendation string    `json:"recommendation" db:"recommendation"`
	Strength       float64   `json:"strength" db:"strength"`
	Timeframe      string    `json:"timeframe" db:"timeframe"`
	RiskLevel      string    `json:"riskLevel" db:"risk_level"`
	EntryPrice     *float64  `json:"entryPrice,omitempty" db:"entry_price"`
	StopLoss       *float64  `json:"stopLoss,omitempty" db:"stop_loss"`
	TakeProfit     *float64  `json:"takeProfit,omitempty" db:"take_profit"`
	Factors        string    `json:"factors" db:"factors"` // JSON-encoded []Factor
	DataSource     string    `json:"dataSource" db:"data_source"`
}

// Whale transaction classifications that feed the whale activity summary
const (
	ClassificationExchangeWithdrawal = "Exchange Withdrawal"
	ClassificationExchangeDeposit    = "Exchange Deposit"
	ClassificationLargeTransfer      = "Large Transfer"
)

// WhaleTransaction is an on-chain transfer above the whale threshold
type WhaleTransaction struct {
	Hash           string    `json:"hash" db:"hash"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	Value          float64   `json:"value" db:"value"` // BTC
	USDValue       float64   `json:"usdValue" db:"usd_value"`
	Classification string    `json:"classification" db:"classification"`
	FromAddress    string    `json:"fromAddress" db:"from_address"`
	ToAddress      string    `json:"toAddress" db:"to_address"`
}

// GeopoliticalEvent is a dated event with an estimated BTC impact
type GeopoliticalEvent struct {
	ID          int64     `json:"id" db:"id"`
	Date        time.Time `json:"date" db:"date"`
	Type        string    `json:"type" db:"type"`
	Severity    float64   `json:"severity" db:"severity"` // 1-10
	Description string    `json:"description" db:"description"`
	ImpactOnBTC float64   `json:"impactOnBTC" db:"impact_on_btc"`
	Region      string    `json:"region,omitempty" db:"region"`
	Duration    int       `json:"duration,omitempty" db:"duration"` // days
}

// MacroSample is one daily row of BTC price alongside macro indicators.
// A zero macro value means no data for that channel on that day.
type MacroSample struct {
	Date        time.Time `json:"date" db:"date"`
	BTCPrice    float64   `json:"btcPrice" db:"btc_price"`
	SP500       float64   `json:"sp500" db:"sp500"`
	Gold        float64   `json:"goldPrice" db:"gold_price"`
	DollarIndex float64   `json:"dollarIndex" db:"dollar_index"`
	Oil         float64   `json:"oilPrice" db:"oil_price"`
	VIX         float64   `json:"vixIndex" db:"vix_index"`
}

// PredictionComparison matches a stored prediction with the price that followed it
type PredictionComparison struct {
	Timestamp      time.Time `json:"timestamp"`
	PredictedPrice float64   `json:"predictedPrice"`
	ActualPrice    float64   `json:"actualPrice"`
	CurrentPrice   float64   `json:"currentPrice"`
	Confidence     float64   `json:"confidence"`
	Recommendation string    `json:"recommendation"`
	Timeframe      string    `json:"timeframe"`
	ErrorPct       *float64  `json:"error"`
	DirectionHit   *bool     `json:"directionHit,omitempty"`
}

// ComparisonSummary aggregates a set of prediction comparisons
type ComparisonSummary struct {
	Total           int     `json:"total"`
	Matched         int     `json:"matched"`
	MeanAbsErrorPct float64 `json:"meanAbsErrorPct"`
	HitRatePct      float64 `json:"hitRatePct"`
}
