package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/WhalePredictor/internal/platform/http"
	"github.com/Alias1177/WhalePredictor/models"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client is the CoinGecko API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new CoinGecko client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
	RetryInterval   time.Duration
}

// NewClient creates a new CoinGecko API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Name:            "coingecko",
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetryTimeout: options.MaxRetryTimeout,
		RetryInterval:   options.RetryInterval,
	}

	// Apply defaults if not set
	if httpOpts.Timeout == 0 {
		httpOpts.Timeout = 10 * time.Second
	}
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    options.BaseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "coingecko_client").Logger(),
	}
}

// marketChartResponse is the body of /coins/{id}/market_chart; each entry is [unix ms, price]
type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// PriceHistory fetches daily BTC/USD prices for the last days days, oldest first
func (c *Client) PriceHistory(ctx context.Context, days int) (models.PriceHistory, error) {
	if days <= 0 {
		return models.PriceHistory{}, fmt.Errorf("days must be positive, got %d", days)
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))
	query.Set("interval", "daily")
	endpoint := fmt.Sprintf("%s/coins/bitcoin/market_chart?%s", c.baseURL, query.Encode())

	c.logger.Debug().Str("url", endpoint).Msg("Fetching price history")

	// Create a new request with context
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.PriceHistory{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return models.PriceHistory{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PriceHistory{}, fmt.Errorf("reading response body: %w", err)
	}

	var data marketChartResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return models.PriceHistory{}, fmt.Errorf("parsing JSON: %w", err)
	}

	if len(data.Prices) == 0 {
		c.logger.Warn().Str("response", string(body)).Msg("No prices in response")
		return models.PriceHistory{}, fmt.Errorf("empty data returned")
	}

	points := make([]models.PricePoint, 0, len(data.Prices))
	for _, p := range data.Prices {
		points = append(points, models.PricePoint{
			Timestamp: time.UnixMilli(int64(p[0])).UTC(),
			Price:     p[1],
		})
	}

	// oldest first for proper calculations
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	c.logger.Debug().Int("count", len(points)).Msg("Fetched price history")
	return models.PriceHistory{Points: points, Source: models.SourceLive}, nil
}
