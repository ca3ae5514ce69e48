package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the EOD historical data API root
const DefaultBaseURL = "https://eodhd.com/api"

// Client fetches end-of-day closes from an EOD historical data API.
// It implements domain.PriceProvider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a market data client allowing at most rps requests per second.
// A non-positive rps disables rate limiting.
func NewClient(baseURL, apiKey string, rps float64, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// eodBar is one element of the /eod response
//
//	{"date": "2024-02-13", "open": 675.06, "close": 668.44, "adjusted_close": 67.70, "volume": 0}
type eodBar struct {
	Date          string          `json:"date"`
	Close         decimal.Decimal `json:"close"`
	AdjustedClose decimal.Decimal `json:"adjusted_close"`
}

// DailyCloses returns the closes of ticker for every trading day in [from, to], both bounds included
func (c *Client) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]domain.PricePoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	query := url.Values{}
	query.Set("fmt", "json")
	query.Set("api_token", c.apiKey)
	query.Set("from", from.Format(domain.DateFormat))
	query.Set("to", to.Format(domain.DateFormat))
	addr := fmt.Sprintf("%s/eod/%s?%s", c.baseURL, url.PathEscape(ticker), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot GET /eod/%s: %w", ticker, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "market data request", "ticker", ticker, "from", from.Format(domain.DateFormat), "to", to.Format(domain.DateFormat), "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot GET /eod/%s: %s", ticker, resp.Status)
	}

	bars := make([]eodBar, 0)
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return nil, fmt.Errorf("failed to decode /eod/%s response: %w", ticker, err)
	}

	points := make([]domain.PricePoint, 0, len(bars))
	for _, bar := range bars {
		day, err := domain.ParseDate(bar.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q in /eod/%s response: %w", bar.Date, ticker, err)
		}
		if !bar.Close.IsPositive() {
			c.logger.WarnContext(ctx, "skipping non-positive close", "ticker", ticker, "date", bar.Date)
			continue
		}
		points = append(points, domain.PricePoint{Ticker: ticker, Date: day, Close: bar.Close})
	}

	return points, nil
}
