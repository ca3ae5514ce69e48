package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

const (
	// DefaultTTL bounds how long a resolved close stays cached
	DefaultTTL = 24 * time.Hour

	// FallbackTTL bounds entries answered by an earlier trading day, which the
	// provider may supersede once the requested day closes
	FallbackTTL = 15 * time.Minute
)

// PriceCache implements domain.PriceCache on top of Redis
type PriceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// cachedPrice is the JSON payload stored under a price key
type cachedPrice struct {
	Ticker string          `json:"ticker"`
	Date   string          `json:"date"`
	Close  decimal.Decimal `json:"close"`
}

// NewRedisClient creates a Redis client and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewPriceCache creates a price cache; a non-positive ttl falls back to DefaultTTL
func NewPriceCache(client *redis.Client, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PriceCache{client: client, ttl: ttl}
}

// Key returns the Redis key for the close of ticker on day
func Key(ticker string, day time.Time) string {
	return fmt.Sprintf("price:%s:%s", ticker, day.Format(domain.DateFormat))
}

// Get returns the cached close requested for day. The point may be dated earlier
// than day when day was not a trading day.
func (c *PriceCache) Get(ctx context.Context, ticker string, day time.Time) (*domain.PricePoint, bool, error) {
	raw, err := c.client.Get(ctx, Key(ticker, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached price: %w", err)
	}

	var payload cachedPrice
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached price: %w", err)
	}

	date, err := domain.ParseDate(payload.Date)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode cached price: %w", err)
	}

	return &domain.PricePoint{Ticker: payload.Ticker, Date: date, Close: payload.Close}, true, nil
}

// Set caches point as the answer for ticker on day.
// A point dated before day expires after at most FallbackTTL.
func (c *PriceCache) Set(ctx context.Context, ticker string, day time.Time, point *domain.PricePoint) error {
	raw, err := json.Marshal(cachedPrice{
		Ticker: point.Ticker,
		Date:   point.Date.Format(domain.DateFormat),
		Close:  point.Close,
	})
	if err != nil {
		return fmt.Errorf("failed to encode price: %w", err)
	}

	ttl := c.ttl
	if point.Date.Before(domain.TruncateDate(day)) && ttl > FallbackTTL {
		ttl = FallbackTTL
	}

	if err := c.client.Set(ctx, Key(ticker, day), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache price: %w", err)
	}
	return nil
}
