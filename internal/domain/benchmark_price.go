package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint represents the closing price of a benchmark instrument on a trading day.
// It tracks the same real-world value the deposit records capture at entry time.
type PricePoint struct {
	Ticker string
	Date   time.Time       // trading day, midnight UTC
	Close  decimal.Decimal // closing price, always positive
}
