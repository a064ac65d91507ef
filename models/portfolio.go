package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Holding is a user's position in one stock symbol. A holding that
// reaches zero shares is deleted, never persisted, so a later buy of
// the same symbol starts a fresh cost basis.
type Holding struct {
	gorm.Model
	UserID       uint    `gorm:"not null;uniqueIndex:idx_holdings_user_symbol" json:"-"`
	StockSymbol  string  `gorm:"not null;uniqueIndex:idx_holdings_user_symbol" json:"stockSymbol"`
	SharesOwned  int     `gorm:"not null" json:"sharesOwned"`
	AveragePrice float64 `gorm:"not null" json:"averagePrice"`
	// Version backs the optimistic lock on concurrent trades for the
	// same (user, symbol) pair.
	Version uint `gorm:"not null;default:0" json:"-"`
}

// Transaction records one executed trade. Rows are append-only: never
// updated or deleted after creation.
type Transaction struct {
	gorm.Model
	UserID        uint      `gorm:"index;not null" json:"-"`
	StockSymbol   string    `gorm:"not null" json:"stockSymbol"`
	Type          string    `gorm:"not null" json:"type"` // BUY or SELL
	Quantity      int       `gorm:"not null" json:"quantity"`
	PricePerShare float64   `gorm:"not null" json:"pricePerShare"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
}
