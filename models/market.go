package models

import (
	"time"

	"gorm.io/gorm"
)

type StockPrice struct {
	gorm.Model
	Symbol    string    `gorm:"index" json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
