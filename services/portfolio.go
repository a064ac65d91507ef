package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"virtual-stock-trader/models"
)

// errVersionConflict marks a trade that lost an optimistic-lock race
// and should be retried from the top.
var errVersionConflict = errors.New("holding version conflict")

const (
	maxTradeRetries = 5
	retryBackoff    = 10 * time.Millisecond
)

// TradeRequest carries the already-validated parameters of one buy or
// sell. Quantity >= 1 and Price >= 0 are enforced at the binding layer.
type TradeRequest struct {
	StockSymbol string
	Quantity    int
	Price       float64
}

type PortfolioService struct {
	db *gorm.DB
}

func NewPortfolioService(db *gorm.DB) *PortfolioService {
	return &PortfolioService{db: db}
}

// GetHoldings returns all of the user's current holdings.
func (s *PortfolioService) GetHoldings(user *models.User) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Where("user_id = ?", user.ID).Order("stock_symbol").Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	return holdings, nil
}

// GetTransactions returns the user's trade history, newest first.
func (s *PortfolioService) GetTransactions(user *models.User) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.Where("user_id = ?", user.ID).Order("timestamp DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// Buy adds shares to the user's holding for the symbol, recomputing the
// weighted-average cost basis, and appends a BUY transaction. The whole
// read-modify-write runs in one database transaction; a lost race on
// the holding's version column is retried a bounded number of times.
func (s *PortfolioService) Buy(user *models.User, req TradeRequest) (*models.Holding, error) {
	var result models.Holding
	for attempt := 1; ; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var holding models.Holding
			err := tx.Where("user_id = ? AND stock_symbol = ?", user.ID, req.StockSymbol).
				First(&holding).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				holding = models.Holding{
					UserID:       user.ID,
					StockSymbol:  req.StockSymbol,
					SharesOwned:  req.Quantity,
					AveragePrice: req.Price,
				}
				if err := tx.Create(&holding).Error; err != nil {
					// A concurrent first buy can slip in between the
					// lookup and the insert; the unique (user, symbol)
					// index turns that into a retryable conflict.
					if isUniqueViolation(err) {
						return errVersionConflict
					}
					return fmt.Errorf("create holding: %w", err)
				}
			case err != nil:
				return fmt.Errorf("load holding: %w", err)
			default:
				newShares := holding.SharesOwned + req.Quantity
				totalCost := float64(holding.SharesOwned)*holding.AveragePrice +
					float64(req.Quantity)*req.Price
				newAvgPrice := totalCost / float64(newShares)

				res := tx.Model(&models.Holding{}).
					Where("id = ? AND version = ?", holding.ID, holding.Version).
					Updates(map[string]interface{}{
						"shares_owned":  newShares,
						"average_price": newAvgPrice,
						"version":       holding.Version + 1,
					})
				if res.Error != nil {
					return fmt.Errorf("update holding: %w", res.Error)
				}
				if res.RowsAffected == 0 {
					return errVersionConflict
				}
				holding.SharesOwned = newShares
				holding.AveragePrice = newAvgPrice
				holding.Version++
			}

			if err := appendTransaction(tx, user.ID, req, models.SideBuy); err != nil {
				return err
			}
			result = holding
			return nil
		})
		if err == nil {
			return &result, nil
		}
		if errors.Is(err, errVersionConflict) && attempt <= maxTradeRetries {
			log.WithFields(log.Fields{
				"user":    user.ID,
				"symbol":  req.StockSymbol,
				"attempt": attempt,
			}).Warn("buy hit a concurrent update, retrying")
			time.Sleep(retryBackoff)
			continue
		}
		return nil, fmt.Errorf("buy %s: %w", req.StockSymbol, err)
	}
}

// Sell removes shares from the user's holding and appends a SELL
// transaction. The average price never changes on a sell; cost basis
// only moves on buys. Selling every owned share deletes the holding row
// and the returned holding reports zero shares at the old average.
func (s *PortfolioService) Sell(user *models.User, req TradeRequest) (*models.Holding, error) {
	var result models.Holding
	for attempt := 1; ; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var holding models.Holding
			err := tx.Where("user_id = ? AND stock_symbol = ?", user.ID, req.StockSymbol).
				First(&holding).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoSuchHolding
			}
			if err != nil {
				return fmt.Errorf("load holding: %w", err)
			}

			if holding.SharesOwned < req.Quantity {
				return &InsufficientSharesError{
					Symbol:    req.StockSymbol,
					Owned:     holding.SharesOwned,
					Requested: req.Quantity,
				}
			}

			remaining := holding.SharesOwned - req.Quantity
			if remaining == 0 {
				// Fully closed position: drop the row so a stale
				// zero-share holding can never pollute the weighted
				// average of a future buy.
				res := tx.Unscoped().
					Where("id = ? AND version = ?", holding.ID, holding.Version).
					Delete(&models.Holding{})
				if res.Error != nil {
					return fmt.Errorf("delete holding: %w", res.Error)
				}
				if res.RowsAffected == 0 {
					return errVersionConflict
				}
				holding.SharesOwned = 0
			} else {
				res := tx.Model(&models.Holding{}).
					Where("id = ? AND version = ?", holding.ID, holding.Version).
					Updates(map[string]interface{}{
						"shares_owned": remaining,
						"version":      holding.Version + 1,
					})
				if res.Error != nil {
					return fmt.Errorf("update holding: %w", res.Error)
				}
				if res.RowsAffected == 0 {
					return errVersionConflict
				}
				holding.SharesOwned = remaining
				holding.Version++
			}

			if err := appendTransaction(tx, user.ID, req, models.SideSell); err != nil {
				return err
			}
			result = holding
			return nil
		})
		if err == nil {
			return &result, nil
		}
		if errors.Is(err, errVersionConflict) && attempt <= maxTradeRetries {
			log.WithFields(log.Fields{
				"user":    user.ID,
				"symbol":  req.StockSymbol,
				"attempt": attempt,
			}).Warn("sell hit a concurrent update, retrying")
			time.Sleep(retryBackoff)
			continue
		}
		return nil, err
	}
}

func appendTransaction(tx *gorm.DB, userID uint, req TradeRequest, side string) error {
	txn := models.Transaction{
		UserID:        userID,
		StockSymbol:   req.StockSymbol,
		Type:          side,
		Quantity:      req.Quantity,
		PricePerShare: req.Price,
		Timestamp:     time.Now(),
	}
	if err := tx.Create(&txn).Error; err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key")
}
