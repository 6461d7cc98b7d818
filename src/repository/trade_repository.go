package repository

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/model"
)

// TradeRepository handles read/write operations for journal trades.
type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new repository instance on top of the given database.
func NewTradeRepository(db *gorm.DB) *TradeRepository {
	logger.WithField("component", "TradeRepository").
		Info("Creating new TradeRepository")

	return &TradeRepository{db: db}
}

// Create inserts a new trade. The given trade is updated with its generated ID and timestamps.
func (r *TradeRepository) Create(
	ctx context.Context,
	trade *model.Trade,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Create",
		"owner_id": trade.OwnerID,
		"symbol":   trade.Symbol,
		"side":     trade.Side,
	}).Debug("Creating new trade")

	if err := r.db.WithContext(ctx).Create(trade).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Create",
			"owner_id": trade.OwnerID,
		}).WithError(err).Error("Failed to create trade")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Create",
		"trade_id": trade.ID,
	}).Info("Trade created successfully")

	return nil
}

// FindByID fetches a single trade by its ID.
// Returns (nil, nil) if the trade is not found.
func (r *TradeRepository) FindByID(
	ctx context.Context,
	id string,
) (*model.Trade, error) {

	var trade model.Trade

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&trade).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo": "TradeRepository",
				"op":   "FindByID",
				"id":   id,
			}).Info("Trade not found")

			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo": "TradeRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch trade by ID")

		return nil, err
	}

	return &trade, nil
}

// ListByOwner returns the owner's trades, newest trade date first. Trades sharing a
// date keep a stable order (newest created first, then id).
// A nil status returns trades in every state.
func (r *TradeRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	status *model.TradeStatus,
) ([]model.Trade, error) {

	fields := map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "ListByOwner",
		"owner_id": ownerID,
	}
	if status != nil {
		fields["status"] = *status
	}

	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var trades []model.Trade
	if err := query.Order("trade_date DESC, created_at DESC, id").Find(&trades).Error; err != nil {
		logger.WithFields(fields).WithError(err).Error("Failed to list trades")
		return nil, err
	}

	fields["rows_return"] = len(trades)
	logger.WithFields(fields).Debug("Trades listed")

	return trades, nil
}

// Update writes the trade's mutable columns only while the stored status is still
// from. A trade that moved on in the meantime yields model.ErrTradeClosed, and a
// trade that no longer exists yields gorm.ErrRecordNotFound.
func (r *TradeRepository) Update(
	ctx context.Context,
	trade *model.Trade,
	from model.TradeStatus,
) error {

	trade.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&model.Trade{}).
		Where("id = ? AND status = ?", trade.ID, string(from)).
		Updates(map[string]interface{}{
			"exit_price":        trade.ExitPrice,
			"exit_date":         trade.ExitDate,
			"status":            string(trade.Status),
			"profit":            trade.Profit,
			"profit_percentage": trade.ProfitPercentage,
			"reason_to_sell":    trade.ReasonToSell,
			"mistakes":          trade.Mistakes,
			"lessons_learned":   trade.LessonsLearned,
			"notes":             trade.Notes,
			"updated_at":        trade.UpdatedAt,
		})

	if res.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Update",
			"trade_id": trade.ID,
		}).WithError(res.Error).Error("Failed to update trade")

		return res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Trade{}).Where("id = ?", trade.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Update",
			"trade_id": trade.ID,
			"from":     from,
		}).Warn("Trade status changed before update")

		return model.ErrTradeClosed
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Update",
		"trade_id": trade.ID,
		"status":   trade.Status,
	}).Info("Trade updated")

	return nil
}

// Delete hard-deletes the trade with the given ID.
func (r *TradeRepository) Delete(
	ctx context.Context,
	id string,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Trade{})

	if res.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Delete",
			"trade_id": id,
		}).WithError(res.Error).Error("Failed to delete trade")

		return res.Error
	}

	logger.WithFields(map[string]interface{}{
		"repo":          "TradeRepository",
		"op":            "Delete",
		"trade_id":      id,
		"rows_affected": res.RowsAffected,
	}).Info("Trade deleted")

	return nil
}
