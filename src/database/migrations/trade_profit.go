package migrations

import (
	"fmt"

	"gorm.io/gorm"

	"tradejournal/src/model"
)

// backfillClosedTradeProfit freezes profit on closed trades that were stored with an
// exit price but no realized profit. Rows that already carry a profit are left alone.
func backfillClosedTradeProfit(db *gorm.DB) error {
	var trades []model.Trade
	if err := db.
		Where("status = ? AND exit_price IS NOT NULL AND profit IS NULL", string(model.TradeStatusClosed)).
		Find(&trades).Error; err != nil {
		return fmt.Errorf("load closed trades without profit: %w", err)
	}

	for i := range trades {
		t := &trades[i]
		profit, pct := model.CalculateProfit(t.EntryPrice, *t.ExitPrice, t.Quantity)

		if err := db.Model(&model.Trade{}).
			Where("id = ?", t.ID).
			Updates(map[string]interface{}{
				"profit":            profit,
				"profit_percentage": pct,
			}).Error; err != nil {
			return fmt.Errorf("backfill profit for trade %s: %w", t.ID, err)
		}
	}

	return nil
}

// normalizeTradeEnums upper-cases side and status values written by older clients.
func normalizeTradeEnums(db *gorm.DB) error {
	for _, column := range []string{"side", "status"} {
		if err := db.Exec(fmt.Sprintf("UPDATE trades SET %s = UPPER(%s) WHERE %s <> UPPER(%s)", column, column, column, column)).Error; err != nil {
			return fmt.Errorf("normalize trades.%s: %w", column, err)
		}
	}
	return nil
}
