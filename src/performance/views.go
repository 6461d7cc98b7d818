package performance

import "github.com/shopspring/decimal"

// QuickStats is the dashboard header: counts plus rounded win rate and profit.
type QuickStats struct {
	TotalTrades  int             `json:"total_trades"`
	WinRate      decimal.Decimal `json:"win_rate"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	OpenTrades   int             `json:"open_trades"`
	ClosedTrades int             `json:"closed_trades"`
}

func (s Summary) QuickStats() QuickStats {
	return QuickStats{
		TotalTrades:  s.TotalTrades,
		WinRate:      s.WinRate.Round(2),
		TotalProfit:  s.TotalProfit.Round(2),
		OpenTrades:   s.OpenTrades,
		ClosedTrades: s.ClosedTrades,
	}
}

// Portfolio is the per-user block shown in the admin listing.
type Portfolio struct {
	TotalTrades       int             `json:"total_trades"`
	OpenTrades        int             `json:"open_trades"`
	ClosedTrades      int             `json:"closed_trades"`
	WinningTrades     int             `json:"winning_trades"`
	LosingTrades      int             `json:"losing_trades"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	WinRate           decimal.Decimal `json:"win_rate"`
	BestTrade         decimal.Decimal `json:"best_trade"`
	WorstTrade        decimal.Decimal `json:"worst_trade"`
	OpenPositionValue decimal.Decimal `json:"open_position_value"`
}

func (s Summary) Portfolio() Portfolio {
	return Portfolio{
		TotalTrades:       s.TotalTrades,
		OpenTrades:        s.OpenTrades,
		ClosedTrades:      s.ClosedTrades,
		WinningTrades:     s.WinningTrades,
		LosingTrades:      s.LosingTrades,
		TotalProfit:       s.TotalProfit.Round(2),
		WinRate:           s.WinRate.Round(1),
		BestTrade:         s.BestTrade.Round(2),
		WorstTrade:        s.WorstTrade.Round(2),
		OpenPositionValue: s.OpenPositionValue.Round(2),
	}
}
