// Package performance derives journal statistics from a user's trades.
//
// Everything here is a pure function of the trade slice it receives: nothing is
// read from storage, nothing is cached, and the input is never modified. An empty
// input yields an all-zero Summary with empty series.
package performance

import (
	"github.com/shopspring/decimal"

	"tradejournal/src/model"
)

var hundred = decimal.NewFromInt(100)

// Summary is the full performance report for one owner.
type Summary struct {
	TotalTrades   int `json:"total_trades"`
	ClosedTrades  int `json:"closed_trades"`
	OpenTrades    int `json:"open_trades"`
	WinningTrades int `json:"winning_trades"`
	LosingTrades  int `json:"losing_trades"`

	WinRate      decimal.Decimal `json:"win_rate"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	BestTrade    decimal.Decimal `json:"best_trade"`
	WorstTrade   decimal.Decimal `json:"worst_trade"`
	AvgProfit    decimal.Decimal `json:"avg_profit"`
	ProfitFactor decimal.Decimal `json:"profit_factor"`

	MaxConsecutiveWins   int             `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int             `json:"max_consecutive_losses"`
	MaxDrawdownPercent   decimal.Decimal `json:"max_drawdown_percent"`

	TotalVolume       decimal.Decimal `json:"total_volume"`
	OpenPositionValue decimal.Decimal `json:"open_position_value"`

	Monthly  []MonthlyPerformance `json:"monthly"`
	Symbols  []SymbolPerformance  `json:"symbols"`
	Equity   []EquityPoint        `json:"equity"`
	Drawdown []DrawdownPoint      `json:"drawdown"`
}

// Summarize computes the Summary for trades that all belong to one owner.
//
// Streaks and the scalar max drawdown follow the order of the slice as given; the
// equity and drawdown series are ordered by trade date. A closed trade with profit
// <= 0 counts as a loss.
func Summarize(trades []model.Trade) Summary {
	summary := Summary{
		WinRate:            decimal.Zero,
		TotalProfit:        decimal.Zero,
		BestTrade:          decimal.Zero,
		WorstTrade:         decimal.Zero,
		AvgProfit:          decimal.Zero,
		ProfitFactor:       decimal.Zero,
		MaxDrawdownPercent: decimal.Zero,
		TotalVolume:        decimal.Zero,
		OpenPositionValue:  decimal.Zero,
	}

	closed := make([]model.Trade, 0, len(trades))
	for i := range trades {
		t := trades[i]
		switch t.Status {
		case model.TradeStatusClosed:
			closed = append(closed, t)
			summary.TotalVolume = summary.TotalVolume.Add(t.Quantity)
		case model.TradeStatusOpen:
			summary.OpenTrades++
			summary.TotalVolume = summary.TotalVolume.Add(t.Quantity)
			summary.OpenPositionValue = summary.OpenPositionValue.Add(t.Quantity.Mul(t.EntryPrice))
		}
	}

	summary.ClosedTrades = len(closed)
	summary.TotalTrades = summary.ClosedTrades + summary.OpenTrades

	grossWin := decimal.Zero
	grossLoss := decimal.Zero
	for i := range closed {
		profit := closed[i].ProfitOrZero()
		summary.TotalProfit = summary.TotalProfit.Add(profit)

		if i == 0 {
			summary.BestTrade = profit
			summary.WorstTrade = profit
		} else {
			summary.BestTrade = decimal.Max(summary.BestTrade, profit)
			summary.WorstTrade = decimal.Min(summary.WorstTrade, profit)
		}

		if isWin(profit) {
			summary.WinningTrades++
			grossWin = grossWin.Add(profit)
		} else {
			summary.LosingTrades++
			grossLoss = grossLoss.Add(profit)
		}
	}
	grossLoss = grossLoss.Abs()

	if summary.ClosedTrades > 0 {
		n := decimal.NewFromInt(int64(summary.ClosedTrades))
		summary.WinRate = decimal.NewFromInt(int64(summary.WinningTrades)).Div(n).Mul(hundred)
		summary.AvgProfit = summary.TotalProfit.Div(n)
	}

	// No losses: report gross win as-is instead of dividing by zero.
	if grossLoss.IsPositive() {
		summary.ProfitFactor = grossWin.Div(grossLoss)
	} else {
		summary.ProfitFactor = grossWin
	}

	summary.MaxConsecutiveWins, summary.MaxConsecutiveLosses = streaks(closed)
	summary.MaxDrawdownPercent = maxDrawdown(closed).Mul(hundred)

	summary.Monthly = monthly(closed)
	summary.Symbols = bySymbol(closed)
	summary.Equity, summary.Drawdown = curves(closed)

	return summary
}

func isWin(profit decimal.Decimal) bool {
	return profit.IsPositive()
}

func streaks(closed []model.Trade) (maxWins, maxLosses int) {
	var wins, losses int
	for i := range closed {
		if isWin(closed[i].ProfitOrZero()) {
			wins++
			losses = 0
			if wins > maxWins {
				maxWins = wins
			}
			continue
		}
		losses++
		wins = 0
		if losses > maxLosses {
			maxLosses = losses
		}
	}
	return maxWins, maxLosses
}

// maxDrawdown returns the largest fall from the running peak of cumulative profit,
// as a fraction of that peak. Steps taken while the peak is still zero contribute
// nothing. The result can exceed 1 once cumulative profit goes negative.
func maxDrawdown(closed []model.Trade) decimal.Decimal {
	cumulative := decimal.Zero
	peak := decimal.Zero
	worst := decimal.Zero

	for i := range closed {
		cumulative = cumulative.Add(closed[i].ProfitOrZero())
		if cumulative.GreaterThan(peak) {
			peak = cumulative
			continue
		}
		if !peak.IsPositive() {
			continue
		}
		dd := peak.Sub(cumulative).Abs().Div(peak)
		if dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst
}
