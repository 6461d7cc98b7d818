package performance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/src/model"
)

const monthKeyLayout = "2006-01"

type MonthlyPerformance struct {
	Month   string          `json:"month"` // YYYY-MM
	Trades  int             `json:"trades"`
	Profit  decimal.Decimal `json:"profit"`
	WinRate decimal.Decimal `json:"win_rate"`
}

type SymbolPerformance struct {
	Symbol  string          `json:"symbol"`
	Trades  int             `json:"trades"`
	Wins    int             `json:"wins"`
	Profit  decimal.Decimal `json:"profit"`
	WinRate decimal.Decimal `json:"win_rate"`
}

// EquityPoint is the cumulative realized profit after the TradeNumber-th closed trade.
type EquityPoint struct {
	TradeNumber      int             `json:"trade_number"`
	TradeID          string          `json:"trade_id"`
	Date             time.Time       `json:"date"`
	CumulativeProfit decimal.Decimal `json:"cumulative_profit"`
}

type DrawdownPoint struct {
	TradeNumber     int             `json:"trade_number"`
	TradeID         string          `json:"trade_id"`
	Date            time.Time       `json:"date"`
	DrawdownPercent decimal.Decimal `json:"drawdown_percent"`
}

type bucket struct {
	trades int
	wins   int
	profit decimal.Decimal
}

func (b *bucket) add(profit decimal.Decimal) {
	b.trades++
	b.profit = b.profit.Add(profit)
	if isWin(profit) {
		b.wins++
	}
}

func (b *bucket) winRate() decimal.Decimal {
	if b.trades == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(b.wins)).Div(decimal.NewFromInt(int64(b.trades))).Mul(hundred)
}

func monthly(closed []model.Trade) []MonthlyPerformance {
	buckets := make(map[string]*bucket)
	for i := range closed {
		key := closed[i].TradeDate.UTC().Format(monthKeyLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{profit: decimal.Zero}
			buckets[key] = b
		}
		b.add(closed[i].ProfitOrZero())
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthlyPerformance, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, MonthlyPerformance{
			Month:   k,
			Trades:  b.trades,
			Profit:  b.profit,
			WinRate: b.winRate(),
		})
	}
	return out
}

func bySymbol(closed []model.Trade) []SymbolPerformance {
	buckets := make(map[string]*bucket)
	for i := range closed {
		b, ok := buckets[closed[i].Symbol]
		if !ok {
			b = &bucket{profit: decimal.Zero}
			buckets[closed[i].Symbol] = b
		}
		b.add(closed[i].ProfitOrZero())
	}

	out := make([]SymbolPerformance, 0, len(buckets))
	for symbol, b := range buckets {
		out = append(out, SymbolPerformance{
			Symbol:  symbol,
			Trades:  b.trades,
			Wins:    b.wins,
			Profit:  b.profit,
			WinRate: b.winRate(),
		})
	}

	// Best performer first; ties broken by symbol so output is stable across calls.
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Profit.Cmp(out[j].Profit); c != 0 {
			return c > 0
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// curves builds the equity and drawdown series over closed trades in trade date order.
func curves(closed []model.Trade) ([]EquityPoint, []DrawdownPoint) {
	ordered := make([]model.Trade, len(closed))
	copy(ordered, closed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TradeDate.Before(ordered[j].TradeDate)
	})

	equity := make([]EquityPoint, 0, len(ordered))
	drawdown := make([]DrawdownPoint, 0, len(ordered))

	cumulative := decimal.Zero
	peak := decimal.Zero
	for i := range ordered {
		t := ordered[i]
		cumulative = cumulative.Add(t.ProfitOrZero())
		if cumulative.GreaterThan(peak) {
			peak = cumulative
		}

		dd := decimal.Zero
		if peak.IsPositive() {
			dd = peak.Sub(cumulative).Div(peak).Mul(hundred)
		}

		equity = append(equity, EquityPoint{
			TradeNumber:      i + 1,
			TradeID:          t.ID,
			Date:             t.TradeDate,
			CumulativeProfit: cumulative,
		})
		drawdown = append(drawdown, DrawdownPoint{
			TradeNumber:     i + 1,
			TradeID:         t.ID,
			Date:            t.TradeDate,
			DrawdownPercent: dd,
		})
	}
	return equity, drawdown
}
