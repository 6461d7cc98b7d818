package client

import (
	"fmt"
	"io"
	"text/tabwriter"

	"tradejournal/src/performance"
)

// WriteReport renders a summary as aligned plain text.
func WriteReport(w io.Writer, s *performance.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Total trades", fmt.Sprintf("%d (%d open, %d closed)", s.TotalTrades, s.OpenTrades, s.ClosedTrades)},
		{"Wins / losses", fmt.Sprintf("%d / %d", s.WinningTrades, s.LosingTrades)},
		{"Win rate", s.WinRate.StringFixed(2) + "%"},
		{"Total profit", s.TotalProfit.StringFixed(2)},
		{"Average profit", s.AvgProfit.StringFixed(2)},
		{"Best / worst", s.BestTrade.StringFixed(2) + " / " + s.WorstTrade.StringFixed(2)},
		{"Profit factor", s.ProfitFactor.StringFixed(2)},
		{"Max drawdown", s.MaxDrawdownPercent.StringFixed(2) + "%"},
		{"Streaks (win / loss)", fmt.Sprintf("%d / %d", s.MaxConsecutiveWins, s.MaxConsecutiveLosses)},
		{"Total volume", s.TotalVolume.String()},
		{"Open position value", s.OpenPositionValue.StringFixed(2)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}

	if len(s.Monthly) > 0 {
		fmt.Fprintln(tw, "\nMonth\tTrades\tProfit\tWin rate")
		for _, m := range s.Monthly {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s%%\n", m.Month, m.Trades, m.Profit.StringFixed(2), m.WinRate.StringFixed(2))
		}
	}

	if len(s.Symbols) > 0 {
		fmt.Fprintln(tw, "\nSymbol\tTrades\tWins\tProfit")
		for _, sym := range s.Symbols {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", sym.Symbol, sym.Trades, sym.Wins, sym.Profit.StringFixed(2))
		}
	}

	return tw.Flush()
}

// WriteQuickStats renders the dashboard header figures.
func WriteQuickStats(w io.Writer, s *performance.QuickStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total trades\t%d (%d open, %d closed)\n", s.TotalTrades, s.OpenTrades, s.ClosedTrades)
	fmt.Fprintf(tw, "Win rate\t%s%%\n", s.WinRate.StringFixed(2))
	fmt.Fprintf(tw, "Total profit\t%s\n", s.TotalProfit.StringFixed(2))
	return tw.Flush()
}
