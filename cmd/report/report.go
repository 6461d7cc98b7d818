package report

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"tradejournal/src/client"
)

type Report struct {
	Log    *logrus.Entry
	Client *client.Client
	Out    io.Writer
	// Quick prints only the dashboard stats.
	Quick bool
}

// Start fetches the user's performance summary from the API and prints it.
func (r *Report) Start(ctx context.Context) error {
	if r.Quick {
		stats, err := r.Client.Stats(ctx)
		if err != nil {
			r.Log.WithError(err).Error("failed to fetch quick stats")
			return fmt.Errorf("fetch stats: %w", err)
		}
		return client.WriteQuickStats(r.Out, stats)
	}

	summary, err := r.Client.Performance(ctx)
	if err != nil {
		r.Log.WithError(err).Error("failed to fetch performance summary")
		return fmt.Errorf("fetch performance: %w", err)
	}

	r.Log.WithField("total_trades", summary.TotalTrades).Debug("performance summary fetched")
	return client.WriteReport(r.Out, summary)
}
