package handler

import (
	"context"
	"net/http"

	"tradejournal/src/auth"
	"tradejournal/src/controller"
	"tradejournal/src/performance"
)

type statsProvider interface {
	QuickStats(ctx context.Context, ownerID string) (performance.QuickStats, error)
}

type summaryProvider interface {
	Summary(ctx context.Context, ownerID string) (*performance.Summary, error)
}

type portfolioLister interface {
	Portfolios(ctx context.Context) ([]controller.UserPortfolio, error)
}

func TradeStatsHandler(svc statsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		stats, err := svc.QuickStats(r.Context(), user.ID)
		if err != nil {
			writeJournalError(w, err, "QuickStats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func PerformanceHandler(svc summaryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		summary, err := svc.Summary(r.Context(), user.ID)
		if err != nil {
			writeJournalError(w, err, "Summary")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// AdminUsersHandler expects auth.RequireAdmin in front of it.
func AdminUsersHandler(svc portfolioLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portfolios, err := svc.Portfolios(r.Context())
		if err != nil {
			writeJournalError(w, err, "Portfolios")
			return
		}
		writeJSON(w, http.StatusOK, portfolios)
	}
}
