package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/auth"
	"tradejournal/src/model"
)

type tradeLister interface {
	ListTrades(ctx context.Context, owner *model.User, status *model.TradeStatus) ([]model.Trade, error)
}

type tradeCreator interface {
	CreateTrade(ctx context.Context, owner *model.User, payload model.CreateTradePayload) (*model.Trade, error)
}

type tradeGetter interface {
	GetTrade(ctx context.Context, owner *model.User, id string) (*model.Trade, error)
}

type tradeUpdater interface {
	UpdateTrade(ctx context.Context, owner *model.User, id string, payload model.UpdateTradePayload) (*model.Trade, error)
}

type tradeDeleter interface {
	DeleteTrade(ctx context.Context, owner *model.User, id string) error
}

type tradesResponse struct {
	Trades []model.Trade `json:"trades"`
}

// ListTradesHandler lists the caller's trades, newest first, optionally filtered by ?status=.
func ListTradesHandler(svc tradeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var status *model.TradeStatus
		if statusParam := strings.TrimSpace(r.URL.Query().Get("status")); statusParam != "" {
			parsed, err := model.ParseTradeStatus(statusParam)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid status")
				return
			}
			status = &parsed
		}

		trades, err := svc.ListTrades(r.Context(), user, status)
		if err != nil {
			writeJournalError(w, err, "ListTrades")
			return
		}

		writeJSON(w, http.StatusOK, tradesResponse{Trades: trades})
	}
}

func CreateTradeHandler(svc tradeCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload model.CreateTradePayload
		if err := decodeJSON(r, &payload); err != nil {
			logger.WithError(err).Warn("invalid create trade payload")
			writeError(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		trade, err := svc.CreateTrade(r.Context(), user, payload)
		if err != nil {
			writeJournalError(w, err, "CreateTrade")
			return
		}

		writeJSON(w, http.StatusCreated, trade)
	}
}

func GetTradeHandler(svc tradeGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		trade, err := svc.GetTrade(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			writeJournalError(w, err, "GetTrade")
			return
		}

		writeJSON(w, http.StatusOK, trade)
	}
}

// UpdateTradeHandler edits journal fields and closes an OPEN trade when an exit price is sent.
func UpdateTradeHandler(svc tradeUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload model.UpdateTradePayload
		if err := decodeJSON(r, &payload); err != nil {
			logger.WithError(err).Warn("invalid update trade payload")
			writeError(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		trade, err := svc.UpdateTrade(r.Context(), user, chi.URLParam(r, "id"), payload)
		if err != nil {
			writeJournalError(w, err, "UpdateTrade")
			return
		}

		writeJSON(w, http.StatusOK, trade)
	}
}

func DeleteTradeHandler(svc tradeDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.DeleteTrade(r.Context(), user, chi.URLParam(r, "id")); err != nil {
			writeJournalError(w, err, "DeleteTrade")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
