package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"tradejournal/src/controller"
	"tradejournal/src/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON rejects unknown fields and trailing data.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// writeJournalError maps workflow errors to HTTP statuses; anything unknown is a 500.
func writeJournalError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, controller.ErrTradeNotFound):
		writeError(w, http.StatusNotFound, "Trade not found")
	case errors.Is(err, controller.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, model.ErrTradeClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInvalidSide),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrSymbolRequired),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrInvalidEntryPrice),
		errors.Is(err, model.ErrInvalidExitPrice),
		errors.Is(err, model.ErrTradeDateRequired),
		errors.Is(err, model.ErrExitPriceRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.WithError(err).WithField("op", op).Error("journal operation failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
