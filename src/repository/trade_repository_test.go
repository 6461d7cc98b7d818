package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tradejournal/src/model"
)

func TestTradeRepositoryListByOwner(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewTradeRepository(mockDB)

	tradeDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	tradeRows := func(returned ...model.Trade) *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"id", "owner_id", "symbol", "side", "quantity", "entry_price", "trade_date", "status", "profit"})
		for _, tr := range returned {
			var profit interface{}
			if tr.Profit != nil {
				profit = tr.Profit.String()
			}
			rows.AddRow(tr.ID, tr.OwnerID, tr.Symbol, string(tr.Side), tr.Quantity.String(), tr.EntryPrice.String(), tr.TradeDate, string(tr.Status), profit)
		}
		return rows
	}

	profit := dec("12.5")
	closed := model.Trade{ID: "t-2", OwnerID: "u-1", Symbol: "ETHUSDT", Side: model.TradeSideSell, Quantity: dec("1"), EntryPrice: dec("2000"), TradeDate: tradeDate.Add(24 * time.Hour), Status: model.TradeStatusClosed, Profit: &profit}
	open := model.Trade{ID: "t-1", OwnerID: "u-1", Symbol: "BTCUSDT", Side: model.TradeSideBuy, Quantity: dec("0.5"), EntryPrice: dec("40000"), TradeDate: tradeDate, Status: model.TradeStatusOpen}

	t.Run("all trades of the owner", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE owner_id = $1 ORDER BY trade_date DESC, created_at DESC, id`)).
			WithArgs("u-1").
			WillReturnRows(tradeRows(closed, open))

		results, err := repo.ListByOwner(context.Background(), "u-1", nil)
		if err != nil {
			t.Fatalf("unexpected error listing trades: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 trades, got %d", len(results))
		}
		if results[0].ID != "t-2" || results[1].ID != "t-1" {
			t.Fatalf("trades not returned in expected order: %+v", results)
		}
		if results[0].Profit == nil || !results[0].Profit.Equal(profit) {
			t.Fatalf("expected profit %s, got %v", profit, results[0].Profit)
		}
		if results[1].Profit != nil {
			t.Fatalf("expected nil profit on open trade, got %s", results[1].Profit)
		}
	})

	t.Run("filtered by status", func(t *testing.T) {
		status := model.TradeStatusClosed
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE owner_id = $1 AND status = $2 ORDER BY trade_date DESC, created_at DESC, id`)).
			WithArgs("u-1", "CLOSED").
			WillReturnRows(tradeRows(closed))

		results, err := repo.ListByOwner(context.Background(), "u-1", &status)
		if err != nil {
			t.Fatalf("unexpected error listing trades: %v", err)
		}
		if len(results) != 1 || results[0].Status != model.TradeStatusClosed {
			t.Fatalf("unexpected trades: %+v", results)
		}
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE owner_id = $1`)).
			WithArgs("u-2").
			WillReturnError(assert.AnError)

		results, err := repo.ListByOwner(context.Background(), "u-2", nil)
		if err == nil {
			t.Fatalf("expected error, got trades %+v", results)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestTradeRepositoryFindByID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewTradeRepository(mockDB)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "owner_id", "symbol", "quantity", "entry_price", "status"}).
			AddRow("t-1", "u-1", "BTCUSDT", "2", "100", "OPEN")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE id = $1 ORDER BY "trades"."id" LIMIT $2`)).
			WithArgs("t-1", 1).
			WillReturnRows(rows)

		trade, err := repo.FindByID(context.Background(), "t-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if trade == nil || trade.OwnerID != "u-1" || !trade.Quantity.Equal(dec("2")) {
			t.Fatalf("unexpected trade: %+v", trade)
		}
	})

	t.Run("not found returns nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE id = $1 ORDER BY "trades"."id" LIMIT $2`)).
			WithArgs("missing", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		trade, err := repo.FindByID(context.Background(), "missing")
		if err != nil || trade != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", trade, err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestTradeRepositoryDelete(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewTradeRepository(mockDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "trades" WHERE id = $1`)).
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), "t-1"); err != nil {
		t.Fatalf("unexpected error deleting trade: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestTradeRepositoryUpdateIsConditionalOnStatus(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewTradeRepository(mockDB)

	exit := dec("150")
	trade := &model.Trade{ID: "t-1", Status: model.TradeStatusClosed, ExitPrice: &exit}
	updateSQL := regexp.QuoteMeta(`UPDATE "trades" SET `) + `.*` + regexp.QuoteMeta(`WHERE id = $11 AND status = $12`)
	countSQL := regexp.QuoteMeta(`SELECT count(*) FROM "trades" WHERE id = $1`)

	t.Run("stored status still matches", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := repo.Update(context.Background(), trade, model.TradeStatusOpen); err != nil {
			t.Fatalf("unexpected error updating trade: %v", err)
		}
	})

	t.Run("trade was closed in the meantime", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery(countSQL).WithArgs("t-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.Update(context.Background(), trade, model.TradeStatusOpen)
		if !errors.Is(err, model.ErrTradeClosed) {
			t.Fatalf("expected ErrTradeClosed, got %v", err)
		}
	})

	t.Run("trade was deleted in the meantime", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery(countSQL).WithArgs("t-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.Update(context.Background(), trade, model.TradeStatusOpen)
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}
