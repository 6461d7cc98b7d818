package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TradeSide string

type TradeStatus string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"

	TradeStatusOpen   TradeStatus = "OPEN"
	TradeStatusClosed TradeStatus = "CLOSED"
)

var (
	ErrTradeClosed       = errors.New("trade is already closed")
	ErrInvalidSide       = errors.New("side must be BUY or SELL")
	ErrInvalidStatus     = errors.New("status must be OPEN or CLOSED")
	ErrSymbolRequired    = errors.New("symbol is required")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidEntryPrice = errors.New("entryPrice must be positive")
	ErrInvalidExitPrice  = errors.New("exitPrice must be positive")
	ErrTradeDateRequired = errors.New("tradeDate is required")
	ErrExitPriceRequired = errors.New("exitPrice is required to close a trade")
)

// ParseTradeSide accepts BUY/SELL in any case.
func ParseTradeSide(s string) (TradeSide, error) {
	switch TradeSide(strings.ToUpper(strings.TrimSpace(s))) {
	case TradeSideBuy:
		return TradeSideBuy, nil
	case TradeSideSell:
		return TradeSideSell, nil
	default:
		return "", ErrInvalidSide
	}
}

// ParseTradeStatus accepts OPEN/CLOSED in any case.
func ParseTradeStatus(s string) (TradeStatus, error) {
	switch TradeStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case TradeStatusOpen:
		return TradeStatusOpen, nil
	case TradeStatusClosed:
		return TradeStatusClosed, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Trade is one journal entry. Profit and ProfitPercentage are filled once, when the
// trade is closed, and are never recomputed afterwards.
type Trade struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID string `gorm:"size:36;not null;index" json:"owner_id"`

	Symbol     string          `gorm:"size:50;not null;index" json:"symbol"`
	Side       TradeSide       `gorm:"size:4;not null" json:"side"`
	Quantity   decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"quantity"`
	EntryPrice decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"entry_price"`
	TradeDate  time.Time       `gorm:"not null;index" json:"trade_date"`

	ExitPrice        *decimal.Decimal `gorm:"type:numeric(30,10)" json:"exit_price,omitempty"`
	ExitDate         *time.Time       `json:"exit_date,omitempty"`
	Status           TradeStatus      `gorm:"size:10;not null;default:OPEN;index" json:"status"`
	Profit           *decimal.Decimal `gorm:"type:numeric(30,10)" json:"profit,omitempty"`
	ProfitPercentage *decimal.Decimal `gorm:"type:numeric(20,10)" json:"profit_percentage,omitempty"`

	// Journal
	SetupDescription string `gorm:"type:text" json:"setup_description,omitempty"`
	ReasonToBuy      string `gorm:"type:text" json:"reason_to_buy,omitempty"`
	ReasonToSell     string `gorm:"type:text" json:"reason_to_sell,omitempty"`
	Mistakes         string `gorm:"type:text" json:"mistakes,omitempty"`
	LessonsLearned   string `gorm:"type:text" json:"lessons_learned,omitempty"`
	Notes            string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}

func (t *Trade) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TradeStatusOpen
	}
	return nil
}

func (t *Trade) IsClosed() bool {
	return t.Status == TradeStatusClosed
}

// CalculateProfit returns (exit - entry) * quantity and (exit - entry) / entry * 100.
func CalculateProfit(entryPrice, exitPrice, quantity decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	diff := exitPrice.Sub(entryPrice)
	profit := diff.Mul(quantity)
	if entryPrice.IsZero() {
		return profit, decimal.Zero
	}
	return profit, diff.Div(entryPrice).Mul(decimal.NewFromInt(100))
}

// Close records the exit and freezes the realized profit.
func (t *Trade) Close(exitPrice decimal.Decimal, exitDate time.Time) error {
	if t.IsClosed() {
		return ErrTradeClosed
	}
	if !exitPrice.IsPositive() {
		return ErrInvalidExitPrice
	}

	profit, pct := CalculateProfit(t.EntryPrice, exitPrice, t.Quantity)

	t.ExitPrice = &exitPrice
	t.ExitDate = &exitDate
	t.Profit = &profit
	t.ProfitPercentage = &pct
	t.Status = TradeStatusClosed
	return nil
}

// ProfitOrZero treats a missing profit as zero.
func (t *Trade) ProfitOrZero() decimal.Decimal {
	if t.Profit == nil {
		return decimal.Zero
	}
	return *t.Profit
}

type CreateTradePayload struct {
	Symbol           string          `json:"symbol"`
	Side             string          `json:"side"`
	Quantity         decimal.Decimal `json:"quantity"`
	EntryPrice       decimal.Decimal `json:"entry_price"`
	TradeDate        *time.Time      `json:"trade_date"`
	SetupDescription *string         `json:"setup_description,omitempty"`
	ReasonToBuy      *string         `json:"reason_to_buy,omitempty"`
}

// ToTrade validates the payload and builds an OPEN trade for the owner.
func (p CreateTradePayload) ToTrade(ownerID string) (*Trade, error) {
	symbol := strings.TrimSpace(p.Symbol)
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	side, err := ParseTradeSide(p.Side)
	if err != nil {
		return nil, err
	}
	if !p.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	if !p.EntryPrice.IsPositive() {
		return nil, ErrInvalidEntryPrice
	}
	if p.TradeDate == nil || p.TradeDate.IsZero() {
		return nil, ErrTradeDateRequired
	}

	trade := &Trade{
		OwnerID:    ownerID,
		Symbol:     symbol,
		Side:       side,
		Quantity:   p.Quantity,
		EntryPrice: p.EntryPrice,
		TradeDate:  p.TradeDate.UTC(),
		Status:     TradeStatusOpen,
	}
	if p.SetupDescription != nil {
		trade.SetupDescription = strings.TrimSpace(*p.SetupDescription)
	}
	if p.ReasonToBuy != nil {
		trade.ReasonToBuy = strings.TrimSpace(*p.ReasonToBuy)
	}
	return trade, nil
}

type UpdateTradePayload struct {
	ExitPrice      *decimal.Decimal `json:"exit_price,omitempty"`
	ExitDate       *time.Time       `json:"exit_date,omitempty"`
	Status         *string          `json:"status,omitempty"`
	ReasonToSell   *string          `json:"reason_to_sell,omitempty"`
	Mistakes       *string          `json:"mistakes,omitempty"`
	LessonsLearned *string          `json:"lessons_learned,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

// ApplyTo mutates the trade. Journal fields are always editable; exit fields only
// while the trade is OPEN. A non-nil exit price closes the trade, defaulting the
// exit date to now.
func (p UpdateTradePayload) ApplyTo(t *Trade, now time.Time) error {
	var status *TradeStatus
	if p.Status != nil && strings.TrimSpace(*p.Status) != "" {
		parsed, err := ParseTradeStatus(*p.Status)
		if err != nil {
			return err
		}
		status = &parsed
	}

	if t.IsClosed() {
		if p.ExitPrice != nil || p.ExitDate != nil || (status != nil && *status == TradeStatusOpen) {
			return ErrTradeClosed
		}
	} else {
		if p.ExitPrice == nil && status != nil && *status == TradeStatusClosed {
			return ErrExitPriceRequired
		}
		if p.ExitPrice != nil {
			exitDate := now.UTC()
			if p.ExitDate != nil {
				exitDate = p.ExitDate.UTC()
			}
			if err := t.Close(*p.ExitPrice, exitDate); err != nil {
				return err
			}
		} else if p.ExitDate != nil {
			exitDate := p.ExitDate.UTC()
			t.ExitDate = &exitDate
		}
	}

	if p.ReasonToSell != nil {
		t.ReasonToSell = strings.TrimSpace(*p.ReasonToSell)
	}
	if p.Mistakes != nil {
		t.Mistakes = strings.TrimSpace(*p.Mistakes)
	}
	if p.LessonsLearned != nil {
		t.LessonsLearned = strings.TrimSpace(*p.LessonsLearned)
	}
	if p.Notes != nil {
		t.Notes = strings.TrimSpace(*p.Notes)
	}
	return nil
}
