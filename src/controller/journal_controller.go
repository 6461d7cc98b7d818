package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/cache"
	"tradejournal/src/model"
	"tradejournal/src/performance"
	"tradejournal/src/realtime"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrForbidden     = errors.New("trade belongs to another user")
)

type tradeRepository interface {
	Create(ctx context.Context, trade *model.Trade) error
	FindByID(ctx context.Context, id string) (*model.Trade, error)
	ListByOwner(ctx context.Context, ownerID string, status *model.TradeStatus) ([]model.Trade, error)
	Update(ctx context.Context, trade *model.Trade, from model.TradeStatus) error
	Delete(ctx context.Context, id string) error
}

type userListRepository interface {
	ListWithTrades(ctx context.Context) ([]model.User, error)
}

type publisher interface {
	Subscribers(ownerID string) int
	Publish(ownerID string, msg realtime.Message) int
}

// UserPortfolio is one row of the admin listing.
type UserPortfolio struct {
	model.UserResponse
	TradeCount   int                   `json:"trade_count"`
	Portfolio    performance.Portfolio `json:"portfolio"`
	RecentTrades []model.Trade         `json:"recent_trades"`
}

// JournalController runs the trade workflows on behalf of a single owner: it
// enforces ownership, persists, and keeps the owner's cached summary and live
// subscribers in sync with every write.
type JournalController struct {
	trades     tradeRepository
	users      userListRepository
	summaries  cache.SummaryCache
	publisher  publisher
	exceptions exceptionRepository
	config     Config
	now        func() time.Time

	genMu       sync.Mutex
	generations map[string]uint64
}

// NewJournalController wires the controller. summaries, pub and exceptions may be nil.
func NewJournalController(
	trades tradeRepository,
	users userListRepository,
	summaries cache.SummaryCache,
	pub publisher,
	exceptions exceptionRepository,
	config Config,
) *JournalController {
	if summaries == nil {
		summaries = cache.Noop{}
	}
	if config.RecentTradesLimit <= 0 {
		config.RecentTradesLimit = 5
	}
	return &JournalController{
		trades:      trades,
		users:       users,
		summaries:   summaries,
		publisher:   pub,
		exceptions:  exceptions,
		config:      config,
		now:         time.Now,
		generations: map[string]uint64{},
	}
}

func (c *JournalController) capture(ctx context.Context, method string, err error, data map[string]interface{}) {
	Capture(ctx, c.exceptions, c.config.ServiceName, "journal", method, "error", err, data)
}

func (c *JournalController) ListTrades(ctx context.Context, owner *model.User, status *model.TradeStatus) ([]model.Trade, error) {
	trades, err := c.trades.ListByOwner(ctx, owner.ID, status)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	if trades == nil {
		trades = []model.Trade{}
	}
	return trades, nil
}

// CreateTrade returns model validation errors unwrapped.
func (c *JournalController) CreateTrade(ctx context.Context, owner *model.User, payload model.CreateTradePayload) (*model.Trade, error) {
	trade, err := payload.ToTrade(owner.ID)
	if err != nil {
		return nil, err
	}

	if err := c.trades.Create(ctx, trade); err != nil {
		c.capture(ctx, "CreateTrade", err, map[string]interface{}{"owner_id": owner.ID, "symbol": trade.Symbol})
		return nil, fmt.Errorf("create trade: %w", err)
	}

	c.afterWrite(ctx, owner.ID)
	return trade, nil
}

// GetTrade returns ErrTradeNotFound or ErrForbidden when the trade is not the owner's.
func (c *JournalController) GetTrade(ctx context.Context, owner *model.User, id string) (*model.Trade, error) {
	trade, err := c.trades.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find trade %s: %w", id, err)
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	if trade.OwnerID != owner.ID {
		logger.WithFields(map[string]interface{}{
			"trade_id": id,
			"user_id":  owner.ID,
		}).Warn("user tried to access a trade it does not own")
		return nil, ErrForbidden
	}
	return trade, nil
}

func (c *JournalController) UpdateTrade(ctx context.Context, owner *model.User, id string, payload model.UpdateTradePayload) (*model.Trade, error) {
	trade, err := c.GetTrade(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	from := trade.Status
	if err := payload.ApplyTo(trade, c.now()); err != nil {
		return nil, err
	}

	if err := c.trades.Update(ctx, trade, from); err != nil {
		switch {
		case errors.Is(err, model.ErrTradeClosed):
			logger.WithFields(map[string]interface{}{
				"trade_id": id,
				"user_id":  owner.ID,
			}).Warn("trade was closed by a concurrent update")
			return nil, model.ErrTradeClosed
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTradeNotFound
		}
		c.capture(ctx, "UpdateTrade", err, map[string]interface{}{"trade_id": id})
		return nil, fmt.Errorf("update trade %s: %w", id, err)
	}

	if from != model.TradeStatusClosed && trade.IsClosed() {
		logger.WithFields(map[string]interface{}{
			"trade_id": trade.ID,
			"user_id":  owner.ID,
			"profit":   trade.ProfitOrZero().String(),
		}).Info("Trade closed")
	}

	c.afterWrite(ctx, owner.ID)
	return trade, nil
}

func (c *JournalController) DeleteTrade(ctx context.Context, owner *model.User, id string) error {
	if _, err := c.GetTrade(ctx, owner, id); err != nil {
		return err
	}

	if err := c.trades.Delete(ctx, id); err != nil {
		c.capture(ctx, "DeleteTrade", err, map[string]interface{}{"trade_id": id})
		return fmt.Errorf("delete trade %s: %w", id, err)
	}

	c.afterWrite(ctx, owner.ID)
	return nil
}

// Summary serves the owner's summary from cache, computing and caching it on a miss.
// Cache failures only cost a recomputation. A summary computed while a write landed
// is returned but not kept in the cache.
func (c *JournalController) Summary(ctx context.Context, ownerID string) (*performance.Summary, error) {
	cached, ok, err := c.summaries.Get(ctx, ownerID)
	if err != nil {
		logger.WithError(err).WithField("owner_id", ownerID).Warn("summary cache read failed")
	} else if ok {
		return cached, nil
	}

	gen := c.generation(ownerID)
	summary, err := c.computeSummary(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c.generation(ownerID) != gen {
		return summary, nil
	}

	if err := c.summaries.Set(ctx, ownerID, summary); err != nil {
		logger.WithError(err).WithField("owner_id", ownerID).Warn("summary cache write failed")
	}

	// A write may have bumped the generation and invalidated between the check and Set.
	if c.generation(ownerID) != gen {
		c.invalidate(ctx, ownerID)
	}
	return summary, nil
}

func (c *JournalController) generation(ownerID string) uint64 {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	return c.generations[ownerID]
}

func (c *JournalController) bumpGeneration(ownerID string) {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	c.generations[ownerID]++
}

func (c *JournalController) invalidate(ctx context.Context, ownerID string) {
	if err := c.summaries.Invalidate(ctx, ownerID); err != nil {
		logger.WithError(err).WithField("owner_id", ownerID).Warn("summary cache invalidation failed")
	}
}

func (c *JournalController) computeSummary(ctx context.Context, ownerID string) (*performance.Summary, error) {
	trades, err := c.trades.ListByOwner(ctx, ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("load trades for summary: %w", err)
	}
	summary := performance.Summarize(trades)
	return &summary, nil
}

func (c *JournalController) QuickStats(ctx context.Context, ownerID string) (performance.QuickStats, error) {
	summary, err := c.Summary(ctx, ownerID)
	if err != nil {
		return performance.QuickStats{}, err
	}
	return summary.QuickStats(), nil
}

// Portfolios lists every user, newest first, with engine-derived portfolio figures
// and their most recent trades.
func (c *JournalController) Portfolios(ctx context.Context) ([]UserPortfolio, error) {
	users, err := c.users.ListWithTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]UserPortfolio, 0, len(users))
	for i := range users {
		u := &users[i]

		recent := u.Trades
		if len(recent) > c.config.RecentTradesLimit {
			recent = recent[:c.config.RecentTradesLimit]
		}
		if recent == nil {
			recent = []model.Trade{}
		}

		out = append(out, UserPortfolio{
			UserResponse: u.ToResponse(),
			TradeCount:   len(u.Trades),
			Portfolio:    performance.Summarize(u.Trades).Portfolio(),
			RecentTrades: recent,
		})
	}
	return out, nil
}

// afterWrite must run after the write is committed: it bumps the owner's generation
// before invalidating so an in-flight Summary cannot re-cache pre-write data.
func (c *JournalController) afterWrite(ctx context.Context, ownerID string) {
	c.bumpGeneration(ownerID)
	c.invalidate(ctx, ownerID)

	if c.publisher == nil || c.publisher.Subscribers(ownerID) == 0 {
		return
	}

	summary, err := c.Summary(ctx, ownerID)
	if err != nil {
		logger.WithError(err).WithField("owner_id", ownerID).Error("failed to build summary for subscribers")
		return
	}
	delivered := c.publisher.Publish(ownerID, realtime.Message{Type: realtime.MessageTypeSummary, Data: summary})

	logger.WithFields(map[string]interface{}{
		"owner_id":  ownerID,
		"delivered": delivered,
	}).Debug("Pushed summary to subscribers")
}
