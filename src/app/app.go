// Package app wires storage, cache, live feed and HTTP routing into a runnable journal API.
package app

import (
	"context"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/cache"
	"tradejournal/src/controller"
	"tradejournal/src/database"
	"tradejournal/src/realtime"
	"tradejournal/src/repository"
	"tradejournal/src/security"
	"tradejournal/src/server"
)

// OpenDatabase connects with the environment configuration and applies migrations.
func OpenDatabase() (*gorm.DB, error) {
	db, err := database.Connect(database.GetConfig())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// NewDependencies builds the router dependencies on top of db and the summary cache.
func NewDependencies(db *gorm.DB, summaries cache.SummaryCache) server.Dependencies {
	users := repository.NewUserRepository(db)
	hub := realtime.NewHub()

	journal := controller.NewJournalController(
		repository.NewTradeRepository(db),
		users,
		summaries,
		hub,
		repository.NewExceptionRepository(db),
		controller.GetConfig(),
	)

	return server.Dependencies{
		Journal:    journal,
		Users:      users,
		Hub:        hub,
		BcryptCost: security.GetConfig().BcryptCost,
	}
}

// Serve runs the API until SIGINT or SIGTERM.
func Serve() error {
	db, err := OpenDatabase()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		defer func() {
			if err := sqlDB.Close(); err != nil {
				logger.WithError(err).Warn("failed to close database")
			}
		}()
	}

	summaries := cache.New(context.Background(), cache.GetConfig())
	defer closeSummaryCache(summaries)

	deps := NewDependencies(db, summaries)
	return server.StartServer(server.GetConfig(), server.NewRouter(deps))
}

// closeSummaryCache releases the Redis connection pool when the cache holds one.
func closeSummaryCache(summaries cache.SummaryCache) {
	closer, ok := summaries.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close summary cache")
	}
}
