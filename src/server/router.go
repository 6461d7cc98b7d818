package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/auth"
	"tradejournal/src/controller"
	"tradejournal/src/handler"
	"tradejournal/src/realtime"
	"tradejournal/src/repository"
)

type Dependencies struct {
	Journal    *controller.JournalController
	Users      *repository.GormUserRepository
	Hub        *realtime.Hub
	BcryptCost int
}

func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	// === Global Middleware ===
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck write error")
		}
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", handler.SignupHandler(deps.Users, deps.BcryptCost))
		r.Post("/login", handler.LoginHandler(deps.Users))
		r.With(auth.Middleware(deps.Users)).Put("/profile", handler.UpdateProfileHandler(deps.Users, deps.BcryptCost))
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(deps.Users))

		r.Route("/api/trades", func(r chi.Router) {
			r.Get("/", handler.ListTradesHandler(deps.Journal))
			r.Post("/", handler.CreateTradeHandler(deps.Journal))
			r.Get("/stats", handler.TradeStatsHandler(deps.Journal))
			r.Get("/performance", handler.PerformanceHandler(deps.Journal))
			r.Get("/{id}", handler.GetTradeHandler(deps.Journal))
			r.Put("/{id}", handler.UpdateTradeHandler(deps.Journal))
			r.Delete("/{id}", handler.DeleteTradeHandler(deps.Journal))
		})

		r.With(auth.RequireAdmin).Get("/api/admin/users", handler.AdminUsersHandler(deps.Journal))

		if deps.Hub != nil {
			r.Get("/ws/performance", deps.Hub.Handler(func(ctx context.Context, ownerID string) (interface{}, error) {
				return deps.Journal.Summary(ctx, ownerID)
			}))
		}
	})

	return r
}
