package routes

import (
	"github.com/courtside/competition-system/handlers"
	"github.com/courtside/competition-system/middleware"
	"github.com/courtside/competition-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes mounts the full HTTP surface. Lifecycle and scoring routes
// accept anonymous scoring devices, so they sit behind Authenticate only;
// destructive and editorial routes require admin or manager roles.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	matchHandler *handlers.MatchHandler,
	rosterHandler *handlers.RosterHandler,
	teamHandler *handlers.TeamHandler,
	newsHandler *handlers.NewsHandler,
	ladderHandler *handlers.LadderHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Authenticate(jwtSecret))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.List)
		r.Get("/{matchID}", matchHandler.GetByID)
		r.Get("/{matchID}/events", matchHandler.ListEvents)
		r.Get("/{matchID}/rosters", rosterHandler.ListByMatch)
		r.Get("/{matchID}/umpires", rosterHandler.ListUmpiresByMatch)

		// Live scoring. Open to unauthenticated scoring devices.
		r.Post("/{matchID}/start", matchHandler.Start)
		r.Post("/{matchID}/pause", matchHandler.Pause)
		r.Post("/{matchID}/resume", matchHandler.Resume)
		r.Post("/{matchID}/end", matchHandler.End)
		r.Post("/{matchID}/restart", matchHandler.Restart)
		r.Post("/{matchID}/extra-time", matchHandler.StartExtraTime)
		r.Post("/{matchID}/scorer", matchHandler.ChangeScorer)
		r.Post("/{matchID}/score", matchHandler.UpdateScore)
		r.Post("/{matchID}/period-scores", matchHandler.RecordPeriodScore)
		r.Post("/{matchID}/stats", matchHandler.UpdateStats)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.UserRoleAdmin, models.UserRoleManager))
			r.Post("/", matchHandler.Create)
			r.Post("/notify", matchHandler.BulkNotify)
			r.Post("/{matchID}/umpires", rosterHandler.AssignUmpire)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.UserRoleAdmin))
			r.Delete("/{matchID}", matchHandler.Delete)
			r.Delete("/{matchID}/events", matchHandler.DeleteEvents)
		})
	})

	router.Route("/rosters", func(r chi.Router) {
		r.Use(middleware.Authorize(models.UserRoleAdmin, models.UserRoleManager))
		r.Post("/", rosterHandler.Assign)
		r.Delete("/{rosterID}", rosterHandler.Remove)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListByDivision)
		r.Get("/{teamID}", teamHandler.GetByID)

		// Watchlist subscriptions are keyed by device, not account.
		r.Post("/{teamID}/watchlist", teamHandler.AddToWatchlist)
		r.Delete("/{teamID}/watchlist/{deviceID}", teamHandler.RemoveFromWatchlist)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.UserRoleAdmin))
			r.Post("/", teamHandler.Create)
			r.Delete("/{teamID}", teamHandler.Delete)
		})
	})

	router.Post("/devices", teamHandler.RegisterDevice)

	router.Route("/news", func(r chi.Router) {
		r.Get("/", newsHandler.ListByOrganisation)
		r.Get("/{newsID}", newsHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.UserRoleAdmin, models.UserRoleManager))
			r.Post("/", newsHandler.Create)
			r.Put("/{newsID}/image", newsHandler.AttachImage)
			r.Post("/{newsID}/publish", newsHandler.Publish)
			r.Delete("/{newsID}", newsHandler.Delete)
		})
	})

	router.Get("/divisions/{divisionID}/ladder", ladderHandler.ListByDivision)

	router.Get("/ws/matches/{matchID}", webSocketHandler.ServeMatch)
}
