package routes

import (
	"github.com/TheMordhon1/warga-pkt/handlers"
	"github.com/TheMordhon1/warga-pkt/middleware"
	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Competition *handlers.CompetitionHandler
	Team        *handlers.TeamHandler
	Match       *handlers.MatchHandler
	Referee     *handlers.RefereeHandler
	WebSocket   *handlers.WebSocketHandler
}

// InitRoutes wires every handler into the chi router. Read endpoints are
// public; anything that mutates state requires a valid token, and
// competition administration additionally requires a staff role.
func InitRoutes(h Handlers, jwtSecret string, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	staffOnly := middleware.Authorize(models.RoleAdmin, models.RolePengurus)

	router.Handle("/metrics", promhttp.Handler())

	router.Post("/auth/register", h.Auth.RegisterHandler)
	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Route("/competitions", func(r chi.Router) {
		r.Get("/", h.Competition.ListCompetitionsHandler)
		r.Get("/{competitionID}", h.Competition.GetCompetitionHandler)
		r.Get("/{competitionID}/bracket", h.Competition.GetBracketHandler)
		r.Get("/{competitionID}/teams", h.Team.ListTeamsHandler)
		r.Get("/{competitionID}/matches", h.Match.ListMatchesHandler)
		r.Get("/{competitionID}/referees", h.Referee.ListRefereesHandler)
		r.Get("/{competitionID}/ws", h.WebSocket.SubscribeCompetitionHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			// Residents register their own teams while the competition
			// is open; everything else here is staff territory.
			r.Post("/{competitionID}/teams", h.Team.CreateTeamHandler)

			r.Group(func(r chi.Router) {
				r.Use(staffOnly)

				r.Post("/", h.Competition.CreateCompetitionHandler)
				r.Put("/{competitionID}", h.Competition.UpdateCompetitionHandler)
				r.Patch("/{competitionID}/status", h.Competition.ChangeStatusHandler)
				r.Delete("/{competitionID}", h.Competition.DeleteCompetitionHandler)
				r.Post("/{competitionID}/bracket", h.Competition.GenerateBracketHandler)
				r.Post("/{competitionID}/matches", h.Match.CreateMatchHandler)
				r.Post("/{competitionID}/referees", h.Referee.AssignRefereeHandler)
			})
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", h.Team.GetTeamHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Put("/{teamID}", h.Team.UpdateTeamHandler)
			r.Delete("/{teamID}", h.Team.DeleteTeamHandler)
			r.Post("/{teamID}/members", h.Team.AddMemberHandler)
			r.Delete("/{teamID}/members/{memberID}", h.Team.RemoveMemberHandler)
			r.Post("/{teamID}/logo", h.Team.UploadLogoHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetMatchHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			// Result recording is further gated inside the handler:
			// staff, the organizer, or an assigned referee.
			r.Patch("/{matchID}", h.Match.UpdateMatchHandler)
		})
	})

	router.Route("/referees", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Delete("/{refereeID}", h.Referee.RemoveRefereeHandler)
		})
	})

	return router
}
