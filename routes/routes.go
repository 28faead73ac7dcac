package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/cup-site/auth"
	_ "github.com/Dosada05/cup-site/docs" // swagger spec
	"github.com/Dosada05/cup-site/handlers"
	"github.com/Dosada05/cup-site/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Team      *handlers.TeamHandler
	Player    *handlers.PlayerHandler
	Auction   *handlers.AuctionHandler
	Dashboard *handlers.DashboardHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	Tokens         *auth.Tokens
	LoginPath      string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// OriginChecker returns a websocket origin check matching the CORS policy.
// With no allowed origins it returns nil, leaving the upgrader's same-host check.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RedactToken)
	router.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(opts.Logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	router.Use(chiMiddleware.Recoverer)
	// cors treats an empty origin list as "allow all"; same-origin deployments skip it.
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	requireSession := middleware.Authenticate(opts.Tokens, opts.LoginPath)

	// Публичные маршруты
	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		r.Get("/teams", h.Team.ListTeams)
		r.Get("/teams/{slug}", h.Team.GetTeamBySlug)
		r.Get("/auction", h.Auction.Board)
		r.Post("/auth/login", h.Auth.Login)
	})

	// Websockets authenticate on their own; the dashboard feed through auth.Gate.
	router.Get("/live/auction", h.WebSocket.ServeAuction)
	router.Get("/dashboard/live", h.WebSocket.ServeDashboard)

	// Защищенные маршруты
	router.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/auth/session", h.Auth.Session)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", h.Dashboard.Stats)

			r.Route("/teams", func(r chi.Router) {
				r.Post("/", h.Team.CreateTeam)
				r.Get("/{teamID}", h.Team.GetTeamByID)
				r.Put("/{teamID}", h.Team.UpdateTeam)
				r.Delete("/{teamID}", h.Team.DeleteTeam)
				r.Post("/{teamID}/logo", h.Team.UploadLogo)
			})

			r.Route("/players", func(r chi.Router) {
				r.Get("/", h.Player.ListPlayers)
				r.Post("/", h.Player.CreatePlayer)
				r.Get("/{playerID}", h.Player.GetPlayer)
				r.Put("/{playerID}", h.Player.UpdatePlayer)
				r.Delete("/{playerID}", h.Player.DeletePlayer)
			})

			r.Route("/auction/players/{playerID}", func(r chi.Router) {
				r.Post("/sell", h.Auction.Sell)
				r.Post("/unsold", h.Auction.MarkUnsold)
				r.Post("/reset", h.Auction.Reset)
			})
		})
	})
}
