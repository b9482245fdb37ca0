package httpapi

import (
	"net/http"

	"run2rejuvenate-backend-go/internal/config"
	"run2rejuvenate-backend-go/internal/db"
	"run2rejuvenate-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Server struct {
	DB          *db.Mongo
	Config      config.Config
	Tokens      services.TokenService
	Users       *services.UserService
	Events      *services.EventService
	Progress    *services.ProgressService
	Leaderboard *services.LeaderboardService
	Photos      *services.PhotoService
	Articles    *services.ArticleService
	MetricsHub  *services.MetricsHub
}

func NewServer(m *db.Mongo, cfg config.Config, hub *services.MetricsHub) *Server {
	users := services.NewUserService(m)
	events := services.NewEventService(m, users)
	return &Server{
		DB:          m,
		Config:      cfg,
		Tokens:      services.TokenService{Secret: []byte(cfg.JWTSecret), Issuer: cfg.JWTIssuer},
		Users:       users,
		Events:      events,
		Progress:    services.NewProgressService(m, events),
		Leaderboard: services.NewLeaderboardService(m, events),
		Photos:      services.NewPhotoService(m, cfg.UploadDir),
		Articles:    services.NewArticleService(m),
		MetricsHub:  hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/", s.Root)
	r.Get("/health", s.Health)

	r.Route("/api", func(api chi.Router) {
		api.Route("/users", func(users chi.Router) {
			users.Get("/check-email", s.CheckEmail)
			users.Post("/register", s.RegisterUser)

			users.Group(func(auth chi.Router) {
				auth.Use(WithAuth(s.Tokens))
				auth.Get("/me", s.Me)
				auth.Put("/me", s.UpdateMe)
			})

			users.Group(func(admin chi.Router) {
				admin.Use(WithAuth(s.Tokens))
				admin.Use(RequireAdmin)
				admin.Get("/", s.ListUsers)
				admin.Get("/{userId}", s.GetUser)
				admin.Put("/{userId}", s.UpdateUser)
				admin.Delete("/{userId}", s.DeleteUser)
			})
		})

		api.Route("/events", func(events chi.Router) {
			events.Get("/", s.ListEvents)

			events.Group(func(auth chi.Router) {
				auth.Use(WithAuth(s.Tokens))
				auth.Get("/user/registered", s.RegisteredEvents)
				auth.Post("/{eventId}/register", s.RegisterForEvent)
				auth.Post("/{eventId}/unregister", s.UnregisterFromEvent)
			})

			events.Get("/{eventId}", s.GetEvent)

			events.Group(func(admin chi.Router) {
				admin.Use(WithAuth(s.Tokens))
				admin.Use(RequireAdmin)
				admin.Post("/", s.CreateEvent)
				admin.Put("/{eventId}", s.UpdateEvent)
				admin.Delete("/{eventId}", s.DeleteEvent)
			})
		})

		api.Route("/progress", func(progress chi.Router) {
			progress.Use(WithAuth(s.Tokens))
			progress.Post("/", s.CreateProgress)
			progress.Get("/", s.MyProgress)
			progress.Get("/event/{eventId}", s.EventProgress)
			progress.Get("/event/{eventId}/leaderboard", s.EventLeaderboard)
			progress.Get("/{progressId}", s.GetProgress)
			progress.Put("/{progressId}", s.UpdateProgress)
			progress.Delete("/{progressId}", s.DeleteProgress)
		})

		api.Route("/photos", func(photos chi.Router) {
			photos.Get("/", s.ListPhotos)
			photos.Get("/count", s.PhotoCount)
			photos.Get("/{photoId}", s.GetPhoto)

			photos.Group(func(admin chi.Router) {
				admin.Use(WithAuth(s.Tokens))
				admin.Use(RequireAdmin)
				admin.Post("/", s.CreatePhoto)
				admin.Put("/{photoId}", s.UpdatePhoto)
				admin.Delete("/{photoId}", s.DeletePhoto)
			})
		})

		api.Route("/articles", func(articles chi.Router) {
			articles.Get("/", s.ListArticles)
			articles.Get("/{articleId}", s.GetArticle)

			articles.Group(func(admin chi.Router) {
				admin.Use(WithAuth(s.Tokens))
				admin.Use(RequireAdmin)
				admin.Post("/", s.CreateArticle)
				admin.Put("/{articleId}", s.UpdateArticle)
				admin.Delete("/{articleId}", s.DeleteArticle)
			})
		})

		api.With(WithAuth(s.Tokens), RequireAdmin).Get("/admin/metrics/history", s.MetricsHistory)
	})

	uploads := http.StripPrefix("/uploads/photos/", http.FileServer(http.Dir(s.Config.UploadDir)))
	r.Get("/uploads/photos/*", uploads.ServeHTTP)

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}

func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Run2Rejuvenate API"})
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
