package api

import (
	"aichat-backend/internal/handlers"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup.
type RouterDependencies struct {
	ChatHandler    *handlers.ChatHandlers
	UserHandler    *handlers.UserHandlers
	SessionHandler *handlers.SessionHandlers
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer) // panics become 500s instead of leaking into the transcript
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		if deps.ChatHandler == nil {
			panic("ChatHandler dependency is nil in router setup")
		}
		r.Post("/chat", deps.ChatHandler.HandleChat)

		if deps.UserHandler != nil {
			r.Route("/users", func(r chi.Router) {
				r.Post("/", deps.UserHandler.HandleCreateUser)
				r.Get("/{username}", deps.UserHandler.HandleGetUser)
				if deps.SessionHandler != nil {
					r.Get("/{username}/sessions", deps.SessionHandler.HandleListSessions)
				}
			})
		} else {
			log.Println("WARN: UserHandler dependency is nil, skipping /api/users routes.")
		}

		if deps.SessionHandler != nil {
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", deps.SessionHandler.HandleCreateSession)
				r.Get("/{sessionID}", deps.SessionHandler.HandleGetSession)
				r.Patch("/{sessionID}", deps.SessionHandler.HandleRenameSession)
				r.Delete("/{sessionID}", deps.SessionHandler.HandleDeleteSession)
				r.Get("/{sessionID}/messages", deps.SessionHandler.HandleListMessages)
			})
		} else {
			log.Println("WARN: SessionHandler dependency is nil, skipping /api/sessions routes.")
		}
	})

	return r
}
