package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	chatapi "github.com/whymaker/chat-backend/internal/api/chat"
	"github.com/whymaker/chat-backend/internal/api/middleware"
	titleapi "github.com/whymaker/chat-backend/internal/api/title"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(chatHandler *chatapi.Handler, titleHandler *titleapi.Handler, logger *zap.Logger, corsOrigin string) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(chimiddleware.RequestID)     // Add request ID
	r.Use(middleware.Logger(logger))   // Log requests
	r.Use(middleware.CORS(corsOrigin)) // Handle CORS

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

		// Health check endpoint
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"healthy"}`))
		})

		titleapi.RegisterRoutes(r, titleHandler)
	})

	// The chat route streams the generated answer and can run past a
	// request timeout. The server write timeout bounds it instead.
	chatapi.RegisterRoutes(r, chatHandler)

	return r
}
