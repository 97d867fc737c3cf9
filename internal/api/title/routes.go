package title

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers title routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/title", h.Generate)
}
