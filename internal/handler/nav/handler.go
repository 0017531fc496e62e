package nav

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guru-ai/guru/backend/internal/model/nav"
	"github.com/guru-ai/guru/backend/pkg/utils"
)

// Handler serves the sidebar configuration.
type Handler struct {
	menu nav.Store
}

// New creates the nav handler.
func New(menu nav.Store) *Handler {
	return &Handler{menu: menu}
}

// RegisterRoutes registers the nav routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/nav", h.handleMenu)
}

func (h *Handler) handleMenu(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.menu.Menu())
}
