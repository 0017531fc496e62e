package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/guru-ai/guru/backend/internal/config"
	"github.com/guru-ai/guru/backend/internal/handler/chat"
	"github.com/guru-ai/guru/backend/internal/handler/live"
	navHandler "github.com/guru-ai/guru/backend/internal/handler/nav"
	"github.com/guru-ai/guru/backend/internal/handler/page"
	"github.com/guru-ai/guru/backend/internal/handler/stream"
	middlewarePkg "github.com/guru-ai/guru/backend/internal/middleware"
	"github.com/guru-ai/guru/backend/internal/model/nav"
	chatService "github.com/guru-ai/guru/backend/internal/service/chat"
	"github.com/guru-ai/guru/backend/internal/theme"
	"github.com/guru-ai/guru/backend/internal/view"
	"github.com/guru-ai/guru/backend/pkg/utils"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config   config.ServerConfig
	Chat     *chatService.Service
	Themes   *theme.Provider
	Menu     nav.Store
	Renderer *view.Renderer
	Logger   *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger(logger))
	r.Use(middleware.Recoverer)

	pageHandler := page.New(deps.Chat, deps.Renderer, deps.Themes, deps.Menu, logger)
	chatHandler := chat.New(deps.Chat, logger)
	streamHandler := stream.New(deps.Chat, deps.Config.SSEHeartbeat, logger)
	liveHandler := live.NewWebSocketHandler(deps.Chat, logger)
	menuHandler := navHandler.New(deps.Menu)

	pageHandler.RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middlewarePkg.CORS(deps.Config.CORSOrigins))

		menuHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)

		api.Route("/sessions/{sessionID}", func(s chi.Router) {
			chatHandler.RegisterSessionRoutes(s)
			streamHandler.RegisterSessionRoutes(s)
			liveHandler.RegisterSessionRoutes(s)
		})
	})

	return r
}
