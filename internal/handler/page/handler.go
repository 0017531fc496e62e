package page

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/guru-ai/guru/backend/internal/model/nav"
	chatService "github.com/guru-ai/guru/backend/internal/service/chat"
	"github.com/guru-ai/guru/backend/internal/theme"
	"github.com/guru-ai/guru/backend/internal/transcript"
	"github.com/guru-ai/guru/backend/internal/view"
)

const pageTitle = "Guru AI"

// Handler serves the HTML pages and their form posts.
type Handler struct {
	chatSvc  *chatService.Service
	renderer *view.Renderer
	themes   *theme.Provider
	menu     nav.Store
	logger   *zap.Logger
}

// New creates the page handler.
func New(chatSvc *chatService.Service, renderer *view.Renderer, themes *theme.Provider, menu nav.Store, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		renderer: renderer,
		themes:   themes,
		menu:     menu,
		logger:   logger,
	}
}

// RegisterRoutes registers the page routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Get("/chat", h.handleChat)
	r.Post("/chat/{sessionID}", h.handleChatSubmit)
	r.Post("/theme", h.handleTheme)
	r.Post("/sidebar", h.handleSidebar)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, view.PageHome, h.layout(r, pageTitle))
}

// handleChat mounts a fresh transcript on every page load.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		h.logger.Error("mount chat failed", zap.Error(err))
		http.Error(w, "could not start chat", http.StatusInternalServerError)
		return
	}

	h.renderChat(w, r, session.ID)
}

// handleChatSubmit is the no-script path: the form posts here and gets the page back.
func (h *Handler) handleChatSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if _, err := h.chatSvc.SubmitText(r.Context(), sessionID, r.PostFormValue("message")); err != nil {
		if errors.Is(err, chatService.ErrSessionNotFound) {
			http.Redirect(w, r, "/chat", http.StatusSeeOther)
			return
		}
		h.logger.Error("submit failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "submit failed", http.StatusInternalServerError)
		return
	}

	h.renderChat(w, r, sessionID)
}

func (h *Handler) renderChat(w http.ResponseWriter, r *http.Request, sessionID string) {
	controller, err := h.chatSvc.Controller(r.Context(), sessionID)
	if err != nil {
		http.Redirect(w, r, "/chat", http.StatusSeeOther)
		return
	}

	page := h.layout(r, pageTitle)
	page.Path = "/chat"
	page.Active = h.menu.Active("/chat")
	page.Chat = &view.ChatView{
		SessionID: sessionID,
		Messages:  controller.Messages(),
		Input:     controller.Input(),
		EndTarget: transcript.EndTarget,
		EventsURL: "/api/sessions/" + sessionID + "/events",
		SubmitURL: "/api/sessions/" + sessionID + "/submit",
	}
	h.render(w, view.PageChat, page)
}

func (h *Handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	next := h.themes.Next(h.themes.Resolve(r))
	if raw := r.PostFormValue("mode"); raw != "" {
		mode, err := theme.ParseMode(raw)
		if err != nil || !h.themes.Allowed(mode) {
			http.Error(w, "unknown theme", http.StatusBadRequest)
			return
		}
		next = mode
	}

	theme.SetCookie(w, next)
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

func (h *Handler) handleSidebar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	setSidebarCookie(w, !sidebarOpen(r))
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, name string, page view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, name, page); err != nil {
		h.logger.Error("render page failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}
