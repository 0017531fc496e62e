package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatService "github.com/guru-ai/guru/backend/internal/service/chat"
	"github.com/guru-ai/guru/backend/internal/transcript"
	"github.com/guru-ai/guru/backend/pkg/utils"
)

const (
	EventTranscript = "transcript"
	EventScroll     = "scroll"
)

// Handler pushes transcript changes to the page over Server-Sent Events.
type Handler struct {
	chatSvc   *chatService.Service
	heartbeat time.Duration
	logger    *zap.Logger
}

// New creates a stream handler.
func New(chatSvc *chatService.Service, heartbeat time.Duration, logger *zap.Logger) *Handler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &Handler{
		chatSvc:   chatSvc,
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// RegisterSessionRoutes registers the event route below /sessions/{sessionID}.
func (h *Handler) RegisterSessionRoutes(s chi.Router) {
	s.Get("/events", h.handleEvents)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	controller, err := h.chatSvc.Controller(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	// A slow client never blocks Submit; only the newest change is written.
	box := transcript.NewLatestBox()
	unsubscribe := controller.Subscribe(box)
	defer unsubscribe()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	h.logger.Debug("event stream opened", zap.String("session", sessionID))

	// The page scrolls once when the live channel attaches.
	if err := utils.SendSSEEvent(w, flusher, EventScroll, transcript.EndOfTranscript()); err != nil {
		return
	}

	scroll := transcript.ScrollObserver(func(req transcript.ScrollRequest) error {
		return utils.SendSSEEvent(w, flusher, EventScroll, req)
	}, h.logger)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("event stream closed", zap.String("session", sessionID))
			return
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
			// Keep the mount alive while the page is open.
			if _, err := h.chatSvc.Controller(ctx, sessionID); err != nil {
				return
			}
		case <-box.Ready():
			c, ok := box.Take()
			if !ok {
				continue
			}
			if err := utils.SendSSEEvent(w, flusher, EventTranscript, c); err != nil {
				h.logger.Debug("event write failed", zap.String("session", sessionID), zap.Error(err))
				return
			}
			scroll.TranscriptChanged(c)
		}
	}
}
