package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/guru-ai/guru/backend/internal/model/chat"
	chatService "github.com/guru-ai/guru/backend/internal/service/chat"
	"github.com/guru-ai/guru/backend/pkg/utils"
)

// Handler exposes transcript mounts as JSON.
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New creates the chat API handler.
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger,
	}
}

// RegisterRoutes registers the collection route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
}

// RegisterSessionRoutes registers routes below /sessions/{sessionID}.
func (h *Handler) RegisterSessionRoutes(s chi.Router) {
	s.Get("/", h.handleGetSession)
	s.Delete("/", h.handleCloseSession)
	s.Put("/input", h.handleUpdateInput)
	s.Post("/submit", h.handleSubmit)
	s.Post("/reset", h.handleReset)
}

// SessionResponse is the JSON view of a mount.
type SessionResponse struct {
	Session  chat.Session   `json:"session"`
	Messages []chat.Message `json:"messages"`
	Input    string         `json:"input"`
}

// SubmitResponse reports the outcome of a submit.
type SubmitResponse struct {
	Appended bool           `json:"appended"`
	Messages []chat.Message `json:"messages"`
}

type textPayload struct {
	Text *string `json:"text"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		h.logger.Error("create session failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	resp, err := h.sessionResponse(r, session.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessionResponse(r, chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateInput(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeText(w, r, true)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.chatSvc.UpdateInput(r.Context(), sessionID, *payload.Text); err != nil {
		h.respondServiceError(w, err)
		return
	}

	resp, err := h.sessionResponse(r, sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// handleSubmit submits the body text when present, otherwise the pending input.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeText(w, r, false)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	var (
		appended bool
		err      error
	)
	if payload.Text != nil {
		appended, err = h.chatSvc.SubmitText(r.Context(), sessionID, *payload.Text)
	} else {
		appended, err = h.chatSvc.Submit(r.Context(), sessionID)
	}
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	messages, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, SubmitResponse{Appended: appended, Messages: messages})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.chatSvc.ResetSession(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, err)
		return
	}

	resp, err := h.sessionResponse(r, sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) sessionResponse(r *http.Request, sessionID string) (SessionResponse, error) {
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	controller, err := h.chatSvc.Controller(r.Context(), sessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{
		Session:  session,
		Messages: controller.Messages(),
		Input:    controller.Input(),
	}, nil
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, chatService.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("chat request failed", zap.Error(err))
	utils.RespondError(w, http.StatusInternalServerError, "internal error")
}

// decodeText reads an optional {"text": ...} body. An empty body is allowed
// unless the text is required.
func decodeText(w http.ResponseWriter, r *http.Request, required bool) (textPayload, bool) {
	var payload textPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return textPayload{}, false
	}
	if required && payload.Text == nil {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return textPayload{}, false
	}
	return payload, true
}
