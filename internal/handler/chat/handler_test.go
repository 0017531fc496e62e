package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	model "github.com/guru-ai/guru/backend/internal/model/chat"
	chatservice "github.com/guru-ai/guru/backend/internal/service/chat"
)

func setupRouter() (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService()
	handler := New(chatSvc, zap.NewNop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	r.Route("/sessions/{sessionID}", handler.RegisterSessionRoutes)
	return r, chatSvc
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler) SessionResponse {
	t.Helper()
	resp := do(t, r, http.MethodPost, "/sessions", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var out SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return out
}

func TestCreateSessionReturnsSeed(t *testing.T) {
	r, _ := setupRouter()
	out := createSession(t, r)

	if out.Session.ID == "" {
		t.Fatal("expected session id")
	}
	if len(out.Messages) != len(model.Seed()) {
		t.Fatalf("expected seed transcript, got %d messages", len(out.Messages))
	}
	if out.Input != "" {
		t.Fatalf("expected empty input, got %q", out.Input)
	}
}

func TestSubmitText(t *testing.T) {
	r, _ := setupRouter()
	session := createSession(t, r)

	resp := do(t, r, http.MethodPost, "/sessions/"+session.Session.ID+"/submit", map[string]string{"text": "Hi"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if !out.Appended || len(out.Messages) != 5 {
		t.Fatalf("unexpected submit response: %+v", out)
	}
	if out.Messages[3] != (model.Message{Text: "Hi", Sender: model.SenderUser}) {
		t.Fatalf("unexpected user message: %+v", out.Messages[3])
	}
	if out.Messages[4] != (model.Message{Text: model.BotReply, Sender: model.SenderBot}) {
		t.Fatalf("unexpected bot message: %+v", out.Messages[4])
	}
}

func TestSubmitBlankTextIsNoop(t *testing.T) {
	r, _ := setupRouter()
	session := createSession(t, r)

	resp := do(t, r, http.MethodPost, "/sessions/"+session.Session.ID+"/submit", map[string]string{"text": "   "})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if out.Appended || len(out.Messages) != 3 {
		t.Fatalf("expected no-op, got %+v", out)
	}
}

func TestUpdateInputThenSubmitPending(t *testing.T) {
	r, _ := setupRouter()
	session := createSession(t, r)
	base := "/sessions/" + session.Session.ID

	resp := do(t, r, http.MethodPut, base+"/input", map[string]string{"text": "pending"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var state SessionResponse
	_ = json.NewDecoder(resp.Body).Decode(&state)
	if state.Input != "pending" {
		t.Fatalf("expected pending input, got %q", state.Input)
	}

	resp = do(t, r, http.MethodPost, base+"/submit", nil)
	var out SubmitResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if !out.Appended || out.Messages[3].Text != "pending" {
		t.Fatalf("unexpected submit response: %+v", out)
	}

	resp = do(t, r, http.MethodGet, base, nil)
	_ = json.NewDecoder(resp.Body).Decode(&state)
	if state.Input != "" {
		t.Fatalf("expected cleared input, got %q", state.Input)
	}
}

func TestUpdateInputRequiresText(t *testing.T) {
	r, _ := setupRouter()
	session := createSession(t, r)

	resp := do(t, r, http.MethodPut, "/sessions/"+session.Session.ID+"/input", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestInvalidBody(t *testing.T) {
	r, _ := setupRouter()
	session := createSession(t, r)

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+session.Session.ID+"/submit", bytes.NewReader([]byte("{")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	r, _ := setupRouter()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/sessions/missing"},
		{http.MethodPost, "/sessions/missing/submit"},
		{http.MethodPost, "/sessions/missing/reset"},
		{http.MethodDelete, "/sessions/missing"},
	} {
		resp := do(t, r, tc.method, tc.path, nil)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestResetAndClose(t *testing.T) {
	r, chatSvc := setupRouter()
	session := createSession(t, r)
	base := "/sessions/" + session.Session.ID

	do(t, r, http.MethodPost, base+"/submit", map[string]string{"text": "Hi"})

	resp := do(t, r, http.MethodPost, base+"/reset", nil)
	var state SessionResponse
	_ = json.NewDecoder(resp.Body).Decode(&state)
	if len(state.Messages) != 3 {
		t.Fatalf("expected seed after reset, got %d", len(state.Messages))
	}

	resp = do(t, r, http.MethodDelete, base, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if chatSvc.Len() != 0 {
		t.Fatalf("expected no mounts, got %d", chatSvc.Len())
	}
}
