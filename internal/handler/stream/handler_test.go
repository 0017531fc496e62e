package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatservice "github.com/guru-ai/guru/backend/internal/service/chat"
	"github.com/guru-ai/guru/backend/internal/transcript"
)

type sseEvent struct {
	name string
	data string
}

func setupServer(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService()
	handler := New(chatSvc, time.Minute, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/sessions/{sessionID}", handler.RegisterSessionRoutes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, chatSvc
}

func readEvent(t *testing.T, reader *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read event: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.name != "" {
				return ev
			}
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEventsStreamTranscriptChanges(t *testing.T) {
	srv, chatSvc := setupServer(t)
	ctx := context.Background()
	session, err := chatSvc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL+"/sessions/"+session.ID+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	reader := bufio.NewReader(resp.Body)
	first := readEvent(t, reader)
	if first.name != EventScroll {
		t.Fatalf("expected initial scroll event, got %q", first.name)
	}

	if _, err := chatSvc.SubmitText(ctx, session.ID, "Hi"); err != nil {
		t.Fatalf("SubmitText err: %v", err)
	}

	changeEvent := readEvent(t, reader)
	if changeEvent.name != EventTranscript {
		t.Fatalf("expected transcript event, got %q", changeEvent.name)
	}
	var change transcript.Change
	if err := json.Unmarshal([]byte(changeEvent.data), &change); err != nil {
		t.Fatalf("decode change: %v", err)
	}
	if len(change.Messages) != 5 || change.Messages[3].Text != "Hi" {
		t.Fatalf("unexpected change: %+v", change)
	}

	scrollEvent := readEvent(t, reader)
	if scrollEvent.name != EventScroll {
		t.Fatalf("expected scroll event, got %q", scrollEvent.name)
	}
	var scroll transcript.ScrollRequest
	if err := json.Unmarshal([]byte(scrollEvent.data), &scroll); err != nil {
		t.Fatalf("decode scroll: %v", err)
	}
	if scroll != transcript.EndOfTranscript() {
		t.Fatalf("unexpected scroll request: %+v", scroll)
	}
}

func TestEventsUnknownSession(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/sessions/missing/events")
	if err != nil {
		t.Fatalf("request err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
