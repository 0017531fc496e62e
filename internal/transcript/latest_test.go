package transcript_test

import (
	"testing"
	"time"

	"github.com/guru-ai/guru/backend/internal/transcript"
)

func TestLatestBoxNeverBlocksAndKeepsNewest(t *testing.T) {
	c := transcript.New()
	box := transcript.NewLatestBox()
	c.Subscribe(box)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			c.SubmitText("msg")
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("submit blocked on an unread box")
	}

	<-box.Ready()
	change, ok := box.Take()
	if !ok {
		t.Fatal("expected a pending change")
	}
	if change.Seq != 10 || len(change.Messages) != 23 {
		t.Fatalf("expected newest change, got seq=%d len=%d", change.Seq, len(change.Messages))
	}
	if _, ok := box.Take(); ok {
		t.Fatal("expected box to be empty after Take")
	}
}

func TestLatestBoxDropsOlderChange(t *testing.T) {
	box := transcript.NewLatestBox()
	box.TranscriptChanged(transcript.Change{Seq: 2})
	box.TranscriptChanged(transcript.Change{Seq: 1})

	change, ok := box.Take()
	if !ok || change.Seq != 2 {
		t.Fatalf("expected seq 2 to win, got %+v", change)
	}
}
