package transcript

import "sync"

// LatestBox hands changes from the notifying goroutine to a single writer
// without blocking. Only the newest pending change is kept; a change with a
// lower Seq than the one already pending is dropped.
type LatestBox struct {
	mu      sync.Mutex
	pending *Change
	ready   chan struct{}
}

// NewLatestBox creates an empty box.
func NewLatestBox() *LatestBox {
	return &LatestBox{ready: make(chan struct{}, 1)}
}

// TranscriptChanged implements Observer.
func (b *LatestBox) TranscriptChanged(c Change) {
	b.mu.Lock()
	if b.pending != nil && b.pending.Seq > c.Seq {
		b.mu.Unlock()
		return
	}
	b.pending = &c
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled when a change is waiting to be taken.
func (b *LatestBox) Ready() <-chan struct{} {
	return b.ready
}

// Take removes and returns the pending change.
func (b *LatestBox) Take() (Change, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return Change{}, false
	}
	c := *b.pending
	b.pending = nil
	return c, true
}
