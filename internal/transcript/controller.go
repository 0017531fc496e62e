// Package transcript holds the state of one mounted chat view: the ordered
// message list and the text typed but not yet submitted.
package transcript

import (
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/guru-ai/guru/backend/internal/model/chat"
)

// InputState describes whether the pending input would be accepted by Submit.
type InputState int

const (
	InputEmpty InputState = iota
	InputNonEmpty
)

func (s InputState) String() string {
	if s == InputNonEmpty {
		return "non-empty"
	}
	return "empty"
}

// Change is delivered to observers after the transcript grows. Seq increases
// by one per committed change and observers see changes in Seq order.
type Change struct {
	Seq      uint64         `json:"seq"`
	Messages []chat.Message `json:"messages"`
	Appended []chat.Message `json:"appended"`
	Scroll   ScrollRequest  `json:"scroll"`
}

// Observer is notified after every transcript change.
type Observer interface {
	TranscriptChanged(Change)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Change)

// TranscriptChanged calls f(c).
func (f ObserverFunc) TranscriptChanged(c Change) {
	f(c)
}

// Option customises a Controller.
type Option func(*Controller)

// WithSeed replaces the initial transcript.
func WithSeed(seed []chat.Message) Option {
	return func(c *Controller) {
		c.seed = append([]chat.Message(nil), seed...)
	}
}

// WithReply replaces the canned bot reply. Empty values are ignored.
func WithReply(reply string) Option {
	return func(c *Controller) {
		if reply != "" {
			c.reply = reply
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns a transcript and its pending input buffer.
type Controller struct {
	mu       sync.Mutex
	seed     []chat.Message
	reply    string
	messages []chat.Message
	input    string

	seq        uint64
	pending    []Change
	delivering bool
	observers  []*subscription
	logger     *zap.Logger
}

type subscription struct {
	observer Observer
}

// New mounts a controller holding the seed transcript and an empty input.
func New(opts ...Option) *Controller {
	c := &Controller{
		seed:   chat.Seed(),
		reply:  chat.BotReply,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.messages = append(make([]chat.Message, 0, len(c.seed)+16), c.seed...)
	return c
}

// UpdateInput replaces the pending input buffer.
func (c *Controller) UpdateInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Submit appends the pending input and the canned reply. Input that is
// empty after trimming leaves everything untouched and reports false.
func (c *Controller) Submit() bool {
	c.mu.Lock()
	ok := c.submitLocked()
	c.deliverLocked()
	return ok
}

// SubmitText sets the pending input to text and submits it atomically.
// A rejected submit keeps text in the buffer.
func (c *Controller) SubmitText(text string) bool {
	c.mu.Lock()
	c.input = text
	ok := c.submitLocked()
	c.deliverLocked()
	return ok
}

func (c *Controller) submitLocked() bool {
	if isBlank(c.input) {
		return false
	}

	appended := []chat.Message{
		{Text: c.input, Sender: chat.SenderUser},
		{Text: c.reply, Sender: chat.SenderBot},
	}

	next := make([]chat.Message, len(c.messages), len(c.messages)+len(appended))
	copy(next, c.messages)
	c.messages = append(next, appended...)
	c.input = ""

	c.commitLocked(Change{Messages: c.snapshotLocked(), Appended: appended})
	return true
}

// Reset restores the seed transcript and clears the input, as a remount would.
// Subscribers stay attached and are notified.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.messages = append(make([]chat.Message, 0, len(c.seed)+16), c.seed...)
	c.input = ""
	c.commitLocked(Change{Messages: c.snapshotLocked()})
	c.deliverLocked()
}

// Messages returns a copy of the transcript, oldest first.
func (c *Controller) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Len returns the number of messages in the transcript.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Input returns the pending input buffer.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// InputState reports whether Submit would currently have an effect.
func (c *Controller) InputState() InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if isBlank(c.input) {
		return InputEmpty
	}
	return InputNonEmpty
}

// Subscribe registers o for transcript changes. The returned function
// removes it and is safe to call more than once.
func (c *Controller) Subscribe(o Observer) func() {
	sub := &subscription{observer: o}

	c.mu.Lock()
	c.observers = append(c.observers, sub)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, existing := range c.observers {
				if existing == sub {
					c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// isBlank reports whether s holds only whitespace as a browser's
// String.prototype.trim sees it: U+FEFF counts, U+0085 does not.
func isBlank(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		if r == '\u0085' {
			return false
		}
		return r == '\uFEFF' || unicode.IsSpace(r)
	}) == ""
}

func (c *Controller) snapshotLocked() []chat.Message {
	out := make([]chat.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) observersLocked() []Observer {
	out := make([]Observer, 0, len(c.observers))
	for _, sub := range c.observers {
		out = append(out, sub.observer)
	}
	return out
}

func (c *Controller) commitLocked(change Change) {
	c.seq++
	change.Seq = c.seq
	change.Scroll = EndOfTranscript()
	c.pending = append(c.pending, change)
}

// deliverLocked hands queued changes to observers in commit order and
// releases c.mu. Observers run without the lock so they may call back into
// the controller; only one goroutine delivers at a time, and a caller that
// finds delivery in progress leaves its change to that goroutine.
func (c *Controller) deliverLocked() {
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true
	for len(c.pending) > 0 {
		change := c.pending[0]
		c.pending[0] = Change{}
		c.pending = c.pending[1:]
		observers := c.observersLocked()
		c.mu.Unlock()

		for _, o := range observers {
			c.dispatch(o, change)
		}

		c.mu.Lock()
	}
	c.pending = nil
	c.delivering = false
	c.mu.Unlock()
}

func (c *Controller) dispatch(o Observer, change Change) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("transcript observer panicked", zap.Any("panic", r))
		}
	}()
	o.TranscriptChanged(change)
}
