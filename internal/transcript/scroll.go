package transcript

import "go.uber.org/zap"

const (
	// EndTarget is the element id of the anchor rendered after the last message.
	EndTarget = "transcript-end"

	BehaviorSmooth = "smooth"
)

// ScrollRequest asks the rendered page to bring Target into view.
type ScrollRequest struct {
	Target   string `json:"target"`
	Behavior string `json:"behavior"`
}

// EndOfTranscript is the request issued after every transcript change.
func EndOfTranscript() ScrollRequest {
	return ScrollRequest{Target: EndTarget, Behavior: BehaviorSmooth}
}

// ScrollSink delivers a scroll request to whatever is displaying the transcript.
type ScrollSink func(ScrollRequest) error

// ScrollObserver returns an observer that forwards a scroll-to-end request
// to sink on every change. Delivery failures are dropped.
func ScrollObserver(sink ScrollSink, logger *zap.Logger) Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ObserverFunc(func(c Change) {
		if err := sink(c.Scroll); err != nil {
			logger.Debug("scroll request dropped", zap.String("target", c.Scroll.Target), zap.Error(err))
		}
	})
}
