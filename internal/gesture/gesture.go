// Package gesture turns drag and tap input on a single card into visual
// state and grading decisions.
package gesture

import (
	"math"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/haptics"
)

// SwipeThreshold is the horizontal distance a drag must exceed at release
// to grade the card.
const SwipeThreshold = 100.0

// Offset is a 2D drag translation.
type Offset struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Accessibility carries the host's accessibility modes.
type Accessibility struct {
	// DifferentiateWithoutColor disables color as the only signal of state.
	DifferentiateWithoutColor bool
	// ScreenReader is set while a screen reader is running.
	ScreenReader bool
}

// Alternates reports whether the Wrong/Correct buttons should replace
// swiping.
func (a Accessibility) Alternates() bool {
	return a.DifferentiateWithoutColor || a.ScreenReader
}

// Notifier plays the pulse that accompanies a decision.
type Notifier interface {
	Prepare()
	Notify(n haptics.Notification)
}

// Handler tracks the drag and reveal state of one card.
type Handler struct {
	offset        Offset
	showingAnswer bool
	notifier      Notifier
	removal       func(correct bool)
}

// NewHandler returns a Handler. removal is called once for every committed
// swipe; either argument may be nil.
func NewHandler(notifier Notifier, removal func(correct bool)) *Handler {
	return &Handler{notifier: notifier, removal: removal}
}

// Changed records the raw translation of an in-progress drag.
func (h *Handler) Changed(translation Offset) {
	h.offset = translation
	if h.notifier != nil {
		h.notifier.Prepare()
	}
}

// Ended finishes a drag. Past the threshold it commits a decision: the
// pulse plays, the removal callback runs with correct set to whether the
// card went right, and the offset snaps back. Otherwise the offset snaps
// back with no decision.
func (h *Handler) Ended() (committed, correct bool) {
	width := h.offset.Width
	h.offset = Offset{}
	if math.Abs(width) <= SwipeThreshold {
		return false, false
	}

	correct = width > 0
	if h.notifier != nil {
		if correct {
			h.notifier.Notify(haptics.Success)
		} else {
			h.notifier.Notify(haptics.Error)
		}
	}
	if h.removal != nil {
		h.removal(correct)
	}
	return true, correct
}

// Cancel abandons an in-progress drag without a decision.
func (h *Handler) Cancel() {
	h.offset = Offset{}
}

// Tap toggles whether the answer is revealed.
func (h *Handler) Tap() {
	h.showingAnswer = !h.showingAnswer
}

func (h *Handler) Offset() Offset {
	return h.offset
}

func (h *Handler) ShowingAnswer() bool {
	return h.showingAnswer
}

// Visual returns the derived visual state for the current offset.
func (h *Handler) Visual(a Accessibility) Visual {
	return VisualFor(h.offset, a)
}

// Labels returns the text the card shows. Under a screen reader a single
// label switches between prompt and answer; otherwise the prompt stays and
// the answer appears beneath it once revealed.
func (h *Handler) Labels(card domain.Card, a Accessibility) (primary, secondary string) {
	if a.ScreenReader {
		if h.showingAnswer {
			return card.Answer, ""
		}
		return card.Prompt, ""
	}
	if h.showingAnswer {
		return card.Prompt, card.Answer
	}
	return card.Prompt, ""
}
