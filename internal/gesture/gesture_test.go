package gesture

import (
	"testing"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/haptics"
	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	prepared      int
	notifications []haptics.Notification
}

func (r *recordingNotifier) Prepare() { r.prepared++ }

func (r *recordingNotifier) Notify(n haptics.Notification) {
	r.notifications = append(r.notifications, n)
}

func TestEndedThreshold(t *testing.T) {
	testCases := []struct {
		name          string
		width         float64
		wantCommitted bool
		wantCorrect   bool
		wantPulse     haptics.Notification
	}{
		{name: "Far right accepts", width: 150, wantCommitted: true, wantCorrect: true, wantPulse: haptics.Success},
		{name: "Far left rejects", width: -150, wantCommitted: true, wantCorrect: false, wantPulse: haptics.Error},
		{name: "Just past threshold", width: 100.5, wantCommitted: true, wantCorrect: true, wantPulse: haptics.Success},
		{name: "Exactly threshold right", width: 100},
		{name: "Exactly threshold left", width: -100},
		{name: "Small drag", width: 30},
		{name: "No drag", width: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			var calls []bool
			h := NewHandler(notifier, func(correct bool) { calls = append(calls, correct) })

			h.Changed(Offset{Width: tc.width, Height: 12})
			committed, correct := h.Ended()

			assert.Equal(t, tc.wantCommitted, committed)
			assert.Equal(t, Offset{}, h.Offset(), "offset should snap back to zero")
			assert.Equal(t, 1, notifier.prepared)
			if tc.wantCommitted {
				assert.Equal(t, tc.wantCorrect, correct)
				assert.Equal(t, []bool{tc.wantCorrect}, calls, "exactly one decision callback")
				assert.Equal(t, []haptics.Notification{tc.wantPulse}, notifier.notifications)
			} else {
				assert.Empty(t, calls)
				assert.Empty(t, notifier.notifications)
			}
		})
	}
}

func TestEndedWithoutCallbacks(t *testing.T) {
	h := NewHandler(nil, nil)
	h.Changed(Offset{Width: -300})
	assert.NotPanics(t, func() {
		committed, correct := h.Ended()
		assert.True(t, committed)
		assert.False(t, correct)
	})
}

func TestEndedTwiceCommitsOnce(t *testing.T) {
	calls := 0
	h := NewHandler(nil, func(bool) { calls++ })
	h.Changed(Offset{Width: 200})
	h.Ended()
	h.Ended()
	assert.Equal(t, 1, calls)
}

func TestVisualFor(t *testing.T) {
	plain := Accessibility{}
	noColor := Accessibility{DifferentiateWithoutColor: true}

	t.Run("right drag", func(t *testing.T) {
		v := VisualFor(Offset{Width: 50}, plain)
		assert.InDelta(t, 10, v.Rotation, 1e-9)
		assert.InDelta(t, 250, v.OffsetX, 1e-9)
		assert.InDelta(t, 1, v.Opacity, 1e-9)
		assert.InDelta(t, 0, v.FillOpacity, 1e-9)
		assert.Equal(t, TintGreen, v.Tint)
	})

	t.Run("left drag", func(t *testing.T) {
		v := VisualFor(Offset{Width: -25}, plain)
		assert.InDelta(t, -5, v.Rotation, 1e-9)
		assert.InDelta(t, -125, v.OffsetX, 1e-9)
		assert.InDelta(t, 1.5, v.Opacity, 1e-9)
		assert.InDelta(t, 0.5, v.FillOpacity, 1e-9)
		assert.Equal(t, TintRed, v.Tint)
	})

	t.Run("rest", func(t *testing.T) {
		v := VisualFor(Offset{}, plain)
		assert.Equal(t, Visual{Opacity: 2, FillOpacity: 1, Tint: TintNeutral}, v)
	})

	t.Run("height is ignored", func(t *testing.T) {
		assert.Equal(t, VisualFor(Offset{Width: 40}, plain), VisualFor(Offset{Width: 40, Height: -90}, plain))
	})

	t.Run("differentiate without color suppresses tint", func(t *testing.T) {
		for _, w := range []float64{-80, 0, 80} {
			v := VisualFor(Offset{Width: w}, noColor)
			assert.Equal(t, TintNone, v.Tint)
			assert.Equal(t, 1.0, v.FillOpacity)
		}
	})
}

func TestTintText(t *testing.T) {
	text, err := TintRed.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "red", string(text))
	assert.Equal(t, "none", TintNone.String())

	var tint Tint
	assert.NoError(t, tint.UnmarshalText([]byte("green")))
	assert.Equal(t, TintGreen, tint)
	assert.Error(t, tint.UnmarshalText([]byte("blue")))
}

func TestLabels(t *testing.T) {
	card := domain.Card{Prompt: "Capital of France?", Answer: "Paris"}

	t.Run("sighted", func(t *testing.T) {
		h := NewHandler(nil, nil)
		p, s := h.Labels(card, Accessibility{})
		assert.Equal(t, "Capital of France?", p)
		assert.Empty(t, s)

		h.Tap()
		p, s = h.Labels(card, Accessibility{})
		assert.Equal(t, "Capital of France?", p)
		assert.Equal(t, "Paris", s)
	})

	t.Run("screen reader switches a single label", func(t *testing.T) {
		a := Accessibility{ScreenReader: true}
		h := NewHandler(nil, nil)
		p, s := h.Labels(card, a)
		assert.Equal(t, "Capital of France?", p)
		assert.Empty(t, s)

		h.Tap()
		p, s = h.Labels(card, a)
		assert.Equal(t, "Paris", p)
		assert.Empty(t, s)

		h.Tap()
		assert.False(t, h.ShowingAnswer())
	})

	t.Run("alternates", func(t *testing.T) {
		assert.False(t, Accessibility{}.Alternates())
		assert.True(t, Accessibility{ScreenReader: true}.Alternates())
		assert.True(t, Accessibility{DifferentiateWithoutColor: true}.Alternates())
	})
}

func TestCancel(t *testing.T) {
	calls := 0
	h := NewHandler(nil, func(bool) { calls++ })
	h.Changed(Offset{Width: 500, Height: 20})
	h.Cancel()
	assert.Equal(t, Offset{}, h.Offset())
	committed, _ := h.Ended()
	assert.False(t, committed)
	assert.Zero(t, calls)
}
