package study

import (
	"github.com/conorfennell/flashdeck/internal/deck"
	"github.com/conorfennell/flashdeck/internal/gesture"
	"github.com/conorfennell/flashdeck/internal/session"
)

// Alert is a modal message with a single dismiss button.
type Alert struct {
	Title  string `json:"title"`
	Button string `json:"button"`
}

// View is everything the host needs to draw the review screen.
type View struct {
	SessionID                 string        `json:"sessionId"`
	State                     session.State `json:"state"`
	TimeRemaining             int           `json:"timeRemaining"`
	Active                    bool          `json:"active"`
	InputEnabled              bool          `json:"inputEnabled"`
	Alert                     *Alert        `json:"alert,omitempty"`
	ShowStartAgain            bool          `json:"showStartAgain"`
	ShowAnswerButtons         bool          `json:"showAnswerButtons"`
	DifferentiateWithoutColor bool          `json:"differentiateWithoutColor"`
	EditorOpen                bool          `json:"editorOpen"`
	SettingsOpen              bool          `json:"settingsOpen"`
	ReuseWrongCards           bool          `json:"reuseWrongCards"`
	Cards                     []CardView    `json:"cards"`
	// Haptics holds vibration sequences for the host to play; the study
	// itself never fills it.
	Haptics [][]int `json:"haptics,omitempty"`
}

// CardView is one card of the stack, bottom first.
type CardView struct {
	Index               int     `json:"index"`
	Label               string  `json:"label"`
	Detail              string  `json:"detail,omitempty"`
	ShowingAnswer       bool    `json:"showingAnswer"`
	StackOffset         float64 `json:"stackOffset"`
	AllowsInput         bool    `json:"allowsInput"`
	AccessibilityHidden bool    `json:"accessibilityHidden"`
	gesture.Visual
}

// View renders the current state.
func (s *Study) View() View {
	a := s.cfg.Accessibility
	cards := s.deck.Cards()
	v := View{
		SessionID:                 s.sessionID.String(),
		State:                     s.timer.State(),
		TimeRemaining:             s.timer.Display(),
		Active:                    s.timer.Active(),
		InputEnabled:              s.timer.AllowsInput(),
		ShowStartAgain:            len(cards) == 0,
		ShowAnswerButtons:         a.Alternates(),
		DifferentiateWithoutColor: a.DifferentiateWithoutColor,
		EditorOpen:                s.editorOpen,
		SettingsOpen:              s.settingsOpen,
		ReuseWrongCards:           s.deck.Settings().ReuseWrongCards,
		Cards:                     make([]CardView, 0, len(cards)),
	}
	if s.timer.AlertShowing() {
		v.Alert = &Alert{Title: "Time Up!", Button: "OK"}
	}

	for i, card := range cards {
		h := s.handlers[i]
		label, detail := h.Labels(card, a)
		v.Cards = append(v.Cards, CardView{
			Index:               i,
			Label:               label,
			Detail:              detail,
			ShowingAnswer:       h.ShowingAnswer(),
			StackOffset:         deck.StackOffset(i, len(cards)),
			AllowsInput:         s.allowsInput(i),
			AccessibilityHidden: s.deck.AccessibilityHidden(i),
			Visual:              h.Visual(a),
		})
	}
	return v
}
