// Package study is the review screen: a deck of cards, the session
// countdown, per-card gestures and haptic feedback, driven by explicit
// events. A Study is not safe for concurrent use; the loop package
// serializes every event onto one goroutine.
package study

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/conorfennell/flashdeck/internal/deck"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/gesture"
	"github.com/conorfennell/flashdeck/internal/haptics"
	"github.com/conorfennell/flashdeck/internal/lifecycle"
	"github.com/conorfennell/flashdeck/internal/session"
)

// Config holds the study settings fixed at startup.
type Config struct {
	SessionSeconds int
	Settings       domain.Settings
	Accessibility  gesture.Accessibility
}

// CardSource supplies the persisted deck on every session reset.
type CardSource interface {
	Load(ctx context.Context) []domain.Card
}

// Haptics plays decision pulses and the expiry pattern.
type Haptics interface {
	gesture.Notifier
	Play(p haptics.Pattern)
}

// Decision is the outcome of releasing a drag.
type Decision struct {
	Committed bool `json:"committed"`
	Correct   bool `json:"correct"`
}

// Study is the state of the review screen.
type Study struct {
	cfg      Config
	source   CardSource
	haptics  Haptics
	deck     *deck.Controller
	timer    *session.Timer
	handlers []*gesture.Handler

	editorOpen   bool
	settingsOpen bool
	sessionID    uuid.UUID
	logger       *slog.Logger
	baseLogger   *slog.Logger
}

// New builds a Study. Call ResetSession before the first event.
func New(cfg Config, source CardSource, h Haptics, logger *slog.Logger) *Study {
	logger = logger.With("component", "study")
	return &Study{
		cfg:        cfg,
		source:     source,
		haptics:    h,
		deck:       deck.New(cfg.Settings),
		timer:      session.NewTimer(cfg.SessionSeconds),
		logger:     logger,
		baseLogger: logger,
	}
}

// ResetSession reloads the persisted deck and restarts the clock. The clock
// runs even when there are no cards. The load ignores cancellation of ctx
// so that an abandoned request cannot read the deck as empty.
func (s *Study) ResetSession(ctx context.Context) {
	cards := s.source.Load(context.WithoutCancel(ctx))
	s.deck.Reset(cards)
	s.handlers = make([]*gesture.Handler, len(cards))
	for i := range s.handlers {
		s.handlers[i] = s.newHandler()
	}
	s.timer.Reset()

	s.sessionID = uuid.New()
	s.logger = s.baseLogger.With("session_id", s.sessionID.String())
	s.logger.Info("session started",
		"cards", len(cards),
		"seconds", s.timer.Seconds(),
		"reuse_wrong_cards", s.deck.Settings().ReuseWrongCards)
}

// Tick advances the countdown by one second.
func (s *Study) Tick() {
	if !s.timer.Tick() {
		return
	}
	s.logger.Info("session expired", "cards_left", s.deck.Len())
	if s.haptics != nil {
		s.haptics.Play(haptics.ExpiryPattern())
	}
}

// HandleLifecycle pauses or resumes the countdown on host focus changes.
func (s *Study) HandleLifecycle(event lifecycle.Event) {
	switch event {
	case lifecycle.WillResignActive:
		s.timer.ResignActive()
	case lifecycle.WillEnterForeground:
		s.timer.EnterForeground(s.deck.Empty())
	default:
		s.logger.Warn("ignoring unknown lifecycle event", "event", event)
		return
	}
	s.logger.Debug("lifecycle event", "event", event, "state", s.timer.State())
}

// Drag records the translation of an in-progress drag on a card.
func (s *Study) Drag(index int, translation gesture.Offset) error {
	h, err := s.inputHandler(index)
	if err != nil {
		return err
	}
	h.Changed(translation)
	return nil
}

// Release ends a drag on a card, grading it if it travelled far enough.
func (s *Study) Release(index int) (Decision, error) {
	if index < 0 || index >= len(s.handlers) {
		return Decision{}, domain.ErrCardIndex
	}
	h := s.handlers[index]
	if !s.allowsInput(index) {
		h.Cancel()
		return Decision{}, domain.ErrInputLocked
	}
	committed, correct := h.Ended()
	return Decision{Committed: committed, Correct: correct}, nil
}

// Tap reveals or hides the answer on a card.
func (s *Study) Tap(index int) error {
	h, err := s.inputHandler(index)
	if err != nil {
		return err
	}
	h.Tap()
	return nil
}

// Answer grades the top card directly. It backs the Wrong and Correct
// buttons offered in place of swiping. Like the cards, the buttons are
// locked once time is up.
func (s *Study) Answer(correct bool) error {
	top := s.deck.Top()
	if top < 0 {
		return domain.ErrCardIndex
	}
	if !s.timer.AllowsInput() {
		return domain.ErrInputLocked
	}
	s.removeCard(top, correct)
	return nil
}

// StartAgain restarts the session from the "Start Again" button.
func (s *Study) StartAgain(ctx context.Context) {
	s.ResetSession(ctx)
}

// DismissAlert closes the "Time Up!" alert, which restarts the session.
// It returns ErrNoAlert and changes nothing when the alert is not showing.
func (s *Study) DismissAlert(ctx context.Context) error {
	if !s.timer.AlertShowing() {
		return domain.ErrNoAlert
	}
	s.timer.DismissAlert()
	s.ResetSession(ctx)
	return nil
}

// OpenEditor marks the deck editor as presented. It changes nothing else.
func (s *Study) OpenEditor() {
	s.editorOpen = true
}

// CloseEditor dismisses the deck editor and restarts the session with the
// edited deck.
func (s *Study) CloseEditor(ctx context.Context) {
	s.editorOpen = false
	s.ResetSession(ctx)
}

// OpenSettings marks the settings form as presented.
func (s *Study) OpenSettings() {
	s.settingsOpen = true
}

// CloseSettings applies settings, dismisses the form and restarts the
// session.
func (s *Study) CloseSettings(ctx context.Context, settings domain.Settings) {
	s.settingsOpen = false
	s.deck.SetSettings(settings)
	s.ResetSession(ctx)
}

func (s *Study) Settings() domain.Settings {
	return s.deck.Settings()
}

// Cards returns the cards still in play, front of the sequence first.
func (s *Study) Cards() []domain.Card {
	return s.deck.Cards()
}

func (s *Study) State() session.State {
	return s.timer.State()
}

func (s *Study) Remaining() int {
	return s.timer.Remaining()
}

func (s *Study) Active() bool {
	return s.timer.Active()
}

func (s *Study) allowsInput(index int) bool {
	return s.deck.AllowsInput(index) && s.timer.AllowsInput()
}

func (s *Study) inputHandler(index int) (*gesture.Handler, error) {
	if index < 0 || index >= len(s.handlers) {
		return nil, domain.ErrCardIndex
	}
	if !s.allowsInput(index) {
		return nil, domain.ErrInputLocked
	}
	return s.handlers[index], nil
}

func (s *Study) newHandler() *gesture.Handler {
	var h *gesture.Handler
	var notifier gesture.Notifier
	if s.haptics != nil {
		notifier = s.haptics
	}
	h = gesture.NewHandler(notifier, func(correct bool) {
		// The handler may have shifted since it was created.
		if i := slices.Index(s.handlers, h); i >= 0 {
			s.removeCard(i, correct)
		}
	})
	return h
}

// removeCard applies a grade to the deck and mirrors it onto the gesture
// handlers, which run parallel to the cards.
func (s *Study) removeCard(index int, correct bool) bool {
	card, _ := s.deck.Card(index)
	if !s.deck.RemoveCard(index, correct) {
		return false
	}
	s.handlers = slices.Delete(s.handlers, index, index+1)
	requeued := !correct && s.deck.Settings().ReuseWrongCards
	if requeued {
		s.handlers = slices.Insert(s.handlers, 0, s.newHandler())
	}
	s.logger.Debug("card graded",
		"prompt", card.Prompt,
		"correct", correct,
		"requeued", requeued,
		"cards_left", s.deck.Len())

	if s.deck.Empty() {
		s.timer.Complete()
		s.logger.Info("session complete", "remaining", s.timer.Display())
	}
	return true
}
