package study

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/gesture"
	"github.com/conorfennell/flashdeck/internal/haptics"
	"github.com/conorfennell/flashdeck/internal/lifecycle"
	"github.com/conorfennell/flashdeck/internal/session"
	"github.com/conorfennell/flashdeck/internal/storage"
)

var (
	cardA = domain.Card{Prompt: "A", Answer: "a"}
	cardB = domain.Card{Prompt: "B", Answer: "b"}
	cardC = domain.Card{Prompt: "C", Answer: "c"}
)

type staticSource struct {
	cards []domain.Card
	loads int
}

func (s *staticSource) Load(context.Context) []domain.Card {
	s.loads++
	return append([]domain.Card(nil), s.cards...)
}

type recordingHaptics struct {
	notifications []haptics.Notification
	patterns      []haptics.Pattern
}

func (r *recordingHaptics) Prepare() {}

func (r *recordingHaptics) Notify(n haptics.Notification) {
	r.notifications = append(r.notifications, n)
}

func (r *recordingHaptics) Play(p haptics.Pattern) {
	r.patterns = append(r.patterns, p)
}

func newStudy(t *testing.T, cfg Config, cards ...domain.Card) (*Study, *staticSource, *recordingHaptics) {
	t.Helper()
	source := &staticSource{cards: cards}
	h := &recordingHaptics{}
	s := New(cfg, source, h, slog.New(slog.DiscardHandler))
	s.ResetSession(context.Background())
	return s, source, h
}

func swipe(t *testing.T, s *Study, index int, width float64) Decision {
	t.Helper()
	require.NoError(t, s.Drag(index, gesture.Offset{Width: width}))
	d, err := s.Release(index)
	require.NoError(t, err)
	return d
}

func TestResetSession(t *testing.T) {
	s, source, _ := newStudy(t, Config{}, cardA, cardB)

	assert.Equal(t, 1, source.loads)
	assert.Equal(t, []domain.Card{cardA, cardB}, s.Cards())
	assert.Equal(t, session.DefaultSeconds, s.Remaining())
	assert.True(t, s.Active())
	assert.Equal(t, session.Active, s.State())

	first := s.View().SessionID
	s.ResetSession(context.Background())
	assert.NotEqual(t, first, s.View().SessionID, "each reset starts a new session")
}

func TestResetWithNoCardsRunsTheClock(t *testing.T) {
	s, _, h := newStudy(t, Config{SessionSeconds: 1})
	assert.Equal(t, session.Active, s.State())
	assert.True(t, s.Active())
	assert.Equal(t, 1, s.Remaining())
	assert.True(t, s.View().ShowStartAgain)

	s.Tick()
	s.Tick()
	assert.Equal(t, session.Expired, s.State())
	assert.NotNil(t, s.View().Alert)
	assert.Equal(t, []haptics.Pattern{haptics.ExpiryPattern()}, h.patterns)
}

func TestScenarioNoReuse(t *testing.T) {
	s, _, h := newStudy(t, Config{}, cardA, cardB, cardC)

	// The top of the stack is the last card.
	assert.Equal(t, Decision{Committed: true, Correct: true}, swipe(t, s, 2, 150))
	assert.Equal(t, Decision{Committed: true, Correct: false}, swipe(t, s, 1, -150))
	assert.Equal(t, []domain.Card{cardA}, s.Cards())
	assert.True(t, s.Active())
	assert.Equal(t, Decision{Committed: true, Correct: true}, swipe(t, s, 0, 150))

	assert.Empty(t, s.Cards())
	assert.False(t, s.Active())
	assert.Equal(t, session.Complete, s.State())
	assert.Equal(t, []haptics.Notification{haptics.Success, haptics.Error, haptics.Success}, h.notifications)
}

func TestScenarioReuse(t *testing.T) {
	s, _, _ := newStudy(t, Config{Settings: domain.Settings{ReuseWrongCards: true}}, cardA, cardB)

	assert.Equal(t, Decision{Committed: true, Correct: false}, swipe(t, s, 1, -120))
	assert.Equal(t, []domain.Card{cardB, cardA}, s.Cards(), "wrong card moves to the front")

	// The requeued card gets a fresh gesture state.
	require.NoError(t, s.Tap(1))
	assert.True(t, s.View().Cards[1].ShowingAnswer)
	assert.False(t, s.View().Cards[0].ShowingAnswer)
}

func TestLastCardAlwaysCompletes(t *testing.T) {
	for _, correct := range []bool{true, false} {
		s, _, _ := newStudy(t, Config{}, cardA)
		require.NoError(t, s.Answer(correct))
		assert.False(t, s.Active())
		assert.Equal(t, session.Complete, s.State())
	}
}

func TestSmallDragDoesNothing(t *testing.T) {
	s, _, h := newStudy(t, Config{}, cardA, cardB)
	require.NoError(t, s.Drag(1, gesture.Offset{Width: 80, Height: 40}))
	assert.Equal(t, gesture.TintGreen, s.View().Cards[1].Tint)

	d, err := s.Release(1)
	require.NoError(t, err)
	assert.False(t, d.Committed)
	assert.Len(t, s.Cards(), 2)
	assert.Empty(t, h.notifications)
	assert.Equal(t, gesture.TintNeutral, s.View().Cards[1].Tint)
}

func TestInputLocks(t *testing.T) {
	t.Run("only the top card takes input", func(t *testing.T) {
		s, _, _ := newStudy(t, Config{}, cardA, cardB)
		assert.ErrorIs(t, s.Drag(0, gesture.Offset{Width: 10}), domain.ErrInputLocked)
		assert.ErrorIs(t, s.Tap(0), domain.ErrInputLocked)
		_, err := s.Release(0)
		assert.ErrorIs(t, err, domain.ErrInputLocked)
	})

	t.Run("bad index", func(t *testing.T) {
		s, _, _ := newStudy(t, Config{}, cardA)
		assert.ErrorIs(t, s.Drag(5, gesture.Offset{}), domain.ErrCardIndex)
		_, err := s.Release(-1)
		assert.ErrorIs(t, err, domain.ErrCardIndex)
	})

	t.Run("no input once time is up", func(t *testing.T) {
		s, _, _ := newStudy(t, Config{SessionSeconds: 1}, cardA)
		require.NoError(t, s.Drag(0, gesture.Offset{Width: 300}))
		s.Tick()
		_, err := s.Release(0)
		assert.ErrorIs(t, err, domain.ErrInputLocked)
		assert.Len(t, s.Cards(), 1, "a drag that outlives the clock is abandoned")
		assert.ErrorIs(t, s.Answer(true), domain.ErrInputLocked)
	})

	t.Run("answer on an empty deck", func(t *testing.T) {
		s, _, _ := newStudy(t, Config{})
		assert.ErrorIs(t, s.Answer(true), domain.ErrCardIndex)
	})
}

func TestExpiry(t *testing.T) {
	s, _, h := newStudy(t, Config{SessionSeconds: 2}, cardA, cardB)

	s.Tick()
	s.Tick()
	assert.Equal(t, 0, s.Remaining())
	assert.Nil(t, s.View().Alert)

	s.Tick()
	assert.Equal(t, session.Expired, s.State())
	assert.Equal(t, session.ExpiredSentinel, s.Remaining())
	v := s.View()
	require.NotNil(t, v.Alert)
	assert.Equal(t, "Time Up!", v.Alert.Title)
	assert.Equal(t, 0, v.TimeRemaining)
	assert.Equal(t, []haptics.Pattern{haptics.ExpiryPattern()}, h.patterns)

	s.Tick()
	assert.Len(t, h.patterns, 1, "the expiry pattern plays once")

	require.NoError(t, s.DismissAlert(context.Background()))
	assert.Equal(t, session.Active, s.State())
	assert.Equal(t, 2, s.Remaining())
	assert.Nil(t, s.View().Alert)
}

func TestLifecycle(t *testing.T) {
	s, _, _ := newStudy(t, Config{SessionSeconds: 10}, cardA)

	s.HandleLifecycle(lifecycle.WillResignActive)
	assert.Equal(t, session.Paused, s.State())
	s.Tick()
	assert.Equal(t, 10, s.Remaining())

	s.HandleLifecycle(lifecycle.WillEnterForeground)
	assert.Equal(t, session.Active, s.State())
	s.Tick()
	assert.Equal(t, 9, s.Remaining())

	require.NoError(t, s.Answer(true))
	s.HandleLifecycle(lifecycle.WillResignActive)
	s.HandleLifecycle(lifecycle.WillEnterForeground)
	assert.False(t, s.Active(), "an empty deck is not resumed")
}

func TestFormsResetSession(t *testing.T) {
	s, source, _ := newStudy(t, Config{SessionSeconds: 10}, cardA, cardB)
	s.Tick()
	require.NoError(t, s.Answer(true))

	s.OpenEditor()
	assert.True(t, s.View().EditorOpen)
	assert.Equal(t, session.Active, s.State(), "opening a form changes nothing else")
	assert.Equal(t, 9, s.Remaining())

	source.cards = []domain.Card{cardC}
	s.CloseEditor(context.Background())
	assert.False(t, s.View().EditorOpen)
	assert.Equal(t, []domain.Card{cardC}, s.Cards())
	assert.Equal(t, 10, s.Remaining())

	s.OpenSettings()
	assert.True(t, s.View().SettingsOpen)
	s.CloseSettings(context.Background(), domain.Settings{ReuseWrongCards: true})
	assert.True(t, s.Settings().ReuseWrongCards)
	assert.True(t, s.View().ReuseWrongCards)
	assert.Equal(t, 3, source.loads)
}

func TestStartAgain(t *testing.T) {
	s, _, _ := newStudy(t, Config{}, cardA)
	require.NoError(t, s.Answer(false))
	require.Equal(t, session.Complete, s.State())

	s.StartAgain(context.Background())
	assert.Equal(t, session.Active, s.State())
	assert.Equal(t, []domain.Card{cardA}, s.Cards())
}

func TestDismissAlertWithoutAlert(t *testing.T) {
	s, source, _ := newStudy(t, Config{SessionSeconds: 10}, cardA, cardB)
	s.Tick()
	require.NoError(t, s.Answer(true))

	assert.ErrorIs(t, s.DismissAlert(context.Background()), domain.ErrNoAlert)
	assert.Equal(t, 9, s.Remaining(), "the session is not restarted")
	assert.Equal(t, []domain.Card{cardA}, s.Cards())
	assert.Equal(t, 1, source.loads)
}

func TestResetIgnoresCanceledContext(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "study.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := storage.NewCardStore(db, logger)
	require.NoError(t, store.Save(context.Background(), []domain.Card{cardA, cardB}))

	s := New(Config{}, store, nil, logger)
	s.ResetSession(context.Background())
	require.Len(t, s.Cards(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.StartAgain(ctx)

	assert.Equal(t, []domain.Card{cardA, cardB}, s.Cards())
	assert.Equal(t, session.Active, s.State())
	assert.True(t, s.Active())
}
