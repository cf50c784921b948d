// Package session implements the countdown that drives a review session.
package session

import "fmt"

// DefaultSeconds is the length of a session.
const DefaultSeconds = 100

// ExpiredSentinel is the remaining time recorded once a session expires.
const ExpiredSentinel = -1

// State is the lifecycle state of a session.
type State int

const (
	Active State = iota
	Paused
	Expired
	Complete
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Paused:
		return "paused"
	case Expired:
		return "expired"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{Active, Paused, Expired, Complete} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", text)
}

// Timer is the session state machine:
//
//	Active   -> Paused    ResignActive
//	Paused   -> Active    EnterForeground with cards left
//	Active   -> Expired   Tick that finds no time left
//	any      -> Complete  Complete
//	any      -> Active    Reset
type Timer struct {
	seconds   int
	remaining int
	active    bool
	state     State
	alert     bool
}

// NewTimer returns an active timer with seconds on the clock. A
// non-positive value selects DefaultSeconds.
func NewTimer(seconds int) *Timer {
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	t := &Timer{seconds: seconds}
	t.Reset()
	return t
}

// Reset starts a fresh session.
func (t *Timer) Reset() {
	t.remaining = t.seconds
	t.active = true
	t.state = Active
	t.alert = false
}

// Tick advances the clock by one second. It reports true on the single
// tick that expires the session; the caller raises the expiry feedback.
func (t *Timer) Tick() (expired bool) {
	if !t.active {
		return false
	}
	switch {
	case t.remaining > 0:
		t.remaining--
		return false
	case t.remaining == 0:
		t.remaining = ExpiredSentinel
		t.active = false
		t.state = Expired
		t.alert = true
		return true
	default:
		return false
	}
}

// ResignActive pauses an active session when the host loses focus.
func (t *Timer) ResignActive() {
	t.active = false
	if t.state == Active {
		t.state = Paused
	}
}

// EnterForeground resumes a paused session, unless there are no cards
// left to review.
func (t *Timer) EnterForeground(deckEmpty bool) {
	if deckEmpty || t.state != Paused {
		return
	}
	t.active = true
	t.state = Active
}

// Complete ends the session because the deck ran out.
func (t *Timer) Complete() {
	t.active = false
	t.state = Complete
}

// DismissAlert hides the expiry alert.
func (t *Timer) DismissAlert() {
	t.alert = false
}

func (t *Timer) Seconds() int {
	return t.seconds
}

// Remaining is the raw remaining time, ExpiredSentinel once expired.
func (t *Timer) Remaining() int {
	return t.remaining
}

// Display is the remaining time as shown to the user.
func (t *Timer) Display() int {
	if t.remaining < 0 {
		return 0
	}
	return t.remaining
}

func (t *Timer) Active() bool {
	return t.active
}

func (t *Timer) State() State {
	return t.state
}

// AlertShowing reports whether the "Time Up!" alert is up.
func (t *Timer) AlertShowing() bool {
	return t.alert
}

// AllowsInput reports whether cards accept gestures.
func (t *Timer) AllowsInput() bool {
	return t.remaining > 0
}
