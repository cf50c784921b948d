// Package haptics plays tactile feedback patterns.
//
// Haptics are cosmetic. A Player whose engine fails to start or to play
// logs the failure and disables itself for the rest of the run; it never
// aborts the process.
package haptics

import (
	"fmt"
	"log/slog"
	"time"
)

// Notification is the outcome a notification pulse reports.
type Notification int

const (
	Success Notification = iota
	Warning
	Error
)

func (n Notification) String() string {
	switch n {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("notification(%d)", int(n))
	}
}

// Event is a single transient tap at Time from the start of its pattern.
type Event struct {
	Time      time.Duration
	Intensity float64 // 0..1
	Sharpness float64 // 0..1
}

// Pattern is an ordered list of events.
type Pattern []Event

// ExpiryPattern is the three-pulse pattern played when a session runs out
// of time.
func ExpiryPattern() Pattern {
	return Pattern{
		{Time: 0, Intensity: 1, Sharpness: 1},
		{Time: 100 * time.Millisecond, Intensity: 1, Sharpness: 1},
		{Time: 200 * time.Millisecond, Intensity: 1, Sharpness: 1},
	}
}

// Pattern returns the pulse used for the notification.
func (n Notification) Pattern() Pattern {
	switch n {
	case Success:
		return Pattern{{Time: 0, Intensity: 0.6, Sharpness: 0.5}}
	case Warning:
		return Pattern{
			{Time: 0, Intensity: 0.8, Sharpness: 0.5},
			{Time: 150 * time.Millisecond, Intensity: 0.6, Sharpness: 0.5},
		}
	default:
		return Pattern{
			{Time: 0, Intensity: 1, Sharpness: 1},
			{Time: 120 * time.Millisecond, Intensity: 1, Sharpness: 1},
			{Time: 240 * time.Millisecond, Intensity: 1, Sharpness: 1},
		}
	}
}

// Engine drives the haptic hardware.
type Engine interface {
	Start() error
	Play(p Pattern) error
}

// Preparer is implemented by engines that can warm up ahead of a pulse.
type Preparer interface {
	Prepare()
}

// Player fronts an Engine and degrades to a no-op on failure.
type Player struct {
	engine  Engine
	enabled bool
	logger  *slog.Logger
}

// NewPlayer starts engine if the host reports haptic support. A nil engine,
// an unsupported host or a failed start all yield a disabled Player.
func NewPlayer(engine Engine, supported bool, logger *slog.Logger) *Player {
	p := &Player{engine: engine, logger: logger.With("component", "haptics")}
	if engine == nil || !supported {
		p.logger.Info("haptics unavailable")
		return p
	}
	if err := engine.Start(); err != nil {
		p.logger.Warn("haptic engine failed to start, haptics disabled", "error", err)
		return p
	}
	p.enabled = true
	return p
}

// Enabled reports whether pulses are still being played.
func (p *Player) Enabled() bool {
	return p.enabled
}

// Prepare warms up the engine for an imminent pulse.
func (p *Player) Prepare() {
	if !p.enabled {
		return
	}
	if pr, ok := p.engine.(Preparer); ok {
		pr.Prepare()
	}
}

// Notify plays the pulse for n.
func (p *Player) Notify(n Notification) {
	p.Play(n.Pattern())
}

// Play plays pattern. Playback is fire-and-forget: a failure disables the
// player and is only logged.
func (p *Player) Play(pattern Pattern) {
	if !p.enabled {
		return
	}
	if err := p.engine.Play(pattern); err != nil {
		p.enabled = false
		p.logger.Warn("haptic playback failed, haptics disabled", "error", err)
	}
}
