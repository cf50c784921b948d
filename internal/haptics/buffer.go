package haptics

import (
	"math"
	"time"
)

// pulseLength is how long a single transient event vibrates.
const pulseLength = 40 * time.Millisecond

// Buffer is an Engine that queues patterns for a remote host, such as a
// browser, to play. It is not safe for concurrent use; it is owned by the
// study loop goroutine.
type Buffer struct {
	started bool
	pending []Pattern
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Start() error {
	b.started = true
	return nil
}

func (b *Buffer) Play(p Pattern) error {
	if len(p) == 0 {
		return nil
	}
	b.pending = append(b.pending, p)
	return nil
}

// Drain returns the queued patterns as vibration sequences and empties the
// queue. See Vibration.
func (b *Buffer) Drain() [][]int {
	if len(b.pending) == 0 {
		return nil
	}
	out := make([][]int, 0, len(b.pending))
	for _, p := range b.pending {
		out = append(out, Vibration(p))
	}
	b.pending = nil
	return out
}

// Vibration converts a pattern to alternating vibrate/pause durations in
// milliseconds, the format navigator.vibrate accepts.
func Vibration(p Pattern) []int {
	var out []int
	for i, e := range p {
		if i > 0 {
			gap := e.Time - p[i-1].Time - pulseLength
			if gap < 0 {
				gap = 0
			}
			out = append(out, int(gap.Milliseconds()))
		}
		on := time.Duration(math.Round(float64(pulseLength) * clamp(e.Intensity)))
		if on < 10*time.Millisecond {
			on = 10 * time.Millisecond
		}
		out = append(out, int(on.Milliseconds()))
	}
	return out
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
