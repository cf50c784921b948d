// Package loop runs the study on a single goroutine. Timer ticks and
// submitted commands are handled one at a time, so no two events ever
// observe the study mid-mutation.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/conorfennell/flashdeck/internal/study"
)

// ErrStopped is returned by Do once the loop has stopped.
var ErrStopped = errors.New("study loop stopped")

type command struct {
	fn   func(*study.Study) error
	done chan error
}

// Loop owns a Study and serializes access to it.
type Loop struct {
	study      *study.Study
	interval   time.Duration
	ticks      <-chan time.Time
	commands   chan command
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// Option customizes a Loop.
type Option func(*Loop)

// WithTicks replaces the wall-clock ticker with ticks.
func WithTicks(ticks <-chan time.Time) Option {
	return func(l *Loop) {
		l.ticks = ticks
	}
}

// New creates a Loop that ticks s every interval once started.
func New(s *study.Study, interval time.Duration, logger *slog.Logger, opts ...Option) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{
		study:      s,
		interval:   interval,
		commands:   make(chan command),
		ctx:        ctx,
		cancelFunc: cancel,
		logger:     logger.With("component", "study_loop"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins processing ticks and commands.
func (l *Loop) Start() {
	ticks := l.ticks
	var ticker *time.Ticker
	if ticks == nil {
		ticker = time.NewTicker(l.interval)
		ticks = ticker.C
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if ticker != nil {
			defer ticker.Stop()
		}
		l.run(ticks)
	}()
	l.logger.Debug("study loop started", "interval", l.interval)
}

// Stop halts the loop and waits for the in-flight event to finish.
func (l *Loop) Stop() {
	l.cancelFunc()
	l.wg.Wait()
	l.logger.Debug("study loop stopped")
}

// Do runs fn on the loop goroutine and returns its error. It gives up when
// ctx is done or the loop stops; fn may still run if it was already
// accepted.
func (l *Loop) Do(ctx context.Context, fn func(*study.Study) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case l.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ctx.Done():
		return ErrStopped
	}

	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ctx.Done():
		return ErrStopped
	}
}

func (l *Loop) run(ticks <-chan time.Time) {
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticks:
			l.study.Tick()
		case cmd := <-l.commands:
			cmd.done <- cmd.fn(l.study)
		}
	}
}
