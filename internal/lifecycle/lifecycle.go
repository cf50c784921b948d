// Package lifecycle relays host focus changes to subscribers.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Event is a host focus change.
type Event int

const (
	// WillResignActive is sent when the host is about to lose focus.
	WillResignActive Event = iota + 1
	// WillEnterForeground is sent when the host regains focus.
	WillEnterForeground
)

func (e Event) String() string {
	switch e {
	case WillResignActive:
		return "resign"
	case WillEnterForeground:
		return "foreground"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ParseEvent maps an event name, as produced by String, to its Event.
func ParseEvent(name string) (Event, error) {
	switch name {
	case "resign":
		return WillResignActive, nil
	case "foreground":
		return WillEnterForeground, nil
	default:
		return 0, fmt.Errorf("unknown lifecycle event %q", name)
	}
}

// Handler receives lifecycle events.
type Handler interface {
	HandleLifecycle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) HandleLifecycle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Hub fans lifecycle events out to every subscribed handler.
type Hub struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger.With("component", "lifecycle_hub")}
}

// Subscribe registers handler for all future events.
func (h *Hub) Subscribe(handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, handler)
	h.logger.Debug("registered lifecycle handler", "handler_count", len(h.handlers))
}

// Publish delivers event to every handler in subscription order. Every
// handler runs even if an earlier one fails; the first error is returned.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	h.mu.RLock()
	handlers := make([]Handler, len(h.handlers))
	copy(handlers, h.handlers)
	h.mu.RUnlock()

	h.logger.Debug("publishing lifecycle event", "event", event, "handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleLifecycle(ctx, event); err != nil {
			h.logger.Error("lifecycle handler failed",
				"error", err,
				"handler_index", i,
				"event", event)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
