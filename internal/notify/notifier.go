// Package notify delivers advisory alerts over one or more channels
// (Telegram, Discord). Events can be filtered so operators receive only the
// alert types they care about.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// Event classifies a notification.
type Event string

const (
	// EventThresholdCrossed fires when the advice changes away from hold.
	EventThresholdCrossed Event = "threshold_crossed"
	// EventCashOut fires when the portfolio value exceeds the configured cap.
	EventCashOut Event = "cash_out"
	// EventError fires when the monitor loop hits an operational failure.
	EventError Event = "error"
)

// Sender is one delivery channel.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns the channel identifier (e.g. "telegram").
	Name() string
}

// Notifier dispatches events to all configured senders, applying the allowed
// event filter first. A nil Notifier is valid and drops everything, so
// callers need no guard when notifications are unconfigured.
type Notifier struct {
	senders []Sender
	events  map[Event]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders. Only events
// named in the events slice pass the filter; an empty slice allows all.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[Event]bool, len(events))
	for _, e := range events {
		allowed[Event(strings.TrimSpace(e))] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// ThresholdCrossed announces a new non-hold advice with its Z-score.
func (n *Notifier) ThresholdCrossed(ctx context.Context, advice domain.Advice, zScore float64) error {
	return n.notify(ctx, EventThresholdCrossed,
		"Advice changed",
		fmt.Sprintf("New advice: %s (z-score %.3f)", advice, zScore))
}

// CashOut announces that the portfolio value exceeded the configured cap.
func (n *Notifier) CashOut(ctx context.Context, total, surplus float64) error {
	return n.notify(ctx, EventCashOut,
		"Portfolio cap exceeded",
		fmt.Sprintf("Total value %.2f is over the cap; consider cashing out %.2f", total, surplus))
}

// Error announces an operational failure in the monitor loop.
func (n *Notifier) Error(ctx context.Context, msg string) error {
	return n.notify(ctx, EventError, "Monitor error", msg)
}

func (n *Notifier) notify(ctx context.Context, event Event, title, message string) error {
	if n == nil || len(n.senders) == 0 {
		return nil
	}
	if len(n.events) > 0 && !n.events[event] {
		n.logger.DebugContext(ctx, "event filtered out",
			slog.String("event", string(event)),
		)
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
