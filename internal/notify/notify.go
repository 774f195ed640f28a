package notify

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/uptime/internal/domain"
)

// Alert describes one state transition. Delivery transports live behind
// Notifier; the engine only ever calls Notify and logs failures.
type Alert struct {
	CheckID  string
	URL      string
	OldState domain.State
	NewState domain.State
	At       time.Time
}

type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// Multi fans an alert out to several notifiers, collecting every failure
// instead of stopping at the first.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, a Alert) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Notify(ctx, a))
	}
	return errs
}

// LogNotifier records transitions in the service log. It is the default
// sink when no delivery transport is configured.
type LogNotifier struct {
	Log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{Log: log}
}

func (n *LogNotifier) Notify(_ context.Context, a Alert) error {
	n.Log.Info("check_transition",
		zap.String("check_id", a.CheckID),
		zap.String("url", a.URL),
		zap.String("old_state", string(a.OldState)),
		zap.String("new_state", string(a.NewState)),
		zap.Time("at", a.At),
	)
	return nil
}
