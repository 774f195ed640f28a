package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptime/internal/audit"
	"github.com/hamed0406/uptime/internal/domain"
	"github.com/hamed0406/uptime/internal/notify"
	"github.com/hamed0406/uptime/internal/probe"
)

// DocStore is the slice of the document store the worker needs.
type DocStore interface {
	Read(ctx context.Context, collection, key string, out any) error
	Update(ctx context.Context, collection, key string, doc any) error
	List(ctx context.Context, collection string) ([]string, error)
}

// Worker runs the check lifecycle: each tick it enumerates every stored
// check and drives it through validate → probe → decide → persist → alert
// → audit. Cycles run concurrently within a tick; ticks themselves are
// serialized, so a pass that outlasts the interval delays the next pass
// instead of overlapping it.
type Worker struct {
	Log      *zap.Logger
	Store    DocStore
	Prober   probe.Prober
	Notifier notify.Notifier
	Audit    audit.Sink

	Interval    time.Duration
	Concurrency int

	now func() time.Time
}

func New(
	log *zap.Logger,
	store DocStore,
	prober probe.Prober,
	notifier notify.Notifier,
	sink audit.Sink,
	interval time.Duration,
	concurrency int,
) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	return &Worker{
		Log:         log,
		Store:       store,
		Prober:      prober,
		Notifier:    notifier,
		Audit:       sink,
		Interval:    interval,
		Concurrency: concurrency,
		now:         time.Now,
	}
}

// Run starts the loop: an immediate pass, then one per tick. Stops when
// ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w.Interval == 0 {
		w.Log.Info("worker_disabled")
		return
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("worker_stopped")
			return
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce is one tick. Every check gets its own cycle; one check's failure
// never delays or cancels another's, and the tick completes only when all
// cycles have resolved.
func (w *Worker) runOnce(ctx context.Context) {
	start := w.now()
	keys, err := w.Store.List(ctx, domain.CollChecks)
	if err != nil {
		w.Log.Warn("tick_list_error", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}

	sem := make(chan struct{}, w.Concurrency)
	var wg sync.WaitGroup
	for _, key := range keys {
		k := key
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			w.cycle(ctx, k)
		}()
	}
	wg.Wait()

	w.Log.Debug("tick_complete",
		zap.Int("checks", len(keys)),
		zap.Duration("took", w.now().Sub(start)),
	)
}

// cycle drives one check through a full pass. Every failure is terminal
// for this cycle only: log and return.
func (w *Worker) cycle(ctx context.Context, key string) {
	var raw domain.Check
	if err := w.Store.Read(ctx, domain.CollChecks, key, &raw); err != nil {
		w.Log.Warn("check_read_error", zap.String("key", key), zap.Error(err))
		return
	}

	chk, err := domain.NormalizeCheck(raw)
	if err != nil {
		// Malformed record: no probe, no state change, no alert.
		w.Log.Warn("check_rejected", zap.String("key", key), zap.Error(err))
		if aerr := w.Audit.Append(key, audit.Record{
			CheckID: key,
			Error:   err.Error(),
			State:   domain.StateDown,
			At:      w.now().UTC(),
		}); aerr != nil {
			w.Log.Warn("audit_error", zap.String("key", key), zap.Error(aerr))
		}
		return
	}

	// An orphan (owner gone or unreadable) is skipped, not probed; this is
	// also how a crash between the repository's two linked writes heals.
	var owner domain.User
	if err := w.Store.Read(ctx, domain.CollUsers, chk.UserPhone, &owner); err != nil {
		w.Log.Warn("check_orphaned",
			zap.String("check_id", chk.ID),
			zap.String("phone", chk.UserPhone),
			zap.Error(err),
		)
		return
	}

	out := w.Prober.Probe(ctx, chk)

	newState := domain.StateDown
	if out.Err == nil && containsCode(chk.SuccessCodes, out.ResponseCode) {
		newState = domain.StateUp
	}
	// First-ever probes never alert; only transitions after a prior
	// observation do.
	alertWarranted := chk.LastChecked != nil && chk.State != newState

	oldState := chk.State
	at := w.now().UTC()
	chk.State = newState
	chk.LastChecked = &at
	if err := w.Store.Update(ctx, domain.CollChecks, chk.ID, &chk); err != nil {
		w.Log.Warn("check_persist_error", zap.String("check_id", chk.ID), zap.Error(err))
		return
	}

	if alertWarranted {
		alert := notify.Alert{
			CheckID:  chk.ID,
			URL:      chk.Protocol + "://" + chk.URL,
			OldState: oldState,
			NewState: newState,
			At:       at,
		}
		if err := w.Notifier.Notify(ctx, alert); err != nil {
			w.Log.Warn("alert_error", zap.String("check_id", chk.ID), zap.Error(err))
		}
	}

	rec := audit.Record{
		CheckID: chk.ID,
		State:   newState,
		Alerted: alertWarranted,
		At:      at,
	}
	if out.Err != nil {
		rec.Error = out.Err.Error()
	} else {
		rec.ResponseCode = out.ResponseCode
	}
	if err := w.Audit.Append(chk.ID, rec); err != nil {
		w.Log.Warn("audit_error", zap.String("check_id", chk.ID), zap.Error(err))
	}
}

func containsCode(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
