package telemetry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tenant-accounts/backend/internal/telemetry/domain"
)

// emitTimeout bounds a single background emit.
const emitTimeout = 5 * time.Second

// Async moves emits off the request path. Emit returns at once; the wrapped emitter runs in a
// goroutine detached from the request's cancellation. Drain waits for those goroutines.
type Async struct {
	next     EventEmitter
	log      *zap.Logger
	inflight sync.WaitGroup
}

// NewAsync wraps next. A nil log discards failures.
func NewAsync(next EventEmitter, log *zap.Logger) *Async {
	if log == nil {
		log = zap.NewNop()
	}
	return &Async{next: next, log: log}
}

// Emit schedules the event and always returns nil. Nil receivers, emitters and events are ignored.
func (a *Async) Emit(ctx context.Context, event *domain.Event) error {
	if a == nil || a.next == nil || event == nil {
		return nil
	}
	detached := context.WithoutCancel(ctx)
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		emitCtx, cancel := context.WithTimeout(detached, emitTimeout)
		defer cancel()
		if err := a.next.Emit(emitCtx, event); err != nil {
			a.log.Warn("telemetry: async emit failed",
				zap.String("event_type", string(event.Type)),
				zap.String("org_id", event.OrgID),
				zap.Error(err))
		}
	}()
	return nil
}

// Drain blocks until every scheduled emit has finished or ctx is done.
func (a *Async) Drain(ctx context.Context) error {
	if a == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		a.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
