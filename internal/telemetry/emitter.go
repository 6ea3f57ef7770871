// Package telemetry publishes membership events. Delivery is best-effort: emit failures are
// logged and never reach the caller.
package telemetry

import (
	"context"
	"errors"

	"tenant-accounts/backend/internal/telemetry/domain"
)

// EventEmitter emits membership events (e.g. to Kafka or OTel Logs).
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}

// Fanout emits to every non-nil emitter and joins their errors.
type Fanout []EventEmitter

func (f Fanout) Emit(ctx context.Context, event *domain.Event) error {
	var errs []error
	for _, e := range f {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
