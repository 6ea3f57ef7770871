package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"tenant-accounts/backend/internal/telemetry"
	"tenant-accounts/backend/internal/telemetry/domain"
)

const instrumentationName = "tenant-accounts.membership"

// NewEventEmitter returns an EventEmitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return NewEventEmitterWithLogger(provider.Logger(instrumentationName))
}

// NewEventEmitterWithLogger wraps an existing OTel logger.
func NewEventEmitterWithLogger(logger otellog.Logger) telemetry.EventEmitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.Event) error { return nil }

type otelEmitter struct {
	logger otellog.Logger
}

// Emit converts the event to an OTel log record and emits it.
func (e *otelEmitter) Emit(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	rec.SetTimestamp(event.CreatedAt)
	if event.CreatedAt.IsZero() {
		rec.SetTimestamp(time.Now().UTC())
	}
	rec.SetBody(otellog.StringValue(string(event.Type)))
	rec.SetSeverity(otellog.SeverityInfo)

	addString := func(key, v string) {
		if v != "" {
			rec.AddAttributes(otellog.String(key, v))
		}
	}
	addString("event_type", string(event.Type))
	addString("org_id", event.OrgID)
	addString("user_id", event.UserID)
	addString("role_id", event.RoleID)
	addString("actor_id", event.ActorID)
	addString("source", event.Source)
	rec.AddAttributes(otellog.Int64("count", event.Count))

	e.logger.Emit(ctx, rec)
	return nil
}
