package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bashhh89/thecustom/internal/pricing"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// Field keys with a meaning beyond logging.
const (
	FieldSOWID         = "sow_id"
	FieldCatalogRates  = "catalog_rates"
	FieldFallbackRates = "fallback_rates"
	FieldFilledTotals  = "filled_totals"
	FieldGrandTotal    = "grand_total"
	FieldCommand       = "command"
	FieldSanitize      = "sanitize"
)

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// MultiUseCaseObserver fans events out to several observers.
type MultiUseCaseObserver []UseCaseObserver

func (m MultiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		o.ObserveUseCase(ctx, event)
	}
}

type zapUseCaseObserver struct {
	logger *zap.Logger
}

// NewZapUseCaseObserver logs service use-case events.
func NewZapUseCaseObserver(logger *zap.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &zapUseCaseObserver{logger: logger}
}

func (o *zapUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	fields := make([]zap.Field, 0, 4+len(event.Fields))
	fields = append(fields,
		zap.String("use_case", event.Name),
		zap.Int64("duration_ms", event.Duration.Milliseconds()),
		zap.Bool("success", event.Success),
	)
	for k, v := range event.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	if event.Err != nil {
		o.logger.Error("service_use_case", append(fields, zap.Error(event.Err))...)
		return
	}
	o.logger.Info("service_use_case", fields...)
}

// MetricsRecorder is the subset of the metrics manager the services feed.
type MetricsRecorder interface {
	RecordRepairs(kind string, n int)
	RecordSanitize(outcome string)
	RecordCommand(command string, err error)
	RecordUseCase(name string, d time.Duration, success bool)
	SetGrandTotal(total float64)
}

type metricsUseCaseObserver struct {
	rec MetricsRecorder
}

// NewMetricsUseCaseObserver turns use-case events into metric updates.
func NewMetricsUseCaseObserver(rec MetricsRecorder) UseCaseObserver {
	return &metricsUseCaseObserver{rec: rec}
}

func (o *metricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.rec.RecordUseCase(event.Name, event.Duration, event.Success)

	if n, ok := event.Fields[FieldCatalogRates].(int); ok {
		o.rec.RecordRepairs(string(pricing.RepairCatalogRate), n)
	}
	if n, ok := event.Fields[FieldFallbackRates].(int); ok {
		o.rec.RecordRepairs(string(pricing.RepairFallbackRate), n)
	}
	if n, ok := event.Fields[FieldFilledTotals].(int); ok {
		o.rec.RecordRepairs(string(pricing.RepairTotal), n)
	}
	if cmd, ok := event.Fields[FieldCommand].(string); ok {
		o.rec.RecordCommand(cmd, event.Err)
	}
	if outcome, ok := event.Fields[FieldSanitize].(string); ok {
		o.rec.RecordSanitize(outcome)
	}
	if total, ok := event.Fields[FieldGrandTotal].(float64); ok && event.Success {
		o.rec.SetGrandTotal(total)
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live MultiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}

// observe reports a use case when the returned func runs; call it in a defer
// with a pointer to the named error result.
func observe(ctx context.Context, o UseCaseObserver, name string, fields map[string]any) func(*error) {
	startedAt := time.Now().UTC()
	return func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		o.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}
}

func addReportFields(fields map[string]any, r pricing.Report) {
	fields[FieldCatalogRates] = r.CatalogRates
	fields[FieldFallbackRates] = r.FallbackRates
	fields[FieldFilledTotals] = r.FilledTotals
}
