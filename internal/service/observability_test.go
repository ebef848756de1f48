package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bashhh89/thecustom/internal/metrics"
)

var _ MetricsRecorder = (*metrics.Manager)(nil)

type fakeRecorder struct {
	repairs  map[string]int
	sanitize []string
	commands []string
	useCases []string
	total    float64
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{repairs: map[string]int{}}
}

func (f *fakeRecorder) RecordRepairs(kind string, n int) { f.repairs[kind] += n }
func (f *fakeRecorder) RecordSanitize(outcome string)    { f.sanitize = append(f.sanitize, outcome) }
func (f *fakeRecorder) RecordCommand(cmd string, _ error) {
	f.commands = append(f.commands, cmd)
}
func (f *fakeRecorder) RecordUseCase(name string, _ time.Duration, _ bool) {
	f.useCases = append(f.useCases, name)
}
func (f *fakeRecorder) SetGrandTotal(total float64) { f.total = total }

func TestMetricsUseCaseObserver_MapsFields(t *testing.T) {
	rec := newFakeRecorder()
	obs := NewMetricsUseCaseObserver(rec)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:    "sow.refine",
		Success: true,
		Fields: map[string]any{
			FieldCatalogRates:  2,
			FieldFallbackRates: 1,
			FieldFilledTotals:  3,
			FieldCommand:       "/addRole",
			FieldGrandTotal:    1200.0,
		},
	})

	assert.Equal(t, []string{"sow.refine"}, rec.useCases)
	assert.Equal(t, map[string]int{"catalog_rate": 2, "fallback_rate": 1, "total": 3}, rec.repairs)
	assert.Equal(t, []string{"/addRole"}, rec.commands)
	assert.Empty(t, rec.sanitize)
	assert.Equal(t, 1200.0, rec.total)
}

func TestMetricsUseCaseObserver_FailedEventKeepsGauge(t *testing.T) {
	rec := newFakeRecorder()
	rec.total = 10
	NewMetricsUseCaseObserver(rec).ObserveUseCase(context.Background(), UseCaseEvent{
		Name:   "sow.generate",
		Err:    errors.New("boom"),
		Fields: map[string]any{FieldSanitize: "malformed", FieldGrandTotal: 99.0},
	})

	assert.Equal(t, []string{"malformed"}, rec.sanitize)
	assert.Equal(t, 10.0, rec.total)
}

func TestZapUseCaseObserver_LogsLevelByOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewZapUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "sow.create", Success: true, Fields: map[string]any{FieldSOWID: "s1"}})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "sow.create", Err: errors.New("boom")})

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "s1", entries[0].ContextMap()[FieldSOWID])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
	assert.IsType(t, MultiUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{rec, rec}))
}

func TestObserve_ReportsNamedError(t *testing.T) {
	rec := &recordingObserver{}
	run := func() (err error) {
		defer observe(context.Background(), rec, "x", map[string]any{})(&err)
		return errors.New("failed")
	}
	_ = run()

	assert.False(t, rec.last().Success)
	assert.EqualError(t, rec.last().Err, "failed")
}
