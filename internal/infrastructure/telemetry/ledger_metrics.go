// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics helper is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter is nil")

// LedgerMetrics tracks payment activity, reconciliation runs and open party
// balances for the ledger.
type LedgerMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	paymentRecordedTotal *Counter
	paymentDeletedTotal  *Counter
	recalcRunTotal       *Counter
	recalcRepairedTotal  *Counter

	// Distribution of individual payment amounts
	paymentAmount *Histogram

	// Gauge metrics (point-in-time values)
	openReceivable *FloatGauge
	openPayable    *FloatGauge

	stopChan chan struct{}
	stopOnce sync.Once

	balanceProvider BalanceMetricsProvider
}

// BalanceMetricsProvider provides open balance totals for periodic metrics
// collection. The interface keeps the telemetry layer free of any direct
// dependency on the party domain.
type BalanceMetricsProvider interface {
	// TotalOutstandingReceivable returns the sum of all client receivables
	TotalOutstandingReceivable(ctx context.Context) (decimal.Decimal, error)

	// TotalOutstandingPayable returns the sum of all vendor payables
	TotalOutstandingPayable(ctx context.Context) (decimal.Decimal, error)
}

// LedgerMetricsConfig holds configuration for ledger metrics.
type LedgerMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	BalanceProvider BalanceMetricsProvider
}

// NewLedgerMetrics creates a new LedgerMetrics instance.
func NewLedgerMetrics(cfg LedgerMetricsConfig) (*LedgerMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lm := &LedgerMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		balanceProvider: cfg.BalanceProvider,
	}

	var err error

	lm.paymentRecordedTotal, err = NewCounter(
		cfg.Meter,
		"ledger_payment_recorded_total",
		"Total number of payments recorded",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	lm.paymentDeletedTotal, err = NewCounter(
		cfg.Meter,
		"ledger_payment_deleted_total",
		"Total number of payments deleted",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	lm.recalcRunTotal, err = NewCounter(
		cfg.Meter,
		"ledger_recalc_run_total",
		"Total number of status recalculation runs",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	lm.recalcRepairedTotal, err = NewCounter(
		cfg.Meter,
		"ledger_recalc_repaired_total",
		"Total number of targets whose payment status was repaired",
		"{targets}",
	)
	if err != nil {
		return nil, err
	}

	lm.paymentAmount, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "ledger_payment_amount",
		Description: "Distribution of individual payment amounts",
		Unit:        "{inr}",
	})
	if err != nil {
		return nil, err
	}

	lm.openReceivable, err = NewFloatGauge(
		cfg.Meter,
		"ledger_open_receivable",
		"Sum of all client outstanding receivables",
		"{inr}",
	)
	if err != nil {
		return nil, err
	}

	lm.openPayable, err = NewFloatGauge(
		cfg.Meter,
		"ledger_open_payable",
		"Sum of all vendor outstanding payables",
		"{inr}",
	)
	if err != nil {
		return nil, err
	}

	return lm, nil
}

// RecordPayment records a payment creation for a target kind and method.
func (lm *LedgerMetrics) RecordPayment(ctx context.Context, targetKind, method string, amount decimal.Decimal) {
	attrs := []attribute.KeyValue{
		AttrTargetKind.String(targetKind),
		AttrPaymentMethod.String(method),
	}
	lm.paymentRecordedTotal.Inc(ctx, attrs...)

	f, _ := amount.Float64()
	lm.paymentAmount.Record(ctx, f, attrs...)
}

// RecordPaymentDeleted records a payment removal.
func (lm *LedgerMetrics) RecordPaymentDeleted(ctx context.Context, targetKind string) {
	lm.paymentDeletedTotal.Inc(ctx, AttrTargetKind.String(targetKind))
}

// RecordRecalc records a recalculation run over one target.
func (lm *LedgerMetrics) RecordRecalc(ctx context.Context, targetKind string, repaired bool) {
	lm.recalcRunTotal.Inc(ctx, AttrTargetKind.String(targetKind))
	if repaired {
		lm.recalcRepairedTotal.Inc(ctx, AttrTargetKind.String(targetKind))
	}
}

// StartPeriodicCollection starts periodic collection of open balance gauges.
// It does nothing if no balance provider is configured.
func (lm *LedgerMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if lm.balanceProvider == nil {
		lm.logger.Debug("No balance provider configured, skipping periodic metrics collection")
		return
	}
	if interval == 0 {
		interval = 5 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				lm.collectBalances(ctx)
			case <-lm.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops periodic collection.
func (lm *LedgerMetrics) Stop() {
	lm.stopOnce.Do(func() {
		close(lm.stopChan)
	})
}

func (lm *LedgerMetrics) collectBalances(ctx context.Context) {
	receivable, err := lm.balanceProvider.TotalOutstandingReceivable(ctx)
	if err != nil {
		lm.logger.Warn("failed to collect outstanding receivable", zap.Error(err))
	} else {
		f, _ := receivable.Float64()
		lm.openReceivable.Record(ctx, f)
	}

	payable, err := lm.balanceProvider.TotalOutstandingPayable(ctx)
	if err != nil {
		lm.logger.Warn("failed to collect outstanding payable", zap.Error(err))
	} else {
		f, _ := payable.Float64()
		lm.openPayable.Record(ctx, f)
	}
}
